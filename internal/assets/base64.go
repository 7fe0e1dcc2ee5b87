/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package assets

import (
	"encoding/base64"
	"strings"
)

func inAlphabet(r rune) bool {
	return r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '+' || r == '/'
}

// Validate cleans an embedded base64 payload and returns it in canonical padded
// form. URL-safe '-' and '_' are mapped to '+' and '/'. Whitespace, characters
// outside the alphabet and '=' padding are dropped, content shorter than four
// characters is rejected, the rest is re-padded and decoded. A failed decode is retried once after truncating to a multiple of four.
// ok is false when both attempts fail or the decoded content is empty.
func Validate(raw string) (string, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '-':
			return '+'
		case '_':
			return '/'
		}
		if inAlphabet(r) {
			return r
		}
		return -1
	}, raw)
	if len(cleaned) < 4 {
		return "", false
	}
	if s, ok := tryDecode(cleaned); ok {
		return s, true
	}
	if s, ok := tryDecode(cleaned[:len(cleaned)-len(cleaned)%4]); ok {
		return s, true
	}
	return "", false
}

func tryDecode(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(b) == 0 {
		return "", false
	}
	return s, true
}

// DecodePayload runs Validate and returns the decoded bytes.
func DecodePayload(raw string) ([]byte, bool) {
	s, ok := Validate(raw)
	if !ok {
		return nil, false
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return b, true
}
