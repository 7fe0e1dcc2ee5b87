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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"canonical", "aGVsbG8=", "aGVsbG8=", true},
		{"missing padding", "aGVsbG8", "aGVsbG8=", true},
		{"whitespace", " aGVs\nbG8=\t", "aGVsbG8=", true},
		{"noise characters", "aG!Vs*bG8", "aGVsbG8=", true},
		{"extra padding", "aGVsbG8====", "aGVsbG8=", true},
		{"truncated recovery", "aGVsbG8hI", "aGVsbG8h", true},
		{"url-safe alphabet", "-_-_", "+/+/", true},
		{"url-safe truncated", "_-8_-", "/+8/", true},
		{"empty", "", "", false},
		{"too short", "aGk", "", false},
		{"only noise", "!!!***", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Validate(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodePayloadRoundTrip(t *testing.T) {
	want := []byte{0x89, 'P', 'N', 'G', 0, 1, 2}
	got, ok := DecodePayload(base64.StdEncoding.EncodeToString(want))
	assert.True(t, ok)
	assert.Equal(t, want, got)

	_, ok = DecodePayload("===")
	assert.False(t, ok)
}
