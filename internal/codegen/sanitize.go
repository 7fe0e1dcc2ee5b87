/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package codegen

import (
	"strconv"
	"strings"
	"unicode"
)

// Sanitize maps an arbitrary widget id to a string made only of [A-Za-z0-9_].
// Every other character (per rune) becomes '_'. It is total and idempotent.
// Distinct ids may map to the same result; callers own id uniqueness.
func Sanitize(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		if r < unicode.MaxASCII && (r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// reservedNames are Python keywords plus attributes the generated App class
// (a Tk subclass) relies on. Assigning a widget to one of them breaks the program.
var reservedNames = map[string]bool{
	// keywords
	"False": true, "None": true, "True": true, "and": true, "as": true, "assert": true, "async": true,
	"await": true, "break": true, "class": true, "continue": true, "def": true, "del": true, "elif": true,
	"else": true, "except": true, "finally": true, "for": true, "from": true, "global": true, "if": true,
	"import": true, "in": true, "is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true, "while": true, "with": true, "yield": true,
	// Tk and App members
	"tk": true, "master": true, "children": true, "title": true, "geometry": true, "configure": true,
	"config": true, "mainloop": true, "destroy": true, "update": true, "after": true, "bind": true,
	"place": true, "grid": true, "pack": true, "keys": true, "base_dir": true, "load_image": true,
	"create_widgets": true,
}

// Identifier returns the attribute name used for a widget in generated code.
// It is Sanitize(id), prefixed with "w_" when the result would not be a usable
// Python attribute: empty, leading digit, keyword, reserved App member, or a
// name in the generated class's private ('_'-prefixed) or radio group space.
func Identifier(id string) string {
	s := Sanitize(id)
	if s == "" || (s[0] >= '0' && s[0] <= '9') || s[0] == '_' || reservedNames[s] || strings.HasPrefix(s, "radio_group_") {
		return "w_" + s
	}
	return s
}

// pyStr renders s as a double-quoted Python string literal.
func pyStr(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case unicode.ReplacementChar:
			b.WriteString(`�`)
		default:
			if unicode.IsPrint(r) {
				b.WriteRune(r)
				continue
			}
			switch {
			case r < 0x100:
				b.WriteString(`\x`)
				b.WriteString(pad(strconv.FormatInt(int64(r), 16), 2))
			case r < 0x10000:
				b.WriteString(`\u`)
				b.WriteString(pad(strconv.FormatInt(int64(r), 16), 4))
			default:
				b.WriteString(`\U`)
				b.WriteString(pad(strconv.FormatInt(int64(r), 16), 8))
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

// pyList renders items as a Python list of string literals.
func pyList(items []string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = pyStr(it)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// pyNum renders f without a trailing ".0" for integral values.
func pyNum(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// oneLine collapses s to a single line for use inside a comment.
func oneLine(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
