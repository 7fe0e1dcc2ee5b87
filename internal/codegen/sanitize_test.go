/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package codegen

import (
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"btn-1!":        "btn_1_",
		"plain_id":      "plain_id",
		"":              "",
		"héllo wörld":   "h_llo_w_rld",
		"a.b/c":         "a_b_c",
		"tab\nnewline":  "tab_newline",
		"日本":            "__",
		"CamelCase123":  "CamelCase123",
	}
	for in, want := range cases {
		assert.Equal(t, want, Sanitize(in), "input %q", in)
	}
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "btn_1_", Identifier("btn-1!"))
	assert.Equal(t, "w_", Identifier(""))
	assert.Equal(t, "w_1st", Identifier("1st"))
	assert.Equal(t, "w_class", Identifier("class"))
	assert.Equal(t, "w_tk", Identifier("tk"), "Tk members must not be shadowed")
	assert.Equal(t, "w___init__", Identifier("__init__"))
	assert.Equal(t, "title_label", Identifier("title label"))
	assert.Equal(t, "w__image_refs", Identifier("_image_refs"))
	assert.Equal(t, "w__w", Identifier("_w"))
	assert.Equal(t, "w_radio_group_size", Identifier("radio_group_size"))
	assert.Equal(t, "radio_groups", Identifier("radio_groups"))
}

func TestPyStr(t *testing.T) {
	assert.Equal(t, `"Go"`, pyStr("Go"))
	assert.Equal(t, `"say \"hi\""`, pyStr(`say "hi"`))
	assert.Equal(t, `"a\\b"`, pyStr(`a\b`))
	assert.Equal(t, `"line1\nline2\ttab\r"`, pyStr("line1\nline2\ttab\r"))
	assert.Equal(t, `"\x00\x1b"`, pyStr("\x00\x1b"))
	assert.Equal(t, `"über ✓"`, pyStr("über ✓"))
	assert.Equal(t, `"\u2028"`, pyStr("\u2028"))
}

func TestPyNumAndList(t *testing.T) {
	assert.Equal(t, "10", pyNum(10))
	assert.Equal(t, "0.25", pyNum(0.25))
	assert.Equal(t, "-3", pyNum(-3))
	assert.Equal(t, `["a", "b\"c"]`, pyList([]string{"a", `b"c`}))
	assert.Equal(t, `[]`, pyList(nil))
}

var identPattern = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

func TestSanitizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("sanitize is idempotent", prop.ForAll(
		func(s string) bool { return Sanitize(Sanitize(s)) == Sanitize(s) },
		gen.AnyString(),
	))
	properties.Property("sanitize output uses the identifier alphabet", prop.ForAll(
		func(s string) bool { return identPattern.MatchString(Sanitize(s)) },
		gen.AnyString(),
	))
	properties.Property("identifiers are valid python attribute names", prop.ForAll(
		func(s string) bool {
			id := Identifier(s)
			return id != "" && !(id[0] >= '0' && id[0] <= '9') && id[0] != '_' && !reservedNames[id]
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
