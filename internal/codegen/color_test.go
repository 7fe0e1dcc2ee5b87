/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package codegen

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestAdjustBrightness(t *testing.T) {
	assert.Equal(t, "#d9d9d9", AdjustBrightness("#ffffff", -15))
	assert.Equal(t, "#000000", AdjustBrightness("#123456", -100))
	assert.Equal(t, "#ffffff", AdjustBrightness("#ABCDEF", 100))
	assert.Equal(t, "#3b82f6", AdjustBrightness("#3B82F6", 0))
	assert.Equal(t, "#1e3e5c", AdjustBrightness("#28537a", -25))
	assert.Equal(t, "transparent", AdjustBrightness("transparent", 20))
	assert.Equal(t, "red", AdjustBrightness("red", 20))
	assert.Equal(t, "#abc", AdjustBrightness("#abc", 20))
	assert.Equal(t, "#zzzzzz", AdjustBrightness("#zzzzzz", 20))
	assert.Equal(t, "", AdjustBrightness("", 20))
}

var hexPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestAdjustBrightnessClosure(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("valid colours stay lowercase hex", prop.ForAll(
		func(r, g, b uint8, pct float64) bool {
			return hexPattern.MatchString(AdjustBrightness(fmt.Sprintf("#%02X%02x%02X", r, g, b), pct))
		},
		gen.UInt8(), gen.UInt8(), gen.UInt8(), gen.Float64Range(-100, 100),
	))
	properties.Property("non-hex input passes through unchanged", prop.ForAll(
		func(s string, pct float64) bool {
			if isHexColor(s) {
				return true
			}
			return AdjustBrightness(s, pct) == s
		},
		gen.AnyString(), gen.Float64Range(-100, 100),
	))

	properties.TestingRun(t)
}
