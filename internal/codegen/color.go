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
	"math"
	"strconv"
	"strings"
)

// AdjustBrightness scales each channel of a "#RRGGBB" colour by (1 + percent/100),
// clamps to [0,255] and returns lowercase "#rrggbb". Negative percent darkens.
// Anything that is not a six-digit hex colour ("transparent", names, "#abc")
// is returned unchanged.
func AdjustBrightness(hex string, percent float64) string {
	r, g, b, ok := parseHex(hex)
	if !ok || math.IsNaN(percent) || math.IsInf(percent, 0) {
		return hex
	}
	f := 1 + percent/100
	return fmt.Sprintf("#%02x%02x%02x", scale(r, f), scale(g, f), scale(b, f))
}

func parseHex(s string) (r, g, b uint8, ok bool) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

func scale(c uint8, f float64) uint8 {
	v := math.Round(float64(c) * f)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// isHexColor reports whether s is "#RRGGBB".
func isHexColor(s string) bool {
	_, _, _, ok := parseHex(s)
	return ok
}

// isTransparent reports the special colour value understood only by the modern target.
func isTransparent(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "transparent")
}
