/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/assets"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
)

func TestNormalizeDefaults(t *testing.T) {
	p := Normalize(domain.Widget{ID: "x", Type: "Button"}, nil)
	assert.Equal(t, "button", p.Type)
	assert.True(t, p.Known)
	assert.Equal(t, 0, p.X)
	assert.Equal(t, 0, p.Y)
	assert.Equal(t, 120, p.Width)
	assert.Equal(t, 32, p.Height)
	assert.Equal(t, "Button", p.Text)
	assert.Equal(t, DefaultBgColor, p.BgColor)
	assert.Equal(t, DefaultTextColor, p.TextColor)
	assert.Equal(t, "#d9d9d9", p.HoverColor)
	assert.Equal(t, DefaultCornerRadius, p.CornerRadius)
	assert.Equal(t, DefaultBorderWidth, p.BorderWidth)
	assert.Equal(t, `("Arial", 12, "normal")`, p.Font.Descriptor())
	assert.False(t, p.Layout.Grid)
	assert.Equal(t, "assets/placeholder.png", p.ImagePath)
}

func TestNormalizeCoercesNumericStrings(t *testing.T) {
	w := domain.Widget{
		ID:       "s",
		Type:     "slider",
		Position: domain.Point{X: domain.N(10.6), Y: domain.N(-3.4)},
		Size:     domain.Size{Width: domain.N(0)},
		Props: map[string]any{
			"fontSize": "18",
			"min":      "10",
			"max":      " 20 ",
			"value":    "42",
			"steps":    5.0,
			"height":   "25px",
		},
	}
	p := Normalize(w, nil)
	assert.Equal(t, 11, p.X)
	assert.Equal(t, -3, p.Y)
	assert.Equal(t, 160, p.Width, "zero width falls back to the type minimum")
	assert.Equal(t, 25, p.Height)
	assert.Equal(t, 18, p.Font.Size)
	assert.Equal(t, 10.0, p.Min)
	assert.Equal(t, 20.0, p.Max)
	assert.Equal(t, 20.0, p.Value, "value is clamped to the range")
	assert.Equal(t, 5, p.Steps)
}

func TestFontStyles(t *testing.T) {
	cases := []struct {
		props map[string]any
		want  string
	}{
		{map[string]any{"bold": true, "italic": "true"}, "bold italic"},
		{map[string]any{"fontWeight": "bold"}, "bold"},
		{map[string]any{"fontWeight": 700}, "bold"},
		{map[string]any{"fontStyle": "italic"}, "italic"},
		{map[string]any{"bold": "no", "italic": 0}, "normal"},
		{map[string]any{}, "normal"},
	}
	for _, tc := range cases {
		p := Normalize(domain.Widget{Type: "label", Props: tc.props}, nil)
		assert.Equal(t, tc.want, p.Font.Style(), "props %v", tc.props)
	}
	p := Normalize(domain.Widget{Type: "label", Props: map[string]any{"fontFamily": "Courier New", "fontSize": 9, "bold": true}}, nil)
	assert.Equal(t, `("Courier New", 9, "bold")`, p.Font.Descriptor())
}

func TestNormalizeLayoutMode(t *testing.T) {
	p := Normalize(domain.Widget{Type: "label", Props: map[string]any{"row": 2, "column": "1"}}, nil)
	require.True(t, p.Layout.Grid)
	assert.Equal(t, Layout{Grid: true, Row: 2, Column: 1, RowSpan: 1, ColumnSpan: 1, PadX: 5, PadY: 5}, p.Layout)

	p = Normalize(domain.Widget{Type: "label", Props: map[string]any{"row": 2, "column": nil}}, nil)
	assert.False(t, p.Layout.Grid, "null column means absolute placement")

	p = Normalize(domain.Widget{Type: "label", Props: map[string]any{"layout": "grid", "sticky": "NSEW!", "columnSpan": 3, "padx": "0"}}, nil)
	assert.Equal(t, Layout{Grid: true, RowSpan: 1, ColumnSpan: 3, PadX: 0, PadY: 5, Sticky: "nsew"}, p.Layout)
}

func TestNormalizeLegacyProperties(t *testing.T) {
	w := domain.Widget{
		Type:       "label",
		Props:      map[string]any{"text": "new"},
		Properties: map[string]any{"text": "old", "textColor": "#ff0000"},
	}
	p := Normalize(w, nil)
	assert.Equal(t, "new", p.Text)
	assert.Equal(t, "#ff0000", p.TextColor)
}

func TestNormalizeImagePath(t *testing.T) {
	src := "data:image/png;base64,iVBORw0KGgo="
	w := domain.Widget{ID: "pic", Type: "image", Props: map[string]any{"src": src}}
	m := assets.CollectImages([]domain.Widget{w})
	name, _ := m.Lookup(src)

	assert.Equal(t, "assets/"+name, Normalize(w, m).ImagePath)
	assert.Equal(t, "assets/placeholder.png", Normalize(w, nil).ImagePath, "uncollected data URIs use the placeholder")

	w.Props["src"] = "https://example.com/a.png"
	assert.Equal(t, "https://example.com/a.png", Normalize(w, m).ImagePath)
	w.Props["src"] = "blob:https://example.com/1"
	assert.Equal(t, "assets/placeholder.png", Normalize(w, m).ImagePath)
}

func TestNormalizeOptions(t *testing.T) {
	p := Normalize(domain.Widget{Type: "dropdown", Props: map[string]any{"options": "red, green,blue", "selected": "green"}}, nil)
	assert.Equal(t, []string{"red", "green", "blue"}, p.Options)
	assert.Equal(t, "green", p.Selected)

	p = Normalize(domain.Widget{Type: "tabs", Props: map[string]any{"tabs": []any{map[string]any{"title": "Home"}, "Settings", 3.0}}}, nil)
	assert.Equal(t, []string{"Home", "Settings", "3"}, p.Options)
	assert.Equal(t, "Home", p.Selected)

	p = Normalize(domain.Widget{Type: "listbox"}, nil)
	assert.Equal(t, []string{"Item 1", "Item 2", "Item 3"}, p.Options)
	assert.Equal(t, "", p.Selected, "lists have no implicit selection")
}

func TestNormalizeCheckedAndShapes(t *testing.T) {
	assert.True(t, Normalize(domain.Widget{Type: "checkbox", Props: map[string]any{"checked": "true"}}, nil).Checked)
	assert.True(t, Normalize(domain.Widget{Type: "switch", Props: map[string]any{"value": true}}, nil).Checked)
	assert.False(t, Normalize(domain.Widget{Type: "radio"}, nil).Checked)

	p := Normalize(domain.Widget{Type: "canvas", Props: map[string]any{"shapes": []any{
		map[string]any{"type": "rectangle", "x": 5, "y": 6, "width": 10, "height": 20, "fill": "#ff0000"},
		map[string]any{"type": "star"},
		"junk",
		map[string]any{"kind": "line", "x1": 0, "y1": 0, "x2": 30, "y2": 40},
	}}}, nil)
	require.Len(t, p.Shapes, 2)
	assert.Equal(t, Shape{Kind: "rect", X1: 5, Y1: 6, X2: 15, Y2: 26, Fill: "#ff0000", Outline: "#000000", Width: 1}, p.Shapes[0])
	assert.Equal(t, "line", p.Shapes[1].Kind)
	assert.Equal(t, 30, p.Shapes[1].X2)
}

func TestNormalizeUnknownType(t *testing.T) {
	p := Normalize(domain.Widget{Type: "  Sparkle  "}, nil)
	assert.False(t, p.Known)
	assert.Equal(t, "Sparkle", p.Type)
	assert.Equal(t, 100, p.Width)
	assert.Equal(t, 30, p.Height)
}
