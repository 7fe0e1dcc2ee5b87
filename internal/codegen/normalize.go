/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package codegen

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/assets"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
)

// Property defaults applied when a widget does not carry a value.
const (
	DefaultBgColor      = "#ffffff"
	DefaultTextColor    = "#000000"
	DefaultBorderColor  = "#cccccc"
	DefaultAccentColor  = "#1f6aa5"
	DefaultCornerRadius = 8
	DefaultBorderWidth  = 1
	DefaultFontFamily   = "Arial"
	DefaultFontSize     = 12

	defaultPad = 5
)

// Font is a resolved font description.
type Font struct {
	Family string
	Size   int
	Bold   bool
	Italic bool
}

// Style returns one of "bold italic", "bold", "italic" or "normal".
func (f Font) Style() string {
	switch {
	case f.Bold && f.Italic:
		return "bold italic"
	case f.Bold:
		return "bold"
	case f.Italic:
		return "italic"
	}
	return "normal"
}

// Descriptor renders the font as a Python tuple, e.g. ("Arial", 12, "bold").
func (f Font) Descriptor() string {
	return fmt.Sprintf("(%s, %d, %s)", pyStr(f.Family), f.Size, pyStr(f.Style()))
}

// Layout is the resolved placement of a widget.
type Layout struct {
	Grid       bool
	Row        int
	Column     int
	RowSpan    int
	ColumnSpan int
	PadX       int
	PadY       int
	Sticky     string
}

// Shape is one primitive drawn on a canvas widget.
type Shape struct {
	Kind           string // rect, oval, line, text
	X1, Y1, X2, Y2 int
	Fill           string
	Outline        string
	Width          int
	Text           string
}

// Props is the fully defaulted record every emitter consumes. No field is optional.
type Props struct {
	Type  string // canonical type, or the trimmed raw tag when unknown
	Known bool

	X, Y          int
	Width, Height int
	Layout        Layout

	Text        string
	Placeholder string
	Anchor      string // w, center, e

	BgColor      string
	TextColor    string
	BorderColor  string
	HoverColor   string
	AccentColor  string
	CornerRadius int
	BorderWidth  int
	Font         Font

	Value   float64
	Min     float64
	Max     float64
	Steps   int
	Checked bool

	Options     []string
	Selected    string
	Group       string
	Orientation string // horizontal, vertical

	ImagePath  string
	DateFormat string
	Shapes     []Shape
}

type minSize struct{ w, h int }

var minSizes = map[string]minSize{
	"button":      {120, 32},
	"label":       {100, 28},
	"entry":       {160, 32},
	"textbox":     {200, 100},
	"image":       {100, 100},
	"slider":      {160, 20},
	"checkbox":    {100, 24},
	"frame":       {200, 150},
	"progressbar": {160, 12},
	"tabs":        {300, 200},
	"listbox":     {150, 120},
	"datepicker":  {160, 32},
	"dropdown":    {140, 32},
	"combobox":    {140, 32},
	"radio":       {100, 24},
	"canvas":      {200, 150},
	"switch":      {100, 24},
}

var unknownSize = minSize{100, 30}

var defaultTexts = map[string]string{
	"button":   "Button",
	"label":    "Label",
	"checkbox": "Checkbox",
	"radio":    "Option",
	"switch":   "Switch",
}

var defaultOptions = map[string][]string{
	"dropdown": {"Option 1", "Option 2", "Option 3"},
	"combobox": {"Option 1", "Option 2", "Option 3"},
	"listbox":  {"Item 1", "Item 2", "Item 3"},
	"tabs":     {"Tab 1", "Tab 2"},
}

// bag reads a widget's open property map with alias keys and type coercion.
type bag struct{ w domain.Widget }

func (b bag) raw(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := b.w.Prop(k); ok {
			return v, true
		}
	}
	return nil, false
}

func (b bag) str(def string, keys ...string) string {
	v, ok := b.raw(keys...)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, []any:
		return def
	}
	if f, ok := toFloat(v); ok {
		return pyNum(f)
	}
	return def
}

func (b bag) color(def string, keys ...string) string {
	s := strings.TrimSpace(b.str("", keys...))
	if s == "" {
		return def
	}
	return s
}

func (b bag) num(keys ...string) (float64, bool) {
	v, ok := b.raw(keys...)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func (b bag) integer(def int, keys ...string) int {
	if f, ok := b.num(keys...); ok {
		return int(math.Round(f))
	}
	return def
}

func (b bag) flag(def bool, keys ...string) bool {
	v, ok := b.raw(keys...)
	if !ok {
		return def
	}
	if r, ok := toBool(v); ok {
		return r
	}
	return def
}

func (b bag) list(keys ...string) []string {
	v, ok := b.raw(keys...)
	if !ok {
		return nil
	}
	var out []string
	switch t := v.(type) {
	case string:
		sep := ","
		if strings.Contains(t, "\n") {
			sep = "\n"
		}
		for _, part := range strings.Split(t, sep) {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	case []string:
		out = append(out, t...)
	case []any:
		for _, it := range t {
			if s, ok := itemLabel(it); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func itemLabel(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case map[string]any:
		for _, k := range []string{"label", "text", "title", "value", "name"} {
			if s, ok := t[k].(string); ok {
				return s, true
			}
		}
		return "", false
	case nil:
		return "", false
	}
	if f, ok := toFloat(v); ok {
		return pyNum(f), true
	}
	if b, ok := v.(bool); ok {
		return strconv.FormatBool(b), true
	}
	return "", false
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case uint8:
		f = float64(t)
	case json.Number:
		p, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "px")), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "on", "1", "checked", "selected":
			return true, true
		case "false", "no", "off", "0", "", "unchecked":
			return false, true
		}
		return false, false
	}
	if f, ok := toFloat(v); ok {
		return f != 0, true
	}
	return false, false
}

// Normalize resolves w into a fully populated Props record. manifest maps data-URI
// sources to collected filenames; it may be nil. Normalize never fails.
func Normalize(w domain.Widget, manifest *domain.AssetManifest) Props {
	b := bag{w: w}
	canon, known := Canonical(w.Type)
	p := Props{Type: canon, Known: known}
	if !known {
		p.Type = strings.TrimSpace(w.Type)
	}

	p.X = coord(w.Position.X, b, "x")
	p.Y = coord(w.Position.Y, b, "y")
	ms, ok := minSizes[canon]
	if !ok {
		ms = unknownSize
	}
	p.Width = extent(w.Size.Width, b, ms.w, "width")
	p.Height = extent(w.Size.Height, b, ms.h, "height")
	p.Layout = layout(b)

	p.Text = b.str(defaultTexts[canon], "text", "label", "content", "title")
	p.Placeholder = b.str("", "placeholder", "placeholderText", "hint")
	p.Anchor = anchor(b.str("", "textAlign", "align", "anchor", "justify"))

	p.BgColor = b.color(DefaultBgColor, "bgColor", "backgroundColor", "background", "bg")
	p.TextColor = b.color(DefaultTextColor, "textColor", "fgColor", "color", "foreground", "fg")
	p.BorderColor = b.color(DefaultBorderColor, "borderColor")
	p.AccentColor = b.color(DefaultAccentColor, "accentColor", "progressColor", "buttonColor", "checkColor", "selectedColor")
	hoverBase := p.BgColor
	if canon != "button" {
		hoverBase = p.AccentColor
	}
	p.HoverColor = b.color(AdjustBrightness(hoverBase, -15), "hoverColor")
	p.CornerRadius = clampInt(b.integer(DefaultCornerRadius, "cornerRadius", "borderRadius", "radius"), 0, 1000)
	p.BorderWidth = clampInt(b.integer(DefaultBorderWidth, "borderWidth"), 0, 100)
	p.Font = Font{
		Family: strings.TrimSpace(b.str(DefaultFontFamily, "fontFamily", "font")),
		Size:   clampInt(b.integer(DefaultFontSize, "fontSize"), 1, 400),
		Bold:   b.flag(false, "bold") || isBoldWeight(b),
		Italic: b.flag(false, "italic") || strings.EqualFold(b.str("", "fontStyle"), "italic"),
	}
	if p.Font.Family == "" {
		p.Font.Family = DefaultFontFamily
	}

	p.Min = numOr(b, 0, "min", "from", "minValue")
	p.Max = numOr(b, 100, "max", "to", "maxValue")
	if p.Max <= p.Min {
		p.Max = p.Min + 100
	}
	p.Steps = clampInt(b.integer(0, "steps", "numberOfSteps"), 0, 10000)
	p.Value = math.Min(math.Max(numOr(b, (p.Min+p.Max)/2, "value", "progress", "defaultValue"), p.Min), p.Max)
	if canon == "progressbar" {
		p.Value = math.Min(math.Max(numOr(b, p.Min, "value", "progress"), p.Min), p.Max)
	}
	p.Checked = b.flag(false, "checked", "selected", "isChecked", "defaultChecked")
	if canon == "checkbox" || canon == "switch" {
		if v, ok := b.raw("value"); ok {
			if on, ok := v.(bool); ok {
				p.Checked = on
			}
		}
	}

	p.Options = b.list("options", "values", "items", "tabs")
	if len(p.Options) == 0 {
		p.Options = append([]string(nil), defaultOptions[canon]...)
	}
	p.Selected = b.str("", "selectedOption", "selected", "activeTab", "defaultValue", "value")
	if !contains(p.Options, p.Selected) {
		p.Selected = ""
		if canon != "listbox" && len(p.Options) > 0 {
			p.Selected = p.Options[0]
		}
	}
	p.Group = strings.TrimSpace(b.str("", "group", "groupName", "name"))
	if p.Group == "" {
		p.Group = "default"
	}
	p.Orientation = "horizontal"
	if strings.EqualFold(b.str("", "orientation"), "vertical") {
		p.Orientation = "vertical"
	}
	p.DateFormat = b.str("%Y-%m-%d", "dateFormat", "format")
	if canon == "datepicker" {
		p.Text = b.str("", "date", "value", "text")
	}
	if canon == "textbox" || canon == "entry" {
		p.Text = b.str("", "text", "content", "value")
	}
	p.ImagePath = imagePath(assets.ImageSource(w), manifest)
	p.Shapes = shapes(b)
	return p
}

func coord(n domain.Number, b bag, key string) int {
	if n.Set {
		return int(math.Round(n.Value))
	}
	return b.integer(0, key)
}

func extent(n domain.Number, b bag, def int, key string) int {
	v := b.integer(0, key)
	if n.Set {
		v = int(math.Round(n.Value))
	}
	if v <= 0 {
		return def
	}
	return v
}

func layout(b bag) Layout {
	row, hasRow := b.num("row")
	col, hasCol := b.num("column", "col")
	mode := strings.ToLower(strings.TrimSpace(b.str("", "layout", "layoutMode", "placement")))
	if !(hasRow && hasCol) && mode != "grid" && !b.flag(false, "grid", "useGrid") {
		return Layout{}
	}
	sticky := strings.ToLower(strings.TrimSpace(b.str("", "sticky")))
	sticky = strings.Map(func(r rune) rune {
		if strings.ContainsRune("nsew", r) {
			return r
		}
		return -1
	}, sticky)
	return Layout{
		Grid:       true,
		Row:        clampInt(int(math.Round(row)), 0, 10000),
		Column:     clampInt(int(math.Round(col)), 0, 10000),
		RowSpan:    clampInt(b.integer(1, "rowspan", "rowSpan"), 1, 10000),
		ColumnSpan: clampInt(b.integer(1, "columnspan", "columnSpan", "colspan"), 1, 10000),
		PadX:       clampInt(b.integer(defaultPad, "padx", "padX"), 0, 10000),
		PadY:       clampInt(b.integer(defaultPad, "pady", "padY"), 0, 10000),
		Sticky:     sticky,
	}
}

func imagePath(src string, manifest *domain.AssetManifest) string {
	placeholder := assets.Dir + "/" + assets.PlaceholderName
	switch {
	case src == "":
		return placeholder
	case manifest != nil:
		if name, ok := manifest.Lookup(src); ok {
			return assets.Dir + "/" + name
		}
	}
	if assets.IsDataURI(src) || strings.HasPrefix(strings.ToLower(src), "blob:") {
		return placeholder
	}
	return src
}

func shapes(b bag) []Shape {
	v, ok := b.raw("shapes", "drawings", "elements")
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []Shape
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		sb := bag{w: domain.Widget{Props: m}}
		kind := shapeKind(sb.str("", "type", "kind", "shape"))
		if kind == "" {
			continue
		}
		s := Shape{
			Kind:    kind,
			X1:      sb.integer(0, "x1", "x"),
			Y1:      sb.integer(0, "y1", "y"),
			Fill:    sb.color("", "fill", "fillColor"),
			Outline: sb.color(DefaultTextColor, "outline", "stroke", "strokeColor", "color"),
			Width:   clampInt(sb.integer(1, "strokeWidth", "lineWidth"), 0, 100),
			Text:    sb.str("", "text"),
		}
		s.X2 = sb.integer(s.X1+sb.integer(50, "width", "w"), "x2")
		s.Y2 = sb.integer(s.Y1+sb.integer(50, "height", "h"), "y2")
		out = append(out, s)
	}
	return out
}

func shapeKind(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rect", "rectangle", "square":
		return "rect"
	case "oval", "ellipse", "circle":
		return "oval"
	case "line":
		return "line"
	case "text":
		return "text"
	}
	return ""
}

func isBoldWeight(b bag) bool {
	v, ok := b.raw("fontWeight")
	if !ok {
		return false
	}
	if s, ok := v.(string); ok && strings.EqualFold(strings.TrimSpace(s), "bold") {
		return true
	}
	f, ok := toFloat(v)
	return ok && f >= 600
}

func anchor(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "start", "w", "west":
		return "w"
	case "right", "end", "e", "east":
		return "e"
	}
	return "center"
}

func numOr(b bag, def float64, keys ...string) float64 {
	if f, ok := b.num(keys...); ok {
		return f
	}
	return def
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func contains(list []string, s string) bool {
	for _, it := range list {
		if it == s {
			return true
		}
	}
	return false
}
