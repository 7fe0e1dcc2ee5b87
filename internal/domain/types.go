/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the data model shared by the generator, the packager and the
// design-document storage. Widgets arrive from the editor as loosely shaped JSON;
// the generator never trusts a raw field without going through the normalizer.

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Design is the persisted document a user edits: window settings plus the ordered widget list.
type Design struct {
	Name           string         `json:"name,omitempty"`
	Target         string         `json:"target,omitempty"` // customtkinter | tkinter
	WindowSettings WindowSettings `json:"windowSettings"`
	Widgets        []Widget       `json:"widgets"`
}

// Widget is one element of the scene. The list order is the stacking order.
type Widget struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Position Point          `json:"position"`
	Size     Size           `json:"size"`
	Props    map[string]any `json:"props,omitempty"`
	// Properties is the older editor shape of the property bag. Lookups fall back to it.
	Properties map[string]any `json:"properties,omitempty"`
	Visible    *bool          `json:"visible,omitempty"`
}

// IsVisible reports the visible flag, defaulting to true.
func (w Widget) IsVisible() bool { return w.Visible == nil || *w.Visible }

// Prop returns the raw property value for key, checking Props first and the legacy
// Properties bag second. Nil values count as absent.
func (w Widget) Prop(key string) (any, bool) {
	if v, ok := w.Props[key]; ok && v != nil {
		return v, true
	}
	if v, ok := w.Properties[key]; ok && v != nil {
		return v, true
	}
	return nil, false
}

// Point is a canvas offset in pixels.
type Point struct {
	X Number `json:"x"`
	Y Number `json:"y"`
}

// Size is a pixel extent.
type Size struct {
	Width  Number `json:"width"`
	Height Number `json:"height"`
}

// Number is a JSON scalar that accepts numbers, numeric strings and null.
// Set is false when the value was absent, null or not numeric.
type Number struct {
	Value float64
	Set   bool
}

// N is a shorthand for a set Number.
func N(v float64) Number { return Number{Value: v, Set: true} }

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*n = Number{}
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			*n = Number{Value: f, Set: true}
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		// booleans, objects and arrays are tolerated as "absent"
		return nil
	}
	*n = Number{Value: f, Set: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// Appearance modes understood by the modern target.
const (
	AppearanceSystem = "system"
	AppearanceLight  = "light"
	AppearanceDark   = "dark"
)

// WindowSettings are scene-wide and supplied once per generation run.
type WindowSettings struct {
	Title          string     `json:"title,omitempty"`
	Size           WindowSize `json:"size"`
	BgColor        string     `json:"bgColor,omitempty"`
	AppearanceMode string     `json:"appearanceMode,omitempty"`
}

// UnmarshalJSON decodes each field on its own; a field of the wrong shape is
// left empty so Resolved supplies the default.
func (s *WindowSettings) UnmarshalJSON(b []byte) error {
	*s = WindowSettings{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	s.Title = looseString(raw["title"])
	s.BgColor = looseString(raw["bgColor"])
	s.AppearanceMode = looseString(raw["appearanceMode"])
	if v, ok := raw["size"]; ok {
		_ = s.Size.UnmarshalJSON(v)
	}
	return nil
}

func looseString(b json.RawMessage) string {
	var s string
	if len(b) == 0 || json.Unmarshal(b, &s) != nil {
		return ""
	}
	return s
}

// WindowSize is the window geometry in pixels. Zero means "use the default".
type WindowSize struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// UnmarshalJSON accepts the same scalars as Number. Values are rounded to whole
// pixels; anything that does not round to a positive size decodes as zero.
func (z *WindowSize) UnmarshalJSON(b []byte) error {
	*z = WindowSize{}
	var raw struct {
		Width  Number `json:"width"`
		Height Number `json:"height"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	z.Width = pixels(raw.Width)
	z.Height = pixels(raw.Height)
	return nil
}

func pixels(n Number) int {
	if !n.Set {
		return 0
	}
	v := math.Round(n.Value)
	if v <= 0 || v > math.MaxInt32 {
		return 0
	}
	return int(v)
}

// Window defaults used whenever a field is missing.
const (
	DefaultWindowTitle  = "My App"
	DefaultWindowWidth  = 800
	DefaultWindowHeight = 600
	DefaultWindowBg     = "#ffffff"
)

// Resolved returns a copy with every missing field replaced by its default.
// Missing or unknown values are never an error.
func (s WindowSettings) Resolved() WindowSettings {
	out := s
	if strings.TrimSpace(out.Title) == "" {
		out.Title = DefaultWindowTitle
	}
	if out.Size.Width <= 0 {
		out.Size.Width = DefaultWindowWidth
	}
	if out.Size.Height <= 0 {
		out.Size.Height = DefaultWindowHeight
	}
	if strings.TrimSpace(out.BgColor) == "" {
		out.BgColor = DefaultWindowBg
	}
	switch strings.ToLower(strings.TrimSpace(out.AppearanceMode)) {
	case AppearanceLight:
		out.AppearanceMode = AppearanceLight
	case AppearanceDark:
		out.AppearanceMode = AppearanceDark
	default:
		out.AppearanceMode = AppearanceSystem
	}
	return out
}

// AssetManifest maps an original image source to its output filename.
// Entries keep first-seen order so the archive layout is stable.
type AssetManifest struct {
	entries []AssetEntry
	bySrc   map[string]int
	byName  map[string]struct{}
}

// AssetEntry is one manifest row.
type AssetEntry struct {
	Source   string
	Filename string
	WidgetID string // first widget that referenced the source
}

// NewAssetManifest returns an empty manifest.
func NewAssetManifest() *AssetManifest {
	return &AssetManifest{bySrc: map[string]int{}, byName: map[string]struct{}{}}
}

// Add records source under filename unless the source is already known.
// It returns the filename in effect for source.
func (m *AssetManifest) Add(source, filename, widgetID string) string {
	if i, ok := m.bySrc[source]; ok {
		return m.entries[i].Filename
	}
	m.bySrc[source] = len(m.entries)
	m.byName[strings.ToLower(filename)] = struct{}{}
	m.entries = append(m.entries, AssetEntry{Source: source, Filename: filename, WidgetID: widgetID})
	return filename
}

// Lookup returns the filename assigned to source.
func (m *AssetManifest) Lookup(source string) (string, bool) {
	if m == nil {
		return "", false
	}
	i, ok := m.bySrc[source]
	if !ok {
		return "", false
	}
	return m.entries[i].Filename, true
}

// HasFilename reports whether filename is already taken.
func (m *AssetManifest) HasFilename(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.byName[strings.ToLower(name)]
	return ok
}

// Entries returns the rows in first-seen order.
func (m *AssetManifest) Entries() []AssetEntry {
	if m == nil {
		return nil
	}
	return append([]AssetEntry(nil), m.entries...)
}

// Len returns the number of distinct sources.
func (m *AssetManifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// AssetFile is one file placed under assets/ in the archive.
type AssetFile struct {
	Name        string
	Data        []byte
	Placeholder bool // true when the requested image was replaced by the placeholder
}

// GeneratedProgram is the output of one export run. It is built fresh per request
// and not modified after construction.
type GeneratedProgram struct {
	Source          string
	Assets          []AssetFile
	Requirements    string
	Readme          string
	Troubleshooting string
}
