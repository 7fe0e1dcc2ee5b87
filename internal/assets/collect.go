/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package assets collects embedded images from a widget list, validates their
// payloads and produces the files placed under assets/ in an exported project.
package assets

import (
	"net/url"
	"path"
	"strconv"
	"strings"
	"unicode"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
	"github.com/google/uuid"
)

// PlaceholderName is the always-present fallback image in every archive.
const PlaceholderName = "placeholder.png"

// Dir is the archive and runtime directory holding image files.
const Dir = "assets"

// Property keys that may carry an image source or a caller-chosen filename.
var (
	sourceKeys   = []string{"src", "image", "imageSrc", "imageUrl"}
	filenameKeys = []string{"fileName", "filename", "imageName"}
)

var nameSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://buildify.app/assets"))

// ImageSource returns the widget's image source, checking props before the legacy
// properties bag. It returns "" when the widget carries none.
func ImageSource(w domain.Widget) string {
	for _, k := range sourceKeys {
		if v, ok := w.Prop(k); ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func filenameHint(w domain.Widget) string {
	for _, k := range filenameKeys {
		if v, ok := w.Prop(k); ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// IsDataURI reports whether s uses the data: scheme.
func IsDataURI(s string) bool {
	return len(s) >= 5 && strings.EqualFold(s[:5], "data:")
}

// IsRemote reports whether s must be fetched over the network (http, https or blob).
func IsRemote(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://") || strings.HasPrefix(l, "blob:")
}

// Options controls which sources Collect assigns filenames to.
type Options struct {
	// IncludeRemote also collects http(s) and blob sources. The packager fetches them.
	IncludeRemote bool
}

// CollectImages scans every widget for embedded data-URI images.
func CollectImages(widgets []domain.Widget) *domain.AssetManifest {
	return Collect(widgets, Options{})
}

// Collect builds the asset manifest for widgets. The result depends only on the
// input: identical sources share one entry and filenames are unique, flat and
// never start with a dot.
func Collect(widgets []domain.Widget, opts Options) *domain.AssetManifest {
	m := domain.NewAssetManifest()
	for _, w := range widgets {
		src := ImageSource(w)
		if src == "" {
			continue
		}
		if !IsDataURI(src) && !(opts.IncludeRemote && IsRemote(src)) {
			continue
		}
		if _, ok := m.Lookup(src); ok {
			continue
		}
		name := SafeFilename(filenameHint(w), extFor(src))
		if name == "" {
			name = synthName(w.ID, src)
		}
		m.Add(src, unique(m, name), w.ID)
	}
	return m
}

// SafeFilename reduces hint to a flat file name: directories are dropped, unsafe
// characters become '_' and leading dots are removed. A missing extension is
// replaced by ext. It returns "" when nothing usable remains.
func SafeFilename(hint, ext string) string {
	hint = strings.ReplaceAll(hint, "\\", "/")
	hint = path.Base(strings.TrimSpace(hint))
	if hint == "." || hint == "/" {
		return ""
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		}
		return '_'
	}, hint)
	s = strings.TrimLeft(s, ".")
	if strings.Trim(s, "._-") == "" {
		return ""
	}
	if path.Ext(s) == "" {
		s += "." + ext
	}
	return s
}

func synthName(id, src string) string {
	stem := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return r
		}
		return '_'
	}, id)
	if strings.Trim(stem, "_") == "" {
		stem = "image"
	}
	sum := uuid.NewSHA1(nameSpace, []byte(src)).String()
	return stem + "_" + sum[:8] + "." + extFor(src)
}

func unique(m *domain.AssetManifest, name string) string {
	taken := func(n string) bool { return strings.EqualFold(n, PlaceholderName) || m.HasFilename(n) }
	if !taken(name) {
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		n := stem + "_" + strconv.Itoa(i) + ext
		if !taken(n) {
			return n
		}
	}
}

var mimeExt = map[string]string{
	"image/png":      "png",
	"image/jpeg":     "jpg",
	"image/jpg":      "jpg",
	"image/pjpeg":    "jpg",
	"image/gif":      "gif",
	"image/bmp":      "bmp",
	"image/x-ms-bmp": "bmp",
	"image/webp":     "webp",
	"image/svg+xml":  "svg",
}

var knownExt = map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true, "bmp": true, "webp": true, "svg": true}

// extFor picks the file extension for a source, defaulting to png.
func extFor(src string) string {
	if IsDataURI(src) {
		if d, ok := ParseDataURI(src); ok {
			if e, ok := mimeExt[d.MediaType]; ok {
				return e
			}
		}
		return "png"
	}
	raw := strings.TrimPrefix(strings.TrimPrefix(src, "blob:"), "BLOB:")
	if u, err := url.Parse(raw); err == nil {
		e := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
		if knownExt[e] {
			if e == "jpeg" {
				return "jpg"
			}
			return e
		}
	}
	return "png"
}

// DataURI is a parsed data: URL.
type DataURI struct {
	MediaType string
	Base64    bool
	Payload   string
}

// ParseDataURI splits a data URI into media type, encoding flag and payload.
func ParseDataURI(s string) (DataURI, bool) {
	if !IsDataURI(s) {
		return DataURI{}, false
	}
	meta, payload, ok := strings.Cut(s[5:], ",")
	if !ok {
		return DataURI{}, false
	}
	var d DataURI
	for i, part := range strings.Split(meta, ";") {
		part = strings.TrimSpace(part)
		switch {
		case i == 0:
			d.MediaType = strings.ToLower(part)
		case strings.EqualFold(part, "base64"):
			d.Base64 = true
		}
	}
	d.Payload = payload
	return d, true
}
