/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package preview renders the generated program for display: plain text,
// syntax-highlighted HTML and the project guide as HTML. It also serves these
// renderings, and the export archive, over HTTP.
package preview

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/codegen"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/export"
)

// DefaultStyle is the chroma style used for highlighted previews.
const DefaultStyle = "github"

// Options resolves the export options for d: a target named by the design wins
// over the one in base.
func Options(d domain.Design, base export.Options) export.Options {
	opts := base
	if d.Target != "" {
		opts.Target = codegen.ParseTarget(d.Target)
	}
	return opts
}

// Text returns the program exactly as Build would export it with opts. Image
// bytes are not resolved, so nothing is fetched.
func Text(d domain.Design, opts export.Options) (string, error) {
	prog, _, err := export.Generate(d.Widgets, d.WindowSettings, Options(d, opts))
	if err != nil {
		return "", err
	}
	return prog.Source, nil
}

// HTML highlights Python source as a standalone HTML fragment with inline styles
// and line numbers.
func HTML(source, style string) (string, error) {
	lexer := lexers.Get("python")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	st := styles.Get(style)
	if st == nil {
		st = styles.Fallback
	}
	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("tokenise: %w", err)
	}
	f := chromahtml.New(chromahtml.WithLineNumbers(true), chromahtml.TabWidth(4))
	var buf bytes.Buffer
	if err := f.Format(&buf, st, it); err != nil {
		return "", fmt.Errorf("format: %w", err)
	}
	return buf.String(), nil
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Guide renders the README that would ship with the export as HTML.
func Guide(d domain.Design, opts export.Options) (string, error) {
	prog, _, err := export.Generate(d.Widgets, d.WindowSettings, Options(d, opts))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(prog.Readme), &buf); err != nil {
		return "", fmt.Errorf("render guide: %w", err)
	}
	return buf.String(), nil
}
