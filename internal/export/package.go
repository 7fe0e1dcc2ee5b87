/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export packages a generated program, its documentation and its image
// assets into a single zip archive, and renders a printable layout sheet.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/assets"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/codegen"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/config"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
	applog "github.com/droppybuilder/Buildify2.0-sub000/internal/log"
)

// Fixed archive entry names.
const (
	SourceFile          = "app.py"
	RequirementsFile    = "requirements.txt"
	ReadmeFile          = "README.md"
	TroubleshootingFile = "TROUBLESHOOTING.md"
)

// archiveTime is stamped on every entry so identical input gives identical bytes.
var archiveTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Options controls ExportProject.
type Options struct {
	Target               codegen.Target
	CustomTkinterVersion string
	PillowVersion        string
	// FetchRemote collects http(s) and blob image sources and downloads them with Fetcher.
	FetchRemote   bool
	Fetcher       assets.Fetcher
	MaxImageBytes int64
	Logger        *slog.Logger
}

// Result is a finished export.
type Result struct {
	Target       codegen.Target
	Archive      []byte
	Program      domain.GeneratedProgram
	Manifest     *domain.AssetManifest
	Placeholders int // assets that were replaced by the placeholder image
}

// ExportProject runs the full pipeline and returns the zip bytes.
func ExportProject(ctx context.Context, widgets []domain.Widget, ws domain.WindowSettings, opts Options) ([]byte, error) {
	res, err := Build(ctx, widgets, ws, opts)
	if err != nil {
		return nil, err
	}
	return res.Archive, nil
}

// Build generates the program, resolves assets and assembles the archive. Only
// failures in code generation as a whole or in archive assembly are returned.
func Build(ctx context.Context, widgets []domain.Widget, ws domain.WindowSettings, opts Options) (res Result, err error) {
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("export")
	}
	defer func() {
		if r := recover(); r != nil {
			l.Error("export aborted", slog.String("panic", fmt.Sprint(r)))
			err = &Error{Kind: KindUnknown, Err: fmt.Errorf("%v", r)}
		}
	}()

	prog, manifest, err := Generate(widgets, ws, opts)
	if err != nil {
		return Result{}, err
	}
	prog.Assets = assets.Resolver{Fetcher: fetcher(opts), MaxBytes: opts.MaxImageBytes, Logger: l}.Resolve(ctx, manifest)

	var buf bytes.Buffer
	if err := WriteArchive(&buf, prog); err != nil {
		return Result{}, &Error{Kind: KindArchive, Err: err}
	}
	placeholders := 0
	for _, a := range prog.Assets {
		if a.Placeholder {
			placeholders++
		}
	}
	l.Info("project exported",
		slog.Int("widgets", len(widgets)),
		slog.Int("assets", len(prog.Assets)),
		slog.Int("placeholders", placeholders),
		slog.Int("bytes", buf.Len()))
	return Result{
		Target:       codegen.ParseTarget(string(opts.Target)),
		Archive:      buf.Bytes(),
		Program:      prog,
		Manifest:     manifest,
		Placeholders: placeholders,
	}, nil
}

// ArchiveName derives a download file name from the first non-empty candidate.
func ArchiveName(candidates ...string) string {
	for _, c := range candidates {
		if n := strings.Trim(codegen.Sanitize(strings.ToLower(c)), "_"); n != "" {
			return n + ".zip"
		}
	}
	return "buildify-export.zip"
}

func fetcher(opts Options) assets.Fetcher {
	if !opts.FetchRemote {
		return nil
	}
	return opts.Fetcher
}

// Generate produces the program text and documents without resolving asset bytes.
func Generate(widgets []domain.Widget, ws domain.WindowSettings, opts Options) (prog domain.GeneratedProgram, manifest *domain.AssetManifest, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Kind: KindCodegen, Err: fmt.Errorf("%v", r)}
		}
	}()
	manifest = assets.Collect(widgets, assets.Options{IncludeRemote: opts.FetchRemote && opts.Fetcher != nil})
	gen := codegen.New(codegen.Options{Target: opts.Target, Manifest: manifest, Logger: opts.Logger})
	readme, err := Readme(gen.Target(), ws, widgets, manifest)
	if err != nil {
		return prog, nil, &Error{Kind: KindCodegen, Err: err}
	}
	ctk, pillow := opts.CustomTkinterVersion, opts.PillowVersion
	if ctk == "" {
		ctk = config.DefaultCustomTkinterVersion
	}
	if pillow == "" {
		pillow = config.DefaultPillowVersion
	}
	prog = domain.GeneratedProgram{
		Source:          gen.Program(widgets, ws),
		Requirements:    Requirements(gen.Target(), ctk, pillow),
		Readme:          readme,
		Troubleshooting: Troubleshooting,
	}
	return prog, manifest, nil
}

// WriteArchive writes prog as a zip: the four documents, the placeholder image and
// then every asset, in that order.
func WriteArchive(w io.Writer, prog domain.GeneratedProgram) error {
	zw := zip.NewWriter(w)
	files := []struct {
		name string
		data []byte
	}{
		{SourceFile, []byte(prog.Source)},
		{RequirementsFile, []byte(prog.Requirements)},
		{ReadmeFile, []byte(prog.Readme)},
		{TroubleshootingFile, []byte(prog.Troubleshooting)},
		{assets.Dir + "/" + assets.PlaceholderName, assets.PlaceholderPNG()},
	}
	for _, f := range files {
		if err := addZipFile(zw, f.name, f.data); err != nil {
			return fmt.Errorf("zip add %s: %w", f.name, err)
		}
	}
	for _, a := range prog.Assets {
		if err := addZipFile(zw, assets.Dir+"/"+a.Name, a.Data); err != nil {
			return fmt.Errorf("zip add asset %s: %w", a.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	hdr := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: archiveTime}
	hdr.SetMode(0o644)
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
