/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/assets"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/codegen"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/config"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/crash"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/export"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/preview"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/sink"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/storage"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/telemetry"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/version"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type app struct {
	cfg    config.AppConfig
	out    io.Writer
	errOut io.Writer
	log    *slog.Logger
	sess   *crash.Session
}

func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		usage(a.out)
		return exitOK
	}
	a.sess.Command = args[0]
	a.log.Debug("start", slog.String("cmd", args[0]), slog.Int("args", len(args)))
	switch args[0] {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(a.out, version.String())
		return exitOK
	case "preview":
		return a.preview(args[1:])
	case "guide":
		return a.guide(args[1:])
	case "export":
		return a.export(ctx, args[1:])
	case "sheet":
		return a.sheet(args[1:])
	case "history":
		return a.history(ctx, args[1:])
	case "serve":
		return a.serve(ctx, args[1:])
	case "help", "-h", "--help":
		usage(a.out)
		return exitOK
	}
	_, _ = fmt.Fprintf(a.errOut, "unknown command %q\n", args[0])
	usage(a.errOut)
	return exitUsage
}

func (a *app) fail(op string, err error) int {
	a.log.Error(op+" failed", slog.Any("err", err))
	_, _ = fmt.Fprintln(a.errOut, "Error:", err)
	return exitError
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) open(path string) (*storage.DesignHandle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	h, err := storage.Open(abs)
	if err != nil {
		return nil, err
	}
	a.sess.Design = h
	return h, nil
}

// target resolves the toolkit: flag, then design document, then config.
func (a *app) target(flagValue string, d domain.Design) codegen.Target {
	switch {
	case flagValue != "":
		return codegen.ParseTarget(flagValue)
	case d.Target != "":
		return codegen.ParseTarget(d.Target)
	}
	return codegen.ParseTarget(a.cfg.Generator.Target)
}

func (a *app) preview(args []string) int {
	fs := a.flags("preview")
	asHTML := fs.Bool("html", false, "print syntax-highlighted HTML")
	style := fs.String("style", preview.DefaultStyle, "highlight style for -html")
	target := fs.String("target", "", "customtkinter or tkinter")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		_, _ = fmt.Fprintln(a.errOut, "preview requires <design.json>")
		return exitUsage
	}
	h, err := a.open(fs.Arg(0))
	if err != nil {
		return a.fail("open", err)
	}
	d := h.Design
	d.Target = string(a.target(*target, d))
	src, err := preview.Text(d, a.exportOptions(codegen.Target(d.Target)))
	if err != nil {
		return a.fail("preview", err)
	}
	if *asHTML {
		out, err := preview.HTML(src, *style)
		if err != nil {
			return a.fail("highlight", err)
		}
		src = out
	}
	_, _ = io.WriteString(a.out, src)
	return exitOK
}

func (a *app) guide(args []string) int {
	if len(args) != 1 {
		_, _ = fmt.Fprintln(a.errOut, "guide requires <design.json>")
		return exitUsage
	}
	h, err := a.open(args[0])
	if err != nil {
		return a.fail("open", err)
	}
	d := h.Design
	d.Target = string(a.target("", d))
	out, err := preview.Guide(d, a.exportOptions(codegen.Target(d.Target)))
	if err != nil {
		return a.fail("guide", err)
	}
	_, _ = io.WriteString(a.out, out)
	return exitOK
}

func (a *app) exportOptions(target codegen.Target) export.Options {
	g := a.cfg.Generator
	ctk, pillow, warnings := g.Pins()
	for _, w := range warnings {
		a.log.Warn("invalid version pin", slog.String("detail", w))
	}
	opts := export.Options{
		Target:               target,
		CustomTkinterVersion: ctk,
		PillowVersion:        pillow,
		FetchRemote:          g.FetchRemoteImages,
		MaxImageBytes:        g.MaxImageBytes,
		Logger:               a.log.With(slog.String("op", "export")),
	}
	if g.FetchRemoteImages {
		opts.Fetcher = assets.NewHTTPFetcher(g.FetchTimeout(), g.MaxImageBytes)
	}
	return opts
}

func (a *app) export(ctx context.Context, args []string) int {
	fs := a.flags("export")
	target := fs.String("target", "", "customtkinter or tkinter")
	noHistory := fs.Bool("no-history", false, "do not record the export")
	if err := fs.Parse(args); err != nil || fs.NArg() < 1 || fs.NArg() > 2 {
		_, _ = fmt.Fprintln(a.errOut, "export requires <design.json> [dest]")
		return exitUsage
	}
	h, err := a.open(fs.Arg(0))
	if err != nil {
		return a.fail("open", err)
	}
	d := h.Design
	name := export.ArchiveName(d.Name, d.WindowSettings.Title)
	dest := fs.Arg(1)
	if dest == "" {
		dest = filepath.Join(filepath.Dir(h.Path), name)
	}

	opts := a.exportOptions(a.target(*target, d))
	res, err := export.Build(ctx, d.Widgets, d.WindowSettings, opts)
	if err != nil {
		telemetry.Export(telemetry.ExportStats{Target: string(opts.Target), Widgets: len(d.Widgets), Failed: string(export.KindOf(err))})
		a.log.Error("export failed", slog.String("kind", string(export.KindOf(err))), slog.Any("err", err))
		_, _ = fmt.Fprintln(a.errOut, "Error:", err)
		_, _ = fmt.Fprintln(a.errOut, export.HintFor(err))
		return exitError
	}

	s, err := sink.Open(ctx, dest, sink.Options{
		S3Region:    a.cfg.Export.S3Region,
		S3Endpoint:  a.cfg.Export.S3Endpoint,
		DefaultName: name,
	})
	if err != nil {
		return a.fail("open destination", err)
	}
	if c, ok := s.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}
	loc, err := s.Put(ctx, res.Archive)
	if err != nil {
		return a.fail("write archive", err)
	}
	telemetry.Export(exportStats(res.Target, d.Widgets, res))

	if !*noHistory {
		a.record(ctx, h, opts.Target, res, loc)
	}
	_, _ = fmt.Fprintf(a.out, "Exported %d widgets to %s\n", len(d.Widgets), loc)
	if res.Placeholders > 0 {
		_, _ = fmt.Fprintf(a.out, "%d image(s) could not be used and were replaced by assets/placeholder.png\n", res.Placeholders)
	}
	return exitOK
}

func exportStats(target codegen.Target, widgets []domain.Widget, res export.Result) telemetry.ExportStats {
	unknown := 0
	for _, w := range widgets {
		if _, ok := codegen.Canonical(w.Type); !ok {
			unknown++
		}
	}
	return telemetry.ExportStats{
		Target:         string(target),
		Widgets:        len(widgets),
		UnknownWidgets: unknown,
		Assets:         res.Manifest.Len(),
		Placeholders:   res.Placeholders,
		Bytes:          len(res.Archive),
	}
}

func (a *app) historyDir(designPath string) string {
	if a.cfg.Export.HistoryDir != "" {
		return a.cfg.Export.HistoryDir
	}
	return filepath.Dir(designPath)
}

// record stores the export in the history database; failures are only logged.
func (a *app) record(ctx context.Context, h *storage.DesignHandle, target codegen.Target, res export.Result, loc string) {
	hist, err := storage.OpenHistory(ctx, a.historyDir(h.Path))
	if err != nil {
		a.log.Warn("export history unavailable", slog.Any("err", err))
		return
	}
	defer func() { _ = hist.Close() }()
	sum := sha256.Sum256(res.Archive)
	name := h.Design.Name
	if name == "" {
		name = filepath.Base(h.Path)
	}
	if _, err := hist.Record(ctx, storage.ExportRecord{
		Design:       name,
		Target:       string(target),
		Widgets:      len(h.Design.Widgets),
		Assets:       res.Manifest.Len(),
		Placeholders: res.Placeholders,
		SHA256:       hex.EncodeToString(sum[:]),
		Size:         int64(len(res.Archive)),
		Destination:  loc,
	}); err != nil {
		a.log.Warn("record export failed", slog.Any("err", err))
	}
}

func (a *app) sheet(args []string) int {
	if len(args) != 2 {
		_, _ = fmt.Fprintln(a.errOut, "sheet requires <design.json> <out.pdf>")
		return exitUsage
	}
	h, err := a.open(args[0])
	if err != nil {
		return a.fail("open", err)
	}
	if err := export.WriteLayoutSheet(args[1], h.Design.Widgets, h.Design.WindowSettings, export.SheetOptions{IncludeLabels: true}); err != nil {
		return a.fail("sheet", err)
	}
	_, _ = fmt.Fprintln(a.out, "Wrote", args[1])
	return exitOK
}

func (a *app) history(ctx context.Context, args []string) int {
	fs := a.flags("history")
	limit := fs.Int("limit", 20, "number of records")
	if err := fs.Parse(args); err != nil || fs.NArg() > 1 {
		_, _ = fmt.Fprintln(a.errOut, "history takes at most one <dir>")
		return exitUsage
	}
	dir := fs.Arg(0)
	if dir == "" {
		dir = a.cfg.Export.HistoryDir
	}
	if dir == "" {
		dir = "."
	}
	hist, err := storage.OpenHistory(ctx, dir)
	if err != nil {
		return a.fail("open history", err)
	}
	defer func() { _ = hist.Close() }()
	recs, err := hist.Recent(ctx, *limit)
	if err != nil {
		return a.fail("read history", err)
	}
	if len(recs) == 0 {
		_, _ = fmt.Fprintln(a.out, "No exports recorded.")
		return exitOK
	}
	for _, r := range recs {
		_, _ = fmt.Fprintf(a.out, "%s  %s  %-14s %3d widgets  %2d assets  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"), r.ID, r.Target, r.Widgets, r.Assets, r.Destination)
	}
	return exitOK
}

func (a *app) serve(ctx context.Context, args []string) int {
	fs := a.flags("serve")
	addr := fs.String("addr", a.cfg.Server.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	srv := preview.NewServer(a.exportOptions(codegen.ParseTarget(a.cfg.Generator.Target)))
	srv.Logger = a.log.With(slog.String("op", "serve"))
	srv.OnExport = func(d domain.Design, res export.Result) {
		telemetry.Export(exportStats(res.Target, d.Widgets, res))
	}
	hs := &http.Server{Addr: *addr, Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	a.log.Info("preview server listening", slog.String("addr", *addr))
	_, _ = fmt.Fprintf(a.out, "Serving on http://%s\n", *addr)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return a.fail("serve", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return a.fail("shutdown", err)
		}
	}
	return exitOK
}
