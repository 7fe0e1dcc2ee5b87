/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/config"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/crash"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/storage"
)

func newTestApp() (*app, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	a := &app{
		cfg:    config.Defaults(),
		out:    &out,
		errOut: &errOut,
		log:    slog.New(slog.NewTextHandler(&errOut, nil)),
		sess:   &crash.Session{},
	}
	return a, &out, &errOut
}

func writeDesign(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.json")
	d := domain.Design{
		Name:           "Demo",
		WindowSettings: domain.WindowSettings{Title: "Demo", Size: domain.WindowSize{Width: 300, Height: 200}},
		Widgets:        []domain.Widget{{ID: "ok", Type: "button", Props: map[string]any{"text": "OK"}}},
	}
	if _, err := storage.Create(path, d); err != nil {
		t.Fatalf("create design: %v", err)
	}
	return path
}

func TestPreviewCommand(t *testing.T) {
	a, out, _ := newTestApp()
	path := writeDesign(t)
	if code := a.run(context.Background(), []string{"preview", "-target", "tkinter", path}); code != exitOK {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(out.String(), "class App(tk.Tk):") {
		t.Fatalf("unexpected preview:\n%s", out.String())
	}
	if a.sess.Design == nil || a.sess.Command != "preview" {
		t.Fatalf("crash session not populated: %+v", a.sess)
	}
}

func TestPreviewTargetPrecedence(t *testing.T) {
	a, out, _ := newTestApp()
	a.cfg.Generator.Target = "tkinter"
	path := writeDesign(t)
	if code := a.run(context.Background(), []string{"preview", path}); code != exitOK {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(out.String(), "class App(tk.Tk):") {
		t.Fatalf("config target ignored:\n%s", out.String())
	}

	h, err := storage.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	h.Design.Target = "tkinter"
	if err := storage.Save(h); err != nil {
		t.Fatalf("save: %v", err)
	}
	a2, out2, _ := newTestApp()
	if code := a2.run(context.Background(), []string{"preview", "-target", "customtkinter", path}); code != exitOK {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(out2.String(), "ctk.CTk") {
		t.Fatalf("flag should override the design target:\n%s", out2.String())
	}
}

func TestExportCommandWritesArchiveAndHistory(t *testing.T) {
	a, out, errOut := newTestApp()
	path := writeDesign(t)
	dir := filepath.Dir(path)
	if code := a.run(context.Background(), []string{"export", path}); code != exitOK {
		t.Fatalf("exit code %d: %s", code, errOut.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "demo.zip")); err != nil {
		t.Fatalf("archive missing: %v", err)
	}
	if !strings.Contains(out.String(), "Exported 1 widgets") {
		t.Fatalf("unexpected output: %s", out.String())
	}

	a2, out2, _ := newTestApp()
	if code := a2.run(context.Background(), []string{"history", dir}); code != exitOK {
		t.Fatalf("history exit code %d", code)
	}
	if !strings.Contains(out2.String(), "demo.zip") {
		t.Fatalf("history does not list export: %s", out2.String())
	}
}

func TestSheetCommand(t *testing.T) {
	a, _, errOut := newTestApp()
	path := writeDesign(t)
	pdf := filepath.Join(filepath.Dir(path), "sheet.pdf")
	if code := a.run(context.Background(), []string{"sheet", path, pdf}); code != exitOK {
		t.Fatalf("exit code %d: %s", code, errOut.String())
	}
	if st, err := os.Stat(pdf); err != nil || st.Size() == 0 {
		t.Fatalf("sheet missing: %v", err)
	}
}

func TestUsageErrors(t *testing.T) {
	a, _, _ := newTestApp()
	for _, args := range [][]string{{"bogus"}, {"preview"}, {"sheet", "one"}, {"export"}} {
		if code := a.run(context.Background(), args); code != exitUsage {
			t.Errorf("%v: exit code %d, want %d", args, code, exitUsage)
		}
	}
	if code := a.run(context.Background(), []string{"preview", filepath.Join(t.TempDir(), "missing.json")}); code != exitError {
		t.Errorf("missing design: exit code %d", code)
	}
}
