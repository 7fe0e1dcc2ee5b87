/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/storage"
)

func TestWriteReportCreatesFileInTemp(t *testing.T) {
	path, err := writeReport(&Session{ReportDir: t.TempDir(), Command: "export"}, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "Buildify Crash Report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Command: export") || !strings.Contains(s, "Panic: boom") {
		t.Fatalf("report content missing: %s", s)
	}
}

func TestReportDirFollowsDesign(t *testing.T) {
	root := t.TempDir()
	sess := &Session{Design: &storage.DesignHandle{Path: filepath.Join(root, "app.json")}}
	if got, want := reportDir(sess), filepath.Join(root, storage.BackupsDirName); got != want {
		t.Fatalf("reportDir = %s, want %s", got, want)
	}
	if got := reportDir(nil); got != os.TempDir() {
		t.Fatalf("reportDir(nil) = %s", got)
	}
}

func TestRecoverWritesReportAndSnapshot(t *testing.T) {
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	}()

	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	defer func() { exitFn = oldExit }()

	root := t.TempDir()
	sess := &Session{
		Command: "export",
		Design: &storage.DesignHandle{
			Path:   filepath.Join(root, "app.json"),
			Design: domain.Design{Name: "Crashy", Widgets: []domain.Widget{{ID: "a", Type: "button"}}},
		},
	}

	func() {
		defer Recover(sess)
		panic("boom")
	}()

	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
	files, err := os.ReadDir(filepath.Join(root, storage.BackupsDirName))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	var report, snapshot string
	for _, f := range files {
		switch {
		case strings.HasPrefix(f.Name(), "buildify-crash-"):
			report = filepath.Join(root, storage.BackupsDirName, f.Name())
		case strings.Contains(f.Name(), ".crash-"):
			snapshot = f.Name()
		}
	}
	if report == "" || snapshot == "" {
		t.Fatalf("expected report and snapshot, got %v", files)
	}
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Contains(b, []byte("Panic: boom")) || !bytes.Contains(b, []byte("Widgets: 1")) {
		t.Fatalf("report does not describe the crash: %s", b)
	}
}
