/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic in the CLI into a crash report and, when a design
// is open, a snapshot of its unsaved state.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "github.com/droppybuilder/Buildify2.0-sub000/internal/log"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/storage"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/telemetry"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/version"
)

// exitFn is replaced in tests.
var exitFn = os.Exit

// Session is what the crash handler knows about the running command.
type Session struct {
	Command string
	Design  *storage.DesignHandle
	// ReportDir overrides where reports go; default is the design's backups
	// directory, or the temp dir without a design.
	ReportDir string
}

// Recover captures a panic, logs it with the stack, writes a report and a design
// snapshot, and exits with code 2.
//
// Usage: defer crash.Recover(sess)
func Recover(sess *Session) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, err := writeReport(sess, r, stack)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}
	if sess != nil && sess.Design != nil {
		if path, err := storage.WriteCrashSnapshot(sess.Design); err != nil {
			l.Error("crash snapshot failed", slog.Any("err", err))
		} else {
			l.Info("crash snapshot written", slog.String("path", path))
		}
	}

	_, _ = fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	_, _ = fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

func reportDir(sess *Session) string {
	switch {
	case sess == nil:
		return os.TempDir()
	case sess.ReportDir != "":
		return sess.ReportDir
	case sess.Design != nil && sess.Design.Path != "":
		return filepath.Join(filepath.Dir(sess.Design.Path), storage.BackupsDirName)
	}
	return os.TempDir()
}

func writeReport(sess *Session, panicVal any, stack []byte) (string, error) {
	dir := reportDir(sess)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure report dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("buildify-crash-%s.log", time.Now().Format("20060102-150405")))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Buildify Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if sess != nil {
		if sess.Command != "" {
			_, _ = fmt.Fprintf(&buf, "Command: %s\n", sess.Command)
		}
		if sess.Design != nil {
			_, _ = fmt.Fprintf(&buf, "Design: %s\n", sess.Design.Path)
			_, _ = fmt.Fprintf(&buf, "Widgets: %d\n", len(sess.Design.Design.Widgets))
		}
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", stack)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	// no-op unless the user opted in
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}
