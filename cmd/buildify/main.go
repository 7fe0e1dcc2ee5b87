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
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/config"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/crash"
	applog "github.com/droppybuilder/Buildify2.0-sub000/internal/log"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/telemetry"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/version"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Buildify: Python desktop apps from visual designs")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  buildify version|-v|--version                      Show version")
	_, _ = fmt.Fprintln(w, "  buildify preview [-html] [-target t] <design.json>   Print the generated program")
	_, _ = fmt.Fprintln(w, "  buildify guide <design.json>                         Print the README as HTML")
	_, _ = fmt.Fprintln(w, "  buildify export [-target t] <design.json> [dest]     Write the project archive (path, s3://, gs://)")
	_, _ = fmt.Fprintln(w, "  buildify sheet <design.json> <out.pdf>               Write a printable layout sheet")
	_, _ = fmt.Fprintln(w, "  buildify history [-limit n] [dir]                    List recent exports")
	_, _ = fmt.Fprintln(w, "  buildify serve [-addr host:port]                     Serve the preview API")
}

func main() {
	cfg, cfgErr := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config file ignored", slog.Any("err", cfgErr))
	}

	tcfg := telemetry.FromEnv()
	tcfg.OptIn = tcfg.OptIn || cfg.General.TelemetryOptIn
	telemetry.NewDefault(tcfg)

	sess := &crash.Session{}
	defer crash.Recover(sess)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{cfg: cfg, out: os.Stdout, errOut: os.Stderr, log: l, sess: sess}
	code := a.run(ctx, os.Args[1:])
	telemetry.Flush(time.Second)
	if code != 0 {
		stop()
		os.Exit(code)
	}
}
