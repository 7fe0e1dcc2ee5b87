/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package telemetry sends opt-in, anonymous export statistics and crash reports.
// Events never carry design content: only counts, the target toolkit and the
// build version. Nothing is sent unless the user opted in and an endpoint is set.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	applog "github.com/droppybuilder/Buildify2.0-sub000/internal/log"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/version"
)

// Environment variables read by FromEnv.
const (
	EnvOptIn     = "BUILDIFY_TELEMETRY_OPT_IN"
	EnvEventsURL = "BUILDIFY_TELEMETRY_URL"
	EnvCrashURL  = "BUILDIFY_CRASH_UPLOAD_URL"
	EnvTimeoutMs = "BUILDIFY_TELEMETRY_TIMEOUT_MS"
	EnvDebug     = "BUILDIFY_TELEMETRY_DEBUG"
)

// Config holds runtime configuration for telemetry and crash uploads.
type Config struct {
	OptIn        bool
	EventsURL    string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

func FromEnv() Config {
	cfg := Config{
		OptIn:        parseBool(os.Getenv(EnvOptIn)),
		EventsURL:    strings.TrimSpace(os.Getenv(EnvEventsURL)),
		CrashURL:     strings.TrimSpace(os.Getenv(EnvCrashURL)),
		Timeout:      1500 * time.Millisecond,
		DebugLogging: os.Getenv(EnvDebug) != "",
	}
	if ms, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvTimeoutMs))); err == nil && ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// ExportStats describes one finished export.
type ExportStats struct {
	Target         string `json:"target"`
	Widgets        int    `json:"widgets"`
	UnknownWidgets int    `json:"unknown_widgets"`
	Assets         int    `json:"assets"`
	Placeholders   int    `json:"placeholders"`
	Bytes          int    `json:"bytes"`
	Failed         string `json:"failed,omitempty"` // failure kind, empty on success
}

// Event is the JSON body posted to the events endpoint.
type Event struct {
	Name    string       `json:"name"`
	TS      string       `json:"ts"`
	Version string       `json:"version"`
	OS      string       `json:"os"`
	Arch    string       `json:"arch"`
	Export  *ExportStats `json:"export,omitempty"`
}

// Client sends events from a bounded queue on a background goroutine. Events
// are dropped when the queue is full or the endpoint fails.
type Client struct {
	cfg     Config
	log     *slog.Logger
	cli     *http.Client
	q       chan Event
	pending atomic.Int64
	once    sync.Once
	closed  chan struct{}
}

var (
	defaultClient *Client
	defaultOnce   sync.Once
)

// InitDefault installs a default client configured from the environment on first use.
func InitDefault() {
	defaultOnce.Do(func() {
		if defaultClient == nil {
			defaultClient = New(FromEnv())
		}
	})
}

// NewDefault replaces the default client.
func NewDefault(cfg Config) {
	defaultOnce.Do(func() {})
	if defaultClient != nil {
		defaultClient.Close()
	}
	defaultClient = New(cfg)
}

// New constructs a client and starts its sender.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 1500 * time.Millisecond
	}
	c := &Client{
		cfg:    cfg,
		log:    applog.WithComponent("telemetry"),
		cli:    &http.Client{Timeout: cfg.Timeout},
		q:      make(chan Event, 64),
		closed: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether events will be sent.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Enabled reports whether the default client sends events.
func Enabled() bool {
	InitDefault()
	return defaultClient.Enabled()
}

func (c *Client) enqueue(ev Event) {
	if !c.Enabled() || ev.Name == "" {
		return
	}
	ev.TS = time.Now().UTC().Format(time.RFC3339Nano)
	ev.Version = version.String()
	ev.OS = runtime.GOOS
	ev.Arch = runtime.GOARCH
	c.pending.Add(1)
	select {
	case c.q <- ev:
	default:
		c.pending.Add(-1)
	}
}

// Track queues a named event without payload.
func (c *Client) Track(name string) { c.enqueue(Event{Name: name}) }

// Export queues an "export" event.
func (c *Client) Export(s ExportStats) { c.enqueue(Event{Name: "export", Export: &s}) }

// Export queues an "export" event on the default client.
func Export(s ExportStats) { InitDefault(); defaultClient.Export(s) }

// Flush waits until queued events are sent or ctx is done.
func (c *Client) Flush(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for c.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Flush flushes the default client, waiting at most timeout.
func Flush(timeout time.Duration) {
	InitDefault()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	defaultClient.Flush(ctx)
}

// Close stops the sender. Queued events are dropped.
func (c *Client) Close() { c.once.Do(func() { close(c.closed) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.closed:
			return
		case ev := <-c.q:
			c.post(c.cfg.EventsURL, "application/json", mustJSON(ev), "event")
			c.pending.Add(-1)
		}
	}
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

func (c *Client) post(url, contentType string, body []byte, what string) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.cli.Do(req)
	if err != nil {
		if c.cfg.DebugLogging {
			c.log.Debug("telemetry send failed", slog.String("kind", what), slog.Any("err", err))
		}
		return
	}
	_ = resp.Body.Close()
	if c.cfg.DebugLogging {
		c.log.Debug("telemetry sent", slog.String("kind", what), slog.Int("status", resp.StatusCode))
	}
}

// UploadCrash posts a crash report synchronously when opted in; the process is
// about to exit, so there is no queue.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	c.post(c.cfg.CrashURL, "text/plain; charset=utf-8", report, "crash")
}

// UploadCrash uses the default client.
func UploadCrash(report []byte) { InitDefault(); defaultClient.UploadCrash(report) }
