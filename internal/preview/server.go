/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/export"
	applog "github.com/droppybuilder/Buildify2.0-sub000/internal/log"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/version"
)

// DefaultMaxBody bounds request bodies; designs carry inline images.
const DefaultMaxBody = 32 << 20

// Server serves previews and exports for designs posted as JSON.
type Server struct {
	Export  export.Options
	MaxBody int64
	Logger  *slog.Logger
	// OnExport is called after every successful export, e.g. to record history.
	// res.Target is the toolkit the archive was generated for.
	OnExport func(d domain.Design, res export.Result)
}

// NewServer creates a server using opts for every export.
func NewServer(opts export.Options) *Server {
	return &Server{Export: opts, MaxBody: DefaultMaxBody, Logger: applog.WithComponent("preview")}
}

// RegisterRoutes registers the preview API on mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/preview", s.handlePreview)
	mux.HandleFunc("POST /api/guide", s.handleGuide)
	mux.HandleFunc("POST /api/export", s.handleExport)
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Hint  string `json:"hint,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return applog.WithComponent("preview")
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (domain.Design, bool) {
	limit := s.MaxBody
	if limit <= 0 {
		limit = DefaultMaxBody
	}
	var d domain.Design
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(&d); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, errorBody{Error: "invalid design: " + err.Error()})
		return d, false
	}
	return d, true
}

// options applies the design's own target to the server's export options, so
// preview, guide and export all render the same program.
func (s *Server) options(d domain.Design) export.Options {
	opts := Options(d, s.Export)
	if opts.Logger == nil {
		opts.Logger = applog.WithOperation(s.logger(), "export")
	}
	return opts
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger().Error("request failed", slog.String("kind", string(export.KindOf(err))), slog.Any("err", err))
	writeJSON(w, http.StatusInternalServerError, errorBody{
		Error: err.Error(),
		Kind:  string(export.KindOf(err)),
		Hint:  export.HintFor(err),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.String()})
}

// handlePreview returns the program as text/x-python, or highlighted HTML with ?format=html.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	d, ok := s.decode(w, r)
	if !ok {
		return
	}
	src, err := Text(d, s.options(d))
	if err != nil {
		s.fail(w, err)
		return
	}
	if strings.EqualFold(r.URL.Query().Get("format"), "html") {
		style := r.URL.Query().Get("style")
		if style == "" {
			style = DefaultStyle
		}
		out, err := HTML(src, style)
		if err != nil {
			s.logger().Error("highlight failed", slog.String("err", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(out))
		return
	}
	w.Header().Set("Content-Type", "text/x-python; charset=utf-8")
	_, _ = w.Write([]byte(src))
}

func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	d, ok := s.decode(w, r)
	if !ok {
		return
	}
	out, err := Guide(d, s.options(d))
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	d, ok := s.decode(w, r)
	if !ok {
		return
	}
	res, err := export.Build(r.Context(), d.Widgets, d.WindowSettings, s.options(d))
	if err != nil {
		s.fail(w, err)
		return
	}
	if s.OnExport != nil {
		s.OnExport(d, res)
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.ArchiveName(d.Name, d.WindowSettings.Title)))
	_, _ = w.Write(res.Archive)
}
