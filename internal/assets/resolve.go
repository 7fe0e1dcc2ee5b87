/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
	applog "github.com/droppybuilder/Buildify2.0-sub000/internal/log"
)

// Resolver turns manifest entries into archive files. Every failure is contained
// to its entry, which then carries the placeholder bytes under its own name.
type Resolver struct {
	// Fetcher is used for remote sources. Nil means remote entries get the placeholder.
	Fetcher  Fetcher
	MaxBytes int64
	Logger   *slog.Logger
}

// Resolve returns one file per manifest entry, in manifest order. Remote entries
// are fetched sequentially.
func (r Resolver) Resolve(ctx context.Context, m *domain.AssetManifest) []domain.AssetFile {
	l := r.Logger
	if l == nil {
		l = applog.WithComponent("assets")
	}
	entries := m.Entries()
	files := make([]domain.AssetFile, 0, len(entries))
	for _, e := range entries {
		data, err := r.load(ctx, e.Source)
		if err == nil {
			if _, ok := Sniff(data); !ok {
				err = errNotImage
			}
		}
		if err != nil {
			applog.WithWidget(l, e.WidgetID, "image").Warn("asset replaced by placeholder",
				slog.String("file", e.Filename), slog.String("err", err.Error()))
			files = append(files, domain.AssetFile{Name: e.Filename, Data: PlaceholderPNG(), Placeholder: true})
			continue
		}
		files = append(files, domain.AssetFile{Name: e.Filename, Data: data})
	}
	return files
}

var (
	errNotImage   = errors.New("payload is not a recognised image")
	errBadPayload = errors.New("invalid base64 payload")
)

func (r Resolver) load(ctx context.Context, src string) ([]byte, error) {
	limit := r.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if d, ok := ParseDataURI(src); ok {
		var data []byte
		if d.Base64 {
			b, ok := DecodePayload(d.Payload)
			if !ok {
				return nil, errBadPayload
			}
			data = b
		} else {
			s, err := url.PathUnescape(d.Payload)
			if err != nil {
				return nil, fmt.Errorf("unescape payload: %w", err)
			}
			data = []byte(s)
		}
		if int64(len(data)) > limit {
			return nil, ErrTooLarge
		}
		return data, nil
	}
	if !IsRemote(src) {
		return nil, errors.New("unsupported source scheme")
	}
	if r.Fetcher == nil {
		return nil, errors.New("remote fetching disabled")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.Fetcher.Fetch(ctx, src)
}
