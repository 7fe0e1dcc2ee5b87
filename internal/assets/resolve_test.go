/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package assets

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
)

func TestPlaceholderIsStablePNG(t *testing.T) {
	a := PlaceholderPNG()
	b := PlaceholderPNG()
	require.NotEmpty(t, a)
	assert.Equal(t, a, b)

	img, err := png.Decode(bytes.NewReader(a))
	require.NoError(t, err)
	assert.Equal(t, placeholderSize, img.Bounds().Dx())

	a[0] = 0
	assert.NotEqual(t, a[0], PlaceholderPNG()[0], "callers must get a copy")
}

func TestSniff(t *testing.T) {
	f, ok := Sniff(tinyPNG(t))
	assert.True(t, ok)
	assert.Equal(t, "png", f)

	f, ok = Sniff([]byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"/>`))
	assert.True(t, ok)
	assert.Equal(t, "svg", f)

	_, ok = Sniff([]byte("hello world"))
	assert.False(t, ok)
	_, ok = Sniff(nil)
	assert.False(t, ok)
}

func TestResolveInvalidBase64UsesPlaceholder(t *testing.T) {
	src := "data:image/png;base64,!!!not-valid!!!"
	m := CollectImages([]domain.Widget{imageWidget("img", src)})
	require.Equal(t, 1, m.Len())

	files := Resolver{}.Resolve(context.Background(), m)
	require.Len(t, files, 1)
	name, _ := m.Lookup(src)
	assert.Equal(t, name, files[0].Name)
	assert.True(t, files[0].Placeholder)
	assert.Equal(t, PlaceholderPNG(), files[0].Data)
}

func TestResolveKeepsValidImage(t *testing.T) {
	raw := tinyPNG(t)
	m := CollectImages([]domain.Widget{imageWidget("img", dataURI(raw))})
	files := Resolver{}.Resolve(context.Background(), m)
	require.Len(t, files, 1)
	assert.False(t, files[0].Placeholder)
	assert.Equal(t, raw, files[0].Data)
}

func TestResolveInlineSVG(t *testing.T) {
	src := "data:image/svg+xml,%3Csvg%20xmlns%3D%22http%3A%2F%2Fwww.w3.org%2F2000%2Fsvg%22%2F%3E"
	m := CollectImages([]domain.Widget{imageWidget("vec", src)})
	files := Resolver{}.Resolve(context.Background(), m)
	require.Len(t, files, 1)
	assert.False(t, files[0].Placeholder)
	assert.Contains(t, string(files[0].Data), "<svg")
}

func TestResolveSizeLimit(t *testing.T) {
	m := CollectImages([]domain.Widget{imageWidget("img", dataURI(tinyPNG(t)))})
	files := Resolver{MaxBytes: 8}.Resolve(context.Background(), m)
	assert.True(t, files[0].Placeholder)
}

type stubFetcher struct {
	data  map[string][]byte
	calls []string
}

func (s *stubFetcher) Fetch(_ context.Context, src string) ([]byte, error) {
	s.calls = append(s.calls, src)
	if b, ok := s.data[src]; ok {
		return b, nil
	}
	return nil, errors.New("not found")
}

func TestResolveRemoteSequentially(t *testing.T) {
	good := "https://cdn.example.com/ok.png"
	bad := "https://cdn.example.com/missing.png"
	f := &stubFetcher{data: map[string][]byte{good: tinyPNG(t)}}
	m := Collect([]domain.Widget{imageWidget("a", good), imageWidget("b", bad)}, Options{IncludeRemote: true})

	files := Resolver{Fetcher: f}.Resolve(context.Background(), m)
	require.Len(t, files, 2)
	assert.Equal(t, []string{good, bad}, f.calls)
	assert.False(t, files[0].Placeholder)
	assert.True(t, files[1].Placeholder)

	files = Resolver{}.Resolve(context.Background(), m)
	assert.True(t, files[0].Placeholder, "no fetcher means placeholder")
}

func TestHTTPFetcher(t *testing.T) {
	body := tinyPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			_, _ = w.Write(body)
		case "/big.png":
			_, _ = w.Write(bytes.Repeat([]byte{1}, 64))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(2*time.Second, 32)
	got, err := f.Fetch(context.Background(), srv.URL+"/ok.png")
	require.Error(t, err, "body is larger than 32 bytes")
	assert.Nil(t, got)

	f.MaxBytes = 1 << 20
	got, err = f.Fetch(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, body, got)

	got, err = f.Fetch(context.Background(), "blob:"+srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, body, got)

	_, err = f.Fetch(context.Background(), srv.URL+"/nope.png")
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), "blob:null/1234")
	assert.ErrorIs(t, err, ErrBlobUnavailable)

	f.MaxBytes = 16
	_, err = f.Fetch(context.Background(), srv.URL+"/big.png")
	assert.ErrorIs(t, err, ErrTooLarge)
}
