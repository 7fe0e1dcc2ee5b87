/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package sink delivers export archives to a destination: a local file, an S3
// object (s3://bucket/key) or a Google Cloud Storage object (gs://bucket/key).
package sink

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Sink stores one archive and returns where it ended up.
type Sink interface {
	Put(ctx context.Context, data []byte) (string, error)
}

// Destination is a parsed destination string.
type Destination struct {
	Scheme string // "file", "s3" or "gs"
	Bucket string
	Key    string
	Path   string // local path for "file"
}

// Options configure the cloud sinks.
type Options struct {
	S3Region   string
	S3Endpoint string
	// DefaultName is appended when the destination names a directory or bucket prefix.
	DefaultName string
}

// Parse splits dest into scheme, bucket and key. Anything without a known scheme
// is a local path.
func Parse(dest string) (Destination, error) {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return Destination{}, errors.New("destination is empty")
	}
	i := strings.Index(dest, "://")
	if i < 0 {
		return Destination{Scheme: "file", Path: dest}, nil
	}
	u, err := url.Parse(dest)
	if err != nil {
		return Destination{}, fmt.Errorf("parse destination: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		p := u.Path
		if u.Host != "" && u.Host != "localhost" {
			p = u.Host + p
		}
		if p == "" {
			return Destination{}, errors.New("file destination has no path")
		}
		return Destination{Scheme: "file", Path: filepath.FromSlash(p)}, nil
	case "s3", "gs":
		if u.Host == "" {
			return Destination{}, fmt.Errorf("%s destination has no bucket", u.Scheme)
		}
		return Destination{Scheme: strings.ToLower(u.Scheme), Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}, nil
	}
	return Destination{}, fmt.Errorf("unsupported destination scheme %q", u.Scheme)
}

func (d Destination) String() string {
	if d.Scheme == "file" {
		return d.Path
	}
	return d.Scheme + "://" + d.Bucket + "/" + d.Key
}

// withName completes a key or path that ends in a separator.
func (d Destination) withName(name string) Destination {
	if name == "" {
		return d
	}
	switch d.Scheme {
	case "file":
		if strings.HasSuffix(d.Path, "/") || strings.HasSuffix(d.Path, string(filepath.Separator)) {
			d.Path = filepath.Join(d.Path, name)
		}
	default:
		if d.Key == "" || strings.HasSuffix(d.Key, "/") {
			d.Key += name
		}
	}
	return d
}

// Open returns the sink for dest. Sinks that hold a client also implement io.Closer.
func Open(ctx context.Context, dest string, opts Options) (Sink, error) {
	d, err := Parse(dest)
	if err != nil {
		return nil, err
	}
	d = d.withName(opts.DefaultName)
	switch d.Scheme {
	case "s3":
		if d.Key == "" {
			return nil, errors.New("s3 destination has no key")
		}
		s, err := NewS3Sink(ctx, S3Config{Bucket: d.Bucket, Key: d.Key, Region: opts.S3Region, Endpoint: opts.S3Endpoint})
		if err != nil {
			return nil, err
		}
		return s, nil
	case "gs":
		if d.Key == "" {
			return nil, errors.New("gs destination has no object name")
		}
		s, err := NewGCSSink(ctx, d.Bucket, d.Key)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return FileSink{Path: d.Path}, nil
}
