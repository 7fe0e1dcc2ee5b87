/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Destination
	}{
		{"out/app.zip", Destination{Scheme: "file", Path: "out/app.zip"}},
		{"file:///tmp/app.zip", Destination{Scheme: "file", Path: filepath.FromSlash("/tmp/app.zip")}},
		{"s3://bucket/exports/app.zip", Destination{Scheme: "s3", Bucket: "bucket", Key: "exports/app.zip"}},
		{"S3://bucket/", Destination{Scheme: "s3", Bucket: "bucket", Key: ""}},
		{"gs://media/app.zip", Destination{Scheme: "gs", Bucket: "media", Key: "app.zip"}},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "  ", "s3:///key", "ftp://host/file", "file://"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestWithName(t *testing.T) {
	d, _ := Parse("s3://bucket/exports/")
	if got := d.withName("app.zip").Key; got != "exports/app.zip" {
		t.Fatalf("key = %q", got)
	}
	d, _ = Parse("gs://bucket/fixed.zip")
	if got := d.withName("app.zip").Key; got != "fixed.zip" {
		t.Fatalf("explicit key replaced: %q", got)
	}
	if got := d.String(); got != "gs://bucket/fixed.zip" {
		t.Fatalf("String() = %q", got)
	}
}

func TestFileSinkWritesAndReplaces(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "exports", "app.zip")
	s, err := Open(context.Background(), out, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, payload := range []string{"first", "second"} {
		loc, err := s.Put(context.Background(), []byte(payload))
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		if !filepath.IsAbs(loc) {
			t.Fatalf("location not absolute: %s", loc)
		}
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "second" {
		t.Fatalf("content = %q", b)
	}
	ents, _ := os.ReadDir(filepath.Dir(out))
	if len(ents) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(ents))
	}
}

func TestFileSinkDirectoryDestination(t *testing.T) {
	root := t.TempDir()
	s, err := Open(context.Background(), root+string(filepath.Separator), Options{DefaultName: "demo.zip"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Put(context.Background(), []byte("zip")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "demo.zip")); err != nil {
		t.Fatalf("stat: %v", err)
	}
}
