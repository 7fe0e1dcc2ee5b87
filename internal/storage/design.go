/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
)

const BackupsDirName = "backups"

//go:embed design.schema.json
var designSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(designSchema)

// DesignHandle is a design document loaded from or saved to Path.
type DesignHandle struct {
	Path   string
	Design domain.Design
}

// SchemaError lists the schema violations of a design document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "design does not match schema: " + strings.Join(e.Problems, "; ")
}

// Validate checks data against the embedded design schema.
func Validate(data []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate design: %w", err)
	}
	if res.Valid() {
		return nil
	}
	se := &SchemaError{}
	for _, e := range res.Errors() {
		se.Problems = append(se.Problems, e.String())
	}
	return se
}

// Decode validates data and decodes it into a Design.
func Decode(data []byte) (domain.Design, error) {
	var d domain.Design
	if err := Validate(data); err != nil {
		return d, err
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("parse design: %w", err)
	}
	return d, nil
}

// Create writes d to path, creating parent directories.
func Create(path string, d domain.Design) (*DesignHandle, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("design path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create design dir: %w", err)
	}
	h := &DesignHandle{Path: path, Design: d}
	if err := Save(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Open loads the design at path. If it cannot be read or does not validate, the
// latest backup is used instead.
func Open(path string) (*DesignHandle, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		var d domain.Design
		if d, err = Decode(b); err == nil {
			return &DesignHandle{Path: path, Design: d}, nil
		}
	}
	d, berr := openFromLatestBackup(path)
	if berr != nil {
		return nil, fmt.Errorf("open design: %w; backup attempt: %v", err, berr)
	}
	return &DesignHandle{Path: path, Design: *d}, nil
}

// Save writes h.Design transactionally, first copying the previous file to a
// timestamped backup.
func Save(h *DesignHandle) error {
	if h == nil {
		return errors.New("nil DesignHandle")
	}
	if h.Path == "" {
		return errors.New("invalid DesignHandle: missing path")
	}
	if h.Design.Widgets == nil {
		h.Design.Widgets = []domain.Widget{}
	}
	data, err := json.MarshalIndent(h.Design, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal design: %w", err)
	}
	data = append(data, '\n')

	if _, statErr := os.Stat(h.Path); statErr == nil {
		bdir := filepath.Join(filepath.Dir(h.Path), BackupsDirName)
		if err := os.MkdirAll(bdir, 0o755); err != nil {
			return fmt.Errorf("ensure backups dir: %w", err)
		}
		stamp := time.Now().Format("20060102-150405")
		bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(h.Path), stamp))
		if err := copyFile(h.Path, bpath); err != nil {
			return fmt.Errorf("backup current design: %w", err)
		}
	}

	if err := WriteAtomic(h.Path, data); err != nil {
		return fmt.Errorf("write design: %w", err)
	}
	return nil
}

// WriteAtomic writes data to a synced temp file next to path and renames it
// over path, so readers see either the old or the new content.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, data); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("write temp file: %w", err)
	}
	// Windows cannot rename over an existing file.
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}

// SaveAs writes the design to newPath and points the handle at it.
func SaveAs(h *DesignHandle, newPath string) error {
	if h == nil {
		return errors.New("nil DesignHandle")
	}
	if newPath == "" {
		return errors.New("new path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return fmt.Errorf("create design dir: %w", err)
	}
	h.Path = newPath
	return Save(h)
}

func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}

func openFromLatestBackup(path string) (*domain.Design, error) {
	bdir := filepath.Join(filepath.Dir(path), BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	prefix := filepath.Base(path) + "."
	var candidates []string
	for _, e := range ents {
		if name := e.Name(); strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	// the timestamp in the name sorts chronologically
	sort.Strings(candidates)
	b, err := os.ReadFile(candidates[len(candidates)-1])
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	d, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return &d, nil
}

// WriteCrashSnapshot writes the in-memory design to the backups directory without
// touching the design file itself, and returns the snapshot path.
func WriteCrashSnapshot(h *DesignHandle) (string, error) {
	if h == nil || h.Path == "" {
		return "", errors.New("invalid DesignHandle")
	}
	data, err := json.MarshalIndent(h.Design, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal design: %w", err)
	}
	bdir := filepath.Join(filepath.Dir(h.Path), BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	path := filepath.Join(bdir, fmt.Sprintf("%s.crash-%s.json", filepath.Base(h.Path), time.Now().Format("20060102-150405")))
	if err := writeFileSync(path, append(data, '\n')); err != nil {
		return "", fmt.Errorf("write crash snapshot: %w", err)
	}
	return path, nil
}
