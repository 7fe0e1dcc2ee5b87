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
	"fmt"
	"os"
	"path/filepath"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/storage"
)

// FileSink writes the archive to a local path, replacing it atomically.
type FileSink struct {
	Path string
}

func (s FileSink) Put(_ context.Context, data []byte) (string, error) {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return "", fmt.Errorf("ensure out dir: %w", err)
	}
	if err := storage.WriteAtomic(s.Path, data); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	abs, err := filepath.Abs(s.Path)
	if err != nil {
		return s.Path, nil
	}
	return abs, nil
}
