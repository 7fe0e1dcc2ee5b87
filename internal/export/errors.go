/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
)

// Kind classifies a fatal export failure so callers can show an actionable hint.
type Kind string

const (
	KindArchive Kind = "archive"
	KindCodegen Kind = "codegen"
	KindUnknown Kind = "unknown"
)

// Error is the only error ExportProject returns. Per-widget and per-asset problems
// never surface here; they degrade to placeholders.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("export %s failure", e.Kind)
	}
	return fmt.Sprintf("export %s failure: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Hint is a user-facing message for the failure class.
func (e *Error) Hint() string {
	switch e.Kind {
	case KindArchive:
		return "The project archive could not be created. Check free space and write permissions for the destination, then export again."
	case KindCodegen:
		return "The Python code could not be generated. Undo the most recent widget change or remove the widget named in the log, then export again."
	}
	return "The export failed unexpectedly. Save your design, try again, and include the log file if you report the problem."
}

// KindOf returns the failure class of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HintFor returns the user-facing message for any error.
func HintFor(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Hint()
	}
	return (&Error{Kind: KindUnknown}).Hint()
}
