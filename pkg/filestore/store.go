// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package filestore

import (
	"context"
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// 📖 Phase says whether a failure happened while reading or writing
type Phase string

const (
	PhaseRead  Phase = "read"
	PhaseWrite Phase = "write"
)

var (
	// ErrNotFound is returned by Read when the path does not exist
	ErrNotFound = errors.Base("file not found")

	// ErrProtected is wrapped by the PermissionError a Guarded store returns
	ErrProtected = errors.Base("path is protected")
)

// 🔒 PermissionError reports that access rights blocked a read or a write
type PermissionError struct {
	Path  string
	Phase Phase
	Err   error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied (%s) %s: %v", e.Phase, e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// 💾 Store reads and writes the full text of a single path
type Store interface {
	// Read returns the full content of path. A missing path yields an
	// error wrapping ErrNotFound, blocked access a *PermissionError.
	Read(ctx context.Context, path string) (string, error)

	// Write replaces the full content of path. Blocked access yields a
	// *PermissionError.
	Write(ctx context.Context, path string, content string) error
}

// IsNotFound reports whether err came from reading a missing path
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// AsPermission returns the PermissionError in err's chain, if any
func AsPermission(err error) (*PermissionError, bool) {
	var perr *PermissionError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}
