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
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultFilePermission is used when the target does not exist yet
const DefaultFilePermission fs.FileMode = 0644

// 🖴 Disk is a Store backed by the local filesystem
type Disk struct {
	// Atomic writes go through a temp file and a rename
	Atomic bool
}

// NewDisk creates a new Disk store that writes atomically
func NewDisk() *Disk {
	return &Disk{Atomic: true}
}

// Read implements Store.Read
func (d *Disk) Read(ctx context.Context, path string) (string, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("reading file")

	data, err := os.ReadFile(path)
	if err != nil {
		return "", classify(path, PhaseRead, err)
	}
	return string(data), nil
}

// Write implements Store.Write. Existing permission bits are preserved.
func (d *Disk) Write(ctx context.Context, path string, content string) error {
	logger := zerolog.Ctx(ctx)

	perm := DefaultFilePermission
	target := path
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()

		// the rename must not sidestep a read-only target
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return classify(path, PhaseWrite, err)
		}
		_ = f.Close()

		// replace the file a symlink points at, not the link
		if resolved, err := filepath.EvalSymlinks(path); err == nil {
			target = resolved
		}
	}

	if d.Atomic {
		err := writeAtomic(target, []byte(content), perm)
		if err == nil {
			logger.Debug().Str("path", path).Int("bytes", len(content)).Msg("wrote file atomically")
			return nil
		}
		// a directory we cannot create files in may still hold a writable target
		if !errors.Is(err, fs.ErrPermission) {
			return classify(path, PhaseWrite, err)
		}
		logger.Debug().Err(err).Str("path", path).Msg("atomic write refused, writing in place")
	}

	if err := os.WriteFile(target, []byte(content), perm); err != nil {
		return classify(path, PhaseWrite, err)
	}
	logger.Debug().Str("path", path).Int("bytes", len(content)).Msg("wrote file")
	return nil
}

// writeAtomic writes data to a temp file in the target's directory and
// renames it over path
func writeAtomic(path string, data []byte, perm fs.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = tmpFile.Close() }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Errorf("syncing temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Errorf("setting temp file permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// classify turns an os error into the store's failure signals
func classify(path string, phase Phase, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist) && phase == PhaseRead:
		return errors.Errorf("%w: %s", ErrNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		return &PermissionError{Path: path, Phase: phase, Err: err}
	default:
		return errors.Errorf("%s %s: %w", phase, path, err)
	}
}
