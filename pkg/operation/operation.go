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

package operation

import (
	"github.com/walteh/ensurefile/pkg/confirm"
	"github.com/walteh/ensurefile/pkg/filestore"
	"github.com/walteh/ensurefile/pkg/log"
	"github.com/walteh/ensurefile/pkg/status"
	"github.com/walteh/ensurefile/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains the collaborators of a Runner
type Options struct {
	// Store reads and writes the target
	Store filestore.Store
	// Gate shows the diff and collects the decision
	Gate *confirm.Gate
	// Logger prints user-facing messages
	Logger *log.UserLogger
	// Formatter words the messages; defaults to status.DefaultFormatter
	Formatter status.Formatter
}

// 📝 Request is one invocation: one path, one operation
type Request struct {
	Path         string
	Op           text.Operation
	Force        bool
	Quiet        bool
	IdempotentOK bool
}

// Validate checks that the request can be run
func (r Request) Validate() error {
	if r.Path == "" {
		return errors.New("path is required")
	}
	if r.Op == nil {
		return errors.New("operation is required")
	}
	return nil
}

// 📊 Report is the result of running a Request
type Report struct {
	Path      string
	Operation status.OperationKind
	Outcome   status.Outcome
	Decision  status.Decision
	// Phase is set when Outcome is PermissionDenied
	Phase filestore.Phase
	Code  status.ExitCode
	// Err holds the underlying failure for PermissionDenied, NoTargetFound
	// and GenericFailure
	Err error

	OldContent string
	NewContent string
	Written    bool
}
