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
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/ensurefile/pkg/confirm"
	"github.com/walteh/ensurefile/pkg/diff"
	"github.com/walteh/ensurefile/pkg/filestore"
	"github.com/walteh/ensurefile/pkg/log"
	"github.com/walteh/ensurefile/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🏃 Runner executes edit requests
type Runner struct {
	store     filestore.Store
	gate      *confirm.Gate
	logger    *log.UserLogger
	formatter status.Formatter
}

// 🏗️ NewRunner creates a new runner
func NewRunner(opts Options) (*Runner, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.Gate == nil {
		return nil, errors.New("gate is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Formatter == nil {
		opts.Formatter = status.NewDefaultFormatter()
	}
	return &Runner{
		store:     opts.Store,
		gate:      opts.Gate,
		logger:    opts.Logger,
		formatter: opts.Formatter,
	}, nil
}

// 🏃 Run executes req and returns its report. Run never fails: every
// failure is classified into the report's outcome and exit code.
func (r *Runner) Run(ctx context.Context, req Request) *Report {
	report := r.run(ctx, req)
	report.Code = status.Classify(report.Outcome, report.Decision, req.IdempotentOK)

	zerolog.Ctx(ctx).Debug().
		Str("path", report.Path).
		Str("operation", string(report.Operation)).
		Stringer("outcome", report.Outcome).
		Stringer("decision", report.Decision).
		Int("exit_code", int(report.Code)).
		Bool("written", report.Written).
		Msg("edit finished")

	return report
}

func (r *Runner) run(ctx context.Context, req Request) *Report {
	report := &Report{Path: req.Path}

	if err := req.Validate(); err != nil {
		return r.fail(report, errors.Errorf("invalid request: %w", err))
	}
	report.Operation = req.Op.Kind()

	logger := zerolog.Ctx(ctx).With().
		Str("path", req.Path).
		Str("operation", string(report.Operation)).
		Logger()
	ctx = logger.WithContext(ctx)

	old, err := r.store.Read(ctx, req.Path)
	switch {
	case err == nil:
	case filestore.IsNotFound(err) && !req.Op.RequiresExisting():
		logger.Debug().Msg("target missing, treating as empty")
		old = ""
	case filestore.IsNotFound(err):
		report.Outcome = status.OutcomeNoTargetFound
		report.Err = err
		r.logger.Error(r.formatter.FormatNotFound(req.Path), err)
		return report
	default:
		if r.denied(report, err) {
			return report
		}
		return r.fail(report, errors.Errorf("reading %s: %w", req.Path, err))
	}
	report.OldContent = old
	report.NewContent = old

	result, err := req.Op.Apply(ctx, old)
	if err != nil {
		return r.fail(report, errors.Errorf("applying %s to %s: %w", report.Operation, req.Path, err))
	}
	report.Outcome = result.Outcome
	report.NewContent = result.ModifiedContent

	switch result.Outcome {
	case status.OutcomeNoMatch:
		if !req.Quiet {
			r.logger.Warning(r.formatter.FormatNoMatch(report.Operation, req.Path))
		}
		return report
	case status.OutcomeAlreadyCorrect:
		if !req.Quiet {
			r.logger.Info(r.formatter.FormatAlreadyCorrect(report.Operation, req.Path))
		}
		return report
	case status.OutcomeChanged:
	default:
		return r.fail(report, errors.Errorf("unexpected outcome %s", result.Outcome))
	}

	decision, err := r.gate.Decide(ctx, confirm.Request{
		Path:  req.Path,
		Old:   old,
		New:   result.ModifiedContent,
		Force: req.Force,
		Quiet: req.Quiet,
	})
	if err != nil {
		return r.fail(report, err)
	}
	report.Decision = decision

	switch decision {
	case status.DecisionApproved:
	case status.DecisionDeclined:
		if !req.Quiet {
			r.logger.Info(r.formatter.FormatDeclined(req.Path))
		}
		return report
	default:
		return report
	}

	if err := r.store.Write(ctx, req.Path, result.ModifiedContent); err != nil {
		if r.denied(report, err) {
			return report
		}
		return r.fail(report, errors.Errorf("writing %s: %w", req.Path, err))
	}
	report.Written = true

	added, removed := diff.Stats(old, result.ModifiedContent)
	logger.Debug().Int("lines_added", added).Int("lines_removed", removed).Msg("file updated")

	if !req.Quiet {
		r.logger.Success(r.formatter.FormatUpdated(req.Path))
	}
	return report
}

// denied fills report when err is a permission failure
func (r *Runner) denied(report *Report, err error) bool {
	perr, ok := filestore.AsPermission(err)
	if !ok {
		return false
	}
	report.Outcome = status.OutcomePermissionDenied
	report.Phase = perr.Phase
	report.Err = err
	r.logger.Error(r.formatter.FormatPermissionDenied(report.Path), err)
	return true
}

// fail marks report as an unexpected failure
func (r *Runner) fail(report *Report, err error) *Report {
	report.Outcome = status.OutcomeGenericFailure
	report.Err = err
	r.logger.Error(r.formatter.FormatError(err), err)
	return report
}
