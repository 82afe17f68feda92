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

// Package confirm decides whether a pending change is applied: skipped when
// there is nothing to change, approved when forced, otherwise asked.
package confirm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/ensurefile/pkg/diff"
	"github.com/walteh/ensurefile/pkg/log"
	"github.com/walteh/ensurefile/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// Question is the prompt shown before a change is applied
const Question = "Apply changes? [y/N]: "

// 🪜 Step is what the gate will do for a given request
type Step int

const (
	StepSkip    Step = iota // old and new are equal
	StepApprove             // forced, no interaction
	StepPrompt              // ask the user
)

// Plan decides, without side effects, how a change is confirmed
func Plan(old, new string, force bool) Step {
	switch {
	case old == new:
		return StepSkip
	case force:
		return StepApprove
	default:
		return StepPrompt
	}
}

// ParseAnswer normalises a prompt answer. Only "y" approves.
func ParseAnswer(answer string) status.Decision {
	if strings.ToLower(strings.TrimSpace(answer)) == "y" {
		return status.DecisionApproved
	}
	return status.DecisionDeclined
}

// 🙋 Prompter asks the user a yes/no question and returns the raw answer
type Prompter interface {
	Prompt(ctx context.Context, question string) (string, error)
}

// LinePrompter writes the question to out and reads one line from in
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a new LinePrompter
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Prompt implements Prompter. End of input counts as an empty answer.
func (p *LinePrompter) Prompt(ctx context.Context, question string) (string, error) {
	if _, err := fmt.Fprint(p.out, question); err != nil {
		return "", errors.Errorf("writing prompt: %w", err)
	}
	answer, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Errorf("reading answer: %w", err)
	}
	if errors.Is(err, io.EOF) {
		// keep the terminal tidy when input ends without a newline
		fmt.Fprintln(p.out)
	}
	return answer, nil
}

// Request is one change waiting for a decision
type Request struct {
	Path  string
	Old   string
	New   string
	Force bool
	Quiet bool
}

// Options contains the collaborators of a Gate
type Options struct {
	Presenter *diff.Presenter
	Prompter  Prompter
	Logger    *log.UserLogger
	Formatter status.Formatter
}

// 🚧 Gate shows the pending diff and collects the decision
type Gate struct {
	presenter *diff.Presenter
	prompter  Prompter
	logger    *log.UserLogger
	formatter status.Formatter
}

// NewGate creates a new Gate with the given options
func NewGate(opts Options) (*Gate, error) {
	if opts.Presenter == nil {
		return nil, errors.New("presenter is required")
	}
	if opts.Prompter == nil {
		return nil, errors.New("prompter is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Formatter == nil {
		opts.Formatter = status.NewDefaultFormatter()
	}
	return &Gate{
		presenter: opts.Presenter,
		prompter:  opts.Prompter,
		logger:    opts.Logger,
		formatter: opts.Formatter,
	}, nil
}

// Decide runs the single transition of the gate for req
func (g *Gate) Decide(ctx context.Context, req Request) (status.Decision, error) {
	step := Plan(req.Old, req.New, req.Force)
	zerolog.Ctx(ctx).Debug().Str("path", req.Path).Int("step", int(step)).Msg("confirming change")

	if step == StepSkip {
		if !req.Quiet {
			g.logger.Info(g.formatter.FormatNoChange(req.Path))
		}
		return status.DecisionNotApplicable, nil
	}

	if !req.Quiet {
		rendered, err := g.presenter.Render(req.Path, req.Old, req.New)
		if err != nil {
			return status.DecisionNotApplicable, errors.Errorf("rendering diff: %w", err)
		}
		g.logger.Raw(rendered)
	}

	if step == StepApprove {
		return status.DecisionApproved, nil
	}

	answer, err := g.prompter.Prompt(ctx, Question)
	if err != nil {
		return status.DecisionNotApplicable, errors.Errorf("prompting for %s: %w", req.Path, err)
	}
	return ParseAnswer(answer), nil
}
