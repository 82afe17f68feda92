package operation

import (
	"bytes"
	"context"
	"testing"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/ensurefile/pkg/confirm"
	"github.com/walteh/ensurefile/pkg/diff"
	"github.com/walteh/ensurefile/pkg/filestore"
	"github.com/walteh/ensurefile/pkg/log"
	"github.com/walteh/ensurefile/pkg/status"
	"github.com/walteh/ensurefile/pkg/text"
)

// 🔧 MockPrompter is a mock implementation of confirm.Prompter
type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) Prompt(ctx context.Context, question string) (string, error) {
	result := m.Called(ctx, question)
	return result.String(0), result.Error(1)
}

type testEnv struct {
	runner   *Runner
	store    *filestore.Memory
	prompter *MockPrompter
	out      *bytes.Buffer
	errOut   *bytes.Buffer
}

func setupTest(t *testing.T, files map[string]string) (context.Context, *testEnv) {
	t.Helper()
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())

	env := &testEnv{
		store:    filestore.NewMemory(files),
		prompter: &MockPrompter{},
		out:      &bytes.Buffer{},
		errOut:   &bytes.Buffer{},
	}
	userLogger := log.NewUserLogger(ctx, env.out, env.errOut)

	gate, err := confirm.NewGate(confirm.Options{
		Presenter: diff.NewPresenter(false),
		Prompter:  env.prompter,
		Logger:    userLogger,
	})
	require.NoError(t, err)

	env.runner, err = NewRunner(Options{
		Store:  env.store,
		Gate:   gate,
		Logger: userLogger,
	})
	require.NoError(t, err)
	return ctx, env
}

func mustLine(t *testing.T, line string) text.Operation {
	t.Helper()
	op, err := text.NewEnsureLine(line)
	require.NoError(t, err)
	return op
}

func mustPattern(t *testing.T, pattern, replacement string) text.Operation {
	t.Helper()
	op, err := text.NewReplacePattern(pattern, replacement)
	require.NoError(t, err)
	return op
}

func TestNewRunner(t *testing.T) {
	_, err := NewRunner(Options{})
	require.Error(t, err)

	_, err = NewRunner(Options{Store: filestore.NewMemory(nil)})
	require.Error(t, err)
}

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]string
		denyRead   bool
		denyWrite  bool
		req        func(t *testing.T) Request
		answer     string
		prompt     bool
		outcome    status.Outcome
		decision   status.Decision
		code       status.ExitCode
		phase      filestore.Phase
		written    bool
		content    string
		wantOut    string
		wantErrOut string
	}{
		{
			name:  "line_appended_with_force",
			files: map[string]string{"app.conf": "foo=1\n"},
			req: func(t *testing.T) Request {
				return Request{Path: "app.conf", Op: mustLine(t, "bar=2"), Force: true, IdempotentOK: true}
			},
			outcome:  status.OutcomeChanged,
			decision: status.DecisionApproved,
			code:     status.ExitOK,
			written:  true,
			content:  "foo=1\nbar=2\n",
			wantOut:  "Updated app.conf",
		},
		{
			name:  "line_already_present",
			files: map[string]string{"app.conf": "foo=1\n"},
			req: func(t *testing.T) Request {
				return Request{Path: "app.conf", Op: mustLine(t, "foo=1"), IdempotentOK: true}
			},
			outcome: status.OutcomeAlreadyCorrect,
			code:    status.ExitOK,
			content: "foo=1\n",
			wantOut: "Line already present in app.conf",
		},
		{
			name:  "line_already_present_idempotent_fail",
			files: map[string]string{"app.conf": "foo=1\n"},
			req: func(t *testing.T) Request {
				return Request{Path: "app.conf", Op: mustLine(t, "foo=1")}
			},
			outcome: status.OutcomeAlreadyCorrect,
			code:    status.ExitNoChangeNeeded,
			content: "foo=1\n",
		},
		{
			name:  "line_creates_missing_file",
			files: map[string]string{},
			req: func(t *testing.T) Request {
				return Request{Path: "new.conf", Op: mustLine(t, "a=1"), Force: true, IdempotentOK: true}
			},
			outcome:  status.OutcomeChanged,
			decision: status.DecisionApproved,
			code:     status.ExitOK,
			written:  true,
			content:  "a=1\n",
		},
		{
			name:  "prompt_approved",
			files: map[string]string{"app.conf": "foo=1\n"},
			req: func(t *testing.T) Request {
				return Request{Path: "app.conf", Op: mustLine(t, "bar=2"), IdempotentOK: true}
			},
			prompt:   true,
			answer:   "y\n",
			outcome:  status.OutcomeChanged,
			decision: status.DecisionApproved,
			code:     status.ExitOK,
			written:  true,
			content:  "foo=1\nbar=2\n",
			wantOut:  "+bar=2",
		},
		{
			name:  "prompt_declined",
			files: map[string]string{"app.conf": "foo=1\n"},
			req: func(t *testing.T) Request {
				return Request{Path: "app.conf", Op: mustLine(t, "bar=2"), IdempotentOK: true}
			},
			prompt:   true,
			answer:   "n\n",
			outcome:  status.OutcomeChanged,
			decision: status.DecisionDeclined,
			code:     status.ExitNoChangeNeeded,
			content:  "foo=1\n",
			wantOut:  "Changes not applied to app.conf",
		},
		{
			name:  "replace_missing_file",
			files: map[string]string{},
			req: func(t *testing.T) Request {
				return Request{Path: "gone.conf", Op: text.NewReplaceExact("a", "b"), Force: true}
			},
			outcome:    status.OutcomeNoTargetFound,
			code:       status.ExitNotFound,
			wantErrOut: "File not found: gone.conf",
		},
		{
			name:  "replace_no_match",
			files: map[string]string{"app.conf": "foo=1\n"},
			req: func(t *testing.T) Request {
				return Request{Path: "app.conf", Op: text.NewReplaceExact("nope", "x"), Force: true}
			},
			outcome: status.OutcomeNoMatch,
			code:    status.ExitNoMatch,
			content: "foo=1\n",
			wantOut: "No exact match found for replacement in app.conf",
		},
		{
			name:  "replace_pattern_changed",
			files: map[string]string{"app.conf": "port=80\n"},
			req: func(t *testing.T) Request {
				return Request{Path: "app.conf", Op: mustPattern(t, `^port=\d+$`, "port=8080"), Force: true}
			},
			outcome:  status.OutcomeChanged,
			decision: status.DecisionApproved,
			code:     status.ExitOK,
			written:  true,
			content:  "port=8080\n",
		},
		{
			name:  "replace_pattern_already_correct",
			files: map[string]string{"app.conf": "port=8080\n"},
			req: func(t *testing.T) Request {
				return Request{Path: "app.conf", Op: mustPattern(t, `^port=\d+$`, "port=8080"), IdempotentOK: true}
			},
			outcome: status.OutcomeAlreadyCorrect,
			code:    status.ExitOK,
			content: "port=8080\n",
			wantOut: "Regex match found, but no changes needed in app.conf",
		},
		{
			name:     "read_denied",
			files:    map[string]string{"app.conf": "foo=1\n"},
			denyRead: true,
			req: func(t *testing.T) Request {
				return Request{Path: "app.conf", Op: mustLine(t, "bar=2"), Force: true}
			},
			outcome:    status.OutcomePermissionDenied,
			code:       status.ExitPermissionDenied,
			phase:      filestore.PhaseRead,
			content:    "foo=1\n",
			wantErrOut: "Permission denied: app.conf",
		},
		{
			name:      "write_denied",
			files:     map[string]string{"app.conf": "foo=1\n"},
			denyWrite: true,
			req: func(t *testing.T) Request {
				return Request{Path: "app.conf", Op: mustLine(t, "bar=2"), Force: true, Quiet: true}
			},
			outcome:    status.OutcomePermissionDenied,
			decision:   status.DecisionApproved,
			code:       status.ExitPermissionDenied,
			phase:      filestore.PhaseWrite,
			content:    "foo=1\n",
			wantErrOut: "Permission denied: app.conf",
		},
		{
			name:  "quiet_suppresses_info",
			files: map[string]string{"app.conf": "foo=1\n"},
			req: func(t *testing.T) Request {
				return Request{Path: "app.conf", Op: mustLine(t, "bar=2"), Force: true, Quiet: true, IdempotentOK: true}
			},
			outcome:  status.OutcomeChanged,
			decision: status.DecisionApproved,
			code:     status.ExitOK,
			written:  true,
			content:  "foo=1\nbar=2\n",
		},
		{
			name:  "invalid_request",
			files: map[string]string{},
			req: func(t *testing.T) Request {
				return Request{Path: "", Op: mustLine(t, "a")}
			},
			outcome:    status.OutcomeGenericFailure,
			code:       status.ExitGenericFailure,
			wantErrOut: "Unhandled error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, env := setupTest(t, tt.files)
			req := tt.req(t)
			if tt.denyRead {
				env.store.DenyRead[req.Path] = true
			}
			if tt.denyWrite {
				env.store.DenyWrite[req.Path] = true
			}
			if tt.prompt {
				env.prompter.On("Prompt", mock.Anything, confirm.Question).Return(tt.answer, nil).Once()
			}

			report := env.runner.Run(ctx, req)
			env.prompter.AssertExpectations(t)

			assert.Equal(t, tt.outcome, report.Outcome, "outcome")
			assert.Equal(t, tt.decision, report.Decision, "decision")
			assert.Equal(t, tt.code, report.Code, "exit code")
			assert.Equal(t, tt.phase, report.Phase, "phase")
			assert.Equal(t, tt.written, report.Written, "written")

			if tt.content != "" {
				got, ok := env.store.Get(req.Path)
				require.True(t, ok)
				assert.Equal(t, tt.content, got)
			}
			if !tt.written {
				assert.Zero(t, env.store.Writes, "no write expected")
			}
			if tt.wantOut != "" {
				assert.Contains(t, env.out.String(), tt.wantOut)
			}
			if tt.wantErrOut != "" {
				assert.Contains(t, env.errOut.String(), tt.wantErrOut)
			}
			if req.Quiet {
				assert.NotContains(t, env.out.String(), "Updated")
			}
		})
	}
}

func TestRunner_Run_ReportsContent(t *testing.T) {
	ctx, env := setupTest(t, map[string]string{"app.conf": "a\n"})

	report := env.runner.Run(ctx, Request{Path: "app.conf", Op: mustLine(t, "b"), Force: true, IdempotentOK: true})

	assert.Equal(t, status.KindEnsureLine, report.Operation)
	assert.Equal(t, "a\n", report.OldContent)
	assert.Equal(t, "a\nb\n", report.NewContent)
	assert.NoError(t, report.Err)
}
