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

package main

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/ensurefile/pkg/config"
	"github.com/walteh/ensurefile/pkg/confirm"
	"github.com/walteh/ensurefile/pkg/diff"
	"github.com/walteh/ensurefile/pkg/filestore"
	"github.com/walteh/ensurefile/pkg/log"
	"github.com/walteh/ensurefile/pkg/operation"
	"github.com/walteh/ensurefile/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ErrUsage marks command line mistakes
var ErrUsage = errors.Base("usage")

// 🎮 Handler holds the flags of one invocation and its resulting exit code
type Handler struct {
	configFile     string
	debug          bool
	force          bool
	quiet          bool
	idempotentFail bool
	noColor        bool

	line      string
	block     bool
	start     string
	end       string
	replace   bool
	replaceRe bool

	// operands taken from the raw arguments by takeOperands
	blockLines    []string
	replaceArgs   []string
	replaceReArgs []string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	code status.ExitCode
}

// NewCommand creates the root command
func (h *Handler) NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ensurefile PATH",
		Short: "Make sure a text file contains what it should",
		Long: `ensurefile edits one configuration file so it matches an expectation:
a line is present, a marked block holds exactly some lines, or a line is
replaced. It shows a unified diff and asks before writing.

Exit codes: 0 ok, 1 failure, 2 permission denied, 3 no match,
4 no change made, 5 file not found.`,
		Example: `  ensurefile /etc/hosts --line "10.0.0.1 db"
  ensurefile ~/.bashrc --block 'export A=1' 'export B=2' --start '# BEGIN env' --end '# END env'
  ensurefile --replace 'debug=true' 'debug=false' app.conf
  ensurefile /etc/sysctl.conf --replace-re 'vm\.swappiness = \d+' 'vm.swappiness = 11'
  ensurefile -c recipe.yaml`,
		Version:       GetVersionInfo().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return h.Run(cmd.Context(), cmd, args)
		},
	}
	cmd.SetVersionTemplate(FormatVersion())

	flags := cmd.Flags()
	flags.BoolVarP(&h.force, "force", "f", false, "apply changes without asking")
	flags.BoolVarP(&h.quiet, "quiet", "q", false, "suppress the diff and informational messages")
	flags.BoolVarP(&h.idempotentFail, "idempotent-fail", "I", false, "exit 4 when the file is already correct")
	flags.StringVarP(&h.configFile, "config", "c", "", "recipe file (.yaml, .yml, .json or .hcl)")
	flags.BoolVarP(&h.debug, "debug", "d", false, "enable debug logging")
	flags.BoolVar(&h.noColor, "no-color", false, "disable colored output")

	flags.StringVar(&h.line, "line", "", "ensure LINE is present")
	flags.BoolVar(&h.block, "block", false, "ensure the LINES following this flag form the block between --start and --end")
	flags.StringVar(&h.start, "start", "", "block start marker")
	flags.StringVar(&h.end, "end", "", "block end marker")
	flags.BoolVar(&h.replace, "replace", false, "replace lines equal to FROM with TO, the two arguments following this flag")
	flags.BoolVar(&h.replaceRe, "replace-re", false, "replace PATTERN with REPLACEMENT in every line, the two arguments following this flag")

	return cmd
}

// flagConfig turns the command line into a Config. Selector operands were
// already taken by takeOperands, so the only positional left is PATH.
func (h *Handler) flagConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := &config.Config{
		Force:          h.force,
		Quiet:          h.quiet,
		IdempotentFail: h.idempotentFail,
		NoColor:        h.noColor,
	}

	switch len(args) {
	case 0:
	case 1:
		cfg.Path = args[0]
	default:
		return nil, errors.Errorf("%w: expected one PATH, got unexpected arguments %q", ErrUsage, args)
	}

	selected := 0
	for _, set := range []bool{cmd.Flags().Changed("line"), h.block, h.replace, h.replaceRe} {
		if set {
			selected++
		}
	}
	if selected > 1 {
		return nil, errors.WithStack(config.ErrMultipleOperations)
	}
	if (cmd.Flags().Changed("start") || cmd.Flags().Changed("end")) && !h.block {
		return nil, errors.Errorf("%w: --start and --end are only valid with --block", ErrUsage)
	}

	switch {
	case cmd.Flags().Changed("line"):
		line := h.line
		cfg.Line = &line
	case h.block:
		if h.start == "" || h.end == "" {
			return nil, errors.Errorf("%w: --block requires --start and --end", ErrUsage)
		}
		if len(h.blockLines) == 0 {
			return nil, errors.Errorf("%w: --block requires at least one line", ErrUsage)
		}
		cfg.Block = &config.BlockArgs{Lines: h.blockLines, Start: h.start, End: h.end}
	case h.replace:
		if len(h.replaceArgs) != 2 {
			return nil, errors.Errorf("%w: --replace requires FROM and TO", ErrUsage)
		}
		cfg.Replace = &config.ReplaceArgs{From: h.replaceArgs[0], To: h.replaceArgs[1]}
	case h.replaceRe:
		if len(h.replaceReArgs) != 2 {
			return nil, errors.Errorf("%w: --replace-re requires PATTERN and REPLACEMENT", ErrUsage)
		}
		cfg.ReplaceRe = &config.ReplaceReArgs{Pattern: h.replaceReArgs[0], Replacement: h.replaceReArgs[1]}
	}

	return cfg, nil
}

// 🏃 Run wires the collaborators for one invocation and runs it. Usage
// mistakes are returned as errors; every other result is recorded in h.code.
func (h *Handler) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	level := zerolog.Disabled
	if h.debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: h.stderr}).Level(level).With().Timestamp().Logger()
	ctx = logger.WithContext(ctx)

	flagCfg, err := h.flagConfig(cmd, args)
	if err != nil {
		return err
	}

	var recipe *config.Config
	if h.configFile != "" {
		recipe, err = config.Load(ctx, h.configFile)
		if err != nil {
			return errors.Errorf("loading recipe: %w", err)
		}
	}

	cfg := config.Merge(recipe, flagCfg)
	if cfg.Path == "" {
		return errors.Errorf("%w: a target PATH is required", ErrUsage)
	}
	op, err := cfg.Operation()
	if err != nil {
		return errors.Errorf("building operation: %w", err)
	}
	logger.Debug().Str("recipe", cfg.String()).Msg("resolved invocation")

	var store filestore.Store = filestore.NewDisk()
	if len(cfg.Protected) > 0 {
		store, err = filestore.NewGuarded(store, cfg.Protected)
		if err != nil {
			return errors.Errorf("protected paths: %w", err)
		}
	}

	useColor := !cfg.NoColor && !color.NoColor
	if !useColor {
		pterm.DisableColor()
	}

	userLogger := log.NewUserLogger(ctx, h.stdout, h.stderr)

	gate, err := confirm.NewGate(confirm.Options{
		Presenter: diff.NewPresenter(useColor),
		Prompter:  confirm.NewLinePrompter(h.stdin, h.stdout),
		Logger:    userLogger,
	})
	if err != nil {
		return errors.Errorf("creating confirmation gate: %w", err)
	}

	runner, err := operation.NewRunner(operation.Options{
		Store:  store,
		Gate:   gate,
		Logger: userLogger,
	})
	if err != nil {
		return errors.Errorf("creating runner: %w", err)
	}

	report := runner.Run(ctx, operation.Request{
		Path:         cfg.Path,
		Op:           op,
		Force:        cfg.Force,
		Quiet:        cfg.Quiet,
		IdempotentOK: !cfg.IdempotentFail,
	})
	h.code = report.Code
	return nil
}
