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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger prints the one-line messages a user sees and mirrors each
// of them to zerolog. Informational lines go to out, errors to errOut.
type UserLogger struct {
	log zerolog.Logger
	mu  sync.Mutex

	out    io.Writer
	errOut io.Writer

	info    *pterm.PrefixPrinter
	success *pterm.PrefixPrinter
	warning *pterm.PrefixPrinter
	failure *pterm.PrefixPrinter
}

// 🏭 NewUserLogger creates a new user logger. The structured logger is taken
// from ctx.
func NewUserLogger(ctx context.Context, out, errOut io.Writer) *UserLogger {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &UserLogger{
		log:     *zerolog.Ctx(ctx),
		out:     out,
		errOut:  errOut,
		info:    pterm.Info.WithPrefix(pterm.Prefix{Text: "ℹ️", Style: pterm.Info.Prefix.Style}).WithWriter(out),
		success: pterm.Success.WithPrefix(pterm.Prefix{Text: "✅", Style: pterm.Success.Prefix.Style}).WithWriter(out),
		warning: pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️", Style: pterm.Warning.Prefix.Style}).WithWriter(out),
		failure: pterm.Error.WithPrefix(pterm.Prefix{Text: "❌", Style: pterm.Error.Prefix.Style}).WithWriter(errOut),
	}
}

// 📝 Info logs an informational message
func (u *UserLogger) Info(msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.info.Println(msg)
	u.log.Info().Msg(msg)
}

// 📝 Success logs a success message
func (u *UserLogger) Success(msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.success.Println(msg)
	u.log.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (u *UserLogger) Warning(msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.warning.Println(msg)
	u.log.Warn().Msg(msg)
}

// 📝 Error logs an error message to the error stream
func (u *UserLogger) Error(msg string, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.failure.Println(msg)
	u.log.Error().Err(err).Msg(msg)
}

// 📝 Raw writes text to the output stream as is, without a prefix
func (u *UserLogger) Raw(text string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprint(u.out, text)
}
