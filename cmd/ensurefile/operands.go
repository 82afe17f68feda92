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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// valueFlags take the next token as their value and are skipped whole
var valueFlags = map[string]bool{
	"--line":   true,
	"--start":  true,
	"--end":    true,
	"--config": true,
	"-c":       true,
}

// looksLikeFlag reports whether tok would be parsed as an option. A token
// holding a space is an operand even when it starts with a dash.
func looksLikeFlag(tok string) bool {
	return len(tok) > 1 && tok[0] == '-' && !strings.Contains(tok, " ")
}

// takeOperands removes the operands of --block, --replace and --replace-re
// from args and stores them on h. Each selector owns the tokens directly
// after it: one or more up to the next flag for --block, exactly two for
// the replace selectors. The selector itself stays in the returned args so
// cobra still records it. Everything after "--" is left alone.
func (h *Handler) takeOperands(args []string) ([]string, error) {
	rest := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		tok := args[i]

		switch {
		case tok == "--":
			return append(rest, args[i:]...), nil
		case valueFlags[tok]:
			rest = append(rest, tok)
			if i+1 < len(args) {
				rest = append(rest, args[i+1])
				i++
			}
			continue
		}

		var (
			dst  *[]string
			want int
		)
		switch tok {
		case "--block":
			dst, want = &h.blockLines, -1
		case "--replace":
			dst, want = &h.replaceArgs, 2
		case "--replace-re":
			dst, want = &h.replaceReArgs, 2
		default:
			rest = append(rest, tok)
			continue
		}

		if *dst != nil {
			return nil, errors.Errorf("%w: %s given more than once", ErrUsage, tok)
		}
		rest = append(rest, tok)

		j := i + 1
		for j < len(args) && !looksLikeFlag(args[j]) && (want < 0 || j-i-1 < want) {
			j++
		}
		operands := args[i+1 : j]

		switch {
		case want < 0 && len(operands) == 0:
			return nil, errors.Errorf("%w: %s requires at least one line", ErrUsage, tok)
		case want > 0 && len(operands) != want:
			return nil, errors.Errorf("%w: %s requires %d arguments, got %d", ErrUsage, tok, want, len(operands))
		}
		*dst = append([]string{}, operands...)
		i = j - 1
	}

	return rest, nil
}
