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

// Package diff renders the pending change of an edit as a unified diff.
package diff

import (
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
	"gitlab.com/tozd/go/errors"
)

// contextLines is the number of unchanged lines shown around each hunk
const contextLines = 3

// 🎨 Presenter renders old/new content as a unified diff
type Presenter struct {
	color bool

	header *color.Color
	hunk   *color.Color
	added  *color.Color
	remove *color.Color
}

// NewPresenter creates a new Presenter. When useColor is false the output
// is plain text regardless of the terminal.
func NewPresenter(useColor bool) *Presenter {
	p := &Presenter{
		color:  useColor,
		header: color.New(color.Bold),
		hunk:   color.New(color.FgCyan),
		added:  color.New(color.FgGreen),
		remove: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.header, p.hunk, p.added, p.remove} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Unified returns the unified diff of old and new, labelled <path>.old and
// <path>.new. Equal content yields an empty string.
func Unified(path, old, new string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        splitLinesKeepEnds(old),
		B:        splitLinesKeepEnds(new),
		FromFile: path + ".old",
		ToFile:   path + ".new",
		Context:  contextLines,
	}
	out, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", errors.Errorf("rendering diff for %s: %w", path, err)
	}
	return out, nil
}

// Render returns the unified diff, coloured when the presenter allows it
func (p *Presenter) Render(path, old, new string) (string, error) {
	out, err := Unified(path, old, new)
	if err != nil {
		return "", err
	}
	if !p.color || out == "" {
		return out, nil
	}

	lines := strings.SplitAfter(out, "\n")
	var b strings.Builder
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(p.header.Sprint(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(p.hunk.Sprint(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(p.added.Sprint(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(p.remove.Sprint(line))
		default:
			b.WriteString(line)
		}
	}
	return b.String(), nil
}

// 📊 Stats counts the lines added and removed going from old to new
func Stats(old, new string) (added, removed int) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, d := range diffs {
		n := countLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += n
		case diffmatchpatch.DiffDelete:
			removed += n
		}
	}
	return added, removed
}

func countLines(s string) int {
	n := strings.Count(s, "\n")
	if s != "" && !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// noNewlineMarker follows a last line that has no terminator
const noNewlineMarker = "\\ No newline at end of file\n"

// splitLinesKeepEnds splits s after each "\n". A last line without a
// terminator carries noNewlineMarker, so it differs from the same text with
// a newline and the diff shows the missing terminator.
func splitLinesKeepEnds(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	} else {
		lines[len(lines)-1] += "\n" + noNewlineMarker
	}
	return lines
}
