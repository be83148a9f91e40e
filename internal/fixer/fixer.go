// Package fixer applies the edits carried by lint issues to source files.
package fixer

import (
	"fmt"
	"go/format"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"

	tt "github.com/gnolang/shapelint/internal/types"
)

// Fixer rewrites files using issue edits. Only machine-applicable issues are
// used unless Advisory is set.
type Fixer struct {
	DryRun   bool
	Advisory bool
	Out      io.Writer
	logger   *zap.Logger
}

// New returns a Fixer writing dry-run reports to out.
func New(logger *zap.Logger, out io.Writer, dryRun, advisory bool) *Fixer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Fixer{
		DryRun:   dryRun,
		Advisory: advisory,
		Out:      out,
		logger:   logger,
	}
}

// Result summarizes one Fix call.
type Result struct {
	Applied int
	Skipped int
}

// Fix applies the edits of issues to filename. The file is only written when
// the edited source still parses and formats.
func (f *Fixer) Fix(filename string, issues []tt.Issue) (Result, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read file: %w", err)
	}

	selected := f.selectIssues(issues)
	if f.DryRun {
		for _, issue := range selected {
			fmt.Fprintf(f.Out, "Would fix issue in %s at line %d: %s\n", filename, issue.Start.Line, issue.Message)
			for _, e := range issue.Edits {
				fmt.Fprintf(f.Out, "Suggestion:\n%s\n", e.NewText)
			}
		}
		return Result{Applied: len(selected), Skipped: len(issues) - len(selected)}, nil
	}

	out, res, err := Apply(content, selected)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", filename, err)
	}
	res.Skipped += len(issues) - len(selected)
	if res.Applied == 0 {
		return res, nil
	}

	info, err := os.Stat(filename)
	if err != nil {
		return Result{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if err := os.WriteFile(filename, out, info.Mode().Perm()); err != nil {
		return Result{}, fmt.Errorf("failed to write file: %w", err)
	}

	f.logger.Info("Fixed issues",
		zap.String("file", filename),
		zap.Int("applied", res.Applied),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

func (f *Fixer) selectIssues(issues []tt.Issue) []tt.Issue {
	var out []tt.Issue
	for _, issue := range issues {
		if len(issue.Edits) == 0 {
			continue
		}
		if issue.Applicability != tt.MachineApplicable && !f.Advisory {
			continue
		}
		out = append(out, issue)
	}
	return out
}

// Apply applies the edits of issues to src and formats the result. Issues
// whose edits overlap an edit already taken, or fall outside src, are
// skipped; the rest are applied from the back of the file to the front.
func Apply(src []byte, issues []tt.Issue) ([]byte, Result, error) {
	var (
		res   Result
		edits []tt.Edit
	)

	ordered := append([]tt.Issue(nil), issues...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start.Offset < ordered[j].Start.Offset
	})

	for _, issue := range ordered {
		if !fits(src, edits, issue.Edits) {
			res.Skipped++
			continue
		}
		edits = append(edits, issue.Edits...)
		res.Applied++
	}
	if res.Applied == 0 {
		return src, res, nil
	}

	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Start > edits[j].Start
	})
	out := append([]byte(nil), src...)
	for _, e := range edits {
		out = append(out[:e.Start], append([]byte(e.NewText), out[e.End:]...)...)
	}

	formatted, err := format.Source(out)
	if err != nil {
		return nil, Result{}, fmt.Errorf("failed to format fixed source: %w", err)
	}
	return formatted, res, nil
}

// fits reports whether every edit of cand lies inside src and does not
// overlap taken or each other.
func fits(src []byte, taken, cand []tt.Edit) bool {
	for i, e := range cand {
		if e.Start < 0 || e.End < e.Start || e.End > len(src) {
			return false
		}
		for _, t := range taken {
			if overlaps(e, t) {
				return false
			}
		}
		for _, o := range cand[:i] {
			if overlaps(e, o) {
				return false
			}
		}
	}
	return true
}

func overlaps(a, b tt.Edit) bool {
	return a.Start < b.End && b.Start < a.End
}
