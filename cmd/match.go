package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/shapelint/internal"
	"github.com/gnolang/shapelint/internal/gosyntax"
	"github.com/gnolang/shapelint/internal/pattern"
	"github.com/gnolang/shapelint/internal/syntax"
)

var matchPattern string

var errNoPattern = errors.New("a pattern is required")

var matchCmd = &cobra.Command{
	Use:   "match --pattern PATTERN [paths...]",
	Short: "Print the nodes matching a structural pattern",
	Long: `Runs a pattern written in the rule DSL over Go files and prints every match
with its captures.
Example) shapelint match --pattern 'If(_#cond, Block(stmt(If(_, _))))' ./...`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}
		n, err := runMatch(os.Stdout, matchPattern, args)
		if err != nil {
			logger.Fatal("Match failed", zap.Error(err))
		}
		logger.Debug("match finished", zap.Int("matches", n))
	},
}

func init() {
	matchCmd.Flags().StringVarP(&matchPattern, "pattern", "p", "", "Pattern to match")
}

var (
	locationStyle = color.New(color.FgCyan)
	captureStyle  = color.New(color.FgYellow)
)

// runMatch prints every node matching src under paths and returns the
// number of matches.
func runMatch(out io.Writer, src string, paths []string) (int, error) {
	if strings.TrimSpace(src) == "" {
		return 0, errNoPattern
	}
	m, err := pattern.CompileString(src)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, root := range paths {
		root = strings.TrimSuffix(root, "/...")
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !internal.IsSourceFile(path) {
				return nil
			}
			n, err := matchFile(out, m, path)
			total += n
			return err
		})
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func matchFile(out io.Writer, m *pattern.Matcher, path string) (int, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	f, err := gosyntax.Parse(path, src)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	count := 0
	f.Walk(func(n syntax.Node) {
		caps, ok := m.Match(n)
		if !ok {
			return
		}
		count++
		pos := f.Position(n.Span().Lo)
		fmt.Fprintf(out, "%s %s\n", locationStyle.Sprintf("%s:%d:%d:", pos.Filename, pos.Line, pos.Column), firstLine(f, n.Span()))
		for _, name := range caps.Names() {
			v, _ := caps.Get(name)
			fmt.Fprintf(out, "\t%s = %s\n", captureStyle.Sprint(name), captureText(f, v))
		}
	})
	return count, nil
}

func captureText(f *gosyntax.File, v pattern.Value) string {
	seq := v.Seq()
	if len(seq) == 0 {
		return "<none>"
	}
	return firstLine(f, seq[0].Span().To(seq[len(seq)-1].Span()))
}

func firstLine(f *gosyntax.File, span syntax.Span) string {
	text := syntax.SnippetOr(f, span, "..")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i] + " ..."
	}
	return text
}
