package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/shapelint/formatter"
	"github.com/gnolang/shapelint/internal"
	"github.com/gnolang/shapelint/internal/cache"
	tt "github.com/gnolang/shapelint/internal/types"
	"github.com/gnolang/shapelint/lint"
)

var (
	ignoreRules    string
	ignorePaths    string
	lintJsonOutput bool
	outPath        string
	cacheDir       string
	watchMode      bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Run the normal lint process",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		engine, err := newEngine()
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		for _, rule := range splitList(ignoreRules) {
			engine.IgnoreRule(rule)
		}
		for _, path := range splitList(ignorePaths) {
			engine.IgnorePath(path)
		}

		if watchMode {
			runWatch(logger, engine, args)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		code := runNormalLintProcess(ctx, logger, engine, args, lintJsonOutput, outPath, os.Stdout)
		if err := engine.Flush(); err != nil {
			logger.Warn("Failed to write lint cache", zap.Error(err))
		}
		if code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	lintCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of lint rules to ignore")
	lintCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	lintCmd.Flags().BoolVar(&lintJsonOutput, "json", false, "Output issues in JSON format")
	lintCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	lintCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Directory for cached lint results")
	lintCmd.Flags().BoolVar(&watchMode, "watch", false, "Re-lint files whenever they change")
}

func newEngine() (*internal.Engine, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	var opts []internal.Option
	if cacheDir != "" {
		var deps []string
		if path != "" {
			deps = append(deps, path)
		}
		c, err := cache.New(cacheDir, deps...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, internal.WithCache(c))
	}

	return lint.New(path, opts...)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func runNormalLintProcess(ctx context.Context, logger *zap.Logger, engine lint.LintEngine, paths []string, isJson bool, jsonOutput string, out io.Writer) int {
	var issues []tt.Issue
	for _, path := range paths {
		found, err := lint.ProcessPath(ctx, logger, engine, path, lint.ProcessFile)
		if err != nil {
			logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			return 1
		}
		issues = append(issues, found...)
	}

	if err := printIssues(logger, issues, isJson, jsonOutput, out); err != nil {
		logger.Error("Error printing issues", zap.Error(err))
		return 1
	}

	for _, issue := range issues {
		if issue.Severity == tt.SeverityError {
			return 1
		}
	}
	return 0
}

func groupByFile(issues []tt.Issue) (map[string][]tt.Issue, []string) {
	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	return issuesByFile, sortedFiles
}

func printIssues(logger *zap.Logger, issues []tt.Issue, isJson bool, jsonOutput string, out io.Writer) error {
	issuesByFile, sortedFiles := groupByFile(issues)

	if !isJson {
		for _, filename := range sortedFiles {
			sourceCode, err := internal.ReadSourceCode(filename)
			if err != nil {
				logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
				continue
			}
			fmt.Fprintln(out, formatter.GenerateFormattedIssue(issuesByFile[filename], sourceCode))
		}
		return nil
	}

	d, err := json.Marshal(issuesByFile)
	if err != nil {
		return fmt.Errorf("marshalling issues to JSON: %w", err)
	}
	if jsonOutput == "" {
		_, err = fmt.Fprintln(out, string(d))
		return err
	}
	if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
		return fmt.Errorf("writing JSON output file: %w", err)
	}
	return nil
}

func runWatch(logger *zap.Logger, engine *internal.Engine, paths []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dirs := make([]string, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			logger.Fatal("Cannot watch path", zap.String("path", path), zap.Error(err))
		}
		if !info.IsDir() {
			path = filepath.Dir(path)
		}
		dirs = append(dirs, path)
	}

	logger.Info("Watching for changes", zap.Strings("dirs", dirs))
	err := engine.Watch(ctx, dirs, func(filename string, issues []tt.Issue, err error) {
		if err != nil {
			logger.Error("Error linting file", zap.String("file", filename), zap.Error(err))
			return
		}
		if len(issues) == 0 {
			logger.Info("No issues", zap.String("file", filename))
			return
		}
		if err := printIssues(logger, issues, lintJsonOutput, "", os.Stdout); err != nil {
			logger.Error("Error printing issues", zap.Error(err))
		}
	})
	if err != nil && ctx.Err() == nil {
		logger.Fatal("Watch failed", zap.Error(err))
	}
}
