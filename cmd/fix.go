package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/shapelint/internal/fixer"
	"github.com/gnolang/shapelint/lint"
)

var (
	dryRun   bool
	advisory bool
)

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Automatically fix issues",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := newEngine()
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		code := runAutoFix(ctx, logger, engine, args, dryRun, advisory, os.Stdout)
		if err := engine.Flush(); err != nil {
			logger.Warn("Failed to write lint cache", zap.Error(err))
		}
		if code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	fixCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run in dry-run mode (show fixes without applying them)")
	fixCmd.Flags().BoolVar(&advisory, "advisory", false, "Also apply suggestions that need review")
}

func runAutoFix(ctx context.Context, logger *zap.Logger, engine lint.LintEngine, paths []string, dryRun, advisory bool, out io.Writer) int {
	fix := fixer.New(logger, out, dryRun, advisory)

	code := 0
	for _, path := range paths {
		issues, err := lint.ProcessPath(ctx, logger, engine, path, lint.ProcessFile)
		if err != nil {
			logger.Error("error processing path", zap.String("path", path), zap.Error(err))
			code = 1
			continue
		}

		issuesByFile, sortedFiles := groupByFile(issues)
		for _, filename := range sortedFiles {
			res, err := fix.Fix(filename, issuesByFile[filename])
			if err != nil {
				logger.Error("error fixing issues", zap.String("file", filename), zap.Error(err))
				code = 1
				continue
			}
			logger.Debug("fixed file", zap.String("file", filename), zap.Int("applied", res.Applied), zap.Int("skipped", res.Skipped))
		}
	}
	return code
}
