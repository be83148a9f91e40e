package cmd

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/shapelint/lint"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "shapelint [paths...]",
	Short:            "shapelint - simplify the shape of if statements and loops",
	TraverseChildren: true, // Prioritize subcommands
	SilenceUsage:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle (rootCmd -> lintCmd -> newEngine -> configPath -> rootCmd).
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		// no subcommand
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		// shapelint [path1 path2 ...] behaves like the lint subcommand
		lintCmd.Run(lintCmd, args)
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", lint.DefaultConfigFile, "Path to the configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Set a timeout for the linter")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable development logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(rulesCmd)
}

// configPath returns the configuration file to load. The default file is
// optional; an explicitly named one must exist.
func configPath() (string, error) {
	if _, err := os.Stat(cfgFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !rootCmd.PersistentFlags().Changed("config") {
			return "", nil
		}
		return "", err
	}
	return cfgFile, nil
}
