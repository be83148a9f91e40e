package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/shapelint/internal"
	"github.com/gnolang/shapelint/internal/lints"
	tt "github.com/gnolang/shapelint/internal/types"
	"github.com/gnolang/shapelint/lint"
)

// initCmd: shapelint init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new linter configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfigurationFile(cfgFile); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return
		}
		fmt.Printf("Configuration file created/updated: %s\n", cfgFile)
	},
}

func initConfigurationFile(configurationPath string) error {
	if configurationPath == "" {
		configurationPath = lint.DefaultConfigFile
	}

	config := lint.Config{
		Name:  "shapelint",
		Rules: make(map[string]tt.ConfigRule),
	}
	for _, rule := range lints.DefaultRegistry().Rules() {
		config.Rules[rule.Name()] = tt.ConfigRule{Severity: internal.DefaultSeverity(rule)}
	}

	return lint.WriteConfig(configurationPath, config)
}
