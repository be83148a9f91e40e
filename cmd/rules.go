package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/shapelint/internal/lints"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available rules",
	Run: func(cmd *cobra.Command, args []string) {
		if err := printRules(os.Stdout, lints.DefaultRegistry()); err != nil {
			logger.Error("Error listing rules", zap.Error(err))
		}
	},
}

func printRules(out io.Writer, registry *lints.Registry) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tDESCRIPTION")
	for _, name := range registry.Names() {
		rule, _ := registry.Lookup(name)
		fmt.Fprintf(w, "%s\t%s\t%s\n", rule.Name(), rule.Category(), rule.Doc())
	}
	return w.Flush()
}
