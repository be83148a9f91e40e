package analyzer

import "flag"

func registerFlags(flags *flag.FlagSet, r *runOptions) {
	if flags == nil {
		flags = flag.CommandLine
	}

	flags.Var(disabledValue{r.disabled}, "disable", "comma-separated list of rules to skip")
	flags.BoolVar(&r.advisory, "advisory", r.advisory, "attach suggested fixes that need review")
	flags.BoolVar(&r.generated, "generated", r.generated, "check generated files")
}
