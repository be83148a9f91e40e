package analyzer

// Option configures an analyzer created by [New].
type Option interface {
	apply(r *runOptions)
}

// Options is a list of [Option] values that also implements [Option].
type Options []Option

func (o Options) apply(r *runOptions) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

// WithDisabled skips the named rules. Unknown names are ignored.
func WithDisabled(rules ...string) Option { return disabledOption{rules: rules} }

type disabledOption struct{ rules []string }

func (o disabledOption) apply(r *runOptions) {
	for _, rule := range o.rules {
		r.disabled[rule] = true
	}
}

// WithAdvisoryFixes attaches suggested fixes to advisory diagnostics too.
func WithAdvisoryFixes(advisory bool) Option { return advisoryOption{advisory: advisory} }

type advisoryOption struct{ advisory bool }

func (o advisoryOption) apply(r *runOptions) {
	r.advisory = o.advisory
}

// WithGenerated enables checking of generated files.
func WithGenerated(generated bool) Option { return generatedOption{generated: generated} }

type generatedOption struct{ generated bool }

func (o generatedOption) apply(r *runOptions) {
	r.generated = o.generated
}
