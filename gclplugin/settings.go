package gclplugin

import shapelint "github.com/gnolang/shapelint/analyzer"

// Settings is the plugin configuration.
type Settings struct {
	// Disable lists rules to skip.
	Disable []string `json:"disable,omitzero"`
	// Advisory attaches fixes that need review.
	Advisory *bool `json:"advisory,omitzero"`
}

// Options converts the settings to analyzer options.
func (s Settings) Options() []shapelint.Option {
	var opts []shapelint.Option

	if len(s.Disable) > 0 {
		opts = append(opts, shapelint.WithDisabled(s.Disable...))
	}
	opts = appendOption(opts, s.Advisory, shapelint.WithAdvisoryFixes)

	return opts
}

func appendOption[T any](opts []shapelint.Option, value *T, constructor func(T) shapelint.Option) []shapelint.Option {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}
