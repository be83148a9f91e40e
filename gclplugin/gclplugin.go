package gclplugin

import (
	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	shapelint "github.com/gnolang/shapelint/analyzer"
)

func init() { register.Plugin("shapelint", New) }

// New decodes the plugin settings.
func New(rawSettings any) (register.LinterPlugin, error) {
	settings, err := register.DecodeSettings[Settings](rawSettings)
	if err != nil {
		return nil, err
	}

	return Plugin{settings: settings}, nil
}

// Plugin is the shapelint golangci-lint plugin.
type Plugin struct {
	settings Settings
}

// GetLoadMode returns the load mode. The rules only look at syntax.
func (Plugin) GetLoadMode() string {
	return register.LoadModeSyntax
}

// BuildAnalyzers returns the configured shapelint analyzer.
func (p Plugin) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	opts := append(p.settings.Options(), shapelint.WithGenerated(true))
	a := shapelint.New(opts...)

	return []*analysis.Analyzer{a}, nil
}
