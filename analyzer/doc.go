// Package analyzer exposes the shapelint rules as a [analysis.Analyzer], so
// they can run under go vet, gopls, or golangci-lint.
//
// Machine-applicable suggestions are attached as suggested fixes. Advisory
// suggestions are only reported unless the analyzer is created with
// [WithAdvisoryFixes].
//
// # Flags
//
//	-disable string    comma-separated list of rules to skip
//	-advisory          attach suggested fixes that need review
//	-generated         check generated files
package analyzer
