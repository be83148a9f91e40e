// Package internal provides the linting engine behind shapelint.
//
// Key components:
//
// Engine: coordinates the linting process. It holds the configured rules from
// a lints.Registry, runs them concurrently over each file, drops issues
// suppressed by //nolint comments and converts rule diagnostics into
// types.Issue values carrying byte-offset edits.
//
// Watch: re-lints files as they change, driven by fsnotify.
//
// SourceCode: the lines of a source file, used when rendering issues.
//
// Usage:
//
//	engine, err := internal.NewEngine(nil)
//	if err != nil {
//	    // handle error
//	}
//
//	issues, err := engine.Run("path/to/file.go")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, issue := range issues {
//	    fmt.Printf("Found issue: %s at %s\n", issue.Message, issue.Start)
//	}
//
// This package is intended for internal use within the linting tool and should not be
// imported by external packages.
package internal
