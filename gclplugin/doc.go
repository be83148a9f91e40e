/*
Package gclplugin provides golangci-lint plugin integration for the [shapelint] analyzer.

# Usage

1. Add a file `.custom-gcl.yaml` to your source with:

	---
	version: v2.7.0

	name: golangci-lint
	destination: .

	plugins:
	  - module: github.com/gnolang/shapelint
	    import: github.com/gnolang/shapelint/gclplugin
	    version: v0.1.0

2. Run `golangci-lint custom` from your project root.

3. Configure the linter in `.golangci.yaml`:

	---
	version: "2"
	linters:
	  default: none
	  enable:
	    - shapelint
	  settings:
	    custom:
	      shapelint:
	        type: module
	        description: "shapelint simplifies nested ifs and needless continues."
	        settings:
	          disable:
	            - needless-continue

4. Run the linter:

	./golangci-lint run .

[shapelint]: https://pkg.go.dev/github.com/gnolang/shapelint/analyzer
*/
package gclplugin
