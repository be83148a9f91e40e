// Package snippet turns raw block text into fragments that can be spliced into
// replacement source. Every function is total: malformed or brace-less input
// degrades to a shorter (possibly empty) string, never to an error.
package snippet

import (
	"strings"
	"unicode"
)

// ErodeFromFront skips leading whitespace, then opening braces, then blanks
// that follow the brace on its line, then newlines.
//
//	"    {\n        something();\n    }"  =>  "        something();\n    }"
//	"{ a(); }"                            =>  "a(); }"
func ErodeFromFront(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	s = strings.TrimLeft(s, "{")
	s = strings.TrimLeft(s, " \t")
	return strings.TrimLeft(s, "\r\n")
}

// ErodeFromBack drops everything from the last closing brace on, then the
// whitespace before it. Without a closing brace the result is empty.
//
//	"{\n    let x = 5;\n}"  =>  "{\n    let x = 5;"
func ErodeFromBack(s string) string {
	i := strings.LastIndexByte(s, '}')
	if i < 0 {
		return ""
	}
	return strings.TrimRightFunc(s[:i], unicode.IsSpace)
}

// ErodeBlock returns the contents of a braced block, or "" when s has no
// closing brace.
func ErodeBlock(s string) string {
	return ErodeFromBack(ErodeFromFront(s))
}

// TrimMultiline removes the indentation common to all non-blank lines: first
// leading tabs, then leading spaces. Relative indentation is kept. With
// ignoreFirst set the first line neither counts nor changes, which suits text
// that starts in the middle of a line.
func TrimMultiline(s string, ignoreFirst bool) string {
	s = trimIndent(s, ignoreFirst, '\t')
	return trimIndent(s, ignoreFirst, ' ')
}

func trimIndent(s string, ignoreFirst bool, ch byte) string {
	lines := strings.Split(s, "\n")
	common := -1
	for i, line := range lines {
		if (ignoreFirst && i == 0) || isBlank(line) {
			continue
		}
		n := leading(line, ch)
		if common < 0 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return s
	}
	for i, line := range lines {
		if ignoreFirst && i == 0 {
			continue
		}
		if isBlank(line) {
			lines[i] = ""
			continue
		}
		lines[i] = line[common:]
	}
	return strings.Join(lines, "\n")
}

// Reindent prefixes every non-blank line after the first with indent. Use it
// for replacement text whose first line lands at an existing position.
func Reindent(s, indent string) string {
	if indent == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if !isBlank(lines[i]) {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// IndentLines prefixes every non-blank line of s with indent.
func IndentLines(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !isBlank(line) {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

// LeadingIndent returns the run of blanks at the start of line.
func LeadingIndent(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// StartsWithComment reports whether block text, once opening braces and
// whitespace are stripped, begins with a comment.
func StartsWithComment(block string) bool {
	trimmed := strings.TrimLeftFunc(block, func(r rune) bool {
		return unicode.IsSpace(r) || r == '{'
	})
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*")
}

// ContainsComment reports whether s holds a line or block comment outside of
// string and character literals.
func ContainsComment(s string) bool {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case c == '\\' && quote != '`':
				i++
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '/':
			if i+1 < len(s) && (s[i+1] == '/' || s[i+1] == '*') {
				return true
			}
		}
	}
	return false
}

func leading(line string, ch byte) int {
	n := 0
	for n < len(line) && line[n] == ch {
		n++
	}
	return n
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
