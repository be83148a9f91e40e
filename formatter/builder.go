// Package formatter renders lint issues in a compiler-style layout: a header
// naming the rule and location, the offending source lines with the issue
// underlined, then the suggested rewrite and a note.
package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/gnolang/shapelint/internal"
	tt "github.com/gnolang/shapelint/internal/types"
)

const (
	tabWidth = 8
	// maxSnippetLines caps how much of a long span is echoed.
	maxSnippetLines = 8
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	infoStyle       = color.New(color.FgHiCyan, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
)

var issueTemplate = template.Must(template.New("issue").Funcs(template.FuncMap{
	"header":              header,
	"snippet":             codeSnippet,
	"underlineAndMessage": underlineAndMessage,
	"suggestion":          suggestion,
	"note":                note,
}).Parse(generalTemplate))

// GenerateFormattedIssue formats a slice of issues into a human-readable
// string. All issues must come from the file whose lines are in snippet.
func GenerateFormattedIssue(issues []tt.Issue, snippet *internal.SourceCode) string {
	var builder strings.Builder
	for _, issue := range issues {
		builder.WriteString(buildIssue(issue, snippet))
	}
	return builder.String()
}

/***** Issue Formatter Builder *****/

type IssueData struct {
	Category        string
	Severity        string
	Rule            string
	Filename        string
	Padding         string
	StartLine       int
	StartColumn     int
	EndLine         int
	EndColumn       int
	ShownEndLine    int
	MaxLineNumWidth int
	Message         string
	Suggestion      []string
	Advisory        bool
	Note            string
	SnippetLines    []string
	CommonIndent    string
}

func buildIssue(issue tt.Issue, snippet *internal.SourceCode) string {
	if snippet == nil {
		snippet = &internal.SourceCode{}
	}
	startLine := issue.Start.Line
	endLine := issue.End.Line
	if endLine < startLine {
		endLine = startLine
	}
	shownEnd := endLine
	if shownEnd-startLine+1 > maxSnippetLines {
		shownEnd = startLine + maxSnippetLines - 1
	}

	var commonIndent string
	if isValidLineRange(startLine, shownEnd, snippet.Lines) {
		commonIndent = findCommonIndent(snippet.Lines[startLine-1 : shownEnd])
	}

	suggestionLines := suggestionLines(issue, snippet.Lines)
	maxLineNumWidth := calculateMaxLineNumWidth(max(shownEnd, startLine+len(suggestionLines)-1))

	data := IssueData{
		Severity:        issue.Severity.String(),
		Category:        issue.Category,
		Rule:            issue.Rule,
		Filename:        issue.Filename,
		StartLine:       startLine,
		StartColumn:     issue.Start.Column,
		EndLine:         endLine,
		EndColumn:       issue.End.Column,
		ShownEndLine:    shownEnd,
		Message:         issue.Message,
		Suggestion:      suggestionLines,
		Advisory:        issue.Applicability == tt.Advisory,
		Note:            issue.Note,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
		CommonIndent:    commonIndent,
		SnippetLines:    snippet.Lines,
	}

	var buf bytes.Buffer
	if err := issueTemplate.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v", err)
	}
	return buf.String()
}

// suggestionLines returns the replacement text as it would sit in the file,
// with the indentation common to all of its lines removed.
func suggestionLines(issue tt.Issue, lines []string) []string {
	if issue.Suggestion == "" {
		return nil
	}
	var indent string
	if l := issue.Start.Line; l > 0 && l <= len(lines) {
		line := lines[l-1]
		indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	}
	out := strings.Split(indent+issue.Suggestion, "\n")
	common := findCommonIndent(out)
	for i, line := range out {
		out[i] = strings.TrimPrefix(line, common)
	}
	return out
}

// utils functions used in the text templates

func header(rule string, severity string, maxLineNumWidth int, filename string, startLine int, startColumn int) string {
	var endString string
	switch severity {
	case "ERROR":
		endString = errorStyle.Sprint("error: ")
	case "WARNING":
		endString = warningStyle.Sprint("warning: ")
	case "INFO":
		endString = infoStyle.Sprint("info: ")
	}

	endString += ruleStyle.Sprintf("%s\n", rule)

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	endString += fileStyle.Sprintf("%s:%d:%d", filename, startLine, startColumn)

	return endString + "\n"
}

func codeSnippet(snippetLines []string, startLine, shownEndLine, endLine, maxLineNumWidth int, commonIndent, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)

	for i := startLine; i <= shownEndLine; i++ {
		if i-1 < 0 || i-1 >= len(snippetLines) {
			continue
		}
		line := strings.TrimPrefix(snippetLines[i-1], commonIndent)
		endString += lineStyle.Sprintf("%*d | ", maxLineNumWidth, i) + line + "\n"
	}
	if shownEndLine < endLine {
		endString += lineStyle.Sprintf("%s| ...\n", padding)
	}

	return endString
}

// underlineAndMessage marks the columns of a single-line issue with tildes
// and prints the message. Multi-line issues only get the message.
func underlineAndMessage(message, padding string, startLine, endLine, startColumn, endColumn int, snippetLines []string, commonIndent string) string {
	var endString string

	if startLine == endLine && isValidLineRange(startLine, endLine, snippetLines) {
		line := snippetLines[startLine-1]
		commonIndentWidth := calculateVisualColumn(commonIndent, len(commonIndent)+1)

		underlineStart := max(calculateVisualColumn(line, startColumn)-commonIndentWidth, 0)
		underlineEnd := calculateVisualColumn(line, endColumn) - commonIndentWidth
		underlineLength := max(underlineEnd-underlineStart, 1)

		endString += lineStyle.Sprintf("%s| ", padding)
		endString += strings.Repeat(" ", underlineStart)
		endString += messageStyle.Sprintf("%s\n", strings.Repeat("~", underlineLength))
	}

	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", message)

	return endString
}

func suggestion(lines []string, advisory bool, padding string, maxLineNumWidth int, startLine int) string {
	if len(lines) == 0 {
		return ""
	}

	title := "Suggestion:\n"
	if advisory {
		title = "Suggestion (review before applying):\n"
	}
	endString := suggestionStyle.Sprint(title)
	endString += lineStyle.Sprintf("%s|\n", padding)

	for i, line := range lines {
		endString += lineStyle.Sprintf("%*d | ", maxLineNumWidth, startLine+i) + line + "\n"
	}

	endString += lineStyle.Sprintf("%s|\n", padding)
	return endString
}

func note(note string) string {
	if note == "" {
		return ""
	}

	endString := suggestionStyle.Sprint("Note: ")
	endString += lineStyle.Sprintf("%s\n", note)
	return endString
}

func isValidLineRange(startLine int, endLine int, snippetLines []string) bool {
	return startLine > 0 &&
		endLine > 0 &&
		startLine <= endLine &&
		startLine <= len(snippetLines) &&
		endLine <= len(snippetLines)
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}

// calculateVisualColumn returns the display width of line up to the 1-based
// byte column, expanding tabs and counting wide runes twice.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn += runewidth.RuneWidth(ch)
		}
	}
	return visualColumn
}

// findCommonIndent finds the common indent in the code snippet.
func findCommonIndent(lines []string) string {
	var common []rune
	found := false

	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}
		current := []rune(line[:len(line)-len(trimmed)])
		if !found {
			common, found = current, true
			continue
		}
		common = commonPrefix(common, current)
		if len(common) == 0 {
			break
		}
	}

	return string(common)
}

// commonPrefix finds the common prefix of two strings.
func commonPrefix(a, b []rune) []rune {
	minLen := min(len(a), len(b))
	for i := 0; i < minLen; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:minLen]
}
