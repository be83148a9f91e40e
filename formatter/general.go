package formatter

const generalTemplate = `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .ShownEndLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{suggestion .Suggestion .Advisory .Padding .MaxLineNumWidth .StartLine -}}
{{note .Note}}
`
