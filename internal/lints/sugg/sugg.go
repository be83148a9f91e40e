// Package sugg builds condition text for suggestions.
package sugg

import (
	"strings"

	"github.com/gnolang/shapelint/internal/syntax"
)

// And joins two conditions with &&. Operands that bind looser than && are
// parenthesized.
func And(src syntax.Source, l, r syntax.Node, def string) string {
	return operand(src, l, def) + " && " + operand(src, r, def)
}

// Not returns the text of the negated condition. Double negations cancel,
// atomic operands take a bare '!' and everything else is parenthesized. For a
// condition with an init statement only the expression part is negated.
func Not(src syntax.Source, n syntax.Node, def string) string {
	if n == nil {
		return def
	}
	text := syntax.SnippetOr(src, n.Span(), def)

	switch n.Kind() {
	case syntax.KindLet:
		kids := n.Children()
		if len(kids) != 2 {
			return "!(" + text + ")"
		}
		init := syntax.SnippetOr(src, kids[0].Span(), def)
		return init + "; " + Not(src, kids[1], def)

	case syntax.KindNot:
		kids := n.Children()
		if len(kids) != 1 {
			return "!(" + text + ")"
		}
		inner := kids[0]
		if inner.Kind() == syntax.KindParen && len(inner.Children()) == 1 {
			inner = inner.Children()[0]
		}
		return syntax.SnippetOr(src, inner.Span(), def)

	case syntax.KindIdent, syntax.KindCall, syntax.KindParen,
		syntax.KindSelector, syntax.KindIndex, syntax.KindBasicLit:
		return "!" + text

	default:
		return "!(" + strings.TrimSpace(text) + ")"
	}
}

func operand(src syntax.Source, n syntax.Node, def string) string {
	if n == nil {
		return def
	}
	text := syntax.SnippetOr(src, n.Span(), def)
	if n.Kind() == syntax.KindOr {
		return "(" + text + ")"
	}
	return text
}
