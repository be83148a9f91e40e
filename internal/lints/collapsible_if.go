package lints

import (
	"github.com/gnolang/shapelint/internal/lints/sugg"
	"github.com/gnolang/shapelint/internal/pattern"
	"github.com/gnolang/shapelint/internal/snippet"
	"github.com/gnolang/shapelint/internal/syntax"
)

const (
	// if a { if b { .. } }
	ifWithoutElsePattern = `If(_#check, Block(stmt(If(_#check_inner, _#content)#inner))#then)`
	// if a { .. } else { if b { .. } }
	ifElseIfPattern = `If(_, _, Block(stmt(If(_, _, _?)#else_if))#block)`
)

// CollapsibleIf reports nested ifs that can be merged into one condition and
// else blocks that only hold another if.
type CollapsibleIf struct {
	withoutElse *pattern.Matcher
	elseIf      *pattern.Matcher
}

var _ Rule = (*CollapsibleIf)(nil)

// NewCollapsibleIf compiles the rule's patterns.
func NewCollapsibleIf() *CollapsibleIf {
	return &CollapsibleIf{
		withoutElse: pattern.MustCompileString(ifWithoutElsePattern),
		elseIf:      pattern.MustCompileString(ifElseIfPattern),
	}
}

func (*CollapsibleIf) Name() string { return "collapsible-if" }

func (*CollapsibleIf) Category() Category { return Style }

func (*CollapsibleIf) Doc() string {
	return "`if`s that can be collapsed (e.g. `if x { if y { .. } }` and `else { if x { .. } }`)"
}

func (r *CollapsibleIf) Check(ctx *Context, n syntax.Node) {
	if n.Kind() != syntax.KindIf || n.Span().FromExpansion() {
		return
	}
	if caps, ok := r.withoutElse.Match(n); ok {
		r.collapseNested(ctx, n, caps)
	}
	if caps, ok := r.elseIf.Match(n); ok {
		r.collapseElse(ctx, caps)
	}
}

func (r *CollapsibleIf) collapseNested(ctx *Context, expr syntax.Node, caps *pattern.Captures) {
	check, checkInner := caps.Node("check"), caps.Node("check_inner")
	// merging two conditions with init statements would change their scope
	if check.Kind() == syntax.KindLet || checkInner.Kind() == syntax.KindLet {
		return
	}
	inner, then := caps.Node("inner"), caps.Node("then")
	if expr.Span().Ctx != inner.Span().Ctx || inner.Label() != "" {
		return
	}
	if hasCommentAround(ctx, then, inner) || hasCommentInHeader(ctx, expr, check, then) ||
		hasCommentInHeader(ctx, inner, checkInner, caps.Node("content")) {
		return
	}
	body, ok := ctx.Source.Snippet(caps.Node("content").Span())
	if !ok {
		return
	}

	replacement := "if " + sugg.And(ctx.Source, check, checkInner, "..") + " " + snippet.TrimMultiline(body, true)
	replacement = snippet.Reindent(replacement, syntax.IndentOf(ctx.Source, expr.Span()))

	ctx.Report(Diagnostic{
		Rule:    r.Name(),
		Span:    expr.Span(),
		Message: "this if statement can be collapsed",
		Suggestion: &Suggestion{
			Span:          expr.Span(),
			Message:       "try",
			Replacement:   replacement,
			Applicability: MachineApplicable,
		},
	})
}

func (r *CollapsibleIf) collapseElse(ctx *Context, caps *pattern.Captures) {
	block, elseIf := caps.Node("block"), caps.Node("else_if")
	// the label sits outside the if's span and would be lost
	if elseIf.Span().FromExpansion() || elseIf.Label() != "" {
		return
	}
	if hasCommentAround(ctx, block, elseIf) {
		return
	}
	text, ok := ctx.Source.Snippet(elseIf.Span())
	if !ok {
		return
	}

	replacement := snippet.Reindent(snippet.TrimMultiline(text, true), syntax.IndentOf(ctx.Source, block.Span()))

	ctx.Report(Diagnostic{
		Rule:    r.Name(),
		Span:    block.Span(),
		Message: "this `else { if .. }` block can be collapsed",
		Suggestion: &Suggestion{
			Span:          block.Span(),
			Message:       "try",
			Replacement:   replacement,
			Applicability: MachineApplicable,
		},
	})
}

// hasCommentInHeader reports whether the text of an if statement around its
// condition, up to the opening brace of block, holds a comment.
func hasCommentInHeader(ctx *Context, ifStmt, cond, block syntax.Node) bool {
	s, c, b := ifStmt.Span(), cond.Span(), block.Span()
	for _, gap := range []syntax.Span{{Lo: s.Lo, Hi: c.Lo, Ctx: s.Ctx}, {Lo: c.Hi, Hi: b.Lo, Ctx: s.Ctx}} {
		text, ok := ctx.Source.Snippet(gap)
		if !ok || snippet.ContainsComment(text) {
			return true
		}
	}
	return false
}

// hasCommentAround reports whether block holds a comment outside of inner,
// which a collapse would drop. Text that cannot be resolved counts as
// commented.
func hasCommentAround(ctx *Context, block, inner syntax.Node) bool {
	text, ok := ctx.Source.Snippet(block.Span())
	if !ok {
		return true
	}
	if snippet.StartsWithComment(text) {
		return true
	}
	bs, is := block.Span(), inner.Span()
	if is.Lo < bs.Lo || is.Hi > bs.Hi || is.Lo > is.Hi {
		return true
	}
	rest := text[:is.Lo-bs.Lo] + text[is.Hi-bs.Lo:]
	return snippet.ContainsComment(rest)
}
