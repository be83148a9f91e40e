package lints

import (
	"strings"

	"github.com/gnolang/shapelint/internal/lints/sugg"
	"github.com/gnolang/shapelint/internal/pattern"
	"github.com/gnolang/shapelint/internal/snippet"
	"github.com/gnolang/shapelint/internal/syntax"
)

// Both shapes look at the loop body's top-level statements:
//
//	for {                         for {
//		// region A                   // region A
//		if cond {                     if cond {
//			// region B                   continue
//		} else {                      } else {
//			continue                      // region B
//		}                             }
//		// region C                   // region C
//	}                             }
//
// On the left region C can move into the then block and the else block can
// go. On the right the condition can be negated so region B and C form the
// body of a single if.
const (
	elseHoldsContinuePattern = `some_loop(
		Block(
			_*
			stmt(If(
				_#if_cond,
				_#if_block,
				Block(stmt(Continue(_?#continue_label)) _*)#else_expr
			)#if_expr)
			_*#region_c
		),
		_?#loop_label
	)`

	thenHoldsContinuePattern = `some_loop(
		Block(
			_*
			stmt(If(
				_#if_cond,
				Block(stmt(Continue(_?#continue_label)) _*)#if_block,
				_#else_expr
			)#if_expr)
			_*#region_c
		),
		_?#loop_label
	)`
)

const (
	msgRedundantElseBlock     = "this else block is redundant"
	msgElseBlockNotNeeded     = "there is no need for an explicit `else` block for this `if` statement"
	helpDropElseBlockAndMerge = "consider dropping the else clause and merging the code that follows (in the loop) with the if block"
	helpDropElseBlock         = "consider dropping the else clause, negating the condition and moving the code in the else block into the if block"
)

// indentUnit is the indentation added for statements moved into a new block.
const indentUnit = "\t"

// NeedlessContinue reports continue statements that a rearrangement of the
// loop body makes unnecessary.
type NeedlessContinue struct {
	elseHolds *pattern.Matcher
	thenHolds *pattern.Matcher
}

var _ Rule = (*NeedlessContinue)(nil)

// NewNeedlessContinue compiles the rule's patterns.
func NewNeedlessContinue() *NeedlessContinue {
	return &NeedlessContinue{
		elseHolds: pattern.MustCompileString(elseHoldsContinuePattern),
		thenHolds: pattern.MustCompileString(thenHoldsContinuePattern),
	}
}

func (*NeedlessContinue) Name() string { return "needless-continue" }

func (*NeedlessContinue) Category() Category { return Pedantic }

func (*NeedlessContinue) Doc() string {
	return "`continue` statements that can be replaced by a rearrangement of code"
}

func (r *NeedlessContinue) Check(ctx *Context, n syntax.Node) {
	switch n.Kind() {
	case syntax.KindLoop, syntax.KindWhile, syntax.KindForLoop:
	default:
		return
	}
	if n.Span().FromExpansion() {
		return
	}
	r.checkElseBlock(ctx, n)
	r.checkThenBlock(ctx, n)
}

func (r *NeedlessContinue) checkElseBlock(ctx *Context, loop syntax.Node) {
	caps, ok := r.elseHolds.Match(loop)
	if !ok || !labelsAgree(caps) {
		return
	}
	elseExpr := caps.Node("else_expr")
	if elseExpr.Span().FromExpansion() {
		return
	}

	ifExpr, tail := caps.Node("if_expr"), caps.Seq("region_c")
	head := ctx.Snippet(caps.Node("if_cond").Span(), "..")
	body := blockBody(ctx, caps.Node("if_block"))
	span, replacement := rebuildIf(ctx, ifExpr, head, body, tail)

	applicability := MachineApplicable
	if snippet.ContainsComment(ctx.Snippet(elseExpr.Span(), "")) || anyFromExpansion(tail) ||
		(len(tail) > 0 && declaresNames(caps.Node("if_cond"), caps.Node("if_block"))) {
		applicability = Advisory
	}

	ctx.Report(Diagnostic{
		Rule:    r.Name(),
		Span:    elseExpr.Span(),
		Message: msgRedundantElseBlock,
		Help:    helpDropElseBlockAndMerge,
		Suggestion: &Suggestion{
			Span:          span,
			Message:       helpDropElseBlockAndMerge,
			Replacement:   replacement,
			Applicability: applicability,
		},
	})
}

func (r *NeedlessContinue) checkThenBlock(ctx *Context, loop syntax.Node) {
	caps, ok := r.thenHolds.Match(loop)
	if !ok || !labelsAgree(caps) {
		return
	}
	if caps.Node("if_block").Span().FromExpansion() {
		return
	}

	ifExpr, tail := caps.Node("if_expr"), caps.Seq("region_c")
	head := sugg.Not(ctx.Source, caps.Node("if_cond"), "..")

	var body string
	elseExpr := caps.Node("else_expr")
	if elseExpr.Kind() == syntax.KindBlock {
		body = blockBody(ctx, elseExpr)
	} else {
		// else if: the whole chain moves
		body = snippet.TrimMultiline(ctx.Snippet(elseExpr.Span(), ""), true)
	}
	span, replacement := rebuildIf(ctx, ifExpr, head, body, tail)

	// negating arbitrary conditions by text is never applied automatically
	ctx.Report(Diagnostic{
		Rule:    r.Name(),
		Span:    ifExpr.Span(),
		Message: msgElseBlockNotNeeded,
		Help:    helpDropElseBlock,
		Suggestion: &Suggestion{
			Span:          span,
			Message:       helpDropElseBlock,
			Replacement:   replacement,
			Applicability: Advisory,
		},
	})
}

func labelsAgree(caps *pattern.Captures) bool {
	loopLabel, _ := caps.Opt("loop_label")
	contLabel, _ := caps.Opt("continue_label")
	return compareLabels(loopLabel, contLabel)
}

// blockBody returns the statements of a block with braces and common
// indentation removed.
func blockBody(ctx *Context, block syntax.Node) string {
	return snippet.TrimMultiline(snippet.ErodeBlock(ctx.Snippet(block.Span(), "")), false)
}

// tailText returns the source from the end of ifExpr through the last tail
// statement, so comments between tail statements survive the move.
func tailText(ctx *Context, ifExpr syntax.Node, tail []syntax.Node) string {
	if len(tail) == 0 {
		return ""
	}
	start := ifExpr.Span()
	span := syntax.Span{Lo: start.Hi, Hi: tail[len(tail)-1].Span().Hi, Ctx: start.Ctx}
	text := strings.TrimLeft(ctx.Snippet(span, ""), " \t\r\n;")
	return snippet.TrimMultiline(text, true)
}

// rebuildIf returns the span from ifExpr through the tail together with
//
//	if HEAD {
//		BODY
//		TAIL
//	}
//
// indented to the column of ifExpr.
func rebuildIf(ctx *Context, ifExpr syntax.Node, head, body string, tail []syntax.Node) (syntax.Span, string) {
	span := ifExpr.Span()
	if len(tail) > 0 {
		span = span.To(tail[len(tail)-1].Span())
	}

	var b strings.Builder
	b.WriteString("if " + head + " {\n")
	for _, part := range []string{body, tailText(ctx, ifExpr, tail)} {
		if strings.TrimSpace(part) == "" {
			continue
		}
		b.WriteString(snippet.IndentLines(part, indentUnit))
		b.WriteByte('\n')
	}
	b.WriteString("}")

	return span, snippet.Reindent(b.String(), syntax.IndentOf(ctx.Source, ifExpr.Span()))
}

// declaresNames reports whether the init statement of cond or a top-level
// statement of block introduces names. Moving the tail into block would put
// it in their scope.
func declaresNames(cond, block syntax.Node) bool {
	if cond.Kind() == syntax.KindLet {
		return true
	}
	for _, stmt := range block.Children() {
		if stmt.Kind() == syntax.KindDecl {
			return true
		}
	}
	return false
}

func anyFromExpansion(nodes []syntax.Node) bool {
	for _, n := range nodes {
		if n.Span().FromExpansion() {
			return true
		}
	}
	return false
}
