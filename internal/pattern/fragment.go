package pattern

import (
	"fmt"

	"github.com/gnolang/shapelint/internal/syntax"
)

func builtinFragments() map[string]Fragment {
	return map[string]Fragment{
		"some_loop":    someLoopFragment,
		"expr_or_semi": exprOrSemiFragment,
		"stmt":         stmtFragment,
	}
}

// SomeLoop matches any loop kind with the given body and label slots:
//
//	Loop(body, label) | While(_, body, label) | ForLoop(_, body, label)
func SomeLoop(body, label Pattern) Pattern {
	return Or(
		V(syntax.KindLoop, body, label),
		V(syntax.KindWhile, Any(), body, label),
		V(syntax.KindForLoop, Any(), body, label),
	)
}

// ExprOrSemi matches p wrapped in an expression statement, with or without a
// trailing semicolon.
func ExprOrSemi(p Pattern) Pattern {
	return Or(V(syntax.KindExpr, p), V(syntax.KindSemi, p))
}

// Stmt matches p in statement position: either bare or as ExprOrSemi.
func Stmt(p Pattern) Pattern {
	return Or(p, V(syntax.KindExpr, p), V(syntax.KindSemi, p))
}

func someLoopFragment(args []Pattern) (Pattern, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("want 2 arguments (body, label), got %d", len(args))
	}
	return SomeLoop(args[0], args[1]), nil
}

func exprOrSemiFragment(args []Pattern) (Pattern, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("want 1 argument, got %d", len(args))
	}
	return ExprOrSemi(args[0]), nil
}

func stmtFragment(args []Pattern) (Pattern, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("want 1 argument, got %d", len(args))
	}
	return Stmt(args[0]), nil
}
