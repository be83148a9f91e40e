/*
Package pattern implements declarative tree shapes and a matcher that evaluates them
against syntax.Node trees.

# Overview

A Pattern describes a tree shape. It is built once, either with the constructor
functions (V, Kind, Any, Or, Bind, Many, Maybe) or from the textual DSL (Parse),
validated by Compile into an immutable Matcher, and then shared by every match of
the rule that owns it.

	m := pattern.MustCompileString(`If(_#cond, Block(If(_#inner_cond, _#body)#inner)#then)`)
	if caps, ok := m.Match(node); ok {
		cond := caps.Node("cond")
		...
	}

# Pattern Syntax

  - Kind(a, b, ...): a node whose kind is Kind and whose children, in order, are
    matched by the slot list a, b, .... Every child must be consumed. Commas
    between slots are optional.
    Example: If(_, Block)

  - Kind: a node of that kind, children unconstrained.

  - _: any single node; binds nothing.

  - p*: zero or more siblings matched by p. Only valid inside a slot list.
  - p?: zero or one sibling matched by p. Only valid inside a slot list.

  - a | b: the first of a, b that matches.

  - p#name: capture what p matched under name. A capture on p* binds the
    matched sibling sequence, on p? an optional node (absent when nothing matched).

  - name(args...): a fragment, expanded at parse time. Built in:
    some_loop(body, label), expr_or_semi(p) and stmt(p).

  - // comments run to the end of the line.

# Matching Rules

 1. Matching is purely structural; the matcher performs no hygiene checks.
    Rules compare expansion contexts themselves after a match.

 2. Repetition is lazy: in `_* Anchor _*#rest` the anchor is the earliest sibling
    that satisfies it, and rest is everything after that sibling.

 3. Optional slots try to consume one sibling before trying none.

 4. Alternation returns the first branch that matches. Branches may bind the same
    capture name; only the bindings of the winning branch survive.

 5. A mismatch is a normal outcome, reported as (nil, false).

# Compile Errors

Compile rejects duplicate capture names, quantifiers outside a slot list, nested
quantifiers and captures inside a quantifier. These are programming errors in a
rule's pattern and are meant to stop the program at startup (MustCompile).
*/
package pattern
