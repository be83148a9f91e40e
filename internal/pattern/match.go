package pattern

import "github.com/gnolang/shapelint/internal/syntax"

// Match evaluates the pattern against n. It returns the captures of the match,
// or (nil, false) when n does not have the described shape.
func (m *Matcher) Match(n syntax.Node) (*Captures, bool) {
	if m == nil || n == nil {
		return nil, false
	}
	var st state
	if !st.matchOne(m.root, n) {
		return nil, false
	}
	return newCaptures(st.binds), true
}

// Found is one match produced by FindAll.
type Found struct {
	Node     syntax.Node
	Captures *Captures
}

// FindAll matches every node of the tree rooted at root, in depth-first order.
func (m *Matcher) FindAll(root syntax.Node) []Found {
	var out []Found
	syntax.Inspect(root, func(n syntax.Node) bool {
		if caps, ok := m.Match(n); ok {
			out = append(out, Found{Node: n, Captures: caps})
		}
		return true
	})
	return out
}

// state is the binding stack of one match attempt. Backtracking truncates it
// to a previously saved length.
type state struct {
	binds []binding
}

func (s *state) mark() int { return len(s.binds) }

func (s *state) reset(mark int) { s.binds = s.binds[:mark] }

func (s *state) bind(name string, v Value) {
	s.binds = append(s.binds, binding{name: name, value: v})
}

func (s *state) matchOne(p Pattern, n syntax.Node) bool {
	if n == nil {
		return false
	}
	switch p := p.(type) {
	case *Wildcard:
		return true

	case *Variant:
		if n.Kind() != p.Kind {
			return false
		}
		if p.AnyChildren {
			return true
		}
		return s.matchSeq(p.Slots, n.Children())

	case *Alternation:
		mark := s.mark()
		for _, b := range p.Branches {
			if s.matchOne(b, n) {
				return true
			}
			s.reset(mark)
		}
		return false

	case *Capture:
		if !s.matchOne(p.Inner, n) {
			return false
		}
		s.bind(p.Name, nodeValue(n))
		return true
	}
	// quantifiers only match inside a slot list
	return false
}

// matchSeq matches the slot items against the whole sibling list kids.
func (s *state) matchSeq(items []Pattern, kids []syntax.Node) bool {
	if len(items) == 0 {
		return len(kids) == 0
	}
	mark := s.mark()
	names, item := unwrapCapture(items[0])
	rest := items[1:]

	switch q := item.(type) {
	case *ZeroOrMore:
		// lazy: the fewest siblings that let the rest of the list match
		for n := 0; ; n++ {
			for _, name := range names {
				s.bind(name, seqValue(kids[:n]))
			}
			if s.matchSeq(rest, kids[n:]) {
				return true
			}
			s.reset(mark)
			if n == len(kids) || !s.matchOne(q.Inner, kids[n]) {
				s.reset(mark)
				return false
			}
			s.reset(mark)
		}

	case *Optional:
		if len(kids) > 0 {
			for _, name := range names {
				s.bind(name, optValue(kids[0]))
			}
			if s.matchOne(q.Inner, kids[0]) && s.matchSeq(rest, kids[1:]) {
				return true
			}
			s.reset(mark)
		}
		for _, name := range names {
			s.bind(name, optValue(nil))
		}
		if s.matchSeq(rest, kids) {
			return true
		}
		s.reset(mark)
		return false

	default:
		if len(kids) == 0 || !s.matchOne(items[0], kids[0]) {
			s.reset(mark)
			return false
		}
		if s.matchSeq(rest, kids[1:]) {
			return true
		}
		s.reset(mark)
		return false
	}
}

// unwrapCapture strips captures wrapped directly around a quantifier, so the
// quantifier can bind the sibling run it consumed.
func unwrapCapture(p Pattern) ([]string, Pattern) {
	var names []string
	inner := p
	for {
		c, ok := inner.(*Capture)
		if !ok {
			break
		}
		names = append(names, c.Name)
		inner = c.Inner
	}
	switch inner.(type) {
	case *ZeroOrMore, *Optional:
		return names, inner
	}
	return nil, p
}
