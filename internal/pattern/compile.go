package pattern

import (
	"errors"
	"fmt"
)

var (
	ErrNilPattern       = errors.New("nil pattern")
	ErrEmptyKind        = errors.New("variant without kind")
	ErrEmptyAlternation = errors.New("alternation without branches")
	ErrCaptureName      = errors.New("invalid capture name")
	ErrDuplicateCapture = errors.New("duplicate capture")
	ErrCaptureKind      = errors.New("capture bound with different shapes")
	ErrQuantifier       = errors.New("quantifier outside a sibling sequence")
	ErrNestedQuantifier = errors.New("nested quantifier")
	ErrCaptureInRepeat  = errors.New("capture inside a quantifier")
)

// Matcher is a compiled, immutable Pattern. It is safe for concurrent use.
type Matcher struct {
	root  Pattern
	names map[string]ValueKind
}

// Compile validates p and returns its Matcher.
func Compile(p Pattern) (*Matcher, error) {
	c := &compiler{kinds: make(map[string]ValueKind)}
	if _, err := c.check(p, false, false); err != nil {
		return nil, err
	}
	return &Matcher{root: p, names: c.kinds}, nil
}

// MustCompile is like Compile but panics on error. Use it for patterns
// built at program start.
func MustCompile(p Pattern) *Matcher {
	m, err := Compile(p)
	if err != nil {
		panic(fmt.Sprintf("pattern: Compile(%s): %v", p, err))
	}
	return m
}

// CompileString parses src and compiles the result.
func CompileString(src string, opts ...Option) (*Matcher, error) {
	p, err := Parse(src, opts...)
	if err != nil {
		return nil, err
	}
	return Compile(p)
}

// MustCompileString is like CompileString but panics on error.
func MustCompileString(src string, opts ...Option) *Matcher {
	m, err := CompileString(src, opts...)
	if err != nil {
		panic(fmt.Sprintf("pattern: CompileString(%q): %v", src, err))
	}
	return m
}

// Pattern returns the pattern m was compiled from.
func (m *Matcher) Pattern() Pattern { return m.root }

// Captures returns the capture names declared by the pattern and the shape
// each one binds.
func (m *Matcher) Captures() map[string]ValueKind {
	out := make(map[string]ValueKind, len(m.names))
	for k, v := range m.names {
		out[k] = v
	}
	return out
}

func (m *Matcher) String() string { return m.root.String() }

type nameSet map[string]struct{}

type compiler struct {
	kinds map[string]ValueKind
}

// check validates p and returns the capture names it binds. inSlot is set when
// p is an item of a slot list, inRepeat when p sits under a quantifier.
func (c *compiler) check(p Pattern, inSlot, inRepeat bool) (nameSet, error) {
	switch p := p.(type) {
	case nil:
		return nil, ErrNilPattern

	case *Wildcard:
		return nameSet{}, nil

	case *Variant:
		if p == nil {
			return nil, ErrNilPattern
		}
		if p.Kind == "" {
			return nil, ErrEmptyKind
		}
		names := nameSet{}
		if p.AnyChildren {
			return names, nil
		}
		for _, slot := range p.Slots {
			sub, err := c.check(slot, true, inRepeat)
			if err != nil {
				return nil, err
			}
			if err := merge(names, sub); err != nil {
				return nil, err
			}
		}
		return names, nil

	case *Alternation:
		if p == nil {
			return nil, ErrNilPattern
		}
		if len(p.Branches) == 0 {
			return nil, ErrEmptyAlternation
		}
		// branches are exclusive, so they may reuse names
		names := nameSet{}
		for _, b := range p.Branches {
			sub, err := c.check(b, false, inRepeat)
			if err != nil {
				return nil, err
			}
			for n := range sub {
				names[n] = struct{}{}
			}
		}
		return names, nil

	case *Capture:
		if p == nil {
			return nil, ErrNilPattern
		}
		if !validName(p.Name) {
			return nil, fmt.Errorf("%w: %q", ErrCaptureName, p.Name)
		}
		if inRepeat {
			return nil, fmt.Errorf("%w: %q", ErrCaptureInRepeat, p.Name)
		}
		sub, err := c.check(p.Inner, inSlot, inRepeat)
		if err != nil {
			return nil, err
		}
		if _, dup := sub[p.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCapture, p.Name)
		}
		kind := valueKindOf(p.Inner)
		if prev, seen := c.kinds[p.Name]; seen && prev != kind {
			return nil, fmt.Errorf("%w: %q is a %s and a %s", ErrCaptureKind, p.Name, prev, kind)
		}
		c.kinds[p.Name] = kind
		sub[p.Name] = struct{}{}
		return sub, nil

	case *ZeroOrMore:
		if p == nil {
			return nil, ErrNilPattern
		}
		return c.checkRepeat(p, p.Inner, inSlot)

	case *Optional:
		if p == nil {
			return nil, ErrNilPattern
		}
		return c.checkRepeat(p, p.Inner, inSlot)

	default:
		return nil, fmt.Errorf("unknown pattern type %T", p)
	}
}

func (c *compiler) checkRepeat(p, inner Pattern, inSlot bool) (nameSet, error) {
	if !inSlot {
		return nil, fmt.Errorf("%w: %s", ErrQuantifier, p)
	}
	switch inner.(type) {
	case *ZeroOrMore, *Optional:
		return nil, fmt.Errorf("%w: %s", ErrNestedQuantifier, p)
	}
	return c.check(inner, false, true)
}

func merge(dst, src nameSet) error {
	for n := range src {
		if _, dup := dst[n]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateCapture, n)
		}
		dst[n] = struct{}{}
	}
	return nil
}

func valueKindOf(p Pattern) ValueKind {
	for {
		c, ok := p.(*Capture)
		if !ok {
			break
		}
		p = c.Inner
	}
	switch p.(type) {
	case *ZeroOrMore:
		return SeqValue
	case *Optional:
		return OptValue
	default:
		return NodeValue
	}
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isIdentChar(name[i]) {
			return false
		}
	}
	return true
}
