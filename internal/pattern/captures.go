package pattern

import (
	"sort"

	"github.com/gnolang/shapelint/internal/syntax"
)

// ValueKind tells which shape of value a capture holds.
type ValueKind int

const (
	NodeValue ValueKind = iota + 1 // a single node
	SeqValue                       // an ordered run of sibling nodes
	OptValue                       // a node that may be absent
)

func (k ValueKind) String() string {
	switch k {
	case NodeValue:
		return "node"
	case SeqValue:
		return "sequence"
	case OptValue:
		return "optional"
	default:
		return "unknown"
	}
}

// Value is one captured binding.
type Value struct {
	kind ValueKind
	node syntax.Node
	seq  []syntax.Node
}

func nodeValue(n syntax.Node) Value { return Value{kind: NodeValue, node: n} }
func optValue(n syntax.Node) Value  { return Value{kind: OptValue, node: n} }

func seqValue(ns []syntax.Node) Value {
	seq := make([]syntax.Node, len(ns))
	copy(seq, ns)
	return Value{kind: SeqValue, seq: seq}
}

// Kind returns the value's shape.
func (v Value) Kind() ValueKind { return v.kind }

// Node returns the bound node. It is nil for sequences and absent optionals.
func (v Value) Node() syntax.Node { return v.node }

// Seq returns the bound sequence; a single node is returned as a one-element slice.
func (v Value) Seq() []syntax.Node {
	switch v.kind {
	case SeqValue:
		return v.seq
	case NodeValue, OptValue:
		if v.node != nil {
			return []syntax.Node{v.node}
		}
	}
	return nil
}

// Present reports whether the value holds at least one node.
func (v Value) Present() bool {
	if v.kind == SeqValue {
		return len(v.seq) > 0
	}
	return v.node != nil
}

// Captures holds the bindings of one successful match.
type Captures struct {
	values map[string]Value
}

type binding struct {
	name  string
	value Value
}

func newCaptures(binds []binding) *Captures {
	values := make(map[string]Value, len(binds))
	for _, b := range binds {
		values[b.name] = b.value
	}
	return &Captures{values: values}
}

// Get returns the value bound to name.
func (c *Captures) Get(name string) (Value, bool) {
	if c == nil {
		return Value{}, false
	}
	v, ok := c.values[name]
	return v, ok
}

// Node returns the node bound to name, or nil when name is unbound, absent or
// bound to a sequence.
func (c *Captures) Node(name string) syntax.Node {
	v, _ := c.Get(name)
	return v.Node()
}

// Seq returns the sequence bound to name.
func (c *Captures) Seq(name string) []syntax.Node {
	v, _ := c.Get(name)
	return v.Seq()
}

// Opt returns the node bound to name and whether it is present.
func (c *Captures) Opt(name string) (syntax.Node, bool) {
	v, _ := c.Get(name)
	return v.Node(), v.Node() != nil
}

// Len returns the number of bindings.
func (c *Captures) Len() int {
	if c == nil {
		return 0
	}
	return len(c.values)
}

// Names returns the bound names in sorted order.
func (c *Captures) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
