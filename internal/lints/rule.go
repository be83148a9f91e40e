package lints

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gnolang/shapelint/internal/syntax"
)

// Applicability tells whether a suggestion may be applied without review.
type Applicability int

const (
	// MachineApplicable suggestions preserve behavior and can be applied
	// automatically.
	MachineApplicable Applicability = iota
	// Advisory suggestions need a human to confirm them.
	Advisory
)

func (a Applicability) String() string {
	switch a {
	case MachineApplicable:
		return "machine-applicable"
	case Advisory:
		return "advisory"
	default:
		return fmt.Sprintf("Applicability(%d)", int(a))
	}
}

// Suggestion is a proposed replacement of the text under Span.
type Suggestion struct {
	Span          syntax.Span
	Message       string
	Replacement   string
	Applicability Applicability
}

// Diagnostic is one finding of a rule.
type Diagnostic struct {
	Rule       string
	Span       syntax.Span
	Message    string
	Help       string
	Suggestion *Suggestion
}

// Context is handed to rules for one analysis pass. It resolves spans to
// text and forwards diagnostics to the caller's sink.
type Context struct {
	Source syntax.Source
	report func(Diagnostic)
}

// NewContext returns a Context reading text from src and sending every
// diagnostic to report. report may be called from several goroutines when
// rules run concurrently.
func NewContext(src syntax.Source, report func(Diagnostic)) *Context {
	return &Context{Source: src, report: report}
}

// Report emits d.
func (c *Context) Report(d Diagnostic) {
	if c.report != nil {
		c.report(d)
	}
}

// Snippet returns the text of span, or def when it cannot be resolved.
func (c *Context) Snippet(span syntax.Span, def string) string {
	return syntax.SnippetOr(c.Source, span, def)
}

// Category is the group a rule belongs to.
type Category string

const (
	// Style rules flag code that should be written more idiomatically.
	Style Category = "style"
	// Pedantic rules are stricter and may have false positives.
	Pedantic Category = "pedantic"
)

// Rule inspects single nodes. Rules keep no state between calls, so one
// value can serve any number of files concurrently.
type Rule interface {
	// Name returns the rule identifier used in configs and nolint comments.
	Name() string
	// Doc returns a one-line description.
	Doc() string
	// Category groups rules by how strongly they are recommended.
	Category() Category
	// Check examines n and reports through ctx. Nodes the rule does not care
	// about are ignored.
	Check(ctx *Context, n syntax.Node)
}

// Registry is an ordered, immutable set of rules keyed by name.
type Registry struct {
	rules  []Rule
	byName map[string]Rule
}

// NewRegistry returns a registry holding rules in the given order.
func NewRegistry(rules ...Rule) (*Registry, error) {
	r := &Registry{byName: make(map[string]Rule, len(rules))}
	for _, rule := range rules {
		name := rule.Name()
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("rule %q registered twice", name)
		}
		r.byName[name] = rule
		r.rules = append(r.rules, rule)
	}
	return r, nil
}

// DefaultRegistry returns a registry with every built-in rule.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(NewCollapsibleIf(), NewNeedlessContinue())
	if err != nil {
		panic(err)
	}
	return r
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Lookup returns the rule called name.
func (r *Registry) Lookup(name string) (Rule, bool) {
	rule, ok := r.byName[name]
	return rule, ok
}

// Names returns the sorted rule names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Walker feeds every node of one unit to visit.
type Walker func(visit func(syntax.Node))

// Run checks every node produced by walk against each rule and returns the
// diagnostics in the order they were reported.
func Run(src syntax.Source, walk Walker, rules ...Rule) []Diagnostic {
	var c Collector
	ctx := NewContext(src, c.Report)
	walk(func(n syntax.Node) {
		for _, rule := range rules {
			rule.Check(ctx, n)
		}
	})
	return c.Diagnostics()
}

// Collector is a diagnostic sink that stores what it receives. It is safe
// for concurrent use.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Report appends d.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of everything reported so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.diags...)
}

// compareLabels reports whether a continue carrying contLabel restarts the
// loop carrying loopLabel. Either node may be nil when the label is absent.
func compareLabels(loopLabel, contLabel syntax.Node) bool {
	switch {
	case contLabel == nil:
		return true
	case loopLabel == nil:
		return false
	default:
		return loopLabel.Label() == contLabel.Label()
	}
}
