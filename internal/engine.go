package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gnolang/shapelint/internal/cache"
	"github.com/gnolang/shapelint/internal/gosyntax"
	"github.com/gnolang/shapelint/internal/lints"
	"github.com/gnolang/shapelint/internal/nolint"
	tt "github.com/gnolang/shapelint/internal/types"
)

// defaultSeverity maps rule categories to the level their issues are
// reported at when the config does not say otherwise.
var defaultSeverity = map[lints.Category]tt.Severity{
	lints.Style:    tt.SeverityWarning,
	lints.Pedantic: tt.SeverityInfo,
}

// DefaultSeverity returns the severity rule reports at when the config does
// not name it.
func DefaultSeverity(rule lints.Rule) tt.Severity {
	if severity, ok := defaultSeverity[rule.Category()]; ok {
		return severity
	}
	return tt.SeverityWarning
}

// configuredRule is a rule together with the severity it reports at.
type configuredRule struct {
	rule     lints.Rule
	severity tt.Severity
}

// Engine manages the linting process.
type Engine struct {
	registry *lints.Registry
	rules    []configuredRule
	cache    *cache.Cache

	mu           sync.RWMutex
	ignoredRules map[string]bool
	ignoredPaths []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry replaces the built-in rule set.
func WithRegistry(r *lints.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithCache makes Run reuse results of unchanged files.
func WithCache(c *cache.Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// NewEngine creates a lint engine. rules overrides the severity of rules by
// name; a rule set to off is not run. Unknown rule names are an error.
func NewEngine(rules map[string]tt.ConfigRule, opts ...Option) (*Engine, error) {
	e := &Engine{ignoredRules: make(map[string]bool)}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = lints.DefaultRegistry()
	}
	if err := e.applyRules(rules); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) error {
	for name := range rules {
		if _, ok := e.registry.Lookup(name); !ok {
			return fmt.Errorf("unknown rule %q in config", name)
		}
	}

	for _, rule := range e.registry.Rules() {
		severity := DefaultSeverity(rule)
		if cfg, ok := rules[rule.Name()]; ok {
			severity = cfg.Severity
		}
		if severity == tt.SeverityOff {
			continue
		}
		e.rules = append(e.rules, configuredRule{rule: rule, severity: severity})
	}
	return nil
}

// Rules returns the names of the rules the engine runs, ignored ones
// excluded.
func (e *Engine) Rules() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var names []string
	for _, r := range e.rules {
		if !e.ignoredRules[r.rule.Name()] {
			names = append(names, r.rule.Name())
		}
	}
	return names
}

// IgnoreRule stops the named rule from running.
func (e *Engine) IgnoreRule(rule string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ignoredRules[rule] = true
}

// IgnorePath excludes files matching the glob pattern from Run. A pattern
// matches either the whole path or any of its elements.
func (e *Engine) IgnorePath(pattern string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ignoredPaths = append(e.ignoredPaths, filepath.Clean(pattern))
}

func (e *Engine) isIgnoredPath(filename string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	clean := filepath.Clean(filename)
	for _, p := range e.ignoredPaths {
		if ok, _ := filepath.Match(p, clean); ok {
			return true
		}
		if strings.HasPrefix(clean, p+string(filepath.Separator)) {
			return true
		}
		for _, elem := range strings.Split(clean, string(filepath.Separator)) {
			if ok, _ := filepath.Match(p, elem); ok {
				return true
			}
		}
	}
	return false
}

// Run applies all lint rules to the given file and returns its issues in
// source order. .gno files share Go syntax and are parsed as they are.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.isIgnoredPath(filename) {
		return nil, nil
	}

	if e.cache == nil {
		src, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("error reading file: %w", err)
		}
		return e.run(filename, src, e.activeRules())
	}

	// the cache holds the results of every configured rule, so the same
	// entries serve runs with different ignored rules
	issues, ok := e.cache.Get(filename)
	if !ok {
		src, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("error reading file: %w", err)
		}
		issues, err = e.run(filename, src, e.allRules())
		if err != nil {
			return nil, err
		}
		if err := e.cache.Set(filename, issues); err != nil {
			return nil, fmt.Errorf("error caching result: %w", err)
		}
	}
	return e.withoutIgnored(issues), nil
}

// Flush persists the cache, if any.
func (e *Engine) Flush() error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Flush()
}

func (e *Engine) allRules() []configuredRule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return append([]configuredRule(nil), e.rules...)
}

func (e *Engine) activeRules() []configuredRule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	active := make([]configuredRule, 0, len(e.rules))
	for _, r := range e.rules {
		if !e.ignoredRules[r.rule.Name()] {
			active = append(active, r)
		}
	}
	return active
}

func (e *Engine) withoutIgnored(issues []tt.Issue) []tt.Issue {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if !e.ignoredRules[issue.Rule] {
			out = append(out, issue)
		}
	}
	return out
}

// RunSource applies all lint rules to the given source.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	return e.run("", source, e.activeRules())
}

func (e *Engine) run(filename string, src []byte, active []configuredRule) ([]tt.Issue, error) {
	f, err := gosyntax.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	nolintMgr := nolint.Parse(f)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		allIssues []tt.Issue
	)
	for _, r := range active {
		wg.Add(1)
		go func(r configuredRule) {
			defer wg.Done()

			diags := lints.Run(f, f.Walk, r.rule)
			issues := make([]tt.Issue, 0, len(diags))
			for _, d := range diags {
				if nolintMgr.IsNolint(int(d.Span.Lo), d.Rule) {
					continue
				}
				issues = append(issues, toIssue(f, r, d))
			}

			mu.Lock()
			allIssues = append(allIssues, issues...)
			mu.Unlock()
		}(r)
	}
	wg.Wait()

	sort.SliceStable(allIssues, func(i, j int) bool {
		a, b := allIssues[i], allIssues[j]
		if a.Start.Offset != b.Start.Offset {
			return a.Start.Offset < b.Start.Offset
		}
		return a.Rule < b.Rule
	})
	return allIssues, nil
}

func toIssue(f *gosyntax.File, r configuredRule, d lints.Diagnostic) tt.Issue {
	issue := tt.Issue{
		Rule:     d.Rule,
		Category: string(r.rule.Category()),
		Filename: f.Filename(),
		Message:  d.Message,
		Note:     d.Help,
		Start:    f.Position(d.Span.Lo),
		End:      f.Position(d.Span.Hi),
		Severity: r.severity,
	}
	if s := d.Suggestion; s != nil {
		issue.Suggestion = s.Replacement
		issue.Applicability = tt.Advisory
		if s.Applicability == lints.MachineApplicable {
			issue.Applicability = tt.MachineApplicable
		}
		issue.Edits = []tt.Edit{{
			Start:   int(s.Span.Lo),
			End:     int(s.Span.Hi),
			NewText: s.Replacement,
		}}
	}
	return issue
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewSourceCode(content), nil
}

// NewSourceCode splits content into lines.
func NewSourceCode(content []byte) *SourceCode {
	return &SourceCode{Lines: strings.Split(string(content), "\n")}
}
