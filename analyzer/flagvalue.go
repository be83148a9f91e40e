package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gnolang/shapelint/internal/lints"
)

// disabledValue is a flag.Value over the set of disabled rule names.
type disabledValue struct {
	disabled map[string]bool
}

func (v disabledValue) Set(s string) error {
	registry := lints.DefaultRegistry()
	for _, rule := range strings.Split(s, ",") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		if _, ok := registry.Lookup(rule); !ok {
			return fmt.Errorf("unknown rule %q", rule)
		}
		v.disabled[rule] = true
	}

	return nil
}

func (v disabledValue) String() string {
	if v.disabled == nil {
		return ""
	}

	names := make([]string, 0, len(v.disabled))
	for rule, off := range v.disabled {
		if off {
			names = append(names, rule)
		}
	}
	sort.Strings(names)

	return strings.Join(names, ",")
}

func (v disabledValue) Get() any {
	return v.String()
}
