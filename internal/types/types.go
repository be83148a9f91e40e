package types

import (
	"fmt"
	"go/token"
	"strings"
)

// Issue represents a lint issue found in the code base.
type Issue struct {
	Rule          string         `json:"rule" msgpack:"rule"`
	Category      string         `json:"category,omitempty" msgpack:"category"`
	Filename      string         `json:"filename" msgpack:"filename"`
	Message       string         `json:"message" msgpack:"message"`
	Suggestion    string         `json:"suggestion,omitempty" msgpack:"suggestion"`
	Note          string         `json:"note,omitempty" msgpack:"note"`
	Start         token.Position `json:"start" msgpack:"start"`
	End           token.Position `json:"end" msgpack:"end"`
	Severity      Severity       `json:"severity" msgpack:"severity"`
	Applicability Applicability  `json:"applicability,omitempty" msgpack:"applicability"`
	Edits         []Edit         `json:"edits,omitempty" msgpack:"edits"`
}

// Fixable reports whether the issue carries edits that may be applied
// without review.
func (i Issue) Fixable() bool {
	return i.Applicability == MachineApplicable && len(i.Edits) > 0
}

// Edit replaces the bytes [Start, End) of a file with NewText.
type Edit struct {
	Start   int    `json:"start" msgpack:"start"`
	End     int    `json:"end" msgpack:"end"`
	NewText string `json:"new_text" msgpack:"new_text"`
}

// Applicability tells whether the edits of an issue may be applied
// automatically.
type Applicability string

const (
	MachineApplicable Applicability = "machine-applicable"
	Advisory          Applicability = "advisory"
)

// Severity is the level an issue is reported at.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityOff:
		return "OFF"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ParseSeverity is the inverse of Severity.String. It is case insensitive.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return SeverityError, nil
	case "WARNING", "WARN":
		return SeverityWarning, nil
	case "INFO":
		return SeverityInfo, nil
	case "OFF":
		return SeverityOff, nil
	default:
		return SeverityError, fmt.Errorf("unknown severity %q", s)
	}
}

// MarshalText lets config files spell severities by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ConfigRule is the per-rule section of a config file.
type ConfigRule struct {
	Severity Severity `yaml:"severity" toml:"severity"`
}
