package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Severity
	}{
		{"error", SeverityError},
		{"WARNING", SeverityWarning},
		{"warn", SeverityWarning},
		{" Info ", SeverityInfo},
		{"off", SeverityOff},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseSeverity(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			back, err := ParseSeverity(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, back)
		})
	}

	_, err := ParseSeverity("loud")
	assert.Error(t, err)
	assert.Equal(t, "Severity(9)", Severity(9).String())
}

func TestConfigRuleYAML(t *testing.T) {
	t.Parallel()

	var rules map[string]ConfigRule
	err := yaml.Unmarshal([]byte("collapsible-if:\n  severity: off\nneedless-continue:\n  severity: info\n"), &rules)
	require.NoError(t, err)
	assert.Equal(t, SeverityOff, rules["collapsible-if"].Severity)
	assert.Equal(t, SeverityInfo, rules["needless-continue"].Severity)

	err = yaml.Unmarshal([]byte("x:\n  severity: loud\n"), &rules)
	assert.Error(t, err)
}

func TestIssueFixable(t *testing.T) {
	t.Parallel()

	edit := []Edit{{Start: 0, End: 1, NewText: "x"}}
	assert.True(t, Issue{Applicability: MachineApplicable, Edits: edit}.Fixable())
	assert.False(t, Issue{Applicability: Advisory, Edits: edit}.Fixable())
	assert.False(t, Issue{Applicability: MachineApplicable}.Fixable())
}
