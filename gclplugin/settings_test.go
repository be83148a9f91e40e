package gclplugin_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/gnolang/shapelint/gclplugin"
)

const allSettings = `{
	"disable": ["needless-continue"],
	"advisory": true
}`

func TestSettings(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name     string
		settings string
		want     int
	}{
		{"all", allSettings, reflect.TypeFor[Settings]().NumField()},
		{"none", `{}`, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dec := json.NewDecoder(strings.NewReader(tc.settings))
			dec.DisallowUnknownFields()

			var s Settings
			require.NoError(t, dec.Decode(&s))
			assert.Len(t, s.Options(), tc.want)
		})
	}
}

func TestPlugin(t *testing.T) {
	t.Parallel()

	p, err := New(map[string]any{"disable": []any{"collapsible-if"}})
	require.NoError(t, err)
	assert.Equal(t, "syntax", p.GetLoadMode())

	analyzers, err := p.BuildAnalyzers()
	require.NoError(t, err)
	require.Len(t, analyzers, 1)
	assert.Equal(t, "shapelint", analyzers[0].Name)
}
