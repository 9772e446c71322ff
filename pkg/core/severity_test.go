package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "unknown", Severity(42).String())
}

func TestSeverityOrdering(t *testing.T) {
	// Errors sort before warnings, warnings before info.
	assert.Less(t, int(SeverityError), int(SeverityWarning))
	assert.Less(t, int(SeverityWarning), int(SeverityInfo))
}

func TestSeverityJSON(t *testing.T) {
	data, err := json.Marshal(SeverityWarning)
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(data))

	var s Severity
	require.NoError(t, json.Unmarshal([]byte(`"error"`), &s))
	assert.Equal(t, SeverityError, s)

	assert.Error(t, json.Unmarshal([]byte(`"fatal"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`3`), &s))
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
		ok   bool
	}{
		{"error", SeverityError, true},
		{"warning", SeverityWarning, true},
		{"info", SeverityInfo, true},
		{"ERROR", SeverityError, true},
		{"Warning", SeverityWarning, true},
		{"fatal", SeverityWarning, false},
		{"", SeverityWarning, false},
	}
	for _, tt := range tests {
		got, ok := ParseSeverity(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseSeverity(%q) ok", tt.in)
		assert.Equal(t, tt.want, got, "ParseSeverity(%q)", tt.in)
	}
}
