package model

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReportEnvelope(t *testing.T) {
	report := NewReport("System.InvalidOperationException", "", 0, "", "at Foo.Bar()", "1.2.0.0", 1700000000000000000)
	envelope := NewReportEnvelope(report, "test-device")

	body, err := json.Marshal(envelope)
	require.NoError(t, err)

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))

	content, ok := decoded["Content"]
	require.True(t, ok, "payload must be wrapped in a Content envelope")

	assert.Equal(t, "System.InvalidOperationException", content["Type"])
	assert.Equal(t, "at Foo.Bar()", content["StackTrace"])
	assert.Equal(t, "1.2.0.0", content["AppVersion"])
	assert.Equal(t, "test-device", content["Device"])
	assert.NotEmpty(t, content["CrashDateTime"])

	// absent optionals are omitted, not serialized as empty values
	_, hasMessage := content["Message"]
	assert.False(t, hasMessage)
	_, hasHelpLink := content["HelpLink"]
	assert.False(t, hasHelpLink)
	_, hasHResult := content["HResult"]
	assert.False(t, hasHResult)
}

func TestNewReportUidsSortInGenerationOrder(t *testing.T) {
	a := NewReport("A", "", 0, "", "", "1.0", 100)
	b := NewReport("A", "", 0, "", "", "1.0", 100)
	assert.NotEqual(t, a.Uid, b.Uid)
	assert.Less(t, a.Uid, b.Uid)
}
