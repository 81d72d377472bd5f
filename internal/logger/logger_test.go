package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlogJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newSlog(&buf, SlogConfig{Level: "info", Format: "json"})

	log.Debug("hidden")
	log.Info("contact created", "contact_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "contact created", entry["msg"])
	assert.Equal(t, float64(7), entry["contact_id"])
	assert.NotEmpty(t, entry["time"])
}

func TestNewSlogTextLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newSlog(&buf, SlogConfig{Level: "WARN", Format: "text"})

	log.Info("dropped")
	log.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "msg=kept")
}
