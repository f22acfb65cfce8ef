package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		format     string
		logDebug   bool
		expectJSON bool
	}{
		{name: "json info drops debug", level: "info", format: "json", expectJSON: true},
		{name: "debug level keeps debug", level: "DEBUG", format: "json", logDebug: true, expectJSON: true},
		{name: "unknown level falls back to info", level: "loud", format: "json", expectJSON: true},
		{name: "console output", level: "info", format: "console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(tt.level, tt.format, &buf)

			logger.Debug().Msg("debug line")
			if tt.logDebug {
				assert.Contains(t, buf.String(), "debug line")
			} else {
				assert.NotContains(t, buf.String(), "debug line")
			}

			buf.Reset()
			logger.Info().Str("tower", "404-45-101-12345").Msg("resolved")
			if tt.expectJSON {
				var entry map[string]interface{}
				require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
				assert.Equal(t, "info", entry["level"])
				assert.Equal(t, "resolved", entry["message"])
				assert.Equal(t, "404-45-101-12345", entry["tower"])
			} else {
				assert.Contains(t, buf.String(), "resolved")
				assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
			}
		})
	}
}
