package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "debug", "json")
	defer Initialize("info", "text")

	Info("rental settled", "rental_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "rental settled", entry["msg"])
	assert.Equal(t, float64(7), entry["rental_id"])
}

func TestInitializeWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "warn", "text")
	defer Initialize("info", "text")

	Info("hidden")
	Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestHTTPRequest_UsesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "info", "text")
	defer Initialize("info", "text")

	ctx := WithContext(context.Background(), Get().With("request_id", "abc"))
	HTTPRequest(ctx, "GET", "/api/v1/rentals/mine", 404, 5*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "request_id=abc")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status=404")
}
