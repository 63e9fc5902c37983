package audit

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderEmitsStructuredEvent(t *testing.T) {
	var buf bytes.Buffer
	recorder := NewRecorder(zerolog.New(&buf))

	recorder.Record(Event{
		Kind:     KindInsufficientPermissions,
		Level:    LevelWarn,
		Method:   "GET",
		Path:     "/api/admin/users",
		ClientIP: "203.0.113.7",
		Subject:  "user-1",
		Email:    "reader@example.com",
		Role:     "user",
		Fields:   map[string]string{"required_role": "admin"},
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "audit", line["component"])
	assert.Equal(t, "INSUFFICIENT_PERMISSIONS", line["event"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/api/admin/users", line["path"])
	assert.Equal(t, "203.0.113.7", line["client_ip"])
	assert.Equal(t, "user-1", line["subject"])
	assert.Equal(t, "reader@example.com", line["email"])
	assert.Equal(t, "user", line["role"])
	assert.Equal(t, "admin", line["required_role"])
	assert.NotEmpty(t, line["at"])
}

func TestRecorderDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	recorder := NewRecorder(zerolog.New(&buf))

	recorder.Record(Event{
		Kind:     KindAuthorizedAccess,
		Method:   "GET",
		Path:     "/dashboard",
		ClientIP: "203.0.113.7",
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "AUTHORIZED_ACCESS", line["event"])
	_, hasSubject := line["subject"]
	assert.False(t, hasSubject, "anonymous events must not carry a subject")
}
