// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "vtx-test", Version: "v0.0.0"})

	l := WithComponent("poller")
	l.Info().Str("event", "test.emit").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "vtx-test", entry["service"])
	assert.Equal(t, "poller", entry["component"])
	assert.Equal(t, "test.emit", entry["event"])
	assert.Equal(t, "hello", entry["message"])
}

func TestWithContextAddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "vtx-test"})

	ctx := ContextWithJobID(context.Background(), "abc123")
	ctx = ContextWithUserID(ctx, "user-1")

	l := WithComponentFromContext(ctx, "watch")
	l.Info().Msg("tick")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc123", entry["job_id"])
	assert.Equal(t, "user-1", entry["user_id"])
}

func TestWithContextNoFieldsReturnsSameLogger(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf})

	l := WithComponent("x")
	got := WithContext(context.Background(), l)
	got.Info().Msg("plain")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	_, hasJob := entry["job_id"]
	assert.False(t, hasJob)
}
