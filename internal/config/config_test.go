// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"empty base url", func(c *AppConfig) { c.BaseURL = "" }},
		{"bad scheme", func(c *AppConfig) { c.BaseURL = "ftp://example.com" }},
		{"empty data dir", func(c *AppConfig) { c.DataDir = "" }},
		{"zero log buffer", func(c *AppConfig) { c.LogBufferSize = 0 }},
		{"tiny poll interval", func(c *AppConfig) { c.PollInterval = 10 * time.Millisecond }},
		{"negative watch timeout", func(c *AppConfig) { c.WatchTimeout = -time.Second }},
		{"unknown session backend", func(c *AppConfig) { c.SessionBackend = "etcd" }},
		{"redis backend without addr", func(c *AppConfig) {
			c.SessionBackend = "redis"
			c.RedisAddr = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestLoaderPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: http://file.example:9000\npoll_interval: 2s\nlog_buffer_size: 16\n",
	), 0o600))

	t.Setenv("VTX_BASE_URL", "http://env.example:7000")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	// ENV beats file, file beats defaults, defaults fill the rest.
	assert.Equal(t, "http://env.example:7000", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 16, cfg.LogBufferSize)
	assert.Equal(t, Defaults().ActivityInterval, cfg.ActivityInterval)
}

func TestLoaderNoFileNoEnvEqualsDefaults(t *testing.T) {
	cfg, err := NewLoader("").Load()
	require.NoError(t, err)
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Errorf("loaded config differs from defaults (-want +got):\n%s", diff)
	}
}

func TestLoaderMissingFileFails(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	assert.Error(t, err)
}

func TestLoaderEnvOnly(t *testing.T) {
	t.Setenv("VTX_POLL_INTERVAL", "900ms")
	t.Setenv("VTX_MAX_POLL_FAILURES", "3")

	cfg, err := NewLoader("").Load()
	require.NoError(t, err)
	assert.Equal(t, 900*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 3, cfg.MaxPollFailures)
}

func TestParseHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("VTX_TEST_INT", "not-a-number")
	t.Setenv("VTX_TEST_DUR", "soon")

	assert.Equal(t, 42, ParseInt("VTX_TEST_INT", 42))
	assert.Equal(t, time.Minute, ParseDuration("VTX_TEST_DUR", time.Minute))
	assert.Equal(t, "fallback", ParseString("VTX_TEST_ABSENT", "fallback"))
}
