// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/vtx/vtx/internal/log"
)

// ParseString reads a string from an environment variable or returns the
// default value.
func ParseString(key, defaultValue string) string {
	return parseStringWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseStringWithLogger(logger zerolog.Logger, key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		logger.Debug().
			Str("key", key).
			Str("source", "environment").
			Msg("using environment variable")
		return value
	}
	logger.Debug().
		Str("key", key).
		Str("default", defaultValue).
		Str("source", "default").
		Msg("using default value")
	return defaultValue
}

// ParseInt reads an integer from an environment variable or returns the
// default value. Invalid values fall back to the default with a warning.
func ParseInt(key string, defaultValue int) int {
	logger := log.WithComponent("config")
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", value).
			Int("default", defaultValue).
			Msg("invalid integer in environment, using default")
		return defaultValue
	}
	return parsed
}

// ParseDuration reads a duration from an environment variable or returns the
// default value. Invalid values fall back to the default with a warning.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	logger := log.WithComponent("config")
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", value).
			Dur("default", defaultValue).
			Msg("invalid duration in environment, using default")
		return defaultValue
	}
	return parsed
}
