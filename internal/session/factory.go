// SPDX-License-Identifier: MIT

package session

import (
	"fmt"
	"path/filepath"

	"github.com/vtx/vtx/internal/config"
)

// Open creates the session store selected by the configuration.
func Open(cfg config.AppConfig) (Store, error) {
	switch cfg.SessionBackend {
	case "badger":
		return OpenBadgerStore(filepath.Join(cfg.DataDir, "session"))
	case "redis":
		return NewRedisStore(RedisConfig{Addr: cfg.RedisAddr})
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
