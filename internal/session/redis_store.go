// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session state in redis, for setups where several machines
// share one identity (e.g. a CI pool driving the same account).
type RedisStore struct {
	client *redis.Client
}

// RedisConfig holds redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Close releases the redis client.
func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) put(ctx context.Context, key string, v any) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, buf, 0).Err()
}

func (s *RedisStore) get(ctx context.Context, key string, v any) error {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(val, v)
}

// PutSession stores the auth session.
func (s *RedisStore) PutSession(ctx context.Context, sess Session) error {
	return s.put(ctx, sessionKey, sess)
}

// GetSession loads the auth session, or ErrNotFound when logged out.
func (s *RedisStore) GetSession(ctx context.Context) (Session, error) {
	var sess Session
	if err := s.get(ctx, sessionKey, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// DeleteSession removes the auth session.
func (s *RedisStore) DeleteSession(ctx context.Context) error {
	return s.client.Del(ctx, sessionKey).Err()
}

// PutJobMeta stores the per-job metadata record.
func (s *RedisStore) PutJobMeta(ctx context.Context, meta JobMeta) error {
	return s.put(ctx, jobMetaPrefix+meta.JobID, meta)
}

// GetJobMeta loads the metadata record for a job id.
func (s *RedisStore) GetJobMeta(ctx context.Context, jobID string) (JobMeta, error) {
	var meta JobMeta
	if err := s.get(ctx, jobMetaPrefix+jobID, &meta); err != nil {
		return JobMeta{}, err
	}
	return meta, nil
}
