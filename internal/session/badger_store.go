// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore is the default, file-backed session store.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a badger database at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error { return s.db.Close() }

func (s *BadgerStore) put(key string, v any) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), buf)
	})
}

func (s *BadgerStore) get(key string, v any) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

// PutSession stores the auth session.
func (s *BadgerStore) PutSession(_ context.Context, sess Session) error {
	return s.put(sessionKey, sess)
}

// GetSession loads the auth session, or ErrNotFound when logged out.
func (s *BadgerStore) GetSession(_ context.Context) (Session, error) {
	var sess Session
	if err := s.get(sessionKey, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// DeleteSession removes the auth session. Deleting an absent session is not
// an error.
func (s *BadgerStore) DeleteSession(_ context.Context) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(sessionKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// PutJobMeta stores the per-job metadata record.
func (s *BadgerStore) PutJobMeta(_ context.Context, meta JobMeta) error {
	return s.put(jobMetaPrefix+meta.JobID, meta)
}

// GetJobMeta loads the metadata record for a job id.
func (s *BadgerStore) GetJobMeta(_ context.Context, jobID string) (JobMeta, error) {
	var meta JobMeta
	if err := s.get(jobMetaPrefix+jobID, &meta); err != nil {
		return JobMeta{}, err
	}
	return meta, nil
}
