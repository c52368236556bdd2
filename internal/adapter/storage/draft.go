package storage

import (
	"encoding/json"
	"errors"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/domain"
)

const draftBucket = "drafts"

// ErrDraftNotFound is returned when no draft exists for the session.
var ErrDraftNotFound = errors.New("draft not found")

// Draft is the in-flight transfer form the client persists between
// screens: the creation request plus the raw user-entered amount.
type Draft struct {
	Request     domain.TransferRequest `json:"request"`
	AmountInput string                 `json:"amount_input,omitempty"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// DraftStore persists one draft per session id in a BoltDB file. The core
// engine never touches this; it exists for the client flow only.
type DraftStore struct {
	db *bolt.DB
}

// OpenDraftStore opens (or creates) the BoltDB file and ensures the
// drafts bucket exists.
func OpenDraftStore(path string) (*DraftStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(draftBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &DraftStore{db: db}, nil
}

// Close releases the database file lock.
func (s *DraftStore) Close() error {
	return s.db.Close()
}

// Get retrieves the draft for the session, or ErrDraftNotFound.
func (s *DraftStore) Get(sessionID string) (*Draft, error) {
	var d Draft
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(draftBucket)).Get([]byte(sessionID))
		if v == nil {
			return ErrDraftNotFound
		}
		return json.Unmarshal(v, &d)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Put stores or replaces the session's draft.
func (s *DraftStore) Put(sessionID string, d Draft) error {
	d.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(draftBucket)).Put([]byte(sessionID), data)
	})
}

// Clear removes the session's draft; clearing a missing draft is a no-op.
func (s *DraftStore) Clear(sessionID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(draftBucket)).Delete([]byte(sessionID))
	})
}
