package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/kaspa-ecosystem/discovery/internal/domain/interaction"
)

// BadgerStore keeps the record in an embedded badger database.
type BadgerStore struct {
	db  *badger.DB
	key []byte
	own bool
}

// OpenBadger opens (or creates) a database at dir. An empty dir opens an
// in-memory database.
func OpenBadger(dir, session string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	s := NewBadgerStore(db, session)
	s.own = true
	return s, nil
}

// NewBadgerStore uses an already open database.
func NewBadgerStore(db *badger.DB, session string) *BadgerStore {
	return &BadgerStore{db: db, key: []byte(Key(session))}
}

// Load returns the stored record or interaction.ErrNotFound.
func (s *BadgerStore) Load(_ context.Context) (*interaction.Record, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return interaction.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get record: %w", err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return interaction.Unmarshal(data)
}

// Save replaces the stored record.
func (s *BadgerStore) Save(_ context.Context, rec *interaction.Record) error {
	data, err := interaction.Marshal(rec)
	if err != nil {
		return err
	}
	return observed(BackendBadger, func() error {
		return s.db.Update(func(txn *badger.Txn) error {
			if err := txn.Set(s.key, data); err != nil {
				return fmt.Errorf("set record: %w", err)
			}
			return nil
		})
	})
}

// Close closes the database when this store opened it.
func (s *BadgerStore) Close() error {
	if !s.own {
		return nil
	}
	return s.db.Close()
}
