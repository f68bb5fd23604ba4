package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	badger "github.com/dgraph-io/badger/v4"

	"depwarden/internal/ports"
	"depwarden/internal/types"
)

// BadgerSuppressionStore persists acknowledgments in an embedded badger
// database. Keys embed the manifest fingerprint, so a changed manifest
// stops matching without any cleanup job; stale entries are garbage only
// in the logical sense and can be compacted lazily by badger itself.
// Badger transactions give the at-most-one-writer-per-key semantics the
// acknowledgment/invalidation race requires.
type BadgerSuppressionStore struct {
	db *badger.DB
}

func NewBadgerSuppressionStore(path string) (*BadgerSuppressionStore, error) {
	options := badger.DefaultOptions(path).WithLogger(nil)
	return openBadgerStore(options)
}

// NewInMemorySuppressionStore backs the store with badger's in-memory
// mode. Used by tests and by one-shot runs that do not carry state.
func NewInMemorySuppressionStore() (*BadgerSuppressionStore, error) {
	options := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	return openBadgerStore(options)
}

func openBadgerStore(options badger.Options) (*BadgerSuppressionStore, error) {
	db, err := badger.Open(options)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open suppression store").
			WithCause(err)
	}
	return &BadgerSuppressionStore{db: db}, nil
}

func suppressionKey(requestID string, coordinate types.Coordinate, fingerprint string) []byte {
	return []byte(fmt.Sprintf("ack/%s/%s/%s#%s", requestID, coordinate.Registry, coordinate.Name, fingerprint))
}

func (s *BadgerSuppressionStore) IsSuppressed(ctx context.Context, requestID string, coordinate types.Coordinate, fingerprint string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(suppressionKey(requestID, coordinate, fingerprint))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("suppression lookup failed").
			WithCause(err)
	}
	return found, nil
}

func (s *BadgerSuppressionStore) Acknowledge(ctx context.Context, requestID string, coordinate types.Coordinate, fingerprint string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := types.SuppressionEntry{
		Coordinate:          coordinate,
		ManifestFingerprint: fingerprint,
		AcknowledgedAt:      at.UTC(),
	}
	value, err := json.Marshal(entry)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode suppression entry").
			WithCause(err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(suppressionKey(requestID, coordinate, fingerprint), value)
	})
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write suppression entry").
			WithCause(err)
	}
	return nil
}

func (s *BadgerSuppressionStore) Close() error {
	return s.db.Close()
}

var _ ports.SuppressionStorePort = (*BadgerSuppressionStore)(nil)
