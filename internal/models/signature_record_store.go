package models

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/ocnetwork/walletauth/internal/storage"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const DefaultRecordsNamespace = "signatures"

// StoredSignatureRecord is a record together with the key it is stored under.
type StoredSignatureRecord struct {
	Key string `json:"key"`
	SignatureRecord
}

// SignatureRecordStore keeps signature records for history and debugging. It
// stores what it is given and never re-derives validity.
type SignatureRecordStore struct {
	kv        storage.KV
	namespace string
	window    time.Duration
}

func NewSignatureRecordStore(kv storage.KV, namespace string, window time.Duration) *SignatureRecordStore {
	if namespace == "" {
		namespace = DefaultRecordsNamespace
	}

	return &SignatureRecordStore{
		kv:        kv,
		namespace: namespace,
		window:    window,
	}
}

// DefaultKey is the key a record is saved under when none is given.
func DefaultKey(record *SignatureRecord) string {
	return record.Address + "_" + strconv.FormatInt(record.Timestamp, 10)
}

// Save inserts or overwrites record under key, or under DefaultKey when key is
// empty, and returns the key used.
func (s *SignatureRecordStore) Save(ctx context.Context, record *SignatureRecord, key string) (string, error) {
	if key == "" {
		key = DefaultKey(record)
	}

	value, err := json.Marshal(record)
	if err != nil {
		return "", errors.Wrap(err, "error encoding signature record")
	}

	if err := s.kv.Set(ctx, s.namespace, key, value); err != nil {
		return "", err
	}

	return key, nil
}

func (s *SignatureRecordStore) Get(ctx context.Context, key string) (*SignatureRecord, error) {
	value, err := s.kv.Get(ctx, s.namespace, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, SignatureRecordNotFoundError{}
		}
		return nil, err
	}

	record, err := ParseSignatureRecord(value)
	if err != nil {
		return nil, &storage.StorageError{Op: "decode", Namespace: s.namespace, Key: key, Err: err}
	}

	return record, nil
}

func (s *SignatureRecordStore) Delete(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, s.namespace, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return SignatureRecordNotFoundError{}
		}
		return err
	}
	return nil
}

// All returns every stored record. Entries that no longer decode are skipped.
func (s *SignatureRecordStore) All(ctx context.Context) ([]*StoredSignatureRecord, error) {
	entries, err := s.kv.List(ctx, s.namespace)
	if err != nil {
		return nil, err
	}

	records := make([]*StoredSignatureRecord, 0, len(entries))
	for _, entry := range entries {
		record, err := ParseSignatureRecord(entry.Value)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"component": "signature_records",
				"namespace": s.namespace,
				"key":       entry.Key,
			}).Warn("skipping undecodable signature record")
			continue
		}

		records = append(records, &StoredSignatureRecord{Key: entry.Key, SignatureRecord: *record})
	}

	return records, nil
}

// ListByAddress returns the records whose address matches exactly.
func (s *SignatureRecordStore) ListByAddress(ctx context.Context, address string) ([]*StoredSignatureRecord, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	matching := make([]*StoredSignatureRecord, 0)
	for _, record := range all {
		if record.Address == address {
			matching = append(matching, record)
		}
	}

	return matching, nil
}

// SweepExpired removes every record older than the validity window
// relative to now and returns how many were removed.
func (s *SignatureRecordStore) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	entries, err := s.kv.List(ctx, s.namespace)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		record, err := ParseSignatureRecord(entry.Value)
		if err != nil {
			continue
		}

		if now.Sub(record.CreatedAt()) <= s.window {
			continue
		}

		if err := s.kv.Delete(ctx, s.namespace, entry.Key); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return removed, err
		}

		removed += 1
	}

	return removed, nil
}
