package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a key does not exist in its namespace.
var ErrNotFound = errors.New("storage: key not found")

// Entry is a single key and value within a namespace.
type Entry struct {
	Key   string `db:"key"`
	Value []byte `db:"value"`
}

// KV is the key-value contract the service persists through. Keys are scoped
// by namespace.
type KV interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Set(ctx context.Context, namespace, key string, value []byte) error
	List(ctx context.Context, namespace string) ([]Entry, error)
	Delete(ctx context.Context, namespace, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// StorageError reports a failure of the storage backend itself, as opposed
// to a missing key.
type StorageError struct {
	Op        string
	Namespace string
	Key       string
	Err       error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage: %s %s/%s: %v", e.Op, e.Namespace, e.Key, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Namespace, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Cause() error {
	return e.Err
}

// IsStorageError reports whether err is or wraps a *StorageError.
func IsStorageError(err error) bool {
	var serr *StorageError
	return errors.As(err, &serr)
}
