package models

import (
	"context"
	"testing"
	"time"

	"github.com/ocnetwork/walletauth/internal/storage"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls int
	swept int
}

func (c *countingSweeper) Sweep() int {
	c.calls += 1
	return c.swept
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1700000000000)

	store := NewSignatureRecordStore(storage.NewMemoryStore(), "", 5*time.Minute)
	_, err := store.Save(ctx, newRecord("0xold", now.Add(-time.Hour).UnixMilli()), "")
	require.NoError(t, err)
	_, err = store.Save(ctx, newRecord("0xnew", now.UnixMilli()), "")
	require.NoError(t, err)

	nonces := &countingSweeper{swept: 3}

	cleanup := NewCleanup(store, nonces)
	cleanup.now = func() time.Time { return now }

	affected, err := cleanup.Clean(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, affected)
	require.Equal(t, 1, nonces.calls)

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "0xnew", all[0].Address)
}

func TestCleanupSweepsNoncesOnStorageFailure(t *testing.T) {
	nonces := &countingSweeper{swept: 1}
	cleanup := NewCleanup(NewSignatureRecordStore(&failingKV{}, "", time.Minute), nonces)

	affected, err := cleanup.Clean(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, affected)
	require.Equal(t, 1, nonces.calls)
}

func TestCleanupRunStopsWithContext(t *testing.T) {
	nonces := &countingSweeper{}
	cleanup := NewCleanup(nil, nonces)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := cleanup.Run(ctx, 5*time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
