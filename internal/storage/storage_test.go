package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/ocnetwork/walletauth/internal/conf"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type KVTestSuite struct {
	suite.Suite

	KV        KV
	Namespace string
}

func (ts *KVTestSuite) SetupTest() {
	ctx := context.Background()

	entries, err := ts.KV.List(ctx, ts.Namespace)
	require.NoError(ts.T(), err)

	for _, entry := range entries {
		require.NoError(ts.T(), ts.KV.Delete(ctx, ts.Namespace, entry.Key))
	}
}

func (ts *KVTestSuite) TestSetGet() {
	ctx := context.Background()

	require.NoError(ts.T(), ts.KV.Set(ctx, ts.Namespace, "a", []byte("one")))

	value, err := ts.KV.Get(ctx, ts.Namespace, "a")
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), []byte("one"), value)

	// overwrite
	require.NoError(ts.T(), ts.KV.Set(ctx, ts.Namespace, "a", []byte("two")))
	value, err = ts.KV.Get(ctx, ts.Namespace, "a")
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), []byte("two"), value)

	_, err = ts.KV.Get(ctx, ts.Namespace, "missing")
	require.ErrorIs(ts.T(), err, ErrNotFound)

	_, err = ts.KV.Get(ctx, ts.Namespace+"-other", "a")
	require.ErrorIs(ts.T(), err, ErrNotFound)
}

func (ts *KVTestSuite) TestListDelete() {
	ctx := context.Background()

	for i := 3; i > 0; i-- {
		require.NoError(ts.T(), ts.KV.Set(ctx, ts.Namespace, fmt.Sprintf("k%d", i), []byte{byte(i)}))
	}

	entries, err := ts.KV.List(ctx, ts.Namespace)
	require.NoError(ts.T(), err)
	require.Len(ts.T(), entries, 3)
	require.Equal(ts.T(), "k1", entries[0].Key)
	require.Equal(ts.T(), []byte{1}, entries[0].Value)

	require.NoError(ts.T(), ts.KV.Delete(ctx, ts.Namespace, "k2"))
	require.ErrorIs(ts.T(), ts.KV.Delete(ctx, ts.Namespace, "k2"), ErrNotFound)

	entries, err = ts.KV.List(ctx, ts.Namespace)
	require.NoError(ts.T(), err)
	require.Len(ts.T(), entries, 2)

	empty, err := ts.KV.List(ctx, ts.Namespace+"-empty")
	require.NoError(ts.T(), err)
	require.Empty(ts.T(), empty)
}

func (ts *KVTestSuite) TestPing() {
	require.NoError(ts.T(), ts.KV.Ping(context.Background()))
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &KVTestSuite{
		KV:        NewMemoryStore(),
		Namespace: "test",
	})
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "ns", "k", value))
	value[0] = 'z'

	stored, err := m.Get(ctx, "ns", "k")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), stored)
}

func TestSQLStore(t *testing.T) {
	url := os.Getenv("WALLETAUTH_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("WALLETAUTH_TEST_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := &conf.GlobalConfiguration{
		DB: conf.DBConfiguration{
			Driver:    conf.PostgresDriver,
			URL:       url,
			Namespace: "walletauth_test",
		},
	}

	store, err := DialSQL(ctx, config)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Migrate(ctx))

	suite.Run(t, &KVTestSuite{
		KV:        store,
		Namespace: "test",
	})
}

func TestDialMemory(t *testing.T) {
	kv, err := Dial(context.Background(), &conf.GlobalConfiguration{
		DB: conf.DBConfiguration{Driver: conf.MemoryDriver},
	})
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, kv)

	_, err = Dial(context.Background(), &conf.GlobalConfiguration{
		DB: conf.DBConfiguration{Driver: "mysql"},
	})
	require.Error(t, err)
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&StorageError{Op: "get", Namespace: "signatures", Key: "k", Err: cause})

	require.True(t, IsStorageError(err))
	require.True(t, IsStorageError(fmt.Errorf("saving: %w", err)))
	require.ErrorIs(t, err, cause)
	require.Equal(t, "storage: get signatures/k: connection refused", err.Error())

	require.False(t, IsStorageError(ErrNotFound))
}
