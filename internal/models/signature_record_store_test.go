package models

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ocnetwork/walletauth/internal/storage"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SignatureRecordStoreTestSuite struct {
	suite.Suite

	KV    *storage.MemoryStore
	Store *SignatureRecordStore
}

func TestSignatureRecordStore(t *testing.T) {
	suite.Run(t, &SignatureRecordStoreTestSuite{})
}

func (ts *SignatureRecordStoreTestSuite) SetupTest() {
	ts.KV = storage.NewMemoryStore()
	ts.Store = NewSignatureRecordStore(ts.KV, "", 5*time.Minute)
}

func newRecord(address string, ts int64) *SignatureRecord {
	return &SignatureRecord{
		Signature: "sig",
		Message:   "msg",
		PublicKey: "pk",
		Address:   address,
		Timestamp: ts,
	}
}

func (ts *SignatureRecordStoreTestSuite) TestSaveDefaultKey() {
	ctx := context.Background()
	record := newRecord("0xabc", 1700000000000)

	key, err := ts.Store.Save(ctx, record, "")
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), "0xabc_1700000000000", key)

	stored, err := ts.Store.Get(ctx, key)
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), record, stored)

	// raw entry lives in the default namespace
	_, err = ts.KV.Get(ctx, DefaultRecordsNamespace, key)
	require.NoError(ts.T(), err)
}

func (ts *SignatureRecordStoreTestSuite) TestSaveExplicitKeyOverwrites() {
	ctx := context.Background()

	key, err := ts.Store.Save(ctx, newRecord("0xabc", 1), "custom")
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), "custom", key)

	_, err = ts.Store.Save(ctx, newRecord("0xdef", 2), "custom")
	require.NoError(ts.T(), err)

	stored, err := ts.Store.Get(ctx, "custom")
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), "0xdef", stored.Address)
}

func (ts *SignatureRecordStoreTestSuite) TestGetMissing() {
	_, err := ts.Store.Get(context.Background(), "missing")
	require.Error(ts.T(), err)
	require.True(ts.T(), IsNotFoundError(err))
}

func (ts *SignatureRecordStoreTestSuite) TestGetCorrupt() {
	ctx := context.Background()
	require.NoError(ts.T(), ts.KV.Set(ctx, DefaultRecordsNamespace, "bad", []byte("garbage")))

	_, err := ts.Store.Get(ctx, "bad")
	require.Error(ts.T(), err)
	require.True(ts.T(), storage.IsStorageError(err))

	all, err := ts.Store.All(ctx)
	require.NoError(ts.T(), err)
	require.Empty(ts.T(), all)
}

func (ts *SignatureRecordStoreTestSuite) TestListByAddress() {
	ctx := context.Background()

	for i, address := range []string{"0xabc", "0xABC", "0xabc", "0xdef"} {
		_, err := ts.Store.Save(ctx, newRecord(address, int64(i)), "")
		require.NoError(ts.T(), err)
	}

	records, err := ts.Store.ListByAddress(ctx, "0xabc")
	require.NoError(ts.T(), err)
	require.Len(ts.T(), records, 2)
	for _, record := range records {
		require.Equal(ts.T(), "0xabc", record.Address)
		require.NotEmpty(ts.T(), record.Key)
	}

	records, err = ts.Store.ListByAddress(ctx, "0x000")
	require.NoError(ts.T(), err)
	require.Empty(ts.T(), records)

	all, err := ts.Store.All(ctx)
	require.NoError(ts.T(), err)
	require.Len(ts.T(), all, 4)
}

func (ts *SignatureRecordStoreTestSuite) TestDelete() {
	ctx := context.Background()

	key, err := ts.Store.Save(ctx, newRecord("0xabc", 1), "")
	require.NoError(ts.T(), err)

	require.NoError(ts.T(), ts.Store.Delete(ctx, key))
	require.True(ts.T(), IsNotFoundError(ts.Store.Delete(ctx, key)))
}

func (ts *SignatureRecordStoreTestSuite) TestSweepExpired() {
	ctx := context.Background()
	now := time.UnixMilli(1700000000000)

	fresh := newRecord("0xfresh", now.Add(-time.Minute).UnixMilli())
	boundary := newRecord("0xboundary", now.Add(-5*time.Minute).UnixMilli())
	expired := newRecord("0xexpired", now.Add(-6*time.Minute).UnixMilli())

	for _, record := range []*SignatureRecord{fresh, boundary, expired} {
		_, err := ts.Store.Save(ctx, record, "")
		require.NoError(ts.T(), err)
	}

	removed, err := ts.Store.SweepExpired(ctx, now)
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), 1, removed)

	_, err = ts.Store.Get(ctx, DefaultKey(expired))
	require.True(ts.T(), IsNotFoundError(err))

	_, err = ts.Store.Get(ctx, DefaultKey(fresh))
	require.NoError(ts.T(), err)
	_, err = ts.Store.Get(ctx, DefaultKey(boundary))
	require.NoError(ts.T(), err)
}

type failingKV struct {
	storage.MemoryStore
}

func (f *failingKV) Set(ctx context.Context, namespace, key string, value []byte) error {
	return &storage.StorageError{Op: "set", Namespace: namespace, Key: key, Err: errors.New("disk full")}
}

func (f *failingKV) List(ctx context.Context, namespace string) ([]storage.Entry, error) {
	return nil, &storage.StorageError{Op: "list", Namespace: namespace, Err: errors.New("disk full")}
}

func TestSignatureRecordStoreFailures(t *testing.T) {
	ctx := context.Background()
	store := NewSignatureRecordStore(&failingKV{}, "", time.Minute)

	_, err := store.Save(ctx, newRecord("0xabc", 1), "")
	require.True(t, storage.IsStorageError(err))

	_, err = store.ListByAddress(ctx, "0xabc")
	require.True(t, storage.IsStorageError(err))

	_, err = store.SweepExpired(ctx, time.Now())
	require.True(t, storage.IsStorageError(err))
}
