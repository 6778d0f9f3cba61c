package stdmsg

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalSortedFields(t *testing.T) {
	e := &Envelope{
		Address:   "0xabc123",
		ChainID:   "testnet",
		Domain:    "OC Network DApp",
		Message:   "confirm <login> & go",
		Nonce:     "n0nce",
		Timestamp: 1700000000000,
		Version:   "1.0.0",
	}

	const expected = `{"address":"0xabc123","chainId":"testnet","domain":"OC Network DApp","message":"confirm <login> & go","nonce":"n0nce","timestamp":1700000000000,"version":"1.0.0"}`
	require.Equal(t, expected, e.Canonical())

	copied := *e
	require.Equal(t, e.Canonical(), copied.Canonical())
}

func TestNewIsNotIdempotent(t *testing.T) {
	a, err := New("hello", "0xabc", "OC Network DApp", "1.0.0", "testnet")
	require.NoError(t, err)
	b, err := New("hello", "0xabc", "OC Network DApp", "1.0.0", "testnet")
	require.NoError(t, err)

	assert.NotEqual(t, a.Nonce, b.Nonce)
	assert.NotEqual(t, a.Canonical(), b.Canonical())
	assert.Equal(t, a.Domain, b.Domain)
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.Address, b.Address)
}

func TestNewAt(t *testing.T) {
	issuedAt := time.UnixMilli(1700000000123)

	e, err := NewAt(issuedAt, "payload", "0xabc", "d", "1.0.0", "testnet")
	require.NoError(t, err)
	require.Equal(t, int64(1700000000123), e.Timestamp)
	require.True(t, e.IssuedAt().Equal(issuedAt))
	require.Len(t, e.Nonce, nonceLength)

	_, err = NewAt(issuedAt, "payload", "  ", "d", "1.0.0", "testnet")
	require.ErrorIs(t, err, ErrEmptyAddress)
}

func TestDecode(t *testing.T) {
	e, err := New("confirm login", "0xabc", "OC Network DApp", "1.0.0", "testnet")
	require.NoError(t, err)

	decoded, err := Decode(e.Canonical())
	require.NoError(t, err)
	require.Equal(t, e, decoded)
	require.Equal(t, e.Canonical(), decoded.Canonical())

	examples := []string{
		"",
		"not json",
		"[]",
		`{"address":"0xabc"}`,
		`{"address":"a","chainId":"c","domain":"d","message":"m","nonce":"n","timestamp":"17","version":"v"}`,
		`{"address":"a","chainId":"c","domain":"d","message":"m","nonce":"n","timestamp":1.5,"version":"v"}`,
		`{"address":"a","chainId":"c","domain":"d","message":7,"nonce":"n","timestamp":1,"version":"v"}`,
		`{"address":"a","chainId":"c","domain":"d","message":"m","nonce":"n","timestamp":99999999999999999999999,"version":"v"}`,
	}

	for _, example := range examples {
		_, err := Decode(example)
		require.Error(t, err, example)
		require.True(t, errors.Is(err, ErrMalformedEnvelope), example)
	}
}

func TestIsWellFormed(t *testing.T) {
	require.True(t, IsWellFormed(`{"address":"a","chainId":"c","domain":"d","message":"","nonce":"n","timestamp":1,"version":"v"}`))
	require.True(t, IsWellFormed(`{"version":"v","timestamp":1,"nonce":"n","message":"m","domain":"d","chainId":"c","address":"a","extra":true}`))

	require.False(t, IsWellFormed(`{"address":"a","chainId":"c","domain":"d","message":"m","nonce":"n","timestamp":1}`))
	require.False(t, IsWellFormed(`{"address":null,"chainId":"c","domain":"d","message":"m","nonce":"n","timestamp":1,"version":"v"}`))
	require.False(t, IsWellFormed(`"just a string"`))
	require.False(t, IsWellFormed(`{`))
}

func TestDecodePayload(t *testing.T) {
	e, err := New("confirm login", "0xabc", "OC Network DApp", "1.0.0", "testnet")
	require.NoError(t, err)

	payload, ok := DecodePayload(e.Canonical())
	require.True(t, ok)
	require.Equal(t, "confirm login", payload)

	_, ok = DecodePayload("garbage")
	require.False(t, ok)

	_, ok = DecodePayload(`{"message":""}`)
	require.False(t, ok)

	_, ok = DecodePayload(`{"address":"a"}`)
	require.False(t, ok)
}
