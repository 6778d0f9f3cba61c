package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseSignatureRecord(t *testing.T) {
	record, err := ParseSignatureRecord([]byte(`{"signature":"sig","message":"{}","publicKey":"pk","address":"0xabc","timestamp":1700000000000}`))
	require.NoError(t, err)
	require.Equal(t, &SignatureRecord{
		Signature: "sig",
		Message:   "{}",
		PublicKey: "pk",
		Address:   "0xabc",
		Timestamp: 1700000000000,
	}, record)
	require.True(t, record.CreatedAt().Equal(time.UnixMilli(1700000000000)))

	examples := []string{
		`not json`,
		`{"message":"{}","publicKey":"pk","address":"0xabc","timestamp":1}`,
		`{"signature":"sig","publicKey":"pk","address":"0xabc","timestamp":1}`,
		`{"signature":"sig","message":"{}","address":"0xabc","timestamp":1}`,
		`{"signature":"sig","message":"{}","publicKey":"pk","timestamp":1}`,
		`{"signature":"sig","message":"{}","publicKey":"pk","address":"0xabc"}`,
		`{"signature":"sig","message":{"nonce":"n"},"publicKey":"pk","address":"0xabc","timestamp":1}`,
		`{"signature":"sig","message":"{}","publicKey":"pk","address":null,"timestamp":1}`,
	}

	for _, example := range examples {
		_, err := ParseSignatureRecord([]byte(example))
		require.Error(t, err, example)
		require.True(t, errors.Is(err, ErrInvalidSignatureRecord), example)
	}
}

func TestIsNotFoundError(t *testing.T) {
	require.True(t, IsNotFoundError(SignatureRecordNotFoundError{}))
	require.True(t, IsNotFoundError(&SignatureRecordNotFoundError{}))
	require.False(t, IsNotFoundError(errors.New("other")))
}
