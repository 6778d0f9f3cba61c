package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemeByName(t *testing.T) {
	s, err := SchemeByName("ed25519")
	require.NoError(t, err)
	require.Equal(t, Ed25519, s.Name())

	s, err = SchemeByName("Ethereum")
	require.NoError(t, err)
	require.Equal(t, Ethereum, s.Name())

	_, err = SchemeByName("rsa")
	require.Error(t, err)
}

func TestSchemesRoundTrip(t *testing.T) {
	message := []byte(`{"address":"0xabc","message":"confirm login"}`)

	for _, name := range []string{Ed25519, Ethereum} {
		t.Run(name, func(t *testing.T) {
			scheme, err := SchemeByName(name)
			require.NoError(t, err)

			signer, err := scheme.GenerateKey()
			require.NoError(t, err)

			signature, err := signer.Sign(message)
			require.NoError(t, err)

			require.True(t, scheme.Verify(message, signature, signer.PublicKey()))

			tampered := append([]byte(nil), message...)
			tampered[0] = '['
			require.False(t, scheme.Verify(tampered, signature, signer.PublicKey()))

			other, err := scheme.GenerateKey()
			require.NoError(t, err)
			require.False(t, scheme.Verify(message, signature, other.PublicKey()))

			require.False(t, scheme.Verify(message, signature[:10], signer.PublicKey()))
			require.False(t, scheme.Verify(message, signature, []byte{1, 2, 3}))
			require.False(t, scheme.Verify(message, nil, nil))

			restored, err := scheme.ParsePrivateKey(signer.PrivateKey())
			require.NoError(t, err)
			require.Equal(t, signer.PublicKey(), restored.PublicKey())
		})
	}
}

func TestEthereumSignatureForms(t *testing.T) {
	scheme := EthereumScheme{}
	signer, err := scheme.GenerateKey()
	require.NoError(t, err)

	message := []byte("hello")
	signature, err := signer.Sign(message)
	require.NoError(t, err)
	require.Len(t, signature, 65)
	require.Contains(t, []byte{27, 28}, signature[64])

	// [R || S] without the recovery id
	require.True(t, scheme.Verify(message, signature[:64], signer.PublicKey()))
}

func TestVerifierFunc(t *testing.T) {
	called := false
	v := VerifierFunc(func(message, signature, publicKey []byte) bool {
		called = true
		return string(message) == "ok"
	})

	require.True(t, v.Verify([]byte("ok"), nil, nil))
	require.True(t, called)
	require.False(t, v.Verify([]byte("no"), nil, nil))
}

func TestAddresses(t *testing.T) {
	// all zero public key, blake2b-256(0x00 || 32 zero bytes)
	address, err := SuiAddress(make([]byte, 32))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(address, "0x"))
	assert.Len(t, address, 66)

	_, err = SuiAddress([]byte{1})
	require.Error(t, err)

	signer, err := EthereumScheme{}.GenerateKey()
	require.NoError(t, err)

	address, err = EthereumAddress(signer.PublicKey())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(address, "0x"))
	assert.Len(t, address, 42)

	_, err = EthereumAddress([]byte{4, 1, 2})
	require.Error(t, err)
}

func TestEd25519ParsePrivateKey(t *testing.T) {
	signer, err := Ed25519Scheme{}.ParsePrivateKey(make([]byte, 32))
	require.NoError(t, err)
	require.Len(t, signer.PublicKey(), 32)
	require.Len(t, signer.PrivateKey(), 32)

	_, err = Ed25519Scheme{}.ParsePrivateKey(make([]byte, 7))
	require.Error(t, err)
}
