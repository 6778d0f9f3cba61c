package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodingByName(t *testing.T) {
	for _, name := range []string{Base64, Base58, Hex} {
		enc, err := EncodingByName(name)
		require.NoError(t, err)
		require.Equal(t, name, enc.Name())
	}

	_, err := EncodingByName("base32")
	require.Error(t, err)
}

func TestEncodingsRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0xfb, 0xff, 0x10, 0x3e, 0x3f, 0x7a}

	for _, enc := range []Encoding{Base64Encoding{}, Base58Encoding{}, HexEncoding{}} {
		t.Run(enc.Name(), func(t *testing.T) {
			decoded, err := enc.DecodeString(enc.EncodeToString(raw))
			require.NoError(t, err)
			require.Equal(t, raw, decoded)

			_, err = enc.DecodeString("")
			require.ErrorIs(t, err, ErrEmptyInput)

			_, err = enc.DecodeString("!!not-encoded!!")
			require.Error(t, err)
		})
	}
}

func TestBase64Variants(t *testing.T) {
	raw := []byte{0xfb, 0xff, 0xbf}

	examples := []string{
		"+/+/",
		"-_-_",
		"+/+/ ",
	}

	for _, example := range examples {
		decoded, err := Base64Encoding{}.DecodeString(example)
		require.NoError(t, err, example)
		require.Equal(t, raw, decoded, example)
	}

	padded, err := Base64Encoding{}.DecodeString("aGk=")
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), padded)

	unpadded, err := Base64Encoding{}.DecodeString("aGk")
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), unpadded)
}

func TestHexPrefix(t *testing.T) {
	for _, example := range []string{"0xdeadbeef", "0XDEADBEEF", "deadbeef"} {
		decoded, err := HexEncoding{}.DecodeString(example)
		require.NoError(t, err, example)
		require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, decoded)
	}

	_, err := HexEncoding{}.DecodeString("0x")
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = HexEncoding{}.DecodeString("abc")
	require.Error(t, err)
}
