package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/ocnetwork/walletauth/internal/conf"
	"github.com/ocnetwork/walletauth/internal/verifier"
	"github.com/stretchr/testify/require"
)

func TestNewProtocolKeyBinding(t *testing.T) {
	config := testAuthConfig(t, conf.SchemeEd25519)

	s, encoding, err := keyMaterial(config)
	require.NoError(t, err)

	pair, err := generateKeyPair(s, encoding)
	require.NoError(t, err)

	opts := &signOptions{Kind: kindMessage, Message: "hello", Key: pair.PrivateKey}

	for _, bind := range []bool{false, true} {
		config.BindKeyAddress = bind

		protocol, err := newProtocol(config)
		require.NoError(t, err)

		record, err := signRecord(config, opts, time.Now())
		require.NoError(t, err)
		require.True(t, protocol.Verify(context.Background(), record, "").IsValid)

		// the same key claiming an address it does not derive to
		record, err = signRecord(config, opts, time.Now())
		require.NoError(t, err)
		record.Address = "0xabc123"

		outcome := protocol.Verify(context.Background(), record, "")
		if bind {
			require.Equal(t, verifier.AddressMismatch, outcome.Error)
		} else {
			require.True(t, outcome.IsValid)
		}
	}
}
