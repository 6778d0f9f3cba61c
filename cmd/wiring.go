package cmd

import (
	"github.com/ocnetwork/walletauth/internal/challenge"
	"github.com/ocnetwork/walletauth/internal/conf"
	"github.com/ocnetwork/walletauth/internal/crypto"
	"github.com/ocnetwork/walletauth/internal/replay"
	"github.com/ocnetwork/walletauth/internal/verifier"
	"github.com/pkg/errors"
)

// keyMaterial resolves the configured signature scheme and wire encoding.
func keyMaterial(config *conf.AuthConfiguration) (crypto.Scheme, crypto.Encoding, error) {
	scheme, err := crypto.SchemeByName(config.Scheme)
	if err != nil {
		return nil, nil, err
	}

	encoding, err := crypto.EncodingByName(config.KeyEncoding)
	if err != nil {
		return nil, nil, err
	}

	return scheme, encoding, nil
}

// newProtocol builds the verification pipeline for one service instance. The
// guard it creates is owned by the returned protocol.
func newProtocol(config *conf.AuthConfiguration) (*challenge.Protocol, error) {
	scheme, encoding, err := keyMaterial(config)
	if err != nil {
		return nil, errors.Wrap(err, "error resolving key material")
	}

	opts := []verifier.Option{verifier.WithValidityWindow(config.ValidityWindow)}
	if config.BindKeyAddress {
		opts = append(opts, verifier.WithKeyBinding(scheme.Address))
	}

	v := verifier.New(scheme, encoding, opts...)
	guard := replay.NewGuard(
		replay.WithWindow(config.ValidityWindow),
		replay.WithCapacity(config.NonceCapacity),
	)

	if err := guard.RegisterMetrics(); err != nil {
		return nil, errors.Wrap(err, "error registering replay guard metrics")
	}

	return challenge.New(config, v, guard), nil
}
