package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ocnetwork/walletauth/internal/conf"
	"github.com/ocnetwork/walletauth/internal/crypto"
	"github.com/ocnetwork/walletauth/internal/models"
	"github.com/ocnetwork/walletauth/internal/utilities/stdmsg"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	kindMessage   = "message"
	kindTransfer  = "transfer"
	kindVote      = "vote"
	kindAuthorize = "authorize"
)

// signOptions select the envelope to sign. Envelope, when set, is signed as
// is; otherwise a new envelope of Kind is built.
type signOptions struct {
	Key      string
	Address  string
	Envelope string
	Kind     string

	Message  string
	To       string
	Amount   string
	Token    string
	Proposal string
	InFavor  bool
	Action   string
	Target   string
}

func signCmd() *cobra.Command {
	opts := &signOptions{}

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign an envelope the way a wallet would and print the signature record",
		Run: func(cmd *cobra.Command, args []string) {
			config := loadGlobalConfig(cmd.Context())

			record, err := signRecord(&config.Auth, opts, time.Now())
			if err != nil {
				logrus.Fatalf("%+v", err)
			}

			out, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				logrus.Fatalf("%+v", err)
			}
			fmt.Println(string(out))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Key, "key", "", "private key in the configured key encoding")
	flags.StringVar(&opts.Address, "address", "", "signer address, derived from the key when empty")
	flags.StringVar(&opts.Envelope, "envelope", "", "canonical envelope to sign, as returned by POST /challenge")
	flags.StringVar(&opts.Kind, "kind", kindMessage, "envelope to build: message, transfer, vote or authorize")
	flags.StringVar(&opts.Message, "message", "", "payload of a message envelope")
	flags.StringVar(&opts.To, "to", "", "transfer recipient")
	flags.StringVar(&opts.Amount, "amount", "", "transfer amount")
	flags.StringVar(&opts.Token, "token", stdmsg.DefaultToken, "transfer token")
	flags.StringVar(&opts.Proposal, "proposal", "", "proposal id to vote on")
	flags.BoolVar(&opts.InFavor, "in-favor", false, "vote for the proposal")
	flags.StringVar(&opts.Action, "action", "", "action to authorize")
	flags.StringVar(&opts.Target, "target", "", "target of the authorized action")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func signRecord(config *conf.AuthConfiguration, opts *signOptions, now time.Time) (*models.SignatureRecord, error) {
	scheme, encoding, err := keyMaterial(config)
	if err != nil {
		return nil, err
	}

	rawKey, err := encoding.DecodeString(opts.Key)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding private key")
	}

	signer, err := scheme.ParsePrivateKey(rawKey)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing private key")
	}

	address := opts.Address
	if address == "" {
		address, err = scheme.Address(signer.PublicKey())
		if err != nil {
			return nil, err
		}
	}

	message := opts.Envelope
	if message == "" {
		envelope, err := buildEnvelope(config, opts, address)
		if err != nil {
			return nil, err
		}
		message = envelope.Canonical()
	}

	return sign(signer, encoding, message, address, now)
}

func buildEnvelope(config *conf.AuthConfiguration, opts *signOptions, address string) (*stdmsg.Envelope, error) {
	app := stdmsg.Application{
		Domain:  config.Domain,
		Version: config.Version,
		ChainID: config.ChainID,
	}

	switch opts.Kind {
	case kindMessage, "":
		payload := opts.Message
		if payload == "" {
			payload = config.DefaultStatement
		}
		return app.Envelope(payload, address)
	case kindTransfer:
		return app.Transfer(address, opts.To, opts.Amount, opts.Token)
	case kindVote:
		return app.Vote(address, opts.Proposal, opts.InFavor)
	case kindAuthorize:
		return app.Authorization(address, opts.Action, opts.Target)
	default:
		return nil, fmt.Errorf("unknown envelope kind %q", opts.Kind)
	}
}

func sign(signer crypto.Signer, encoding crypto.Encoding, message, address string, now time.Time) (*models.SignatureRecord, error) {
	signature, err := signer.Sign([]byte(message))
	if err != nil {
		return nil, errors.Wrap(err, "error signing envelope")
	}

	return &models.SignatureRecord{
		Signature: encoding.EncodeToString(signature),
		Message:   message,
		PublicKey: encoding.EncodeToString(signer.PublicKey()),
		Address:   address,
		Timestamp: now.UnixMilli(),
	}, nil
}
