package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/ocnetwork/walletauth/internal/crypto"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// KeyPair is a generated keypair in the configured wire encoding.
type KeyPair struct {
	Scheme     string `json:"scheme"`
	Encoding   string `json:"encoding"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
	Address    string `json:"address"`
}

func keygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a keypair for the configured signature scheme",
		Run: func(cmd *cobra.Command, args []string) {
			config := loadGlobalConfig(cmd.Context())

			scheme, encoding, err := keyMaterial(&config.Auth)
			if err != nil {
				logrus.Fatalf("%+v", err)
			}

			pair, err := generateKeyPair(scheme, encoding)
			if err != nil {
				logrus.Fatalf("error generating keypair: %+v", err)
			}

			out, err := json.MarshalIndent(pair, "", "  ")
			if err != nil {
				logrus.Fatalf("%+v", err)
			}
			fmt.Println(string(out))
		},
	}

	return cmd
}

func generateKeyPair(scheme crypto.Scheme, encoding crypto.Encoding) (*KeyPair, error) {
	signer, err := scheme.GenerateKey()
	if err != nil {
		return nil, err
	}

	address, err := scheme.Address(signer.PublicKey())
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		Scheme:     scheme.Name(),
		Encoding:   encoding.Name(),
		PublicKey:  encoding.EncodeToString(signer.PublicKey()),
		PrivateKey: encoding.EncodeToString(signer.PrivateKey()),
		Address:    address,
	}, nil
}
