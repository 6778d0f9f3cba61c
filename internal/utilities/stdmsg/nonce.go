package stdmsg

import (
	"github.com/sethvargo/go-password/password"
)

const (
	nonceLength = 32
	nonceDigits = 10
)

// GenerateNonce returns a random alphanumeric single-use token.
func GenerateNonce() (string, error) {
	nonce, err := password.Generate(nonceLength, nonceDigits, 0, false, true)
	if err != nil {
		return "", errNonceGeneration(err)
	}
	return nonce, nil
}
