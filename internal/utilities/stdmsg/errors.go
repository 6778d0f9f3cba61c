package stdmsg

import (
	"errors"
	"fmt"
)

// Static errors
var (
	ErrMalformedEnvelope = errors.New("stdmsg: message is not a well-formed standard message envelope")
	ErrEmptyAddress      = errors.New("stdmsg: address must not be empty")
)

func errNonceGeneration(err error) error {
	return fmt.Errorf("stdmsg: unable to generate nonce: %w", err)
}
