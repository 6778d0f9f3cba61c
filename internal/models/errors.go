package models

import "errors"

var ErrInvalidSignatureRecord = errors.New("models: invalid signature record")

// IsNotFoundError returns whether an error represents a "not found" error.
func IsNotFoundError(err error) bool {
	switch err.(type) {
	case SignatureRecordNotFoundError, *SignatureRecordNotFoundError:
		return true
	}
	return false
}

// SignatureRecordNotFoundError represents when a signature record is not found.
type SignatureRecordNotFoundError struct{}

func (e SignatureRecordNotFoundError) Error() string {
	return "Signature record not found"
}
