package api

import (
	"context"

	"github.com/ocnetwork/walletauth/internal/models"
)

type contextKey string

func (c contextKey) String() string {
	return "walletauth api context key " + string(c)
}

const (
	signatureRecordKey = contextKey("signature_record")
)

// withSignatureRecord adds the stored signature record to the context.
func withSignatureRecord(ctx context.Context, record *models.StoredSignatureRecord) context.Context {
	return context.WithValue(ctx, signatureRecordKey, record)
}

// getSignatureRecord reads the stored signature record from the context.
func getSignatureRecord(ctx context.Context) *models.StoredSignatureRecord {
	obj := ctx.Value(signatureRecordKey)
	if obj == nil {
		return nil
	}

	return obj.(*models.StoredSignatureRecord)
}
