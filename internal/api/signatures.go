package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ocnetwork/walletauth/internal/api/apierrors"
	"github.com/ocnetwork/walletauth/internal/models"
)

// SignatureListResponse lists stored signature records
type SignatureListResponse struct {
	Signatures []*models.StoredSignatureRecord `json:"signatures"`
}

func (a *API) loadSignatureRecord(w http.ResponseWriter, r *http.Request) (context.Context, error) {
	ctx := r.Context()
	key := chi.URLParam(r, "key")

	record, err := a.records.Get(ctx, key)
	if err != nil {
		if models.IsNotFoundError(err) {
			return nil, notFoundError(apierrors.ErrorCodeSignatureRecordNotFound, "Signature record not found")
		}
		return nil, err
	}

	return withSignatureRecord(ctx, &models.StoredSignatureRecord{
		Key:             key,
		SignatureRecord: *record,
	}), nil
}

// SignatureList returns every stored record, or only those of the address
// query parameter when given
func (a *API) SignatureList(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var (
		records []*models.StoredSignatureRecord
		err     error
	)

	if address := r.URL.Query().Get("address"); address != "" {
		records, err = a.records.ListByAddress(ctx, address)
	} else {
		records, err = a.records.All(ctx)
	}
	if err != nil {
		return err
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(len(records)))
	return sendJSON(w, http.StatusOK, &SignatureListResponse{Signatures: records})
}

// SignatureGet returns a single stored record
func (a *API) SignatureGet(w http.ResponseWriter, r *http.Request) error {
	return sendJSON(w, http.StatusOK, getSignatureRecord(r.Context()))
}

// SignatureDelete removes a stored record
func (a *API) SignatureDelete(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	record := getSignatureRecord(ctx)

	if err := a.records.Delete(ctx, record.Key); err != nil {
		if models.IsNotFoundError(err) {
			return notFoundError(apierrors.ErrorCodeSignatureRecordNotFound, "Signature record not found")
		}
		return err
	}

	return sendJSON(w, http.StatusOK, map[string]interface{}{})
}
