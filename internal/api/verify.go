package api

import (
	"net/http"

	"github.com/fatih/structs"
	"github.com/ocnetwork/walletauth/internal/metering"
	"github.com/ocnetwork/walletauth/internal/models"
	"github.com/ocnetwork/walletauth/internal/observability"
	"github.com/ocnetwork/walletauth/internal/utilities"
	"github.com/ocnetwork/walletauth/internal/utilities/stdmsg"
	"github.com/ocnetwork/walletauth/internal/verifier"
	"github.com/sirupsen/logrus"
)

// VerifyParams are the parameters the verify endpoint accepts
type VerifyParams struct {
	Signature       string `json:"signature"`
	Message         string `json:"message"`
	PublicKey       string `json:"publicKey"`
	Address         string `json:"address"`
	Timestamp       *int64 `json:"timestamp"`
	ExpectedAddress string `json:"expectedAddress"`
	Save            bool   `json:"save"`
	Key             string `json:"key"`
}

func (p *VerifyParams) record(now int64) *models.SignatureRecord {
	record := &models.SignatureRecord{
		Signature: p.Signature,
		Message:   p.Message,
		PublicKey: p.PublicKey,
		Address:   p.Address,
		Timestamp: now,
	}

	if p.Timestamp != nil {
		record.Timestamp = *p.Timestamp
	}

	return record
}

// VerifyResponse is the verification outcome, with the signed payload when
// it is valid and the storage key when the record was saved. SaveError is set
// when saving failed after verification; the outcome stands because the nonce
// has already been consumed.
type VerifyResponse struct {
	*verifier.Outcome
	Payload   string `json:"payload,omitempty"`
	Key       string `json:"key,omitempty"`
	SaveError string `json:"saveError,omitempty"`
}

// Verify checks a signature over a previously issued challenge
func (a *API) Verify(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	params := &VerifyParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	record := params.record(a.Now().UnixMilli())
	outcome := a.protocol.Verify(ctx, record, params.ExpectedAddress)

	fields := logrus.Fields{"outcome": outcome.Code()}
	if outcome.Details != nil {
		for k, v := range structs.Map(outcome.Details) {
			fields[k] = v
		}
	}
	observability.LogEntrySetFields(r, fields)

	response := &VerifyResponse{Outcome: outcome}

	if params.Save {
		key, err := a.records.Save(ctx, record, params.Key)
		if err != nil {
			observability.GetLogEntry(r).WithError(err).Warn("failed to save signature record")
			response.SaveError = verifier.StorageError
		} else {
			response.Key = key
		}
	}

	if outcome.IsValid {
		if payload, ok := stdmsg.DecodePayload(record.Message); ok {
			response.Payload = payload
		}

		data := &metering.VerificationData{
			Scheme:  a.config.Auth.Scheme,
			ChainID: a.config.Auth.ChainID,
			Domain:  a.config.Auth.Domain,
			Address: record.Address,
		}
		if response.Key != "" {
			data.Extra = map[string]interface{}{"key": response.Key}
		}
		metering.RecordVerification(utilities.GetRequestID(ctx), data)
	}

	return sendJSON(w, http.StatusOK, response)
}
