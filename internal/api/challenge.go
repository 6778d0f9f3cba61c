package api

import (
	"net/http"
	"strings"

	"github.com/ocnetwork/walletauth/internal/api/apierrors"
	"github.com/ocnetwork/walletauth/internal/utilities/stdmsg"
)

// ChallengeParams are the parameters the challenge endpoint accepts
type ChallengeParams struct {
	Address string `json:"address"`
	Message string `json:"message"`
}

// ChallengeResponse carries the issued envelope and the exact text the
// wallet has to sign.
type ChallengeResponse struct {
	Envelope *stdmsg.Envelope `json:"envelope"`
	Message  string           `json:"message"`
}

// Challenge issues a fresh envelope bound to an address
func (a *API) Challenge(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	params := &ChallengeParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if strings.TrimSpace(params.Address) == "" {
		return unprocessableEntityError(apierrors.ErrorCodeValidationFailed, "An address is required to issue a challenge")
	}

	envelope, err := a.protocol.Issue(ctx, params.Address, params.Message)
	if err != nil {
		return internalServerError("Error issuing challenge").WithInternalError(err)
	}

	return sendJSON(w, http.StatusCreated, &ChallengeResponse{
		Envelope: envelope,
		Message:  envelope.Canonical(),
	})
}
