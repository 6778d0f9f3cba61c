package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/ocnetwork/walletauth/internal/api/apierrors"
	"github.com/ocnetwork/walletauth/internal/conf"
	"github.com/ocnetwork/walletauth/internal/utilities"
	"github.com/pkg/errors"
)

func addRequestID(globalConfig *conf.GlobalConfiguration) middlewareHandler {
	return func(w http.ResponseWriter, r *http.Request) (context.Context, error) {
		id := ""
		if globalConfig.API.RequestIDHeader != "" {
			id = r.Header.Get(globalConfig.API.RequestIDHeader)
		}
		if id == "" {
			uid := uuid.Must(uuid.NewV4())
			id = uid.String()
		}

		return utilities.WithRequestID(r.Context(), id), nil
	}
}

func sendJSON(w http.ResponseWriter, status int, obj interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	b, err := json.Marshal(obj)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("Error encoding json response: %v", obj))
	}
	w.WriteHeader(status)
	_, err = w.Write(b)
	return err
}

type RequestParams interface {
	ChallengeParams |
		VerifyParams
}

// retrieveRequestParams decodes the JSON body of r into params. Any decode
// failure, including a field of the wrong JSON type, is reported as bad_json.
func retrieveRequestParams[A RequestParams](r *http.Request, params *A) error {
	body, err := utilities.GetBodyBytes(r)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return apierrors.NewHTTPError(http.StatusRequestEntityTooLarge, apierrors.ErrorCodeRequestTooLarge, "Request body exceeds %d bytes", maxBytesErr.Limit)
		}
		return internalServerError("Could not read body into byte slice").WithInternalError(err)
	}

	if err := json.Unmarshal(body, params); err != nil {
		return badRequestError(apierrors.ErrorCodeBadJSON, "Could not parse request body as JSON: %v", err)
	}

	return nil
}
