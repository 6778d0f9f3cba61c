package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/ocnetwork/walletauth/internal/api/apierrors"
	"github.com/ocnetwork/walletauth/internal/observability"
	"github.com/ocnetwork/walletauth/internal/storage"
	"github.com/ocnetwork/walletauth/internal/utilities"
	"github.com/sirupsen/logrus"
)

const ErrorCodeHeaderName = "x-walletauth-error-code"

type (
	HTTPError = apierrors.HTTPError
	ErrorCode = apierrors.ErrorCode
)

func badRequestError(errorCode ErrorCode, fmtString string, args ...interface{}) *HTTPError {
	return apierrors.NewBadRequestError(errorCode, fmtString, args...)
}

func notFoundError(errorCode ErrorCode, fmtString string, args ...interface{}) *HTTPError {
	return apierrors.NewNotFoundError(errorCode, fmtString, args...)
}

func unprocessableEntityError(errorCode ErrorCode, fmtString string, args ...interface{}) *HTTPError {
	return apierrors.NewUnprocessableEntityError(errorCode, fmtString, args...)
}

func internalServerError(fmtString string, args ...interface{}) *HTTPError {
	return apierrors.NewInternalServerError(fmtString, args...)
}

// storageError converts a failure of the signature store into a 500 response
// while keeping the original error for the logs.
func storageError(err error) *HTTPError {
	return apierrors.NewStorageError(err)
}

// Recoverer is a middleware that recovers from panics, logs the panic (and a
// backtrace), and returns a HTTP 500 (Internal Server Error) status if
// possible.
func recoverer(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				if logEntry := observability.GetLogEntry(r); logEntry != nil {
					logEntry.WithFields(logrus.Fields{
						"panic": fmt.Sprintf("%+v", rvr),
						"stack": string(debug.Stack()),
					}).Error("request panicked")
				} else {
					fmt.Fprintf(os.Stderr, "Panic: %+v\n", rvr)
					debug.PrintStack()
				}

				se := &HTTPError{
					HTTPStatus: http.StatusInternalServerError,
					Message:    http.StatusText(http.StatusInternalServerError),
				}
				HandleResponseError(se, w, r)
			}
		}()
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

// ErrorCause is an error interface that contains the method Cause() for returning root cause errors
type ErrorCause interface {
	Cause() error
}

type HTTPErrorResponse20240101 struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func HandleResponseError(err error, w http.ResponseWriter, r *http.Request) {
	log := observability.GetLogEntry(r)
	errorID := utilities.GetRequestID(r.Context())

	apiVersion, averr := DetermineClosestAPIVersion(r.Header.Get(APIVersionHeaderName))
	if averr != nil {
		log.WithError(averr).Warn("Invalid version passed to " + APIVersionHeaderName + " header, defaulting to initial version")
	} else if apiVersion != APIVersionInitial {
		// Echo back the determined API version from the request
		w.Header().Set(APIVersionHeaderName, FormatAPIVersion(apiVersion))
	}

	switch e := err.(type) {
	case *HTTPError:
		switch {
		case e.HTTPStatus >= http.StatusInternalServerError:
			e.ErrorID = errorID
			log.WithError(e.Cause()).Error(e.Error())
		default:
			log.WithError(e.Cause()).Info(e.Error())
		}

		if e.ErrorCode == "" {
			if e.HTTPStatus == http.StatusInternalServerError {
				e.ErrorCode = apierrors.ErrorCodeUnexpectedFailure
			} else {
				e.ErrorCode = apierrors.ErrorCodeUnknown
			}
		}

		w.Header().Set(ErrorCodeHeaderName, e.ErrorCode)

		var output interface{} = e
		if apiVersion.Compare(APIVersion20240101) >= 0 {
			output = HTTPErrorResponse20240101{
				Code:    e.ErrorCode,
				Message: e.Message,
			}
		}

		if jsonErr := sendJSON(w, e.HTTPStatus, output); jsonErr != nil && jsonErr != context.DeadlineExceeded {
			log.WithError(jsonErr).Warn("Failed to send JSON on ResponseWriter")
		}

	case *storage.StorageError:
		HandleResponseError(storageError(e), w, r)

	case ErrorCause:
		HandleResponseError(e.Cause(), w, r)

	default:
		log.WithError(e).Errorf("Unhandled server error: %s", e.Error())

		httpError := internalServerError("Unexpected failure, please check server logs for more information")
		httpError.ErrorID = errorID

		var output interface{} = httpError
		if apiVersion.Compare(APIVersion20240101) >= 0 {
			output = HTTPErrorResponse20240101{
				Code:    httpError.ErrorCode,
				Message: httpError.Message,
			}
		}

		w.Header().Set(ErrorCodeHeaderName, httpError.ErrorCode)
		if jsonErr := sendJSON(w, http.StatusInternalServerError, output); jsonErr != nil && jsonErr != context.DeadlineExceeded {
			log.WithError(jsonErr).Warn("Failed to send JSON on ResponseWriter")
		}
	}
}
