package apierrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPErrorConstructors(t *testing.T) {
	sentinel := errors.New("sentinel")

	tests := []struct {
		desc   string
		from   *HTTPError
		status int
		code   ErrorCode
		msg    string
	}{
		{
			desc:   "bad request",
			from:   NewBadRequestError(ErrorCodeBadJSON, "Could not read verification payload: %v", sentinel),
			status: http.StatusBadRequest,
			code:   ErrorCodeBadJSON,
			msg:    "Could not read verification payload: sentinel",
		},
		{
			desc:   "not found",
			from:   NewNotFoundError(ErrorCodeSignatureRecordNotFound, "Signature record %q not found", "0xabc_1"),
			status: http.StatusNotFound,
			code:   ErrorCodeSignatureRecordNotFound,
			msg:    `Signature record "0xabc_1" not found`,
		},
		{
			desc:   "unprocessable",
			from:   NewUnprocessableEntityError(ErrorCodeValidationFailed, "address is required"),
			status: http.StatusUnprocessableEntity,
			code:   ErrorCodeValidationFailed,
			msg:    "address is required",
		},
		{
			desc:   "internal",
			from:   NewInternalServerError("error: %v", sentinel),
			status: http.StatusInternalServerError,
			code:   ErrorCodeUnexpectedFailure,
			msg:    "error: sentinel",
		},
		{
			desc:   "conflict",
			from:   NewConflictError("key %s already exists", "k"),
			status: http.StatusConflict,
			code:   ErrorCodeConflict,
			msg:    "key k already exists",
		},
		{
			desc:   "storage",
			from:   NewStorageError(sentinel),
			status: http.StatusInternalServerError,
			code:   ErrorCodeStorageError,
			msg:    "Signature storage is unavailable",
		},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			require.Equal(t, test.status, test.from.HTTPStatus)
			require.Equal(t, test.code, test.from.ErrorCode)
			require.Equal(t, test.msg, test.from.Message)
		})
	}
}

func TestHTTPErrorInternals(t *testing.T) {
	sentinel := errors.New("sentinel")

	err := NewBadRequestError(ErrorCodeBadJSON, "Unable to parse JSON")
	require.Equal(t, "400: Unable to parse JSON", err.Error())
	require.Equal(t, err, err.Cause())

	err = err.WithInternalError(sentinel).WithInternalMessage("decode failed: %v", sentinel)
	require.Equal(t, "decode failed: sentinel", err.Error())
	require.Equal(t, sentinel, err.Cause())

	storageErr := NewStorageError(sentinel)
	require.Equal(t, sentinel, storageErr.Cause())
	require.True(t, storageErr.Is(NewHTTPError(http.StatusInternalServerError, ErrorCodeStorageError, "Signature storage is unavailable")))
}
