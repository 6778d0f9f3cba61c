package apierrors

type ErrorCode = string

const (
	// ErrorCodeUnknown should not be used directly, it only indicates a failure in the error handling system in such a way that an error code was not assigned properly.
	ErrorCodeUnknown ErrorCode = "unknown"

	// ErrorCodeUnexpectedFailure signals an unexpected failure such as a 500 Internal Server Error.
	ErrorCodeUnexpectedFailure ErrorCode = "unexpected_failure"

	ErrorCodeValidationFailed        ErrorCode = "validation_failed"
	ErrorCodeBadJSON                 ErrorCode = "bad_json"
	ErrorCodeRequestTimeout          ErrorCode = "request_timeout"
	ErrorCodeRequestTooLarge         ErrorCode = "request_too_large"
	ErrorCodeConflict                ErrorCode = "conflict"
	ErrorCodeStorageError            ErrorCode = "storage_error"
	ErrorCodeSignatureRecordNotFound ErrorCode = "signature_record_not_found"
)
