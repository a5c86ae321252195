package errors

const (
	// Generic codes
	CodeNotFound             = "NOT_FOUND"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeInternalServer       = "INTERNAL_SERVER"
	CodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
	CodeEventPublishError    = "EVENT_PUBLISH_ERROR"
	CodeObjectMarshalError   = "OBJECT_MARSHALL_ERROR"
	CodeObjectUnmarshalError = "OBJECT_UNMARSHALL_ERROR"
	CodeDatabaseError        = "DATABASE_ERROR"
	CodeTransactionError     = "TRANSACTION_ERROR"
	CodeRedisOperationError  = "REDIS_ERROR"

	// Export and report codes
	CodeMalformedInput    = "MALFORMED_INPUT"
	CodeDanglingReference = "DANGLING_REFERENCE"
	CodeExportReadError   = "EXPORT_READ_ERROR"
	CodeOutputWriteError  = "OUTPUT_WRITE_ERROR"
)
