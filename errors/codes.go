package errors

// ErrorCode identifies an application error category in API responses
type ErrorCode int32

const (
	ErrorCode_HTTP_OK  ErrorCode = 0
	ErrorCode_INTERNAL ErrorCode = 1000

	ErrorCode_SYNC_RUN_FAILED       ErrorCode = 2001
	ErrorCode_PROCESSOR_NOT_FOUND   ErrorCode = 2003
	ErrorCode_EXTRACTION_FAILED     ErrorCode = 2004
	ErrorCode_QUEUE_BOOKKEEPING     ErrorCode = 2006
	ErrorCode_LLM_UNAVAILABLE       ErrorCode = 3000
	ErrorCode_PROVIDER_FETCH_FAILED ErrorCode = 3002
	ErrorCode_STORAGE_FAILED        ErrorCode = 3003
	ErrorCode_ALERT_DISPATCH_FAILED ErrorCode = 3004

	ErrorCode_DB_CONNECTION_FAILED ErrorCode = 4000
	ErrorCode_DB_QUERY_FAILED      ErrorCode = 4001
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:               "HTTP_OK",
	ErrorCode_INTERNAL:              "INTERNAL",
	ErrorCode_SYNC_RUN_FAILED:       "SYNC_RUN_FAILED",
	ErrorCode_PROCESSOR_NOT_FOUND:   "PROCESSOR_NOT_FOUND",
	ErrorCode_EXTRACTION_FAILED:     "EXTRACTION_FAILED",
	ErrorCode_QUEUE_BOOKKEEPING:     "QUEUE_BOOKKEEPING",
	ErrorCode_LLM_UNAVAILABLE:       "LLM_UNAVAILABLE",
	ErrorCode_PROVIDER_FETCH_FAILED: "PROVIDER_FETCH_FAILED",
	ErrorCode_STORAGE_FAILED:        "STORAGE_FAILED",
	ErrorCode_ALERT_DISPATCH_FAILED: "ALERT_DISPATCH_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:  "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:       "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
