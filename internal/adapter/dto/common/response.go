package common

// ErrorResponse is the body of cron endpoint failures
type ErrorResponse struct {
	Error string `json:"error" example:"unauthorized"`
}

// ListResponse wraps a list payload
type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}
