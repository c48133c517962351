package retry

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"

	"google.golang.org/api/googleapi"
)

// StatusCoder is implemented by errors that carry an HTTP status
type StatusCoder interface {
	StatusCode() int
}

var transientErrnos = []syscall.Errno{
	syscall.ECONNRESET,
	syscall.ETIMEDOUT,
	syscall.ECONNREFUSED,
	syscall.EPIPE,
	syscall.ECONNABORTED,
}

var transientCodes = []string{
	"econnreset",
	"etimedout",
	"econnrefused",
	"epipe",
	"econnaborted",
	"eai_again",
}

var transientPhrases = []string{
	"rate limit",
	"quota",
	"timeout",
	"unavailable",
	"too many requests",
	"connection reset",
	"connection refused",
	"broken pipe",
	"temporary failure",
}

// IsRetryable reports whether err looks transient: HTTP 429 or 5xx (from a
// StatusCoder or a Google API error), a network timeout, a known transient errno, or a message naming a rate limit,
// quota, timeout or unavailability.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		code := sc.StatusCode()
		if code == http.StatusTooManyRequests || code >= 500 {
			return true
		}
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if gErr.Code == http.StatusTooManyRequests || gErr.Code >= 500 {
			return true
		}
	}

	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && (dnsErr.IsTemporary || dnsErr.IsTimeout) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, code := range transientCodes {
		if strings.Contains(errStr, code) {
			return true
		}
	}
	for _, phrase := range transientPhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}

	return false
}
