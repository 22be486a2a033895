package kafka

import "strings"

var retryablePatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"broker not available",
	"leader not available",
	"not enough replicas",
	"request timed out",
	"temporary",
}

// IsRetryable reports whether a write error is worth another attempt.
// Authorization, topic and message-size errors are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range retryablePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
