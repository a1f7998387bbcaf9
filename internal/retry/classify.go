// Package retry classifies HTTP/provider failures and computes backoff
// delays.
package retry

import (
	"context"
	"errors"
	"net"
	"net/url"
)

// Classification describes how a caller should react to a failure.
type Classification int

const (
	// ClassOK means the response should be treated as success.
	ClassOK Classification = iota
	// ClassTransient means the caller should retry with backoff (timeouts, 5xx).
	ClassTransient
	// ClassRateLimited means the caller should honor Retry-After or backoff.
	ClassRateLimited
	// ClassPermanent means the caller should give up without retrying (403/404 or other 4xx).
	ClassPermanent
)

// ClassifyHTTP maps an HTTP status code to a retry classification.
func ClassifyHTTP(status int) Classification {
	switch {
	case status >= 200 && status < 300:
		return ClassOK
	case status == 429:
		return ClassRateLimited
	case status == 403 || status == 404:
		return ClassPermanent
	case status >= 500:
		return ClassTransient
	case status >= 400:
		return ClassPermanent
	default:
		return ClassTransient
	}
}

// IsTransientTransportError reports whether err is a retryable transport
// failure (timeout, connection refused/reset, DNS failure) as opposed to a
// permanent one (context canceled, caller-side cancellation).
func IsTransientTransportError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return true
}
