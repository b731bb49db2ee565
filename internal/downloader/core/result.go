package core

import (
	"time"

	apperrors "CWU/internal/errors"
)

// FailureKind classifies why a fetch failed.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureHTTP
	FailureNetwork
	FailureUnexpected
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureHTTP:
		return "http"
	case FailureNetwork:
		return "network"
	default:
		return "unexpected"
	}
}

// Result is the outcome of one fetch attempt.
type Result struct {
	Target  Target
	Path    string
	Bytes   int64
	Elapsed time.Duration
	Err     *apperrors.AppError
}

// OK reports whether the target was downloaded completely.
func (r Result) OK() bool {
	return r.Err == nil
}

// Failure returns the classification of the failure, FailureNone on success.
func (r Result) Failure() FailureKind {
	if r.Err == nil {
		return FailureNone
	}
	switch r.Err.Category {
	case apperrors.ErrCategoryHTTP:
		return FailureHTTP
	case apperrors.ErrCategoryNetwork:
		return FailureNetwork
	default:
		return FailureUnexpected
	}
}

// StatusCode returns the HTTP status of an HTTP failure, 0 otherwise.
func (r Result) StatusCode() int {
	if r.Failure() != FailureHTTP {
		return 0
	}
	if status, ok := r.Err.Field("status"); ok {
		if code, ok := status.(int); ok {
			return code
		}
	}
	return 0
}

// Blocked reports whether the server refused the request with 403, which for the
// definition mirror usually means a temporary CDN block.
func (r Result) Blocked() bool {
	return r.StatusCode() == 403
}
