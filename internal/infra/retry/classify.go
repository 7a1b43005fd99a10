package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vietddude/glossary/internal/core/domain"
)

// Class determines how the executor handles an error.
type Class int

const (
	ClassFatal Class = iota
	ClassQuota
	ClassTransient
	ClassRejected
	ClassTimeout
)

func (c Class) String() string {
	switch c {
	case ClassQuota:
		return "quota"
	case ClassTransient:
		return "transient"
	case ClassRejected:
		return "rejected"
	case ClassTimeout:
		return "timeout"
	default:
		return "fatal"
	}
}

// Backoff reports whether the class sleeps and grows the delay before retrying.
func (c Class) Backoff() bool {
	return c == ClassQuota || c == ClassTransient
}

// Retryable reports whether another attempt may be made.
func (c Class) Retryable() bool {
	return c != ClassFatal
}

// Classify determines the class for a given error.
func Classify(err error) Class {
	if err == nil {
		return ClassFatal // Should not happen
	}

	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		return ClassQuota
	case errors.Is(err, domain.ErrTransientServer):
		return ClassTransient
	case errors.Is(err, domain.ErrRejectedInput):
		return ClassRejected
	case errors.Is(err, domain.ErrTimeout):
		return ClassTimeout
	}

	// Drive / Docs
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return classifyHTTP(gErr.Code, googleReasons(gErr))
	}

	// Gemini
	var aErr genai.APIError
	if errors.As(err, &aErr) {
		if aErr.Status == "RESOURCE_EXHAUSTED" {
			return ClassQuota
		}
		if aErr.Code == http.StatusBadRequest && aErr.Status == "INVALID_ARGUMENT" {
			if invalidCredentials(aErr) {
				return ClassFatal
			}
			return ClassRejected
		}
		return classifyHTTP(aErr.Code, nil)
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		switch st.Code() {
		case codes.ResourceExhausted:
			return ClassQuota
		case codes.Unavailable, codes.Internal:
			return ClassTransient
		case codes.InvalidArgument:
			return ClassRejected
		case codes.DeadlineExceeded:
			return ClassTimeout
		}
		return ClassFatal
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return ClassTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassTimeout
	}

	return ClassFatal
}

func classifyHTTP(code int, reasons []string) Class {
	switch code {
	case http.StatusTooManyRequests:
		return ClassQuota
	case http.StatusForbidden:
		for _, r := range reasons {
			if r == "rateLimitExceeded" || r == "userRateLimitExceeded" {
				return ClassQuota
			}
		}
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return ClassTransient
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ClassTimeout
	}
	return ClassFatal
}

// invalidCredentials reports whether a Gemini INVALID_ARGUMENT is about the
// API key rather than the request content. Retrying cannot fix those.
func invalidCredentials(aErr genai.APIError) bool {
	for _, detail := range aErr.Details {
		if reason, _ := detail["reason"].(string); strings.HasPrefix(reason, "API_KEY_") {
			return true
		}
	}
	return strings.Contains(strings.ToLower(aErr.Message), "api key")
}

func googleReasons(gErr *googleapi.Error) []string {
	reasons := make([]string, 0, len(gErr.Errors))
	for _, item := range gErr.Errors {
		reasons = append(reasons, item.Reason)
	}
	return reasons
}

// RetryHint returns the server-suggested delay attached to err, if any.
// It is informational; the executor keeps its own schedule.
func RetryHint(err error) (time.Duration, bool) {
	if st, ok := status.FromError(err); ok {
		for _, d := range st.Details() {
			if info, ok := d.(*errdetails.RetryInfo); ok && info.GetRetryDelay() != nil {
				return info.GetRetryDelay().AsDuration(), true
			}
		}
	}

	var aErr genai.APIError
	if errors.As(err, &aErr) {
		for _, detail := range aErr.Details {
			if t, _ := detail["@type"].(string); !strings.HasSuffix(t, "google.rpc.RetryInfo") {
				continue
			}
			if raw, ok := detail["retryDelay"].(string); ok {
				if d, err := time.ParseDuration(raw); err == nil {
					return d, true
				}
			}
		}
	}

	return 0, false
}
