package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/vietddude/glossary/internal/core/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"quota sentinel", fmt.Errorf("wrap: %w", domain.ErrQuotaExceeded), ClassQuota},
		{"transient sentinel", domain.ErrTransientServer, ClassTransient},
		{"rejected sentinel", fmt.Errorf("blocked: %w", domain.ErrRejectedInput), ClassRejected},
		{"timeout sentinel", domain.ErrTimeout, ClassTimeout},
		{"plain error", errors.New("boom"), ClassFatal},

		{"googleapi 500", &googleapi.Error{Code: http.StatusInternalServerError}, ClassTransient},
		{"googleapi 503", fmt.Errorf("docs get: %w", &googleapi.Error{Code: http.StatusServiceUnavailable}), ClassTransient},
		{"googleapi 429", &googleapi.Error{Code: http.StatusTooManyRequests}, ClassQuota},
		{"googleapi 403 rate limit", &googleapi.Error{
			Code:   http.StatusForbidden,
			Errors: []googleapi.ErrorItem{{Reason: "userRateLimitExceeded"}},
		}, ClassQuota},
		{"googleapi 403 forbidden", &googleapi.Error{
			Code:   http.StatusForbidden,
			Errors: []googleapi.ErrorItem{{Reason: "insufficientPermissions"}},
		}, ClassFatal},
		{"googleapi 404", &googleapi.Error{Code: http.StatusNotFound}, ClassFatal},

		{"genai resource exhausted", genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}, ClassQuota},
		{"genai unavailable", fmt.Errorf("gemini: %w", genai.APIError{Code: 503, Status: "UNAVAILABLE"}), ClassTransient},
		{"genai invalid argument", genai.APIError{Code: 400, Status: "INVALID_ARGUMENT"}, ClassRejected},
		{"genai invalid api key", genai.APIError{
			Code:    400,
			Status:  "INVALID_ARGUMENT",
			Message: "API key not valid. Please pass a valid API key.",
		}, ClassFatal},
		{"genai api key reason", genai.APIError{
			Code:    400,
			Status:  "INVALID_ARGUMENT",
			Details: []map[string]any{{"@type": "type.googleapis.com/google.rpc.ErrorInfo", "reason": "API_KEY_INVALID"}},
		}, ClassFatal},
		{"genai unknown model", genai.APIError{Code: 404, Status: "NOT_FOUND"}, ClassFatal},
		{"genai permission denied", genai.APIError{Code: 403, Status: "PERMISSION_DENIED"}, ClassFatal},

		{"grpc resource exhausted", status.Error(codes.ResourceExhausted, "quota"), ClassQuota},
		{"grpc unavailable", status.Error(codes.Unavailable, "transient failure"), ClassTransient},
		{"grpc internal", status.Error(codes.Internal, "oops"), ClassTransient},
		{"grpc invalid argument", status.Error(codes.InvalidArgument, "bad prompt"), ClassRejected},
		{"grpc deadline", status.Error(codes.DeadlineExceeded, "slow"), ClassTimeout},
		{"grpc not found", status.Error(codes.NotFound, "missing"), ClassFatal},

		{"context deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), ClassTimeout},
		{"os deadline", os.ErrDeadlineExceeded, ClassTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestClass_Policy(t *testing.T) {
	if !ClassQuota.Backoff() || !ClassTransient.Backoff() {
		t.Error("quota and transient classes must back off")
	}
	if ClassRejected.Backoff() || ClassTimeout.Backoff() {
		t.Error("rejected and timeout classes must not back off")
	}
	if ClassFatal.Retryable() {
		t.Error("fatal class must not be retryable")
	}
}

func TestRetryHint_GRPC(t *testing.T) {
	st, err := status.New(codes.ResourceExhausted, "quota").WithDetails(&errdetails.RetryInfo{
		RetryDelay: durationpb.New(35 * time.Second),
	})
	if err != nil {
		t.Fatalf("WithDetails failed: %v", err)
	}

	hint, ok := RetryHint(st.Err())
	if !ok {
		t.Fatal("expected retry hint")
	}
	if hint != 35*time.Second {
		t.Errorf("hint = %v, want 35s", hint)
	}
}

func TestRetryHint_GenAI(t *testing.T) {
	err := genai.APIError{
		Code:   429,
		Status: "RESOURCE_EXHAUSTED",
		Details: []map[string]any{
			{"@type": "type.googleapis.com/google.rpc.QuotaFailure"},
			{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "12s"},
		},
	}

	hint, ok := RetryHint(err)
	if !ok || hint != 12*time.Second {
		t.Errorf("RetryHint = %v, %v; want 12s, true", hint, ok)
	}

	if _, ok := RetryHint(errors.New("plain")); ok {
		t.Error("expected no hint for plain error")
	}
}
