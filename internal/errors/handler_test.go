package apperrors

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"
)

func TestHandleSearchError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		err          error
		duration     time.Duration
		expectedCode int
		expectedText string
	}{
		{
			name:         "nil error is success",
			err:          nil,
			expectedCode: ExitSuccess,
		},
		{
			name:         "deadline exceeded maps to timeout",
			err:          context.DeadlineExceeded,
			duration:     2 * time.Second,
			expectedCode: ExitErrorTimeout,
			expectedText: "Timeout",
		},
		{
			name:         "canceled maps to canceled exit code",
			err:          context.Canceled,
			expectedCode: ExitErrorCanceled,
			expectedText: "Canceled",
		},
		{
			name:         "domain error maps to rejection",
			err:          NewDomainError(big.NewInt(5), "below minimum bound"),
			expectedCode: ExitErrorDomain,
			expectedText: "Rejected",
		},
		{
			name:         "wrapped domain error still detected",
			err:          WrapError(NewDomainError(big.NewInt(5), "below minimum bound"), "factor"),
			expectedCode: ExitErrorDomain,
			expectedText: "Rejected",
		},
		{
			name:         "generic error",
			err:          errors.New("boom"),
			expectedCode: ExitErrorGeneric,
			expectedText: "unexpected error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := HandleSearchError(tt.err, tt.duration, &buf, nil)
			if code != tt.expectedCode {
				t.Errorf("expected exit code %d, got %d", tt.expectedCode, code)
			}
			if tt.expectedText != "" && !strings.Contains(buf.String(), tt.expectedText) {
				t.Errorf("expected output to contain %q, got %q", tt.expectedText, buf.String())
			}
		})
	}
}
