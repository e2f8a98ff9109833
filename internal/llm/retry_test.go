package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2,
	}
}

func TestRetry(t *testing.T) {
	ok := MockResponse{Content: json.RawMessage(`{"ok":true}`)}
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	invalid := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}}
	truncated := MockResponse{Err: &ErrMaxTokensExceeded{}}

	tests := []struct {
		name      string
		script    []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{ok}, false, 1},
		{"transient then success", []MockResponse{down, ok}, false, 2},
		{"exhausted", []MockResponse{down, down, down, ok}, true, 3},
		{"truncation not retried", []MockResponse{truncated, ok}, true, 1},
		{"invalid retried once", []MockResponse{invalid, invalid, ok}, true, 2},
		{"invalid then success", []MockResponse{invalid, ok}, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetry_ContextCancelledDuringWait(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}})
	cfg := RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := WithRetry(mock, cfg).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_DelayHonoursRetryAfter(t *testing.T) {
	r := WithRetry(NewMockProvider(), RetryConfig{MaxAttempts: 2, InitialWait: time.Second, MaxWait: 4 * time.Second})

	assert.Equal(t, 3*time.Second, r.delay(0, &ErrRateLimit{RetryAfter: 3 * time.Second}))

	d := r.delay(5, errors.New("x"))
	assert.GreaterOrEqual(t, d, time.Duration(float64(4*time.Second)*0.8))
	assert.LessOrEqual(t, d, time.Duration(float64(4*time.Second)*1.2))
}

func TestRetry_ZeroAttemptsStillCallsOnce(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	_, err := WithRetry(mock, RetryConfig{}).Generate(context.Background(), Request{})
	assert.NoError(t, err)
	assert.Equal(t, 1, mock.CallCount())
}
