package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialDelay:   5 * time.Millisecond,
		MaxDelay:       20 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// run calls Do for an operation without a result.
func run(ctx context.Context, cfg Config, fn func() error) error {
	_, err := Do(ctx, cfg, func() (struct{}, error) { return struct{}{}, fn() })
	return err
}

func TestDo_Attempts(t *testing.T) {
	serverErr := &HTTPError{StatusCode: 503, Message: "model loading"}
	badRequest := &HTTPError{StatusCode: 400, Message: "bad inputs"}

	tests := []struct {
		name         string
		cfg          Config
		failures     int
		failWith     error
		wantAttempts int
		wantErr      bool
	}{
		{name: "success first try", cfg: fastConfig(3), failures: 0, wantAttempts: 1},
		{name: "success after transient failures", cfg: fastConfig(3), failures: 2, failWith: serverErr, wantAttempts: 3},
		{name: "gives up after max attempts", cfg: fastConfig(3), failures: 5, failWith: serverErr, wantAttempts: 3, wantErr: true},
		{name: "non-retryable aborts", cfg: fastConfig(3), failures: 5, failWith: badRequest, wantAttempts: 1, wantErr: true},
		{name: "no retry config runs once", cfg: NoRetryConfig(), failures: 5, failWith: serverErr, wantAttempts: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := run(context.Background(), tt.cfg, func() error {
				attempts++
				if attempts <= tt.failures {
					return tt.failWith
				}
				return nil
			})

			assert.Equal(t, tt.wantAttempts, attempts)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.failWith)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDo_SingleAttemptReturnsErrorUnwrapped(t *testing.T) {
	want := errors.New("inference failed")
	err := run(context.Background(), NoRetryConfig(), func() error { return want })
	assert.Same(t, want, err)
}

func TestDo_ContextCancellationDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(5)
	cfg.InitialDelay = time.Second
	cfg.MaxDelay = time.Second

	attempts := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := run(ctx, cfg, func() error {
		attempts++
		return &HTTPError{StatusCode: 502, Message: "bad gateway"}
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestModelAPIConfig(t *testing.T) {
	assert.Equal(t, 1, ModelAPIConfig(0).MaxAttempts)
	assert.Equal(t, 1, ModelAPIConfig(-3).MaxAttempts)
	assert.Equal(t, 4, ModelAPIConfig(4).MaxAttempts)
	assert.LessOrEqual(t, ModelAPIConfig(4).InitialDelay, ModelAPIConfig(4).MaxDelay)
	assert.Equal(t, 1, NoRetryConfig().MaxAttempts)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: false},
		{name: "net timeout", err: timeoutErr{}, want: true},
		{name: "connection refused", err: syscall.ECONNREFUSED, want: true},
		{name: "connection reset", err: fmt.Errorf("post: %w", syscall.ECONNRESET), want: true},
		{name: "503", err: &HTTPError{StatusCode: 503}, want: true},
		{name: "429", err: &HTTPError{StatusCode: 429}, want: true},
		{name: "408", err: &HTTPError{StatusCode: 408}, want: true},
		{name: "401", err: &HTTPError{StatusCode: 401}, want: false},
		{name: "plain error", err: errors.New("invalid json"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{StatusCode: 503, Message: "Model t5-small is currently loading"}
	assert.Equal(t, "HTTP 503: Model t5-small is currently loading", err.Error())
}

func TestAddJitter(t *testing.T) {
	base := 100 * time.Millisecond

	assert.Equal(t, base, addJitter(base, 0))
	for i := 0; i < 20; i++ {
		got := addJitter(base, 0.5)
		assert.GreaterOrEqual(t, got, base)
		assert.LessOrEqual(t, got, base+base/2)
	}
	assert.LessOrEqual(t, addJitter(base, 3), 2*base)
}

func TestDo_ReturnsResult(t *testing.T) {
	attempts := 0
	got, err := Do(context.Background(), fastConfig(3), func() (string, error) {
		attempts++
		if attempts == 1 {
			return "", &HTTPError{StatusCode: 429, Message: "slow down"}
		}
		return "summary", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "summary", got)
	assert.Equal(t, 2, attempts)
}

func TestDo_ZeroValueOnFailure(t *testing.T) {
	got, err := Do(context.Background(), fastConfig(2), func() (int, error) {
		return 42, &HTTPError{StatusCode: 500}
	})

	require.Error(t, err)
	assert.Zero(t, got)
}

func TestWaitFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		delay    time.Duration
		maxDelay time.Duration
		want     time.Duration
	}{
		{name: "plain error keeps delay", err: errors.New("x"), delay: time.Second, maxDelay: 10 * time.Second, want: time.Second},
		{name: "hint stretches delay", err: &HTTPError{StatusCode: 503, RetryAfter: 5 * time.Second}, delay: time.Second, maxDelay: 10 * time.Second, want: 5 * time.Second},
		{name: "hint capped", err: &HTTPError{StatusCode: 503, RetryAfter: time.Minute}, delay: time.Second, maxDelay: 10 * time.Second, want: 10 * time.Second},
		{name: "short hint ignored", err: &HTTPError{StatusCode: 503, RetryAfter: time.Millisecond}, delay: time.Second, maxDelay: 10 * time.Second, want: time.Second},
		{name: "wrapped hint", err: fmt.Errorf("call: %w", &HTTPError{StatusCode: 429, RetryAfter: 3 * time.Second}), delay: time.Second, maxDelay: 10 * time.Second, want: 3 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, waitFor(tt.err, tt.delay, tt.maxDelay))
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{value: "", want: 0},
		{value: "7", want: 7 * time.Second},
		{value: " 2 ", want: 2 * time.Second},
		{value: "-1", want: 0},
		{value: "Wed, 21 Oct 2015 07:28:00 GMT", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			h := http.Header{}
			if tt.value != "" {
				h.Set("Retry-After", tt.value)
			}
			assert.Equal(t, tt.want, ParseRetryAfter(h))
		})
	}
}
