package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "tweetfetch/pkg/errors"
)

func TestExponentialBackoff(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.0, // No jitter for predictable testing
	}

	tests := []struct {
		attempt     int
		expected    time.Duration
		description string
	}{
		{1, 100 * time.Millisecond, "First attempt"},
		{2, 200 * time.Millisecond, "Second attempt"},
		{3, 400 * time.Millisecond, "Third attempt"},
		{4, 800 * time.Millisecond, "Fourth attempt"},
		{5, 1 * time.Second, "Fifth attempt (capped at max)"},
		{6, 1 * time.Second, "Sixth attempt (still capped)"},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			delay := backoff.NextDelay(test.attempt)
			if delay != test.expected {
				t.Errorf("Expected delay %v, got %v", test.expected, delay)
			}
		})
	}
}

func TestExponentialBackoffWithJitter(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.3,
	}

	delays := make(map[time.Duration]bool)
	for i := 0; i < 10; i++ {
		delay := backoff.NextDelay(2)
		delays[delay] = true
	}

	// With jitter, we should get different delays
	if len(delays) < 2 {
		t.Error("Expected multiple different delays with jitter, but got consistent delays")
	}
}

func TestRetryWithSuccess(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}

	cfg := &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     func(err error) bool { return true },
		Context:     context.Background(),
	}

	err := Do(op, cfg)
	if err != nil {
		t.Errorf("Expected success after retries, got error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetryWithMaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		return errors.New("persistent error")
	}

	cfg := &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     func(err error) bool { return true },
		Context:     context.Background(),
	}

	err := Do(op, cfg)
	if err == nil {
		t.Error("Expected error when max attempts exceeded")
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetryWithNonRetryableError(t *testing.T) {
	attempts := 0
	authError := &errs.Error{
		Type:    errs.ErrorTypeAuth,
		Message: "authentication failed",
		Code:    401,
	}

	op := func() error {
		attempts++
		return authError
	}

	cfg := &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
	}

	err := Do(op, cfg)
	if err != authError {
		t.Errorf("Expected auth error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt (no retry for auth error), got %d", attempts)
	}
}

func TestRetryHonorsRetryAfterHint(t *testing.T) {
	rateLimitError := &errs.Error{
		Type:       errs.ErrorTypeRateLimit,
		Message:    "rate limit exceeded",
		Code:       429,
		RetryAfter: 5 * time.Millisecond,
	}

	attempts := 0
	op := func() error {
		attempts++
		if attempts < 2 {
			return rateLimitError
		}
		return nil
	}

	var observedDelay time.Duration
	cfg := &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: time.Hour}, // Would stall without the hint
		RetryIf:     DefaultRetryIf,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			observedDelay = delay
		},
		Context: context.Background(),
	}

	err := Do(op, cfg)
	if err != nil {
		t.Errorf("Expected success after retry, got error: %v", err)
	}
	if observedDelay != rateLimitError.RetryAfter {
		t.Errorf("Expected server hint %v to override backoff, got %v",
			rateLimitError.RetryAfter, observedDelay)
	}
}

func TestRetryWithContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	op := func() error {
		attempts++
		if attempts == 2 {
			cancel() // Cancel after second attempt
		}
		return errors.New("error")
	}

	cfg := &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: 100 * time.Millisecond},
		RetryIf:     func(err error) bool { return true },
		Context:     ctx,
	}

	err := Do(op, cfg)
	if err == nil {
		t.Error("Expected error when context cancelled")
	}
	if attempts > 3 {
		t.Errorf("Expected at most 3 attempts before cancellation, got %d", attempts)
	}
}

func TestErrorTypeBackoff(t *testing.T) {
	etb := NewErrorTypeBackoff()

	networkBackoff := etb.GetBackoffForError("network")
	if eb, ok := networkBackoff.(*ExponentialBackoff); ok {
		if eb.BaseDelay != 1*time.Second {
			t.Errorf("Expected network base delay of 1s, got %v", eb.BaseDelay)
		}
	} else {
		t.Error("Expected ExponentialBackoff for network errors")
	}

	rateLimitBackoff := etb.GetBackoffForError("rate_limit")
	if eb, ok := rateLimitBackoff.(*ExponentialBackoff); ok {
		if eb.BaseDelay != 30*time.Second {
			t.Errorf("Expected rate limit base delay of 30s, got %v", eb.BaseDelay)
		}
	} else {
		t.Error("Expected ExponentialBackoff for rate limit errors")
	}
}

func TestDoWithResult(t *testing.T) {
	attempts := 0
	op := func() (string, error) {
		attempts++
		if attempts < 2 {
			return "", errors.New("temporary error")
		}
		return "success", nil
	}

	cfg := &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     func(err error) bool { return true },
		Context:     context.Background(),
	}

	result, err := DoWithResult(op, cfg)
	if err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if result != "success" {
		t.Errorf("Expected 'success', got '%s'", result)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}

func TestErrorTypeBackoffRoutesByErrorType(t *testing.T) {
	etb := &ErrorTypeBackoff{
		NetworkErrorBackoff: &ConstantBackoff{Delay: 1 * time.Second},
		RateLimitBackoff:    &ConstantBackoff{Delay: 30 * time.Second},
		ServerErrorBackoff:  &ConstantBackoff{Delay: 5 * time.Second},
		DefaultBackoff:      &ConstantBackoff{Delay: 2 * time.Second},
	}

	tests := []struct {
		name     string
		err      error
		expected time.Duration
	}{
		{"rate limit", &errs.Error{Type: errs.ErrorTypeRateLimit}, 30 * time.Second},
		{"network", &errs.Error{Type: errs.ErrorTypeNetwork}, 1 * time.Second},
		{"server error", &errs.Error{Type: errs.ErrorTypeServerError}, 5 * time.Second},
		{"untyped error", errors.New("plain"), 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delay := etb.NextDelayForError(1, tt.err)
			if delay != tt.expected {
				t.Errorf("Expected delay %v, got %v", tt.expected, delay)
			}
		})
	}

	// Without an error to inspect, the default strategy applies
	if delay := etb.NextDelay(1); delay != 2*time.Second {
		t.Errorf("Expected default delay 2s, got %v", delay)
	}
}

func TestDoUsesErrorAwareBackoff(t *testing.T) {
	etb := &ErrorTypeBackoff{
		NetworkErrorBackoff: &ConstantBackoff{Delay: 0},
		RateLimitBackoff:    &ConstantBackoff{Delay: 3 * time.Millisecond},
		ServerErrorBackoff:  &ConstantBackoff{Delay: 0},
		DefaultBackoff:      &ConstantBackoff{Delay: 0},
	}

	attempts := 0
	op := func() error {
		attempts++
		if attempts < 2 {
			return &errs.Error{Type: errs.ErrorTypeRateLimit, Message: "rate limit exceeded"}
		}
		return nil
	}

	var observedDelay time.Duration
	cfg := &Config{
		MaxAttempts: 3,
		Backoff:     etb,
		RetryIf:     DefaultRetryIf,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			observedDelay = delay
		},
		Context: context.Background(),
	}

	if err := Do(op, cfg); err != nil {
		t.Errorf("Expected success after retry, got error: %v", err)
	}
	if observedDelay != 3*time.Millisecond {
		t.Errorf("Expected rate limit delay 3ms, got %v", observedDelay)
	}
}
