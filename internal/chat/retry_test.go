package chat

import (
	"errors"
	"testing"
)

func TestDefaultRetryConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultRetryConfig()

	if cfg.MaxRetries <= 0 {
		t.Errorf("MaxRetries should be positive, got %d", cfg.MaxRetries)
	}
	if cfg.InitialInterval <= 0 {
		t.Errorf("InitialInterval should be positive, got %v", cfg.InitialInterval)
	}
	if cfg.MaxInterval < cfg.InitialInterval {
		t.Errorf("MaxInterval %v should be >= InitialInterval %v", cfg.MaxInterval, cfg.InitialInterval)
	}
}

func TestRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "rate limit", err: errors.New("rate limit exceeded"), want: true},
		{name: "quota exceeded", err: errors.New("quota exceeded for project"), want: true},
		{name: "429 status", err: errors.New("HTTP 429: Too Many Requests"), want: true},
		{name: "500 server error", err: errors.New("HTTP 500 Internal Server Error"), want: true},
		{name: "503 unavailable", err: errors.New("503 Service Unavailable"), want: true},
		{name: "connection reset", err: errors.New("connection reset by peer"), want: true},
		{name: "timeout", err: errors.New("request timeout"), want: true},
		{name: "temporary failure", err: errors.New("temporary failure in name resolution"), want: true},
		{name: "uppercase still matches", err: errors.New("RATE LIMIT reached"), want: true},
		{name: "invalid api key", err: errors.New("invalid API key"), want: false},
		{name: "400 bad request", err: errors.New("HTTP 400 Bad Request"), want: false},
		{name: "401 unauthorized", err: errors.New("HTTP 401 Unauthorized"), want: false},
		{name: "schema violation", err: errors.New("tool input does not match schema"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := retryableError(tt.err); got != tt.want {
				t.Errorf("retryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestContainsAny(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		s       string
		substrs []string
		want    bool
	}{
		{name: "empty string", s: "", substrs: []string{"todo"}, want: false},
		{name: "empty substrs", s: "todo list", substrs: []string{}, want: false},
		{name: "first substr matches", s: "deadline passed", substrs: []string{"deadline", "missing"}, want: true},
		{name: "last substr matches", s: "deadline passed", substrs: []string{"missing", "passed"}, want: true},
		{name: "case insensitive", s: "DEADLINE PASSED", substrs: []string{"deadline"}, want: true},
		{name: "no match", s: "deadline passed", substrs: []string{"missing", "absent"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := containsAny(tt.s, tt.substrs...); got != tt.want {
				t.Errorf("containsAny(%q, %v) = %v, want %v", tt.s, tt.substrs, got, tt.want)
			}
		})
	}
}
