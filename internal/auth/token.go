// Package auth provides session-token management for backend API requests.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 500 * time.Millisecond

	// expiryLeeway refreshes tokens slightly before their exp claim so a
	// request never leaves with a token that dies in flight.
	expiryLeeway = 30 * time.Second
)

// TokenSource supplies the bearer token used on API requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed token. Used for API-key style
// configuration and tests.
type StaticTokenSource string

// Token returns the fixed token.
func (s StaticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}

// RefreshFunc obtains a fresh session token from the auth provider.
type RefreshFunc func(ctx context.Context) (string, error)

// SessionTokenSource caches the current session token and refreshes it
// through an injected function. It is constructed once and passed to the API
// client, so token state is explicit rather than hidden in package globals.
// SetToken feeds auth-state-change events; Token retries the refresh with
// increasing delay when no usable cached token exists.
type SessionTokenSource struct {
	mu      sync.Mutex
	token   string
	refresh RefreshFunc

	attempts int
	delay    time.Duration
}

// SessionOption configures a SessionTokenSource.
type SessionOption func(*SessionTokenSource)

// WithRetryAttempts sets the number of refresh attempts.
func WithRetryAttempts(attempts int) SessionOption {
	return func(s *SessionTokenSource) {
		if attempts > 0 {
			s.attempts = attempts
		}
	}
}

// WithRetryDelay sets the initial delay between refresh attempts. The delay
// doubles after each failed attempt.
func WithRetryDelay(delay time.Duration) SessionOption {
	return func(s *SessionTokenSource) {
		if delay > 0 {
			s.delay = delay
		}
	}
}

// NewSessionTokenSource creates a token source backed by the given refresh
// function.
func NewSessionTokenSource(refresh RefreshFunc, opts ...SessionOption) *SessionTokenSource {
	s := &SessionTokenSource{
		refresh:  refresh,
		attempts: DefaultRetryAttempts,
		delay:    DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetToken replaces the cached token. Wire this to the auth provider's
// state-change events.
func (s *SessionTokenSource) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the cached token when still valid, otherwise refreshes.
// Refresh failures are retried with increasing delay up to the configured
// attempt count.
func (s *SessionTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && !tokenExpired(s.token) {
		return s.token, nil
	}

	if s.refresh == nil {
		return "", fmt.Errorf("no session token available and no refresh configured")
	}

	var lastErr error
	delay := s.delay
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		token, err := s.refresh(ctx)
		if err == nil && token != "" {
			s.token = token
			return token, nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("refresh returned empty token")
		}
	}

	return "", fmt.Errorf("no session token after %d attempts: %w", s.attempts, lastErr)
}

// tokenExpired inspects the JWT exp claim without verifying the signature —
// validation is the server's job, the client only decides when to refresh.
// Opaque (non-JWT) tokens are treated as non-expiring.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < expiryLeeway
}
