// Package limiter throttles login attempts to slow down credential stuffing.
package limiter

import (
	"context"
	"time"
)

// Limiter controls login attempts and temporary lockouts per (username, ip).
type Limiter interface {
	// Allow reports whether a login attempt is currently permitted and an
	// optional retry-after when it is not.
	Allow(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error)
	// Success resets the failure counters after a successful login.
	Success(ctx context.Context, username string, ipHash []byte) error
	// Failure records a failed attempt; reports whether a block was placed.
	Failure(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error)
}
