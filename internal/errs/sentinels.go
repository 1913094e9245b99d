// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials indicates a failed login (unknown user or wrong
	// password, deliberately indistinguishable).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken indicates a signup against an already registered username.
	ErrUsernameTaken = errors.New("username taken")

	// ErrPasswordMismatch indicates the signup confirmation differs from the password.
	ErrPasswordMismatch = errors.New("password mismatch")

	// ErrInvalidToken indicates a bearer token with a bad signature, wrong
	// signing method, malformed payload, or missing required claims.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrForbidden indicates an authenticated caller lacking the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnsupportedLogic indicates an unknown condition-combining mode on a
	// filtered fetch.
	ErrUnsupportedLogic = errors.New("unsupported logic")

	// ErrInvalidCondition indicates a filtered fetch condition naming an
	// unknown field or operator.
	ErrInvalidCondition = errors.New("invalid condition")
)

// ReferenceNotFoundError reports a foreign key that did not resolve to an
// existing row. It is raised before any write happens.
type ReferenceNotFoundError struct {
	Entity  string         // referenced entity name, e.g. "product"
	Filters map[string]any // lookup filters, e.g. {"id": 999}
}

func (e *ReferenceNotFoundError) Error() string {
	keys := make([]string, 0, len(e.Filters))
	for k := range e.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Filters[k]))
	}
	return fmt.Sprintf("%s not found with filters {%s}", e.Entity, strings.Join(parts, ", "))
}

// Is lets errors.Is(err, ErrNotFound) match reference misses as well.
func (e *ReferenceNotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError wraps a storage failure that aborted the surrounding
// transaction. It is never produced for domain outcomes (missing rows,
// duplicate usernames); only for infrastructure faults.
type PersistenceError struct {
	Op  string // repository operation, e.g. "order.create"
	Err error
}

func (e *PersistenceError) Error() string { return "persist " + e.Op + ": " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }
