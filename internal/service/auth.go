// Package service contains application services for authentication.
package service

import (
	"context"
	"errors"
	"fmt"

	pkgcrypto "github.com/Kiretori/Affineur-des-Alpes/internal/crypto"
	"github.com/Kiretori/Affineur-des-Alpes/internal/errs"
	"github.com/Kiretori/Affineur-des-Alpes/internal/limiter"
	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
	"github.com/Kiretori/Affineur-des-Alpes/internal/repository"
	"github.com/Kiretori/Affineur-des-Alpes/internal/token"
)

// AuthService defines signup and login operations.
type AuthService interface {
	// Register creates a new regular-role user after confirming the password.
	Register(ctx context.Context, username, password, confirm string) (*model.User, error)
	// LoginWithIP applies rate limiting and authenticates the user.
	LoginWithIP(ctx context.Context, username, password, ip string) (model.Session, *model.User, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	issuer *token.Issuer
	lim    limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, issuer *token.Issuer, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, issuer: issuer, lim: lim}
}

// Register creates a new user record. The confirmation must match the
// password; a duplicate username surfaces as errs.ErrUsernameTaken and
// leaves exactly one user row in place.
func (s *AuthServiceImpl) Register(ctx context.Context, username, password, confirm string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, errors.New("empty username/password")
	}
	if password != confirm {
		return nil, errs.ErrPasswordMismatch
	}
	digest, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		Username: username,
		PwdHash:  digest,
		Role:     model.RoleRegular,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// LoginWithIP authenticates with rate limiting by (username, ip).
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, username, password, ip string) (model.Session, *model.User, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return model.Session{}, nil, err
	}
	if !allowed {
		return model.Session{}, nil, errs.ErrRateLimited
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		// Only an absent user is masked as bad credentials; storage faults
		// propagate so they never surface as a 401 or count as an attempt.
		if !errors.Is(err, errs.ErrNotFound) {
			return model.Session{}, nil, err
		}
		err = errs.ErrInvalidCredentials
	} else {
		var ok bool
		ok, err = pkgcrypto.VerifyPassword(password, u.PwdHash)
		if err != nil {
			// malformed stored digest is a configuration fault, not a 401
			return model.Session{}, nil, fmt.Errorf("verify password: %w", err)
		}
		if !ok {
			err = errs.ErrInvalidCredentials
		}
	}
	if err != nil {
		// Record the failure; if the threshold was reached, report the block.
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return model.Session{}, nil, errs.ErrRateLimited
		}
		return model.Session{}, nil, errs.ErrInvalidCredentials
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, username, ipHash)

	access, exp, err := s.issuer.Issue(u.ID, u.Username, u.Role)
	if err != nil {
		return model.Session{}, nil, err
	}
	return model.Session{AccessToken: access, ExpiresAt: exp}, u, nil
}
