// Package token issues and verifies the signed bearer tokens used by the
// session middleware.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Kiretori/Affineur-des-Alpes/internal/errs"
	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
)

// Claims is the signed claim set embedded in every access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64      `json:"id"`
	Role   model.Role `json:"role"`
}

// Issuer signs and verifies HS256 tokens with a process-wide secret.
// The secret is read-only after construction.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer constructs an Issuer. ttl applies to every issued token.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue signs a token for the given identity, expiring at now+ttl (UTC).
func (i *Issuer) Issue(userID int64, username string, role model.Role) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: userID,
		Role:   role,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	return signed, exp, err
}

// Verify checks signature and expiry and returns the embedded claims.
// Expired tokens map to errs.ErrTokenExpired; everything else that fails
// validation (signature, method, payload, missing sub/id) maps to
// errs.ErrInvalidToken. No leeway window is applied.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.ErrTokenExpired
		}
		return nil, errs.ErrInvalidToken
	}
	if claims.Subject == "" || claims.UserID == 0 {
		return nil, errs.ErrInvalidToken
	}
	return &claims, nil
}
