package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Kiretori/Affineur-des-Alpes/internal/errs"
	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
)

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("secret"), 20*time.Minute)
	raw, exp, err := iss.Issue(42, "alice", model.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if until := time.Until(exp); until <= 0 || until > 20*time.Minute {
		t.Fatalf("expiry out of range: %v", exp)
	}

	claims, err := iss.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "alice" || claims.UserID != 42 || claims.Role != model.RoleAdmin {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("secret"), -time.Minute)
	raw, _, err := iss.Issue(1, "bob", model.RoleRegular)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := iss.Verify(raw); !errors.Is(err, errs.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}

func TestVerify_BadSignatureAndGarbage(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("secret"), time.Minute)
	other := NewIssuer([]byte("other"), time.Minute)

	raw, _, err := other.Issue(1, "mallory", model.RoleRegular)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := iss.Verify(raw); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for foreign signature, got %v", err)
	}

	if _, err := iss.Verify("not.a.token"); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for garbage, got %v", err)
	}
}

func TestVerify_MissingRequiredClaims(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	iss := NewIssuer(secret, time.Minute)

	// Signed with the right key and method but without sub/id.
	bare := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	raw, err := bare.SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	if _, err := iss.Verify(raw); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for missing claims, got %v", err)
	}
}

func TestVerify_WrongSigningMethod(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("secret"), time.Minute)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "eve",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	if _, err := iss.Verify(raw); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for none method, got %v", err)
	}
}
