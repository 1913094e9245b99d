package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kiretori/Affineur-des-Alpes/internal/errs"
	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
	"github.com/Kiretori/Affineur-des-Alpes/internal/token"
)

// noRedirectClient keeps 303 responses visible to assertions.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func doJSON(t *testing.T, method, target, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := noRedirectClient().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSignup_Created(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	env.auth.register = func(_ context.Context, username, password, confirm string) (*model.User, error) {
		require.Equal(t, "alice", username)
		require.Equal(t, password, confirm)
		return &model.User{ID: 1, Username: username, Role: model.RoleRegular}, nil
	}

	resp := doJSON(t, http.MethodPost, env.srv.URL+"/auth/signup", "", `{"username":"alice","password":"pw","password_confirm":"pw"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody[map[string]any](t, resp)
	require.EqualValues(t, 1, body["id"])
	require.Equal(t, "alice", body["username"])
}

func TestSignup_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"password mismatch", errs.ErrPasswordMismatch, http.StatusBadRequest},
		{"username taken", errs.ErrUsernameTaken, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			defer env.close()
			env.auth.register = func(context.Context, string, string, string) (*model.User, error) {
				return nil, tc.err
			}
			resp := doJSON(t, http.MethodPost, env.srv.URL+"/auth/signup", "", `{"username":"alice","password":"a","password_confirm":"b"}`)
			resp.Body.Close()
			require.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestSignup_BadBody(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	resp := doJSON(t, http.MethodPost, env.srv.URL+"/auth/signup", "", `{"username":`)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, env.srv.URL+"/auth/signup", "", `{"username":"","password":""}`)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestToken_Success(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	env.auth.login = func(_ context.Context, username, password, ip string) (model.Session, *model.User, error) {
		require.Equal(t, "alice", username)
		require.Equal(t, "pw", password)
		require.NotEmpty(t, ip)
		return model.Session{AccessToken: "tok123", ExpiresAt: time.Now().Add(time.Minute)},
			&model.User{ID: 1, Username: username}, nil
	}

	resp, err := noRedirectClient().PostForm(env.srv.URL+"/auth/token", url.Values{
		"username": {"alice"}, "password": {"pw"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	require.Equal(t, "tok123", body["access_token"])
	require.Equal(t, "bearer", body["token_type"])
}

func TestToken_GenericUnauthorized(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	env.auth.login = func(context.Context, string, string, string) (model.Session, *model.User, error) {
		return model.Session{}, nil, errs.ErrInvalidCredentials
	}

	resp, err := noRedirectClient().PostForm(env.srv.URL+"/auth/token", url.Values{
		"username": {"alice"}, "password": {"wrong"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	require.Equal(t, "could not validate user", body["error"])
}

func TestToken_RateLimited(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	env.auth.login = func(context.Context, string, string, string) (model.Session, *model.User, error) {
		return model.Session{}, nil, errs.ErrRateLimited
	}

	resp, err := noRedirectClient().PostForm(env.srv.URL+"/auth/token", url.Values{
		"username": {"alice"}, "password": {"pw"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestLogin_SetsCookieAndRedirects(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	env.auth.login = func(context.Context, string, string, string) (model.Session, *model.User, error) {
		return model.Session{AccessToken: "tok123", ExpiresAt: time.Now().Add(time.Minute)},
			&model.User{ID: 1, Username: "alice"}, nil
	}

	resp, err := noRedirectClient().PostForm(env.srv.URL+"/auth/login", url.Values{
		"username": {"alice"}, "password": {"pw"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == accessTokenCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.Equal(t, "tok123", cookie.Value)
	require.True(t, cookie.HttpOnly)
}

func TestLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	req, err := http.NewRequest(http.MethodPost, env.srv.URL+"/auth/logout", nil)
	require.NoError(t, err)
	resp, err := noRedirectClient().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == accessTokenCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.Empty(t, cookie.Value)
	require.Negative(t, cookie.MaxAge)
}

func TestAuthenticate_RejectsMissingAndBadTokens(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	resp := doJSON(t, http.MethodGet, env.srv.URL+"/", "", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	require.Equal(t, "could not validate user", body["error"])

	resp = doJSON(t, http.MethodGet, env.srv.URL+"/", "not-a-jwt", "")
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	// Same secret, elapsed TTL.
	past := token.NewIssuer([]byte("test-secret"), -time.Minute)
	raw, _, err := past.Issue(7, "casey", model.RoleRegular)
	require.NoError(t, err)

	resp := doJSON(t, http.MethodGet, env.srv.URL+"/", raw, "")
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticate_HeaderAndCookieSources(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	raw := env.tokenFor(model.RoleRegular)

	// Header path.
	resp := doJSON(t, http.MethodGet, env.srv.URL+"/", raw, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]any](t, resp)
	require.EqualValues(t, 7, body["id"])
	require.Equal(t, "casey", body["username"])
	require.Equal(t, "regular", body["role"])

	// Cookie fallback.
	req, err := http.NewRequest(http.MethodGet, env.srv.URL+"/", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: raw})
	resp2, err := noRedirectClient().Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	resp := doJSON(t, http.MethodGet, env.srv.URL+"/admin-only", env.tokenFor(model.RoleRegular), "")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	require.Equal(t, "admin privileges required", body["error"])

	resp = doJSON(t, http.MethodGet, env.srv.URL+"/admin-only", env.tokenFor(model.RoleAdmin), "")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	resp := doJSON(t, http.MethodGet, env.srv.URL+"/healthz", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	require.Equal(t, "ok", body["status"])

	env.pinger.err = errors.New("pool closed")
	resp = doJSON(t, http.MethodGet, env.srv.URL+"/healthz", "", "")
	resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
