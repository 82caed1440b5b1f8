package core

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symptomlog/internal/config"
	"symptomlog/internal/types"
)

type stubAuthenticator struct {
	actor *types.Actor
	err   error
	calls int
}

func (s *stubAuthenticator) ResolveToken(_ context.Context, _ string) (*types.Actor, error) {
	s.calls++
	return s.actor, s.err
}

func newTestServer(t *testing.T, authn Authenticator) *Server {
	t.Helper()
	srv, err := NewServer(&config.Config{}, slog.Default())
	require.NoError(t, err)
	srv.Authenticator = authn
	return srv
}

func authErrCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestAuthMiddleware_InjectsActor(t *testing.T) {
	authn := &stubAuthenticator{actor: &types.Actor{ID: "user-1", Type: types.ActorTypeUser}}
	srv := newTestServer(t, authn)

	var gotActor types.Actor
	var found bool
	handler := srv.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotActor, found = types.GetActor(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/symptoms", nil)
	req.Header.Set("Authorization", "Bearer raw-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, found)
	assert.Equal(t, "user-1", gotActor.ID)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	srv := newTestServer(t, &stubAuthenticator{})

	handler := srv.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/symptoms", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(types.ErrCodeAuthTokenMissing), authErrCode(t, rec))
}

func TestAuthMiddleware_ExpiredSession(t *testing.T) {
	authn := &stubAuthenticator{
		err: types.NewAppError(types.ErrCodeAuthSessionExpired, "session has expired", nil),
	}
	srv := newTestServer(t, authn)

	handler := srv.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/reports", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(types.ErrCodeAuthSessionExpired), authErrCode(t, rec))
}

func TestAuthMiddleware_PublicPathsBypass(t *testing.T) {
	authn := &stubAuthenticator{}
	srv := newTestServer(t, authn)

	handler := srv.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/health", "/v1/auth/register", "/v1/auth/login"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
	assert.Zero(t, authn.calls)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Bearer  abc123 ", "abc123"},
		{"Basic abc123", ""},
		{"Bearer", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractBearerToken(tt.header), tt.header)
	}
}
