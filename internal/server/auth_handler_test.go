package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/ppt-architect/internal/config"
	"github.com/jonathan/ppt-architect/internal/types"
)

const testAPIKey = "sk-service-key-123"

func newAuthServer(t *testing.T) *Server {
	t.Helper()
	keys := &config.APIKeyConfig{BcryptCost: bcrypt.MinCost}
	hash, err := keys.HashKey(testAPIKey)
	require.NoError(t, err)
	keys.KeyHash = hash
	return newTestServer(t, WithAuth(setupTestJWTService(t, 24), keys))
}

func issueToken(t *testing.T, s *Server) string {
	t.Helper()
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/auth/token", types.TokenRequest{APIKey: testAPIKey})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[types.TokenResponse](t, rec)
	assert.Equal(t, "Bearer", resp.TokenType)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func withBearer(t *testing.T, s *Server, method, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAuth_TokenExchange(t *testing.T) {
	s := newAuthServer(t)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/auth/token", types.TokenRequest{APIKey: "sk-wrong-key-000"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s.Handler(), http.MethodPost, "/api/auth/token", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	token := issueToken(t, s)
	assert.Equal(t, http.StatusOK, withBearer(t, s, http.MethodGet, "/api/themes", token).Code)
}

func TestAuth_ProtectsAPI(t *testing.T) {
	s := newAuthServer(t)

	assert.Equal(t, http.StatusUnauthorized, withBearer(t, s, http.MethodGet, "/api/models", "").Code)
	assert.Equal(t, http.StatusUnauthorized, withBearer(t, s, http.MethodGet, "/api/models", "bogus").Code)

	// the banner and health check stay public
	assert.Equal(t, http.StatusOK, withBearer(t, s, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, withBearer(t, s, http.MethodGet, "/", "").Code)
}

func TestAuth_DisabledTokenEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/auth/token", types.TokenRequest{APIKey: testAPIKey})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuth_DownloadLinkToken(t *testing.T) {
	s := newAuthServer(t)
	token := issueToken(t, s)

	task := &types.Task{ID: "task-1", Status: types.TaskCompleted, Progress: 100, FilePath: "/nonexistent/deck.pptx"}
	require.NoError(t, s.store.Create(context.Background(), task))
	other := &types.Task{ID: "task-2", Status: types.TaskPending}
	require.NoError(t, s.store.Create(context.Background(), other))

	rec := withBearer(t, s, http.MethodGet, "/api/task/task-1", token)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[types.TaskResponse](t, rec)

	link, err := url.Parse(resp.DownloadURL)
	require.NoError(t, err)
	assert.Equal(t, "/api/download/task-1", link.Path)
	linkToken := link.Query().Get("token")
	require.NotEmpty(t, linkToken)

	// the link authenticates without a header; the file itself is missing
	rec = withBearer(t, s, http.MethodGet, resp.DownloadURL, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// a download token cannot reach other tasks or other endpoints
	rec = withBearer(t, s, http.MethodGet, "/api/download/task-2?token="+linkToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = withBearer(t, s, http.MethodGet, "/api/models", linkToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
