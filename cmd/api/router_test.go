package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	authUsecase "imagepro-backend/internal/auth/usecase"
	profileUsecase "imagepro-backend/internal/profile/usecase"
	"imagepro-backend/pkg/config"
	"imagepro-backend/pkg/mailer"
	"imagepro-backend/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*gin.Engine, *storage.LocalStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	webDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "index.html"), []byte("<h1>home</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "login.html"), []byte("<h1>login</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "dashboard.html"), []byte("<h1>dashboard</h1>"), 0o644))

	cfg := &config.Config{
		SiteURL:          "https://imagepro.test",
		WebDir:           webDir,
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}

	store, err := storage.NewLocalStorage(t.TempDir(), "avatars", "/storage/avatars")
	require.NoError(t, err)

	// requests in these tests carry no cookies, so the repositories are never reached
	authUc := authUsecase.NewAuthUsecase(nil, nil, nil, mailer.NewLogSender(log), cfg, log)
	profileUc := profileUsecase.NewProfileUsecase(nil, store, nil, authUc, log)

	return NewHandler(authUc, profileUc, store, cfg, log).Engine(), store
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRouter_Health(t *testing.T) {
	r, _ := newTestEngine(t)
	w := get(r, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_Pages(t *testing.T) {
	r, _ := newTestEngine(t)

	w := get(r, "/login")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "login")

	w = get(r, "/some/client/route")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "home")

	w = get(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "home")
}

func TestRouter_GuardsDashboard(t *testing.T) {
	r, _ := newTestEngine(t)

	w := get(r, "/dashboard/settings")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirect=%2Fdashboard%2Fsettings", w.Header().Get("Location"))
}

func TestRouter_CallbackWithoutCode(t *testing.T) {
	r, _ := newTestEngine(t)

	w := get(r, "/auth/callback")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestRouter_APIRequiresSession(t *testing.T) {
	r, _ := newTestEngine(t)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/profile").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/auth/session").Code)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/account", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestRouter_ServesLocalAvatars(t *testing.T) {
	r, store := newTestEngine(t)
	require.NoError(t, os.MkdirAll(filepath.Join(store.Dir(), "user-1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "user-1", "avatar.png"), []byte("\x89PNG\r\n\x1a\n"), 0o644))

	w := get(r, "/storage/avatars/user-1/avatar.png")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "\x89PNG\r\n\x1a\n", w.Body.String())
}

func TestRouter_CORS(t *testing.T) {
	r, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "https://imagepro.test")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://imagepro.test", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "https://evil.test")
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
