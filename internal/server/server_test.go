package server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	repo "storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubProvider struct{}

func (stubProvider) CreateSession(context.Context, repo.SessionRequest) (repo.SessionResult, error) {
	return repo.SessionResult{ID: "cs_1", URL: "https://pay.example/cs_1"}, nil
}

type stubID struct{}

func (stubID) NewID() string { return "id" }

type stubClock struct{}

func (stubClock) Now() time.Time { return time.Unix(0, 0) }

func newServer(t *testing.T) (*echo.Echo, *observer.ObservedLogs) {
	t.Helper()
	return newServerEnv(t, "dev")
}

func newServerEnv(t *testing.T, env string) (*echo.Echo, *observer.ObservedLogs) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte(`[{"id":"p1"}]`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "success.html"), []byte("<p>ok</p>"), 0o600))

	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	uc := usecase.NewCheckoutUsecase(stubProvider{}, nil, stubID{}, stubClock{}, log)
	e := server.New(config.Config{PublicDir: dir, MaxBodySize: "1K", GoEnv: env}, log, server.Handlers{
		Checkout: handler.NewCheckoutHandler(uc),
		Health:   handler.NewHealthHandler(),
	})
	return e, logs
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestServer_ServesStaticFiles(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodGet, "/products.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"p1"}]`, rec.Body.String())

	rec = do(e, http.MethodGet, "/success.html", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_CheckoutRoute_WithRequestID(t *testing.T) {
	e, logs := newServer(t)

	rec := do(e, http.MethodPost, "/create-checkout-session", `{"items":[{"name":"Mug","price":299}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"url":"https://pay.example/cs_1"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	entries := logs.FilterMessage("request").All()
	require.Equal(t, 1, len(entries))
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, "/create-checkout-session", entries[0].ContextMap()["path"])
}

func TestServer_CheckoutSessions_DevOnly(t *testing.T) {
	dev, _ := newServerEnv(t, "dev")
	rec := do(dev, http.MethodGet, "/checkout-sessions", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	prod, _ := newServerEnv(t, "prod")
	rec = do(prod, http.MethodGet, "/checkout-sessions", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_BodyLimit(t *testing.T) {
	e, _ := newServer(t)

	big := `{"items":[{"name":"` + strings.Repeat("x", 2048) + `"}]}`
	rec := do(e, http.MethodPost, "/create-checkout-session", big)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServer_NotFound_LoggedAsWarn(t *testing.T) {
	e, logs := newServer(t)

	rec := do(e, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	entries := logs.FilterMessage("request").All()
	require.Equal(t, 1, len(entries))
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	e, _ := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- server.Start(ctx, e, "127.0.0.1:0", zap.NewNop()) }()

	require.Eventually(t, func() bool { return e.ListenerAddr() != nil }, 2*time.Second, 10*time.Millisecond)

	res, err := http.Get("http://" + e.ListenerAddr().String() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
