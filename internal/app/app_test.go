package app_test

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"alcyxob/fitness-client/internal/app"
	"alcyxob/fitness-client/internal/config"
	"alcyxob/fitness-client/internal/domain"
	"alcyxob/fitness-client/internal/keystore"
	"alcyxob/fitness-client/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quiet() app.Option { return app.WithLogger(log.New(io.Discard, "", 0)) }

func newBackend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(server.New("test-secret", time.Hour).Router)
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func cfgFor(baseURL, storagePath string) config.Config {
	return config.Config{
		API:     config.APIConfig{BaseURL: baseURL, Timeout: 5 * time.Second},
		Storage: config.StorageConfig{Path: storagePath},
	}
}

func signup(t *testing.T, a *app.App, email string) *domain.User {
	t.Helper()
	u, err := a.Auth.Signup(context.Background(), domain.Registration{Name: "Ann", Email: email, Password: "secret123"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	return u
}

func TestStartRestoresSessionFromSQLite(t *testing.T) {
	base := newBackend(t)
	path := filepath.Join(t.TempDir(), "client.db")
	ctx := context.Background()

	first, err := app.New(cfgFor(base, path), quiet())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	u := signup(t, first, "ann@example.com")
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := app.New(cfgFor(base, path), quiet())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	ok, err := second.Start(ctx)
	if err != nil || !ok {
		t.Fatalf("expected restored session, got %v (%v)", ok, err)
	}
	if second.Auth.CurrentUserID() != u.ID {
		t.Fatalf("expected user %s, got %s", u.ID, second.Auth.CurrentUserID())
	}
	me, err := second.Auth.FetchCurrentUser(ctx)
	if err != nil || me.Email != "ann@example.com" {
		t.Fatalf("restored token not accepted: %+v (%v)", me, err)
	}
}

func TestStartWithoutSession(t *testing.T) {
	a, err := app.New(cfgFor("http://127.0.0.1:0/api", ""), quiet())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()
	ok, err := a.Start(context.Background())
	if err != nil || ok {
		t.Fatalf("expected nothing to restore, got %v (%v)", ok, err)
	}
}

func TestStartDiscardsExpiredToken(t *testing.T) {
	ctx := context.Background()
	store := keystore.NewMemory()
	claims := jwt.MapClaims{
		"uid": "64b000000000000000000001",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("whatever"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if err := store.Set(ctx, keystore.TokenKey, token); err != nil {
		t.Fatalf("set: %v", err)
	}

	a, err := app.New(cfgFor("http://127.0.0.1:0/api", ""), app.WithStore(store), quiet())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ok, err := a.Start(ctx)
	if err != nil || ok {
		t.Fatalf("expired token should not restore, got %v (%v)", ok, err)
	}
	if a.Auth.IsAuthenticated() {
		t.Fatal("expected signed out")
	}
	if _, err := store.Get(ctx, keystore.TokenKey); err == nil {
		t.Fatal("expired token should be removed from storage")
	}
}

func TestLogoutResetsStores(t *testing.T) {
	a, err := app.New(cfgFor(newBackend(t), ""), quiet())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()
	ctx := context.Background()
	signup(t, a, "ann@example.com")

	if _, err := a.Groups.Create(ctx, domain.GroupInput{Name: "Runners", Sport: "running"}); err != nil {
		t.Fatalf("create group: %v", err)
	}
	if len(a.Groups.Snapshot().Groups) == 0 {
		t.Fatal("expected a cached group")
	}

	if err := a.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if a.Auth.IsAuthenticated() {
		t.Fatal("expected signed out")
	}
	if n := len(a.Groups.Snapshot().Groups); n != 0 {
		t.Fatalf("expected empty group cache, got %d", n)
	}
	if tok, _ := a.API.StoredToken(ctx); tok != "" {
		t.Fatal("expected persisted token cleared")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestWithHTTPClientIsUsed(t *testing.T) {
	base := newBackend(t)
	var calls atomic.Int32
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls.Add(1)
		return http.DefaultTransport.RoundTrip(r)
	})}

	a, err := app.New(cfgFor(base, ""), app.WithHTTPClient(hc), quiet())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()
	signup(t, a, "ann@example.com")
	if calls.Load() == 0 {
		t.Fatal("custom http client was not used")
	}
}

func TestWithHTTPClientKeepsItsTimeout(t *testing.T) {
	hc := &http.Client{Timeout: 42 * time.Second}
	cfg := cfgFor("http://127.0.0.1:0/api", "")
	cfg.API.Timeout = 3 * time.Second

	a, err := app.New(cfg, app.WithHTTPClient(hc), quiet())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()
	if hc.Timeout != 42*time.Second {
		t.Fatalf("caller's client was modified: timeout %s", hc.Timeout)
	}
}
