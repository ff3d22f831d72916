// Package apitest runs the full HTTP stack over a throwaway SQLite database.
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schooladmin/internal/bootstrap"
	"github.com/yigit/schooladmin/internal/config"
)

// Admin credentials seeded into every Env.
const (
	AdminEmail    = "admin@school.edu"
	AdminPassword = "admin-pass-123"
	AvatarBaseURL = "https://cdn.school.edu"
)

// Env is a running API server with its wiring exposed.
type Env struct {
	Server *httptest.Server
	Deps   *bootstrap.Dependencies
}

// New starts the API on an httptest server. Everything is torn down with t.
func New(t testing.TB) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.ShutdownTimeout = "1s"
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "api.db")
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTokenExpiration = "1h"
	cfg.JWT.Issuer = "schooladmin-test"
	cfg.Admin.Email = AdminEmail
	cfg.Admin.Password = AdminPassword
	cfg.Avatar.Driver = config.AvatarStatic
	cfg.Avatar.BaseURL = AvatarBaseURL

	lgr := zerolog.Nop()
	database, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	deps, err := bootstrap.BuildDependencies(ctx, cfg, database, lgr)
	require.NoError(t, err)

	srv := httptest.NewServer(bootstrap.SetupRouter(cfg, deps, lgr))
	t.Cleanup(srv.Close)

	return &Env{Server: srv, Deps: deps}
}

// URL returns the absolute URL of an API path such as "/api/v1/subjects".
func (e *Env) URL(path string) string {
	return e.Server.URL + path
}

// AdminToken logs in as the seeded admin and returns the access token.
func (e *Env) AdminToken(t testing.TB) string {
	t.Helper()
	body, err := json.Marshal(map[string]string{"email": AdminEmail, "password": AdminPassword})
	require.NoError(t, err)

	resp, err := http.Post(e.URL("/api/v1/auth/login"), "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Data.AccessToken)
	return out.Data.AccessToken
}
