package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()

	cfg := validConfig()
	cfg.Env = EnvDev
	cfg.LogFormat = "text"
	cfg.LogLevel = "error"
	cfg.DatabaseFile = filepath.Join(dir, "tenancy.db")
	cfg.PepperFile = filepath.Join(dir, "pepper")
	cfg.Issuer = "tenancy-test"
	cfg.ShutdownGracePeriod = time.Second
	cfg.HousekeepingInterval = time.Hour
	return cfg
}

func TestNewServesInProcess(t *testing.T) {
	app, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.closeResources() })

	require.Nil(t, app.redis)
	require.Equal(t, "inline", app.queueMode())

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "ok", body.Status)
	require.Equal(t, BuildVersion, body.Version)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = EnvProd

	_, err := New(cfg)
	require.ErrorContains(t, err, "invalid configuration")
}
