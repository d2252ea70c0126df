package platform

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notehub/pkg/core"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://notehub-public.goit.study/api", cfg.BaseURL)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, 300*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 5*time.Minute, cfg.StaleTime)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "search", cfg.SearchParam)
	assert.Empty(t, cfg.Token, "the token is never defaulted")
}

func TestLoadConfig_RequiresToken(t *testing.T) {
	_, err := LoadConfig("", t.TempDir(), env(nil))
	assert.ErrorIs(t, err, core.ErrConfig)

	_, err = LoadConfig("", t.TempDir(), env(map[string]string{EnvToken: "  "}))
	assert.ErrorIs(t, err, core.ErrConfig)

	cfg, err := LoadConfig("", t.TempDir(), env(map[string]string{EnvToken: "tok"}))
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.Token)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "notehub.yaml", `
base_url: https://example.test/api
page_size: 6
debounce: 150ms
stale_time: 1m
search_param: q
breaker:
  max_failures: 3
  open_timeout: 10s
`)
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	cfg, err := LoadConfig("", nested, env(map[string]string{EnvToken: "tok"}))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "notehub.yaml"), cfg.Path)
	assert.Equal(t, "https://example.test/api", cfg.BaseURL)
	assert.Equal(t, 6, cfg.PageSize)
	assert.Equal(t, 150*time.Millisecond, cfg.Debounce)
	assert.Equal(t, time.Minute, cfg.StaleTime)
	assert.Equal(t, 30*time.Second, cfg.Timeout, "absent keys keep defaults")
	assert.Equal(t, "q", cfg.SearchParam)
	assert.Equal(t, BreakerConfig{MaxFailures: 3, OpenTimeout: 10 * time.Second}, cfg.Breaker)

	cfg, err = LoadConfig("", nested, env(map[string]string{
		EnvToken:   "tok",
		EnvBaseURL: "http://localhost:8080/api",
	}))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.BaseURL, "environment overrides the file")
}

func TestLoadConfig_TokenNotReadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "notehub.yaml", "token: from-file\n")

	_, err := LoadConfig(path, "", env(nil))
	assert.ErrorIs(t, err, core.ErrConfig)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"), "", env(map[string]string{EnvToken: "tok"}))
	assert.ErrorIs(t, err, core.ErrConfig, "an explicit path must exist")

	bad := writeConfig(t, dir, "bad.yaml", "page_size: [1, 2\n")
	_, err = LoadConfig(bad, "", env(map[string]string{EnvToken: "tok"}))
	assert.ErrorIs(t, err, core.ErrConfig)

	zero := writeConfig(t, dir, "zero.yaml", "page_size: 0\n")
	_, err = LoadConfig(zero, "", env(map[string]string{EnvToken: "tok"}))
	assert.ErrorIs(t, err, core.ErrConfig)
}

func TestConfig_RestConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token = "tok"
	cfg.SearchParam = "q"

	rc := cfg.RestConfig()
	assert.Equal(t, "tok", rc.Token)
	assert.Equal(t, "q", rc.SearchParam)
	assert.Equal(t, cfg.Breaker.MaxFailures, rc.Breaker.MaxFailures)
}
