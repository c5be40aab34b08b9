package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no FOLIO_ variable set.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, k := range []string{EnvAPIURL, EnvCurrency, EnvRefresh, EnvTokenFile, EnvTracing, EnvModel} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)
	c, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_url: https://folio.example.com/api
currency: USD
refresh: 30s
token_file: /tmp/token
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FOLIO_CURRENCY=EUR\n"), 0o600))
	t.Setenv(EnvRefresh, "5s")

	c, err := Load(path)
	require.NoError(t, err)
	want := Config{
		APIURL:    "https://folio.example.com/api",
		Currency:  "EUR",
		Refresh:   5 * time.Second,
		TokenFile: "/tmp/token",
		Model:     Default().Model,
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "bad yaml", yaml: "refresh: [\n"},
		{name: "bad scheme", yaml: "api_url: ftp://example.com\n"},
		{name: "zero refresh", yaml: "refresh: 0s\n"},
		{name: "bad env duration", env: map[string]string{EnvRefresh: "soon"}},
		{name: "bad env bool", env: map[string]string{EnvTracing: "maybe"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.yaml), 0o600))
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAPIURL:  "http://api.test",
		EnvTracing: "true",
		EnvModel:   "gemini-2.5-pro",
	}
	c := Default()
	err := c.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	require.NoError(t, err)
	require.Equal(t, "http://api.test", c.APIURL)
	require.True(t, c.Tracing)
	require.Equal(t, "gemini-2.5-pro", c.Model)
	require.Equal(t, "TRY", c.Currency)
}
