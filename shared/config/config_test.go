package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoad_DefaultsWithoutFiles(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Public.Attachments.MaxFiles)
	assert.Equal(t, int64(10*1024*1024), cfg.Public.Attachments.MaxFileSizeBytes)
	assert.Equal(t, int64(50*1024*1024), cfg.Public.Attachments.MaxTotalSizeBytes)
	assert.Equal(t, 30*time.Second, cfg.Public.Webhooks.Timeout)
	assert.Equal(t, BackendFiles, cfg.Public.Storage.Backend)
	assert.Equal(t, "en", cfg.Public.DefaultLanguage)
}

func TestLoad_YamlFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "public.yaml", `
storage:
  host: https://files.example.com
  volume_path: /Volumes/x/y
webhooks:
  form_url: https://hooks.example.com/form
  transport: json
  timeout: 10s
attachments:
  max_files: 3
`)
	writeFile(t, dir, "private.yaml", "storage_token: from-file\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://files.example.com", cfg.Public.Storage.Host)
	assert.Equal(t, "/Volumes/x/y", cfg.Public.Storage.VolumePath)
	assert.Equal(t, TransportJSON, cfg.Public.Webhooks.Transport)
	assert.Equal(t, 10*time.Second, cfg.Public.Webhooks.Timeout)
	assert.Equal(t, 3, cfg.Public.Attachments.MaxFiles)
	// untouched keys keep defaults
	assert.Equal(t, int64(10*1024*1024), cfg.Public.Attachments.MaxFileSizeBytes)
	assert.Equal(t, "from-file", cfg.StorageToken())
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "private.yaml", "storage_token: from-file\n")
	t.Setenv("DATABRICKS_TOKEN", "from-env")
	t.Setenv("DATABRICKS_HOST", "https://env.example.com")
	t.Setenv("CHAT_WEBHOOK_URL", "https://hooks.example.com/chat")
	t.Setenv("LOG_JSON", "true")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.StorageToken())
	assert.Equal(t, "https://env.example.com", cfg.Public.Storage.Host)
	assert.Equal(t, "https://hooks.example.com/chat", cfg.Public.Webhooks.ChatURL)
	assert.True(t, cfg.Public.Log.JSON)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "public.yaml", "storage: [unclosed\n")
		_, err := Load(dir)
		require.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "ftp")
		_, err := Load(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ftp")
	})

	t.Run("bad LOG_JSON", func(t *testing.T) {
		t.Setenv("LOG_JSON", "maybe")
		_, err := Load(t.TempDir())
		require.Error(t, err)
	})
}

func TestMustLoad_PanicsOnMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "private.yaml", "storage_token: [\n")

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to malformed private.yaml, got none")
		}
	}()

	_ = MustLoad(dir)
}

func TestWithStorageToken(t *testing.T) {
	cfg := Default()
	withToken := cfg.WithStorageToken("secret")

	assert.Equal(t, "secret", withToken.StorageToken())
	assert.Empty(t, cfg.StorageToken())
}

func TestLoad_WebAndHTTPS(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "public.yaml", `
proxy:
  https: true
web:
  session_ttl: 5m
`)
	t.Setenv("WEB_PORT", "9090")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.True(t, cfg.Public.Proxy.HTTPS)
	assert.False(t, cfg.Public.Web.HTTPS)
	assert.Equal(t, "9090", cfg.Public.Web.Port)
	assert.Equal(t, 5*time.Minute, cfg.Public.Web.SessionTTL)
	assert.Equal(t, int64(8<<20), cfg.Public.Web.MaxMemoryBytes)
}
