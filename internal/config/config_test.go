package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t, "APP_PORT", "STORAGE_PROVIDER", "STORAGE_UPLOAD_TIMEOUT", "CONTENT_STORE", "ASSETS_MAX_UPLOAD_BYTES")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "bucket", cfg.Storage.Provider)
	assert.Equal(t, 30*time.Second, cfg.Storage.UploadTimeout)
	assert.Equal(t, "portfolio-images", cfg.Storage.ImageBucket)
	assert.Equal(t, "redis", cfg.Content.Store)
	assert.True(t, cfg.Content.Persist)
	assert.Equal(t, int64(10<<20), cfg.Assets.MaxUploadBytes)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("app:\n  port: \"9000\"\nstorage:\n  image_bucket: imgs\ncontent:\n  store: postgres\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	t.Setenv("APP_PORT", "9100")
	t.Setenv("TOKEN_LIFESPAN", "2h")
	clearEnv(t, "STORAGE_IMAGE_BUCKET", "CONTENT_STORE")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.App.Port)
	assert.Equal(t, "imgs", cfg.Storage.ImageBucket)
	assert.Equal(t, "postgres", cfg.Content.Store)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenLifespan)
}

func TestLoadConfig_EnvAliases(t *testing.T) {
	clearEnv(t, "STORAGE_ENDPOINT", "STORAGE_KEY")
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_KEY", "anon-key")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://project.supabase.co", cfg.Storage.Endpoint)
	assert.Equal(t, "anon-key", cfg.Storage.Key)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}
