package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("DB_TIMEOUT", "750ms")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("ENABLE_HSTS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.AppAddr)
	assert.Equal(t, 750*time.Millisecond, cfg.DBTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.True(t, cfg.EnableHSTS)

	assert.Equal(t, Defaults().UploadMaxBytes, cfg.UploadMaxBytes)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDbBaseURL)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("DB_DSN=from_file\nTMDB_API_KEY=file_key\n"), 0o644))
	t.Chdir(tmp)

	t.Setenv("DB_DSN", "from_env")
	t.Setenv("TMDB_API_KEY", "")
	os.Unsetenv("TMDB_API_KEY")
	t.Cleanup(func() { os.Unsetenv("TMDB_API_KEY") })

	LoadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
	assert.Equal(t, "file_key", os.Getenv("TMDB_API_KEY"))
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.JWTSecret = "x"
	assert.NoError(t, cfg.Validate())

	cfg.RateLimitBurst = 0
	cfg.DBTimeout = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_TIMEOUT")
	assert.Contains(t, err.Error(), "RATE_LIMIT")
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "postgres://***@localhost:5432/db", RedactDSN("postgres://user:pw@localhost:5432/db"))
	assert.Equal(t, "postgres://localhost/db", RedactDSN("postgres://localhost/db"))
	assert.Equal(t, "not a dsn", RedactDSN("not a dsn"))
}
