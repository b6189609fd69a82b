package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.DBTimeout)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 5, cfg.Catalog.RPS)
	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, time.Minute, cfg.LLM.UserCooldown)
	assert.Equal(t, 2*time.Second, cfg.LLM.GlobalInterval)
	assert.False(t, cfg.IsProduction())
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LLM_ENABLED", "true")
	t.Setenv("LLM_USER_COOLDOWN", "30s")
	t.Setenv("CATALOG_TTB_KEY", "ttb123")
	t.Setenv("ANALYSIS_LEXICON_PATH", "/etc/bookmood/lexicon.yaml")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, 30*time.Second, cfg.LLM.UserCooldown)
	assert.Equal(t, "ttb123", cfg.Catalog.TTBKey)
	assert.Equal(t, "/etc/bookmood/lexicon.yaml", cfg.Analysis.LexiconPath)
}

func TestParse_Invalid(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Parse()
		assert.Error(t, err)
	})

	t.Run("short secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "short")
		_, err := Parse()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "0123456789abcdef")
		t.Setenv("DB_TIMEOUT", "soon")
		_, err := Parse()
		assert.Error(t, err)
	})

	t.Run("llm without model", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "0123456789abcdef")
		t.Setenv("LLM_ENABLED", "true")
		t.Setenv("LLM_MODEL", " ")
		_, err := Parse()
		assert.ErrorContains(t, err, "LLM_MODEL")
	})
}

func TestLoad_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"),
		[]byte("DB_DSN=from_file\nJWT_SECRET=from-file-secret-123\n"), 0o644))

	t.Setenv("DB_DSN", "from_env")

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	t.Cleanup(func() { _ = os.Unsetenv("JWT_SECRET") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.DatabaseDSN)
	assert.Equal(t, "from-file-secret-123", cfg.JWTSecret)
}
