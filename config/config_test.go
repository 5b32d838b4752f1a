package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	// viper ignores empty env vars unless AllowEmptyEnv is set
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "profiles", cfg.MongoDatabase)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 60, cfg.RateLimitWindowSeconds)
	assert.Equal(t, StorageMongo, cfg.StorageDriver)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("JWKS_URL", "https://issuer.example.com/jwks/")
	t.Setenv("RATE_LIMIT_GLOBAL_THRESHOLD", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, "https://issuer.example.com/jwks", cfg.JWKSUrl)
	assert.Equal(t, 7, cfg.RateLimitGlobalThreshold)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigUnknownStorageFallsBack(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "cassandra")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageMongo, cfg.StorageDriver)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"x"}, splitList(" x "))
}
