package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("RATING_CACHE_TTL", "")
	cfg := Load()
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "none", cfg.StorageDriver)
	assert.Equal(t, 5*time.Minute, cfg.RatingCacheTTL)
	assert.Equal(t, int64(5<<20), cfg.MaxImageBytes)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Mongo")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	cfg := Load()
	assert.Equal(t, "mongo", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}

func TestCSVSplitting(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a , ,http://b", ElasticsearchAddrs: ""}
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.CORSOrigins())
	assert.Empty(t, cfg.ESAddrs())
}
