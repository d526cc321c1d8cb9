package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{Enabled: true, Host: "localhost", Name: "db", User: "u"},
		Redis:    RedisConfig{Host: "localhost", Port: "6379"},
		Storage:  StorageConfig{Driver: "redis"},
		JWT:      JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
		Catalog:  CatalogConfig{ProductAPIBaseURL: "https://dummyjson.com"},
		Auth:     AuthConfig{Provider: "remote", BaseURL: "https://auth.example.com"},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"short secret", func(c *Config) { c.JWT.Secret = "short" }, "JWT_SECRET"},
		{"unknown storage", func(c *Config) { c.Storage.Driver = "disk" }, "STORAGE_DRIVER"},
		{"redis host", func(c *Config) { c.Redis.Host = "" }, "REDIS_HOST"},
		{"db host", func(c *Config) { c.Database.Host = "" }, "DB_HOST"},
		{"unknown provider", func(c *Config) { c.Auth.Provider = "ldap" }, "AUTH_PROVIDER"},
		{"auth url", func(c *Config) { c.Auth.BaseURL = "" }, "AUTH_API_BASE_URL"},
		{"catalog url", func(c *Config) { c.Catalog.ProductAPIBaseURL = "" }, "PRODUCT_API_BASE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_MemoryStorageAndDisabledDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Driver = "memory"
	cfg.Redis.Host = ""
	cfg.Database.Enabled = false
	cfg.Database.Host = ""
	cfg.Auth.Provider = "local"

	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef-test")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DB_ENABLED", "false")
	t.Setenv("AUTH_PROVIDER", "local")
	t.Setenv("DASHBOARD_ADMIN_EMAILS", "admin@example.com, ops@example.com")
	t.Setenv("CATALOG_REQUEST_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, []string{"admin@example.com", "ops@example.com"}, cfg.Auth.DashboardAdminEmails)
	assert.Equal(t, 3*time.Second, cfg.Catalog.RequestTimeout)
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
}
