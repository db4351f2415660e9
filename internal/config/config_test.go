package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.Analytics.CacheTTL)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 60, cfg.Cache.DashboardTTLSeconds)
	assert.Equal(t, "info", cfg.App.LogLevel)
}

func TestFromViperEnvOverrides(t *testing.T) {
	t.Setenv("ANALYTICS_CACHE_TTL_MS", "250")
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("CACHE_ENABLED", "true")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := fromViper(v)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Analytics.CacheTTL)
	assert.True(t, cfg.Cache.Enabled)
}
