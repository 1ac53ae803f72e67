package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "propstack-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 24*time.Hour, cfg.Scheduler.SweepInterval)
	assert.Equal(t, 12*time.Hour, cfg.Scheduler.BillingInterval)
	assert.Equal(t, 2, cfg.Scheduler.MaxConcurrentRun)
	assert.Equal(t, "eur", cfg.Stripe.Currency)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestValidateConnectionPool(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Database.MaxIdleConns = 50
	cfg.Database.MaxOpenConns = 10

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_idle_conns")
}

func TestValidateProduction(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.JWT.Secret = "a-production-secret-of-32-chars-min!"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.Stripe.SecretKey = "sk_live_x"
		cfg.Stripe.WebhookSecret = "whsec_x"
		return cfg
	}

	require.NoError(t, base().validate())

	cfg := base()
	cfg.JWT.Secret = "short"
	require.Error(t, cfg.validate())

	cfg = base()
	cfg.Database.SSLMode = "disable"
	require.Error(t, cfg.validate())

	cfg = base()
	cfg.Stripe.WebhookSecret = ""
	require.Error(t, cfg.validate())

	cfg = base()
	cfg.HTTP.CORSAllowOrigins = []string{"*"}
	require.Error(t, cfg.validate())
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "propstack",
		Password: "p@ss/word",
		DBName:   "propstack",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
