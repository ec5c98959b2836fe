package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klinehq/communication/pkg/config"
)

type smtpTestConfig struct {
	Host string `env:"TEST_SMTP_HOST" envDefault:"localhost"`
	Port int    `env:"TEST_SMTP_PORT" envDefault:"587"`
}

type requiredTestConfig struct {
	Token string `env:"TEST_REQUIRED_TOKEN_MISSING,required"`
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_SMTP_HOST", "smtp.example.com")

	var cfg smtpTestConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "smtp.example.com", cfg.Host)
	assert.Equal(t, 587, cfg.Port)
}

func TestLoad_CachedPerType(t *testing.T) {
	t.Setenv("TEST_SMTP_HOST", "first.example.com")

	var first smtpTestConfig
	require.NoError(t, config.Load(&first))

	// Changing the environment after the first load must not change the
	// cached value.
	t.Setenv("TEST_SMTP_HOST", "second.example.com")

	var second smtpTestConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, first.Host, second.Host)
}

func TestLoad_NilPointer(t *testing.T) {
	t.Parallel()

	err := config.Load[smtpTestConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}

func TestLoad_MissingRequired(t *testing.T) {
	var cfg requiredTestConfig
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}
