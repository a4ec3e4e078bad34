package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeSettings struct {
	Port    int      `env:"STORE_TEST_PORT" envDefault:"8080"`
	Name    string   `env:"STORE_TEST_NAME" envDefault:"Gaby Store"`
	Origins []string `env:"STORE_TEST_ORIGINS" envDefault:"*" envSeparator:","`
	Secret  string   `env:"STORE_TEST_SECRET,required" envDefault:"dev"`
}

func TestLoadDefaults(t *testing.T) {
	var cfg storeSettings
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "Gaby Store", cfg.Name)
	assert.Equal(t, []string{"*"}, cfg.Origins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORE_TEST_PORT", "9191")
	t.Setenv("STORE_TEST_ORIGINS", "https://a.example,https://b.example")

	var cfg storeSettings
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins)
}

func TestLoadTypeMismatch(t *testing.T) {
	t.Setenv("STORE_TEST_PORT", "not-a-port")

	var cfg storeSettings
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadRequired(t *testing.T) {
	type withRequired struct {
		Token string `env:"STORE_TEST_TOKEN,required"`
	}

	var cfg withRequired
	require.Error(t, Load(&cfg))

	t.Setenv("STORE_TEST_TOKEN", "tok-1")
	require.NoError(t, Load(&cfg))
	assert.Equal(t, "tok-1", cfg.Token)
}
