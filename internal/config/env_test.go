package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envTestConfig struct {
	Name    string        `yaml:"name" env:"TEST_NAME"`
	Port    int           `yaml:"port" env:"TEST_PORT"`
	Timeout time.Duration `yaml:"timeout" env:"TEST_TIMEOUT"`
	Debug   bool          `yaml:"debug" env:"TEST_DEBUG"`
	Origins []string      `yaml:"origins" env:"TEST_ORIGINS"`
	Nested  struct {
		Host string `yaml:"host" env:"TEST_NESTED_HOST"`
	} `yaml:"nested"`
	Untagged string `yaml:"untagged"`
}

func TestProcessStructFieldsOverridesFromEnv(t *testing.T) {
	t.Setenv("TEST_NAME", "campusbuzz")
	t.Setenv("TEST_PORT", "9090")
	t.Setenv("TEST_TIMEOUT", "45s")
	t.Setenv("TEST_DEBUG", "true")
	t.Setenv("TEST_ORIGINS", "http://localhost:3000, https://campus.example.com")
	t.Setenv("TEST_NESTED_HOST", "db.internal")

	cfg := envTestConfig{Name: "from-yaml", Port: 8080, Untagged: "untouched"}
	require.NoError(t, processStructFields(&cfg))

	assert.Equal(t, "campusbuzz", cfg.Name)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"http://localhost:3000", "https://campus.example.com"}, cfg.Origins)
	assert.Equal(t, "db.internal", cfg.Nested.Host)
	assert.Equal(t, "untouched", cfg.Untagged)
}

func TestProcessStructFieldsKeepsFileValuesWithoutEnv(t *testing.T) {
	cfg := envTestConfig{Name: "from-yaml", Port: 8080}
	require.NoError(t, processStructFields(&cfg))

	assert.Equal(t, "from-yaml", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
}

func TestProcessStructFieldsRejectsBadValues(t *testing.T) {
	t.Setenv("TEST_PORT", "not-a-number")

	cfg := envTestConfig{}
	assert.Error(t, processStructFields(&cfg))
}
