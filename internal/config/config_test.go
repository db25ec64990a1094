package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pngctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestTemplateMatchesDefaults(t *testing.T) {
	path := writeConfig(t, Template)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
compress = true
compression_level = "best"
max_file_size = 1024
print_format = "yaml"
print_all = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Compress)
	assert.Equal(t, "best", cfg.CompressionLevel)
	assert.Equal(t, int64(1024), cfg.MaxFileSize)
	assert.Equal(t, int64(DefaultMaxMessageSize), cfg.MaxMessageSize)
	assert.Equal(t, "yaml", cfg.PrintFormat)
	assert.True(t, cfg.PrintAll)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"level":       `log_level = "loud"`,
		"compression": `compression_level = "ultra"`,
		"format":      `print_format = "xml"`,
		"file size":   `max_file_size = -1`,
		"message":     `max_message_size = 0`,
		"unknown key": `colour = "blue"`,
		"syntax":      `print_format = `,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, path, err := Resolve("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)

	envPath := writeConfig(t, `print_format = "json"`)
	t.Setenv(EnvConfigPath, envPath)
	cfg, path, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, envPath, path)
	assert.Equal(t, "json", cfg.PrintFormat)

	flagPath := writeConfig(t, `print_format = "yaml"`)
	cfg, path, err = Resolve(flagPath)
	require.NoError(t, err)
	assert.Equal(t, flagPath, path)
	assert.Equal(t, "yaml", cfg.PrintFormat)

	_, _, err = Resolve(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pngctl.toml")
	require.NoError(t, WriteTemplate(path, false))
	require.Error(t, WriteTemplate(path, false))
	require.NoError(t, WriteTemplate(path, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Template, string(data))
}
