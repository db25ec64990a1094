package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/pngctl/internal/commands"
	"github.com/danmuck/pngctl/internal/logging"
	"github.com/danmuck/pngctl/internal/message"
)

const (
	EnvConfigPath = "PNGCTL_CONFIG"

	DefaultMaxFileSize    = commands.DefaultMaxFileSize
	DefaultMaxMessageSize = message.DefaultMaxDecodedSize
)

// Config holds CLI defaults. Flags given on the command line win over it.
type Config struct {
	LogLevel         string
	LogTimestamp     bool
	Compress         bool
	CompressionLevel string
	MaxFileSize      int64
	MaxMessageSize   int64
	PrintFormat      string
	PrintAll         bool
}

type fileConfig struct {
	LogLevel         string `toml:"log_level"`
	LogTimestamp     bool   `toml:"log_timestamp"`
	Compress         bool   `toml:"compress"`
	CompressionLevel string `toml:"compression_level"`
	MaxFileSize      int64  `toml:"max_file_size"`
	MaxMessageSize   int64  `toml:"max_message_size"`
	PrintFormat      string `toml:"print_format"`
	PrintAll         bool   `toml:"print_all"`
}

func Default() Config {
	return Config{
		LogLevel:         "info",
		LogTimestamp:     false,
		CompressionLevel: "default",
		MaxFileSize:      DefaultMaxFileSize,
		MaxMessageSize:   DefaultMaxMessageSize,
		PrintFormat:      string(commands.FormatText),
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_timestamp") {
		cfg.LogTimestamp = raw.LogTimestamp
	}
	if meta.IsDefined("compress") {
		cfg.Compress = raw.Compress
	}
	if meta.IsDefined("compression_level") {
		cfg.CompressionLevel = strings.TrimSpace(raw.CompressionLevel)
	}
	if meta.IsDefined("max_file_size") {
		cfg.MaxFileSize = raw.MaxFileSize
	}
	if meta.IsDefined("max_message_size") {
		cfg.MaxMessageSize = raw.MaxMessageSize
	}
	if meta.IsDefined("print_format") {
		cfg.PrintFormat = strings.TrimSpace(raw.PrintFormat)
	}
	if meta.IsDefined("print_all") {
		cfg.PrintAll = raw.PrintAll
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// Resolve loads the config named by flagPath, falling back to
// $PNGCTL_CONFIG. With neither set it returns the defaults and an empty path.
func Resolve(flagPath string) (Config, string, error) {
	path := strings.TrimSpace(flagPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}

func Validate(cfg Config) error {
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	if _, err := message.ParseLevel(cfg.CompressionLevel); err != nil {
		return err
	}
	if _, err := commands.ParseFormat(cfg.PrintFormat); err != nil {
		return err
	}
	if cfg.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must be >= 0, got %d", cfg.MaxFileSize)
	}
	if cfg.MaxMessageSize <= 0 {
		return fmt.Errorf("max_message_size must be > 0, got %d", cfg.MaxMessageSize)
	}
	return nil
}
