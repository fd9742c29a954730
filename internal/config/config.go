// Package config loads the settings of the tikz-extractor command.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of the environment variables Load reads:
// TIKZ_ROUND, TIKZ_POINTS, TIKZ_LABELS, TIKZ_DOCUMENT, TIKZ_LOG_FORMAT and
// TIKZ_OUTPUT_DIR.
const EnvPrefix = "TIKZ_"

const maxConfigFileSize = 1024 * 1024 // 1MB

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the command settings.
type Config struct {
	Round     bool   `koanf:"round"`
	Points    bool   `koanf:"points"`
	Labels    bool   `koanf:"labels"`
	Document  bool   `koanf:"document"`
	LogFormat string `koanf:"log_format"`
	OutputDir string `koanf:"output_dir"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Config {
	return Config{
		Round:     true,
		Points:    true,
		Labels:    true,
		LogFormat: LogFormatText,
	}
}

// Validate checks the values that have a closed set.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid log format %q (must be %s or %s)", c.LogFormat, LogFormatText, LogFormatJSON)
	}
}

// Load builds the configuration from, lowest precedence first, the
// defaults, the optional file at path (YAML or TOML, chosen by extension),
// the TIKZ_ environment variables and overrides. Keys of overrides are the
// koanf tags of Config; the command fills it with the flags the user set.
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	d := Defaults()
	for key, value := range map[string]any{
		"round":      d.Round,
		"points":     d.Points,
		"labels":     d.Labels,
		"document":   d.Document,
		"log_format": d.LogFormat,
		"output_dir": d.OutputDir,
	} {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
	}

	// TIKZ_LOG_FORMAT -> log_format
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".toml":
		parser = TOML()
	default:
		return fmt.Errorf("unsupported config file %q (must be .yaml, .yml or .toml)", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := k.Load(rawbytes.Provider(content), parser); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return nil
}

// tomlParser adapts BurntSushi/toml to koanf.Parser.
type tomlParser struct{}

// TOML returns a koanf.Parser for TOML documents.
func TOML() koanf.Parser {
	return tomlParser{}
}

func (tomlParser) Unmarshal(b []byte) (map[string]any, error) {
	out := make(map[string]any)
	if _, err := toml.Decode(string(b), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (tomlParser) Marshal(m map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
