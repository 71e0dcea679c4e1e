// Package config loads the optional cmux-notify configuration file.
//
// The file is YAML, or TOML when its name ends in .toml. ${VAR} and
// ${VAR:-default} references are expanded before parsing, the document is
// validated against the generated JSON Schema, and defaults fill the rest.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/cmux-notify/errors"
	"github.com/grovetools/cmux-notify/pkg/paths"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names a config file explicitly.
const EnvConfigPath = "CMUX_NOTIFY_CONFIG"

// Format is the syntax of a config file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ConfigNames are looked up, in order, inside the XDG config directory.
var ConfigNames = []string{"config.yml", "config.yaml", "config.toml"}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// FormatFor picks the syntax from a file name.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data, FormatFor(path))
	if err != nil {
		if he, ok := err.(*errors.HookError); ok {
			return nil, he.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFromBytes parses, validates and completes a configuration document.
func LoadFromBytes(data []byte, format Format) (*Config, error) {
	expanded := []byte(expandEnvVars(string(data)))

	raw, err := decodeRaw(expanded, format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse configuration").
			WithDetail("format", string(format))
	}

	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create validator")
	}
	if err := validator.Validate(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}

	// TOML documents are normalized to YAML so both share one decoder.
	if format == FormatTOML {
		if expanded, err = yaml.Marshal(raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to normalize TOML configuration")
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.Logging(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid logging section")
	}

	return &cfg, nil
}

func decodeRaw(data []byte, format Format) (map[string]interface{}, error) {
	raw := map[string]interface{}{}
	if len(bytes.TrimSpace(data)) == 0 {
		return raw, nil
	}

	var err error
	if format == FormatTOML {
		err = toml.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}
	return raw, nil
}

// FindConfigFile resolves the config file: an explicit path, then
// $CMUX_NOTIFY_CONFIG, then the XDG config directory. Explicitly named files
// must exist.
func FindConfigFile(explicit string) (string, error) {
	if explicit != "" {
		return requireFile(explicit)
	}
	if fromEnv := os.Getenv(EnvConfigPath); fromEnv != "" {
		return requireFile(fromEnv)
	}

	dir := paths.ConfigDir()
	if dir != "" {
		for _, name := range ConfigNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}
	}

	return "", errors.ConfigNotFound(dir).WithDetail("searched", ConfigNames)
}

func requireFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", errors.ConfigNotFound(path)
	}
	return path, nil
}

// LoadDefault loads the config file FindConfigFile resolves. With no file
// the defaults are returned and err is nil. A file that cannot be loaded
// yields the defaults together with the error, so callers can warn and
// carry on.
func LoadDefault(explicit string) (cfg *Config, path string, err error) {
	path, err = FindConfigFile(explicit)
	if err != nil {
		if explicit == "" && os.Getenv(EnvConfigPath) == "" {
			return Default(), "", nil
		}
		return Default(), "", err
	}

	cfg, err = Load(path)
	if err != nil {
		return Default(), path, err
	}
	return cfg, path, nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}
