package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/imdario/mergo"
	"github.com/pkg/errors"
)

// Config is the top level configuration object, decoded from an optional
// TOML file and merged over the defaults.
type Config struct {
	Github  GithubConfig  `toml:"github"`
	Render  RenderConfig  `toml:"render"`
	Logging LoggingConfig `toml:"logging"`
}

// GithubConfig configures the API endpoint and credential lookup.
type GithubConfig struct {
	// Address is the base URL of a GitHub Enterprise instance. Empty
	// means the public API.
	Address string `toml:"address"`

	// TokenEnv names the environment variable holding the bearer token.
	TokenEnv string `toml:"token_env"`

	// TLS material, for enterprise endpoints with private CAs.
	CACert        string `toml:"ca_cert"`
	CAPath        string `toml:"ca_path"`
	TLSServerName string `toml:"tls_server_name"`
	TLSSkipVerify *bool  `toml:"tls_skip_verify"`
}

// RenderConfig configures how the output file is written.
type RenderConfig struct {
	// Backup keeps a .bak copy of the previous output.
	Backup *bool `toml:"backup"`

	// CreateDestDirs creates missing parent directories of the output.
	CreateDestDirs *bool `toml:"create_dest_dirs"`

	// Perms is the octal file mode for the output, e.g. "0600". Empty
	// preserves the mode of an existing file and uses 0644 otherwise.
	Perms string `toml:"perms"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Bool returns a pointer to the given bool.
func Bool(b bool) *bool { return &b }

// DefaultConfig returns the configuration used where the file sets
// nothing.
func DefaultConfig() *Config {
	return &Config{
		Github: GithubConfig{
			TokenEnv:      "GITHUB_TOKEN",
			TLSSkipVerify: Bool(false),
		},
		Render: RenderConfig{
			Backup:         Bool(false),
			CreateDestDirs: Bool(true),
		},
		Logging: LoggingConfig{
			Level: "WARN",
		},
	}
}

// LoadConfig reads the TOML file at path and merges it over the
// defaults. An empty path returns the defaults untouched.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	var fromFile Config
	if _, err := toml.DecodeFile(path, &fromFile); err != nil {
		return nil, errors.Wrap(err, "config")
	}

	if err := mergo.Merge(config, fromFile, mergo.WithOverride); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	return config, nil
}

// FileMode converts the configured octal permission string. The zero
// mode means no explicit permissions were configured.
func (c *RenderConfig) FileMode() (os.FileMode, error) {
	if c.Perms == "" {
		return 0, nil
	}
	perms, err := strconv.ParseUint(c.Perms, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("config: invalid render perms %q", c.Perms)
	}
	return os.FileMode(perms), nil
}
