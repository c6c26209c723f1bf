// Package config provides functionality for managing configuration options
// for the application using a config file and environment variables.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Options holds the configuration values for the application.
type Options struct {
	// DataDir is the base directory for the registry file and the
	// per-patient note files.
	DataDir string `mapstructure:"data_dir"`

	// Persistence enables loading state at startup and rewriting the
	// backing files after every mutation. When false the clinic runs
	// fully in memory.
	Persistence bool `mapstructure:"persistence"`

	// UsersFile is the path to a name,value credential file. When empty
	// the built-in credential table is used.
	UsersFile string `mapstructure:"users_file"`

	// CredentialScheme selects how supplied passwords are verified
	// against stored credentials: "plain" or "sha256".
	CredentialScheme string `mapstructure:"credential_scheme"`

	// LogLevel sets the zap logging level.
	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from the given file path, if any, with
// environment variables (CLINIC_ prefix) overriding file values and
// defaults filling the rest. A missing config file is not an error.
func Load(path string) (*Options, error) {
	v := viper.New()

	v.SetDefault("data_dir", "data")
	v.SetDefault("persistence", true)
	v.SetDefault("users_file", "")
	v.SetDefault("credential_scheme", "plain")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("CLINIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, err
			}
		}
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return nil, err
	}
	return &opts, nil
}
