package config

import (
	"os"

	"bluffroom-server/internal/util"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the bluffroom server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	JWT            struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	}
	RecaptchaSecret string `yaml:"recaptchaSecret" envconfig:"recaptcha_secret"`
	// PlayerCreateDelay is the minimum number of seconds between two player
	// registrations from a single remote address
	PlayerCreateDelay int `yaml:"playerCreateDelay" envconfig:"player_create_delay"`
	Log               struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
}

var config Config

// DefaultConfig returns the configuration defaults
func DefaultConfig() Config {
	cfg := Config{
		PGDSN:             "postgres://postgres@localhost:5432/postgres?sslmode=disable",
		MigrationsPath:    "./sql",
		PlayerCreateDelay: 60,
	}

	cfg.JWT.PublicKey = "jwt/public.pem"
	cfg.JWT.PrivateKey = "jwt/private.key"

	return cfg
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is fine; defaults and the environment still apply
func Load() error {
	config = DefaultConfig()

	configFile := util.Getenv("BLUFF_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("bluff", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
