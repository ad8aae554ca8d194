package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/claude/healthbridge/internal/idmap"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Platform      string              `yaml:"platform"`
	HealthKit     HealthKitConfig     `yaml:"healthkit"`
	HealthConnect HealthConnectConfig `yaml:"healthconnect"`
	Auth          AuthConfig          `yaml:"auth"`
	Sync          SyncConfig          `yaml:"sync"`
	Tailscale     TailscaleConfig     `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// HealthKitConfig locates the SQLite mirror used on the ios platform.
type HealthKitConfig struct {
	DBPath string `yaml:"db_path"`
}

// HealthConnectConfig locates the Postgres mirror used on the android
// platform.
type HealthConnectConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// SyncConfig seeds the background sync engine at startup. Sync still
// starts disabled; these only pre-fill the enable defaults.
type SyncConfig struct {
	IntervalMinutes int `yaml:"interval_minutes"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string for the Health Connect
// mirror.
func (d HealthConnectConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix HEALTHBRIDGE_ and underscore-separated paths:
//
//	HEALTHBRIDGE_SERVER_HOST, HEALTHBRIDGE_SERVER_PORT,
//	HEALTHBRIDGE_PLATFORM, HEALTHBRIDGE_HEALTHKIT_DB_PATH,
//	HEALTHBRIDGE_HC_HOST, HEALTHBRIDGE_HC_PORT, HEALTHBRIDGE_HC_NAME,
//	HEALTHBRIDGE_HC_USER, HEALTHBRIDGE_HC_PASSWORD, HEALTHBRIDGE_HC_SSLMODE,
//	HEALTHBRIDGE_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HEALTHBRIDGE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("HEALTHBRIDGE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("HEALTHBRIDGE_PLATFORM"); v != "" {
		cfg.Platform = v
	}
	if v := os.Getenv("HEALTHBRIDGE_HEALTHKIT_DB_PATH"); v != "" {
		cfg.HealthKit.DBPath = v
	}
	if v := os.Getenv("HEALTHBRIDGE_HC_HOST"); v != "" {
		cfg.HealthConnect.Host = v
	}
	if v := os.Getenv("HEALTHBRIDGE_HC_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.HealthConnect.Port = port
		}
	}
	if v := os.Getenv("HEALTHBRIDGE_HC_NAME"); v != "" {
		cfg.HealthConnect.Name = v
	}
	if v := os.Getenv("HEALTHBRIDGE_HC_USER"); v != "" {
		cfg.HealthConnect.User = v
	}
	if v := os.Getenv("HEALTHBRIDGE_HC_PASSWORD"); v != "" {
		cfg.HealthConnect.Password = v
	}
	if v := os.Getenv("HEALTHBRIDGE_HC_SSLMODE"); v != "" {
		cfg.HealthConnect.SSLMode = v
	}
	if v := os.Getenv("HEALTHBRIDGE_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	// Any platform string is accepted here; only ios and android get a
	// working provider, and everything else resolves to coded
	// unsupported-platform results at the bridge.
	if c.Platform == "" {
		return fmt.Errorf("platform is required")
	}
	switch idmap.Platform(c.Platform) {
	case idmap.PlatformIOS:
		if c.HealthKit.DBPath == "" {
			return fmt.Errorf("healthkit.db_path is required on the ios platform")
		}
	case idmap.PlatformAndroid:
		if c.HealthConnect.Host == "" {
			return fmt.Errorf("healthconnect.host is required on the android platform")
		}
		if c.HealthConnect.Port == 0 {
			return fmt.Errorf("healthconnect.port is required on the android platform")
		}
		if c.HealthConnect.Name == "" {
			return fmt.Errorf("healthconnect.name is required on the android platform")
		}
		if c.HealthConnect.User == "" {
			return fmt.Errorf("healthconnect.user is required on the android platform")
		}
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	return nil
}
