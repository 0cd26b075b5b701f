package identity

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config configures the HTTP identity client. The zero value plus a
// BaseURL is usable; all other fields have defaults.
type Config struct {
	// BaseURL is the identity service root, e.g. "https://id.example.com".
	BaseURL string `envconfig:"BASE_URL"`

	// Endpoint paths, joined onto BaseURL.
	LoginPath       string `envconfig:"LOGIN_PATH"`
	RegisterPath    string `envconfig:"REGISTER_PATH"`
	RefreshPath     string `envconfig:"REFRESH_PATH"`
	CurrentUserPath string `envconfig:"CURRENT_USER_PATH"`

	// Timeout is the per-request HTTP timeout. Default: 15s.
	Timeout time.Duration `envconfig:"TIMEOUT"`

	// HTTPClient overrides the HTTP client used for requests.
	// If nil, a default client with Timeout is used.
	HTTPClient *http.Client `ignored:"true"`
}

func (c *Config) applyDefaults() {
	if c.LoginPath == "" {
		c.LoginPath = "/auth/login"
	}
	if c.RegisterPath == "" {
		c.RegisterPath = "/auth/register"
	}
	if c.RefreshPath == "" {
		c.RefreshPath = "/auth/refresh"
	}
	if c.CurrentUserPath == "" {
		c.CurrentUserPath = "/auth/me"
	}
	if c.Timeout == 0 {
		c.Timeout = 15 * time.Second
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("identity: base URL is required")
	}
	return nil
}

// ConfigFromEnv loads a Config from environment variables with the given
// prefix, e.g. prefix "IDENTITY" reads IDENTITY_BASE_URL.
func ConfigFromEnv(prefix string) (Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("identity: load config from env: %w", err)
	}
	return cfg, nil
}

// yamlConfig mirrors Config for file loading; durations are strings in
// YAML ("10s") and parsed here.
type yamlConfig struct {
	BaseURL         string `yaml:"base_url"`
	LoginPath       string `yaml:"login_path"`
	RegisterPath    string `yaml:"register_path"`
	RefreshPath     string `yaml:"refresh_path"`
	CurrentUserPath string `yaml:"current_user_path"`
	Timeout         string `yaml:"timeout"`
}

// LoadConfig loads a Config from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("identity: read config: %w", err)
	}
	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("identity: parse config: %w", err)
	}

	cfg := Config{
		BaseURL:         raw.BaseURL,
		LoginPath:       raw.LoginPath,
		RegisterPath:    raw.RegisterPath,
		RefreshPath:     raw.RefreshPath,
		CurrentUserPath: raw.CurrentUserPath,
	}
	if raw.Timeout != "" {
		timeout, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("identity: parse timeout: %w", err)
		}
		cfg.Timeout = timeout
	}
	return cfg, nil
}
