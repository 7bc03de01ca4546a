package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config models motorline.yml.
type Config struct {
	Log struct {
		Env   string `yaml:"env"`
		Level string `yaml:"level"`
	} `yaml:"log"`
	Gateway struct {
		Addr           string `yaml:"addr"`
		CarValueURL    string `yaml:"car_value_url"`
		ReviewURL      string `yaml:"review_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"gateway"`
	Valuation struct {
		Addr        string `yaml:"addr"`
		DatasetPath string `yaml:"dataset_path"`
	} `yaml:"valuation"`
	Sentiment struct {
		Addr string `yaml:"addr"`
	} `yaml:"sentiment"`
	Finance struct {
		Addr string `yaml:"addr"`
	} `yaml:"finance"`
	Billing struct {
		Addr  string `yaml:"addr"`
		Store string `yaml:"store"`
	} `yaml:"billing"`
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; generate one with motorline config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the defaults if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Gateway.TimeoutSeconds < 0 {
		return fmt.Errorf("config.gateway.timeout_seconds must not be negative")
	}
	for name, raw := range map[string]string{
		"config.gateway.car_value_url": c.Gateway.CarValueURL,
		"config.gateway.review_url":    c.Gateway.ReviewURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s must use http or https, got %q", name, raw)
		}
	}
	switch c.Billing.Store {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("config.billing.store must be 'memory' or 'sqlite', got %q", c.Billing.Store)
	}
	for name, addr := range map[string]string{
		"config.gateway.addr":   c.Gateway.Addr,
		"config.valuation.addr": c.Valuation.Addr,
		"config.sentiment.addr": c.Sentiment.Addr,
		"config.finance.addr":   c.Finance.Addr,
		"config.billing.addr":   c.Billing.Addr,
	} {
		if addr == "" {
			continue
		}
		if !strings.Contains(addr, ":") {
			return fmt.Errorf("%s must be a host:port listen address, got %q", name, addr)
		}
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "motorline.yml")
}

// Default returns the default Config struct.
func Default() *Config {
	var cfg Config
	_ = yaml.Unmarshal([]byte(defaultTemplate), &cfg)
	return &cfg
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `log:
  env: development
  level: info

gateway:
  addr: 127.0.0.1:8080
  car_value_url: http://127.0.0.1:5001
  review_url: http://127.0.0.1:5002
  timeout_seconds: 5

valuation:
  addr: 127.0.0.1:5001
  dataset_path: ""

sentiment:
  addr: 127.0.0.1:5002

finance:
  addr: 127.0.0.1:6100

billing:
  addr: 127.0.0.1:6200
  store: memory
`
