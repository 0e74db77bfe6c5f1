package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Server struct {
	Port   int    `yaml:"port" validate:"gte=1,lte=65535"`
	APIKey string `yaml:"api_key"`
}

type Cache struct {
	Backend  string `yaml:"backend" validate:"oneof=file sqlite badger memory none"`
	Location string `yaml:"location"`
}

type ECFR struct {
	BaseURL      string        `yaml:"base_url" validate:"required,url"`
	MirrorDir    string        `yaml:"mirror_dir"`
	RateRequests int           `yaml:"rate_requests" validate:"gte=1"`
	RateWindow   time.Duration `yaml:"rate_window" validate:"gt=0"`
	Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
}

type Analytics struct {
	Workers               int    `yaml:"workers" validate:"gte=0,lte=256"`
	MaxVersionsPerSection int    `yaml:"max_versions_per_section" validate:"gte=1"`
	DefaultStartDate      string `yaml:"default_start_date" validate:"datetime=2006-01-02"`
}

type Log struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

type Config struct {
	Env       string    `yaml:"env" validate:"oneof=development production test"`
	Server    Server    `yaml:"server"`
	Cache     Cache     `yaml:"cache"`
	ECFR      ECFR      `yaml:"ecfr"`
	Analytics Analytics `yaml:"analytics"`
	Log       Log       `yaml:"log"`
}

func Default() Config {
	return Config{
		Env:    "development",
		Server: Server{Port: 4535},
		Cache:  Cache{Backend: "file", Location: "./db-json"},
		ECFR: ECFR{
			BaseURL:      "https://www.ecfr.gov/api",
			RateRequests: 10,
			RateWindow:   500 * time.Millisecond,
			Timeout:      60 * time.Second,
		},
		Analytics: Analytics{
			MaxVersionsPerSection: 10,
			DefaultStartDate:      "2023-01-01",
		},
		Log: Log{Level: "info"},
	}
}

// Load layers defaults, the optional YAML file at path, and environment
// overrides, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Env = getenvString("APP_ENV", c.Env)
	c.Server.Port = getenvInt("PORT", c.Server.Port)
	c.Server.APIKey = getenvString("API_KEY", c.Server.APIKey)
	c.Cache.Backend = getenvString("CACHE_BACKEND", c.Cache.Backend)
	c.Cache.Location = getenvString("CACHE_LOCATION", c.Cache.Location)
	c.ECFR.BaseURL = getenvString("ECFR_BASE_URL", c.ECFR.BaseURL)
	c.ECFR.MirrorDir = getenvString("ECFR_MIRROR_DIR", c.ECFR.MirrorDir)
	c.ECFR.RateRequests = getenvInt("ECFR_RATE_REQUESTS", c.ECFR.RateRequests)
	c.ECFR.RateWindow = getenvDuration("ECFR_RATE_WINDOW", c.ECFR.RateWindow)
	c.ECFR.Timeout = getenvDuration("ECFR_TIMEOUT", c.ECFR.Timeout)
	c.Analytics.Workers = getenvInt("ANALYTICS_WORKERS", c.Analytics.Workers)
	c.Log.Level = strings.ToLower(getenvString("LOG_LEVEL", c.Log.Level))
	c.Log.JSON = getenvBool("LOG_JSON", c.Log.JSON)
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Cache.Backend {
	case "memory", "none":
	default:
		if strings.TrimSpace(c.Cache.Location) == "" {
			return fmt.Errorf("invalid config: cache location is required for the %s backend", c.Cache.Backend)
		}
	}
	return nil
}

func (c Config) Production() bool { return c.Env == "production" }

func (c Config) Addr() string { return ":" + strconv.Itoa(c.Server.Port) }

func getenvString(name, fallback string) string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return raw
}

func getenvInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getenvDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getenvBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	return raw == "1" || raw == "true" || raw == "yes" || raw == "on"
}
