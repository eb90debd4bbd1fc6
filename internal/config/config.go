package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	NLP       NLPConfig       `yaml:"nlp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// NLPConfig holds the time-resolution and validation tunables.
type NLPConfig struct {
	Timezone string          `yaml:"timezone"`
	DayParts []DayPartConfig `yaml:"day_parts"`
	Limits   LimitsConfig    `yaml:"duration_limits"`
}

// DayPartConfig overrides one named day part. An empty list keeps the
// built-in table.
type DayPartConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Hour     int      `yaml:"hour"`
	LateHour int      `yaml:"late_hour"`
	Rollover int      `yaml:"rollover"`
}

// LimitsConfig holds the plausibility thresholds in minutes.
type LimitsConfig struct {
	SleepMax   int `yaml:"sleep_max"`
	SleepMin   int `yaml:"sleep_min"`
	FeedingMax int `yaml:"feeding_max"`
	WalkMax    int `yaml:"walk_max"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "babylog.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		NLP: NLPConfig{
			Timezone: "Europe/Moscow",
			Limits: LimitsConfig{
				SleepMax:   720,
				SleepMin:   10,
				FeedingMax: 60,
				WalkMax:    300,
			},
		},
	}

	if path := os.Getenv("BABYLOG_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("BABYLOG_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("BABYLOG_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BABYLOG_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("BABYLOG_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("BABYLOG_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("BABYLOG_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if enabled := os.Getenv("BABYLOG_AUTH_ENABLED"); enabled != "" {
		parsed, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BABYLOG_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = parsed
	}
	if tz := os.Getenv("BABYLOG_TIMEZONE"); tz != "" {
		cfg.NLP.Timezone = tz
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
