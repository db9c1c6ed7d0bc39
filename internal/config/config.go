package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`
	Redis       `yaml:"redis"`
	HTTPServer  `yaml:"http_server"`
	Calendar    `yaml:"calendar"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

type Calendar struct {
	Timezone      string        `yaml:"timezone" env:"CALENDAR_TIMEZONE" env-default:"UTC"`
	UnitsPerHour  int           `yaml:"units_per_hour" env-default:"60"`
	CacheTTL      time.Duration `yaml:"cache_ttl" env-default:"10m"`
	RebuildLock   time.Duration `yaml:"rebuild_lock" env-default:"5s"`
	NotifyChannel string        `yaml:"notify_channel" env-default:"schedule_changed"`
}

func (c Calendar) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	return cfg
}

func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	var cfg Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to read config file: %w", op, err)
	}

	if _, err := cfg.Calendar.Location(); err != nil {
		return nil, fmt.Errorf("%s: invalid timezone: %w", op, err)
	}

	return &cfg, nil
}
