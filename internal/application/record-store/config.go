package recordstore

import (
	"now-hiring/internal/common/config"
)

type Config struct {
	Strategy string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{Strategy: cfg.Intake.StorageStrategy}
}
