package server

import (
	"time"

	"now-hiring/internal/common/config"
)

type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	// TrustedProxies may set X-Forwarded-For; empty trusts none.
	TrustedProxies []string
	// Mode is the gin mode: debug, release or test.
	Mode string
}

func LoadConfig(cfg *config.Config) *Config {
	mode := "debug"
	if cfg.App.Environment == "production" {
		mode = "release"
	}
	return &Config{
		Address:         cfg.Server.Address,
		ReadTimeout:     config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout:    config.GetDuration(cfg.Server.WriteTimeout),
		ShutdownTimeout: config.GetDuration(cfg.Server.ShutdownTimeout),
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		TrustedProxies:  cfg.Server.TrustedProxies,
		Mode:            mode,
	}
}
