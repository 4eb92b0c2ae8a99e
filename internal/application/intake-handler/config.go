package intakehandler

import (
	"time"

	"now-hiring/internal/common/config"
)

type Config struct {
	PersistencePolicy  string
	MaxAttachmentBytes int64
	MaxRequestBytes    int64
	NotifyTimeout      time.Duration
	Positions          []string
}

func LoadConfig(cfg *config.Config, catalog *config.PositionCatalog) *Config {
	c := &Config{
		PersistencePolicy:  cfg.Intake.PersistencePolicy,
		MaxAttachmentBytes: cfg.Intake.MaxAttachmentBytes,
		MaxRequestBytes:    cfg.Intake.MaxRequestBytes,
		NotifyTimeout:      config.GetDuration(cfg.Intake.NotifyTimeout),
	}
	if catalog != nil {
		c.Positions = catalog.Positions
	}
	return c
}

func (c *Config) strict() bool {
	return c.PersistencePolicy == config.PolicyStrict
}
