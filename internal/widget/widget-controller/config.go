package widgetcontroller

import (
	"strings"
	"time"

	"now-hiring/internal/common/config"
)

// CloseSignal is the message the embedded form posts to ask the host to close it.
const CloseSignal = "close-widget"

// EmbedPath is where the embedded form is served, relative to Origin.
const EmbedPath = "/embed"

type Config struct {
	Origin        string
	AutoOpenDelay time.Duration
	RootPath      string
	MarkerKey     string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Origin:        strings.TrimRight(cfg.Widget.Origin, "/"),
		AutoOpenDelay: config.GetDuration(cfg.Widget.AutoOpenDelay),
		RootPath:      cfg.Widget.RootPath,
		MarkerKey:     cfg.Widget.MarkerKey,
	}
}
