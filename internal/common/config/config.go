package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Intake        IntakeConfig       `mapstructure:"intake"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Widget        WidgetConfig       `mapstructure:"widget"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
	// AllowedOrigins may call the API cross-origin; "*" allows any.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// TrustedProxies are CIDRs or IPs whose X-Forwarded-For is believed.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Intake pipeline ---

// Storage strategies and persistence failure policies.
const (
	StrategyColumns  = "columns"
	StrategyDocument = "document"

	PolicyStrict  = "strict"
	PolicyLenient = "lenient"
)

type IntakeConfig struct {
	StorageStrategy    string          `mapstructure:"storage_strategy"`
	PersistencePolicy  string          `mapstructure:"persistence_policy"`
	MaxAttachmentBytes int64           `mapstructure:"max_attachment_bytes"`
	MaxRequestBytes    int64           `mapstructure:"max_request_bytes"`
	PositionsFile      string          `mapstructure:"positions_file"`
	NotifyTimeout      int             `mapstructure:"notify_timeout"` // milliseconds
	RateLimit          RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Backend  string `mapstructure:"backend"` // redis | local
	Requests int    `mapstructure:"requests"`
	Window   int    `mapstructure:"window"` // milliseconds
}

// --- Notifications ---

// NotificationConfig holds the hiring-team delivery settings.
type NotificationConfig struct {
	Email struct {
		Enabled    bool     `mapstructure:"enabled"`
		Provider   string   `mapstructure:"provider"` // ses | smtp
		FromEmail  string   `mapstructure:"from_email"`
		Recipients []string `mapstructure:"recipients"`
	} `mapstructure:"email"`
	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		UseTLS   bool   `mapstructure:"use_tls"`
	} `mapstructure:"smtp"`
	SMS struct {
		Enabled      bool     `mapstructure:"enabled"`
		PhoneNumbers []string `mapstructure:"phone_numbers"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// --- Widget ---

type WidgetConfig struct {
	Origin        string `mapstructure:"origin"`
	AutoOpenDelay int    `mapstructure:"auto_open_delay"` // milliseconds
	RootPath      string `mapstructure:"root_path"`
	MarkerKey     string `mapstructure:"marker_key"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
