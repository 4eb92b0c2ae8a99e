package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges configs/config.<APP_ENVIRONMENT>.yaml on top
// and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	// INTAKE_PERSISTENCE_POLICY overrides intake.persistence_policy
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range envBoundKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// AutomaticEnv only resolves keys viper already knows about; these may be
// absent from the yaml and set purely from the environment.
var envBoundKeys = []string{
	"intake.storage_strategy",
	"intake.persistence_policy",
	"database.driver",
	"database.postgres.password",
	"database.redis.password",
	"notifications.smtp.password",
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

func overrideEmptyConfig(cfg *Config) {
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
	if cfg.Notifications.AWS.Region == "" {
		if val := os.Getenv("AWS_REGION"); val != "" {
			cfg.Notifications.AWS.Region = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
// intake.persistence_policy is deliberately absent.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "now-hiring"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15000
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverPostgres
	}
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.SQLite.Path == "" {
		cfg.Database.SQLite.Path = "now-hiring.db"
	}

	if cfg.Intake.StorageStrategy == "" {
		cfg.Intake.StorageStrategy = StrategyDocument
	}
	if cfg.Intake.MaxAttachmentBytes == 0 {
		cfg.Intake.MaxAttachmentBytes = 5 << 20
	}
	if cfg.Intake.MaxRequestBytes == 0 {
		cfg.Intake.MaxRequestBytes = 2*cfg.Intake.MaxAttachmentBytes + 1<<20
	}
	if cfg.Intake.NotifyTimeout == 0 {
		cfg.Intake.NotifyTimeout = 30000
	}
	if cfg.Intake.RateLimit.Backend == "" {
		cfg.Intake.RateLimit.Backend = "local"
	}
	if cfg.Intake.RateLimit.Requests == 0 {
		cfg.Intake.RateLimit.Requests = 5
	}
	if cfg.Intake.RateLimit.Window == 0 {
		cfg.Intake.RateLimit.Window = 60000
	}

	if cfg.Notifications.Email.Provider == "" {
		cfg.Notifications.Email.Provider = "ses"
	}
	if cfg.Notifications.AWS.Region == "" {
		cfg.Notifications.AWS.Region = "us-east-1"
	}
	if cfg.Notifications.SMTP.Port == 0 {
		cfg.Notifications.SMTP.Port = 587
	}

	if cfg.Widget.AutoOpenDelay == 0 {
		cfg.Widget.AutoOpenDelay = 5000
	}
	if cfg.Widget.RootPath == "" {
		cfg.Widget.RootPath = "/"
	}
	if cfg.Widget.MarkerKey == "" {
		cfg.Widget.MarkerKey = "hiring-widget-dismissed"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	switch cfg.Intake.PersistencePolicy {
	case PolicyStrict, PolicyLenient:
	case "":
		return fmt.Errorf("intake.persistence_policy is required (strict or lenient)")
	default:
		return fmt.Errorf("intake.persistence_policy %q is not one of strict, lenient", cfg.Intake.PersistencePolicy)
	}

	switch cfg.Intake.StorageStrategy {
	case StrategyColumns, StrategyDocument:
	default:
		return fmt.Errorf("intake.storage_strategy %q is not one of columns, document", cfg.Intake.StorageStrategy)
	}

	if cfg.Intake.MaxAttachmentBytes < 0 {
		return fmt.Errorf("intake.max_attachment_bytes must be positive")
	}

	switch cfg.Database.Driver {
	case DriverPostgres:
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("database.driver %q is not one of postgres, sqlite", cfg.Database.Driver)
	}

	if cfg.Intake.RateLimit.Enabled && cfg.Intake.RateLimit.Backend == "redis" && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required for the redis rate limit backend")
	}

	if cfg.Notifications.Email.Enabled {
		if cfg.Notifications.Email.FromEmail == "" {
			return fmt.Errorf("notifications.email.from_email is required")
		}
		if len(cfg.Notifications.Email.Recipients) == 0 {
			return fmt.Errorf("notifications.email.recipients is required")
		}
		switch cfg.Notifications.Email.Provider {
		case "ses":
		case "smtp":
			if cfg.Notifications.SMTP.Host == "" {
				return fmt.Errorf("notifications.smtp.host is required for the smtp provider")
			}
		default:
			return fmt.Errorf("notifications.email.provider %q is not one of ses, smtp", cfg.Notifications.Email.Provider)
		}
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
