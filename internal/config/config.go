package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	SendGrid   SendGridConfig   `yaml:"sendgrid"`
	Redis      RedisConfig      `yaml:"redis"`
	AMQP       AMQPConfig       `yaml:"amqp"`
	Pricing    PricingConfig    `yaml:"pricing"`
	Withdrawal WithdrawalConfig `yaml:"withdrawal"`
	Log        LogConfig        `yaml:"log"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
}

// ServerConfig contains HTTP and gRPC health server settings
type ServerConfig struct {
	Host                   string   `yaml:"host"`
	Port                   int      `yaml:"port"`
	HealthPort             int      `yaml:"health_port"` // gRPC health service, 0 disables it
	CORSOrigins            []string `yaml:"cors_origins"`
	RateLimitPerSecond     int      `yaml:"rate_limit_per_second"`
	RateLimitBurst         int      `yaml:"rate_limit_burst"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"ssl_mode"`
	MaxOpenConns   int    `yaml:"max_open_conns"`
	MigrateOnStart bool   `yaml:"migrate_on_start"`
}

// AuthConfig selects how bearer tokens are verified
type AuthConfig struct {
	Provider                string   `yaml:"provider"` // "firebase" or "jwt"
	JWTSecret               string   `yaml:"jwt_secret"`
	FirebaseProjectID       string   `yaml:"firebase_project_id"`
	FirebaseCredentialsFile string   `yaml:"firebase_credentials_file"`
	BootstrapAdminEmails    []string `yaml:"bootstrap_admin_emails"` // role granted on first sign-in only
}

// SendGridConfig contains email delivery settings; an empty API key disables email
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// RedisConfig enables cross-instance realtime fanout when Addr is set
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

// AMQPConfig enables domain event publishing when URL is set
type AMQPConfig struct {
	URL   string `yaml:"url"`
	Queue string `yaml:"queue"`
}

// PricingConfig contains checkout pricing settings
type PricingConfig struct {
	DeliveryFeeCents int64 `yaml:"delivery_fee_cents"`
}

// WithdrawalConfig contains owner payout settings
type WithdrawalConfig struct {
	MinimumCents   int64 `yaml:"minimum_cents"`
	RefundOnReject bool  `yaml:"refund_on_reject"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings (seconds precision)
type SchedulerConfig struct {
	SettleCompletedRentals string `yaml:"settle_completed_rentals"`
	SendOverdueNotices     string `yaml:"send_overdue_notices"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a validated configuration from YAML bytes and the environment.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Auth
	if val := os.Getenv("AUTH_PROVIDER"); val != "" {
		c.Auth.Provider = val
	}
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.Auth.JWTSecret = val
	}
	if val := os.Getenv("FIREBASE_PROJECT_ID"); val != "" {
		c.Auth.FirebaseProjectID = val
	}
	if val := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); val != "" && c.Auth.FirebaseCredentialsFile == "" {
		c.Auth.FirebaseCredentialsFile = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}

	// Redis / AMQP
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}
	if val := os.Getenv("AMQP_URL"); val != "" {
		c.AMQP.URL = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("CORS_ORIGINS"); val != "" {
		c.Server.CORSOrigins = strings.Split(val, ",")
	}

	// Withdrawal
	if val := os.Getenv("WITHDRAWAL_REFUND_ON_REJECT"); val != "" {
		c.Withdrawal.RefundOnReject = val == "true" || val == "1"
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.HealthPort < 0 || c.Server.HealthPort > 65535 {
		return fmt.Errorf("invalid health port: %d", c.Server.HealthPort)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Auth validation
	switch c.Auth.Provider {
	case "", "jwt":
		c.Auth.Provider = "jwt"
		if len(c.Auth.JWTSecret) < 32 {
			return fmt.Errorf("JWT secret must be at least 32 characters")
		}
	case "firebase":
		if c.Auth.FirebaseProjectID == "" {
			return fmt.Errorf("firebase project id is required")
		}
	default:
		return fmt.Errorf("unsupported auth provider: %s", c.Auth.Provider)
	}

	if c.SendGrid.APIKey != "" && c.SendGrid.FromEmail == "" {
		return fmt.Errorf("sendgrid from_email is required when api_key is set")
	}

	// Defaults
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Server.RateLimitPerSecond == 0 {
		c.Server.RateLimitPerSecond = 20
	}
	if c.Server.RateLimitBurst == 0 {
		c.Server.RateLimitBurst = 40
	}
	if c.Server.ShutdownTimeoutSeconds == 0 {
		c.Server.ShutdownTimeoutSeconds = 15
	}
	if c.SendGrid.FromName == "" {
		c.SendGrid.FromName = "RentHub"
	}
	if c.Redis.Channel == "" {
		c.Redis.Channel = "renthub:realtime"
	}
	if c.AMQP.Queue == "" {
		c.AMQP.Queue = "renthub.events"
	}
	if c.Withdrawal.MinimumCents == 0 {
		c.Withdrawal.MinimumCents = 50000 // ₱500
	}
	if c.Withdrawal.MinimumCents < 0 {
		return fmt.Errorf("withdrawal minimum must not be negative")
	}
	if c.Pricing.DeliveryFeeCents < 0 {
		return fmt.Errorf("delivery fee must not be negative")
	}

	// Scheduler defaults
	if c.Scheduler.SettleCompletedRentals == "" {
		c.Scheduler.SettleCompletedRentals = "0 */15 * * * *" // every 15 minutes
	}
	if c.Scheduler.SendOverdueNotices == "" {
		c.Scheduler.SendOverdueNotices = "0 0 1 * * *" // 9 AM Manila (UTC+8)
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetHealthAddress returns the gRPC health server address
func (c *Config) GetHealthAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HealthPort)
}
