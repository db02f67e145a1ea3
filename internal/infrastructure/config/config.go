package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/database"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Environment string            `mapstructure:"environment"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Ledger      LedgerConfig      `mapstructure:"ledger"`
	Deposit     DepositConfig     `mapstructure:"deposit"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	TokoPay     TokoPayConfig     `mapstructure:"tokopay"`
	Digiflazz   DigiflazzConfig   `mapstructure:"digiflazz"`
	OTP         OTPConfig         `mapstructure:"otp"`
	Pterodactyl PterodactylConfig `mapstructure:"pterodactyl"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	Notifier    NotifierConfig    `mapstructure:"notifier"`
	Sweeper     SweeperConfig     `mapstructure:"sweeper"`
	Seed        SeedConfig        `mapstructure:"seed"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	AllowedOrigins    []string      `mapstructure:"allowedOrigins"`
	AdminKey          string        `mapstructure:"adminKey"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	SlowThreshold   time.Duration `mapstructure:"slowThresholdMs"` // milliseconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
	TxRetries       int           `mapstructure:"txRetries"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// RedisConfig selects the shared catalog cache. An empty URL uses process memory.
type RedisConfig struct {
	URL    string `mapstructure:"url"`
	Prefix string `mapstructure:"prefix"`
}

// LedgerConfig contains balance rules
type LedgerConfig struct {
	ReferralBonus int64 `mapstructure:"referralBonus"`
}

// DepositConfig bounds top-up amounts
type DepositConfig struct {
	MinAmount int64 `mapstructure:"minAmount"`
	MaxAmount int64 `mapstructure:"maxAmount"`
}

// CatalogConfig contains cache lifetimes and markups
type CatalogConfig struct {
	CatalogTTL           time.Duration `mapstructure:"catalogTtl"`   // seconds
	PriceListTTL         time.Duration `mapstructure:"priceListTtl"` // seconds
	DigitalProfitPercent int64         `mapstructure:"digitalProfitPercent"`
	OTPProfitPercent     int64         `mapstructure:"otpProfitPercent"`
	ProviderTimeout      time.Duration `mapstructure:"providerTimeout"` // seconds
}

// TokoPayConfig contains payment gateway credentials
type TokoPayConfig struct {
	BaseURL    string        `mapstructure:"baseUrl"`
	MerchantID string        `mapstructure:"merchantId"`
	Secret     string        `mapstructure:"secret"`
	Timeout    time.Duration `mapstructure:"timeout"` // seconds
}

// DigiflazzConfig contains digital goods wholesaler credentials
type DigiflazzConfig struct {
	BaseURL       string        `mapstructure:"baseUrl"`
	Username      string        `mapstructure:"username"`
	APIKey        string        `mapstructure:"apiKey"`
	CallbackURL   string        `mapstructure:"callbackUrl"`
	WebhookSecret string        `mapstructure:"webhookSecret"`
	Timeout       time.Duration `mapstructure:"timeout"` // seconds
}

// OTPConfig contains virtual number provider credentials
type OTPConfig struct {
	BaseURL string        `mapstructure:"baseUrl"`
	APIKey  string        `mapstructure:"apiKey"`
	Timeout time.Duration `mapstructure:"timeout"` // seconds
}

// PterodactylConfig contains game panel credentials and server defaults
type PterodactylConfig struct {
	BaseURL     string        `mapstructure:"baseUrl"`
	APIKey      string        `mapstructure:"apiKey"`
	NestID      int           `mapstructure:"nestId"`
	EggID       int           `mapstructure:"eggId"`
	LocationID  int           `mapstructure:"locationId"`
	DockerImage string        `mapstructure:"dockerImage"`
	UserDomain  string        `mapstructure:"userDomain"`
	Timeout     time.Duration `mapstructure:"timeout"` // seconds
}

// TelegramConfig contains operator bot settings
type TelegramConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Token       string `mapstructure:"token"`
	AdminChatID int64  `mapstructure:"adminChatId"`
}

// NotifierConfig sizes the asynchronous notification dispatcher
type NotifierConfig struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queueSize"`
}

// SweeperConfig contains server expiry sweep settings
type SweeperConfig struct {
	Schedule        string        `mapstructure:"schedule"`        // cron expression
	PerOrderTimeout time.Duration `mapstructure:"perOrderTimeout"` // seconds
	WarningDays     int           `mapstructure:"warningDays"`
	Concurrency     int           `mapstructure:"concurrency"`
	LockTTL         time.Duration `mapstructure:"lockTtl"`     // seconds
	LockCleanup     time.Duration `mapstructure:"lockCleanup"` // seconds
}

// SeedConfig names the admin account created on a fresh database
type SeedConfig struct {
	AdminID       string `mapstructure:"adminId"`
	AdminUsername string `mapstructure:"adminUsername"`
	AdminEmail    string `mapstructure:"adminEmail"`
}

// IsProduction reports whether the production profile is active
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// Validate ensures the values the process cannot start without are present
func (c *Config) Validate() error {
	var missing []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		missing = append(missing, "server.port")
	}
	if c.Server.ShutdownTimeout <= 0 {
		missing = append(missing, "server.shutdownTimeout")
	}
	if c.Logger.Level == "" {
		missing = append(missing, "logger.level")
	}
	if strings.TrimSpace(c.Sweeper.Schedule) == "" {
		missing = append(missing, "sweeper.schedule")
	}
	if c.Telegram.Enabled && c.Telegram.Token == "" {
		missing = append(missing, "telegram.token")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configurations: %v", missing)
	}

	switch c.Environment {
	case Development, Production, Test:
	default:
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			c.Environment, Development, Production, Test)
	}

	switch c.Database.Driver {
	case DriverMemory:
		if c.IsProduction() {
			return errors.New("the memory store is not allowed in production")
		}
	case DriverPostgres:
		if err := c.DatabaseConfig().Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	// unsigned Digiflazz callbacks can settle or refund orders
	if c.IsProduction() && strings.TrimSpace(c.Digiflazz.WebhookSecret) == "" {
		return errors.New("digiflazz.webhookSecret is required in production")
	}

	if c.Deposit.MinAmount <= 0 || c.Deposit.MaxAmount < c.Deposit.MinAmount {
		return fmt.Errorf("invalid deposit bounds: min %d, max %d", c.Deposit.MinAmount, c.Deposit.MaxAmount)
	}
	return nil
}

// DatabaseConfig builds the connection settings of the gorm store
func (c *Config) DatabaseConfig() *database.Config {
	return &database.Config{
		Driver:          c.Database.Driver,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		Username:        c.Database.Username,
		Password:        c.Database.Password,
		Database:        c.Database.Database,
		SSLMode:         c.Database.SSLMode,
		ApplicationName: "marketplace-ledger",
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
		QueryTimeout:    c.Database.QueryTimeout,
		SlowThreshold:   c.Database.SlowThreshold,
		LogLevel:        c.Logger.Level,
		RetryAttempts:   c.Database.RetryAttempts,
		RetryDelay:      c.Database.RetryDelay,
		TxRetries:       c.Database.TxRetries,
	}
}
