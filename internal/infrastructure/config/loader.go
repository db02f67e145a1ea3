package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "ML"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./configs/.env",
	"../.env",
	"../../.env",
}

// envOverrides maps the documented environment variables onto config keys.
// Any other key can be overridden as ML_<SECTION>_<KEY>, e.g. ML_SWEEPER_WARNINGDAYS.
var envOverrides = map[string]string{
	"ML_DB_DRIVER":                "database.driver",
	"ML_DB_HOST":                  "database.host",
	"ML_DB_PORT":                  "database.port",
	"ML_DB_USERNAME":              "database.username",
	"ML_DB_PASSWORD":              "database.password",
	"ML_DB_NAME":                  "database.database",
	"ML_DB_SSL_MODE":              "database.sslMode",
	"ML_SERVER_PORT":              "server.port",
	"ML_ADMIN_KEY":                "server.adminKey",
	"ML_LOGGER_LEVEL":             "logger.level",
	"ML_REDIS_URL":                "redis.url",
	"ML_TOKOPAY_MERCHANT_ID":      "tokopay.merchantId",
	"ML_TOKOPAY_SECRET":           "tokopay.secret",
	"ML_DIGIFLAZZ_USERNAME":       "digiflazz.username",
	"ML_DIGIFLAZZ_API_KEY":        "digiflazz.apiKey",
	"ML_DIGIFLAZZ_WEBHOOK_SECRET": "digiflazz.webhookSecret",
	"ML_OTP_API_KEY":              "otp.apiKey",
	"ML_PTERODACTYL_API_KEY":      "pterodactyl.apiKey",
	"ML_TELEGRAM_TOKEN":           "telegram.token",
	"ML_TELEGRAM_ADMIN_CHAT_ID":   "telegram.adminChatId",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	return Load(ConfigPaths...)
}

// Load reads <env>.yaml from the first matching path, then applies
// defaults and environment overrides. Durations are whole units as noted on each field.
func Load(paths ...string) (*Config, error) {
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile loads the first .env file found. A missing file is not an error.
func loadDotEnvFile() error {
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("could not load %s: %w", path, err)
		}
		return nil
	}
	return nil
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)
	v.SetDefault("server.writeTimeout", 45) // purchases wait on providers
	v.SetDefault("server.idleTimeout", 60)
	v.SetDefault("server.readHeaderTimeout", 10)
	v.SetDefault("server.shutdownTimeout", 15)
	v.SetDefault("server.allowedOrigins", []string{})
	v.SetDefault("server.adminKey", "")

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "marketplace")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30)
	v.SetDefault("database.connMaxIdleTime", 15)
	v.SetDefault("database.queryTimeout", 5)
	v.SetDefault("database.slowThresholdMs", 200)
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 2)
	v.SetDefault("database.txRetries", 5)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.callerInfo", true)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.prefix", "ml:")

	v.SetDefault("ledger.referralBonus", 0)
	v.SetDefault("deposit.minAmount", 1000)
	v.SetDefault("deposit.maxAmount", 10_000_000)

	v.SetDefault("catalog.catalogTtl", 300)
	v.SetDefault("catalog.priceListTtl", 86400)
	v.SetDefault("catalog.digitalProfitPercent", 2)
	v.SetDefault("catalog.otpProfitPercent", 10)
	v.SetDefault("catalog.providerTimeout", 30)

	v.SetDefault("tokopay.baseUrl", "https://api.tokopay.id/v1")
	v.SetDefault("tokopay.merchantId", "")
	v.SetDefault("tokopay.secret", "")
	v.SetDefault("tokopay.timeout", 15)

	v.SetDefault("digiflazz.baseUrl", "https://api.digiflazz.com/v1")
	v.SetDefault("digiflazz.username", "")
	v.SetDefault("digiflazz.apiKey", "")
	v.SetDefault("digiflazz.callbackUrl", "")
	v.SetDefault("digiflazz.webhookSecret", "")
	v.SetDefault("digiflazz.timeout", 30)

	v.SetDefault("otp.baseUrl", "https://www.rumahotp.com/api")
	v.SetDefault("otp.apiKey", "")
	v.SetDefault("otp.timeout", 15)

	v.SetDefault("pterodactyl.baseUrl", "")
	v.SetDefault("pterodactyl.apiKey", "")
	v.SetDefault("pterodactyl.nestId", 5)
	v.SetDefault("pterodactyl.eggId", 15)
	v.SetDefault("pterodactyl.locationId", 1)
	v.SetDefault("pterodactyl.dockerImage", "ghcr.io/parkervcp/yolks:nodejs_18")
	v.SetDefault("pterodactyl.userDomain", "baeci.market")
	v.SetDefault("pterodactyl.timeout", 30)

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.adminChatId", 0)

	v.SetDefault("notifier.workers", 4)
	v.SetDefault("notifier.queueSize", 256)

	v.SetDefault("sweeper.schedule", "0 * * * *")
	v.SetDefault("sweeper.perOrderTimeout", 30)
	v.SetDefault("sweeper.warningDays", 3)
	v.SetDefault("sweeper.concurrency", 4)
	v.SetDefault("sweeper.lockTtl", 900)
	v.SetDefault("sweeper.lockCleanup", 600)

	v.SetDefault("seed.adminId", "admin")
	v.SetDefault("seed.adminUsername", "admin")
	v.SetDefault("seed.adminEmail", "")
}

// getEnvironment determines the environment to use based on the ML_ENV environment variable
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides applies the documented environment variables over file values
func processEnvOverrides(v *viper.Viper) {
	for name, key := range envOverrides {
		if val, ok := os.LookupEnv(name); ok && val != "" {
			v.Set(key, val)
		}
	}
}

// processDurations converts the whole-unit values read from config into durations
func processDurations(config *Config) {
	seconds := func(d *time.Duration) { *d *= time.Second }

	seconds(&config.Server.ReadTimeout)
	seconds(&config.Server.WriteTimeout)
	seconds(&config.Server.IdleTimeout)
	seconds(&config.Server.ReadHeaderTimeout)
	seconds(&config.Server.ShutdownTimeout)

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute
	seconds(&config.Database.QueryTimeout)
	seconds(&config.Database.RetryDelay)
	config.Database.SlowThreshold = time.Duration(config.Database.SlowThreshold) * time.Millisecond

	seconds(&config.Catalog.CatalogTTL)
	seconds(&config.Catalog.PriceListTTL)
	seconds(&config.Catalog.ProviderTimeout)

	seconds(&config.TokoPay.Timeout)
	seconds(&config.Digiflazz.Timeout)
	seconds(&config.OTP.Timeout)
	seconds(&config.Pterodactyl.Timeout)

	seconds(&config.Sweeper.PerOrderTimeout)
	seconds(&config.Sweeper.LockTTL)
	seconds(&config.Sweeper.LockCleanup)
}
