package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// SwapServerConfig represents the swap coordinator server configuration
type SwapServerConfig struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Protocol   ProtocolConfig   `mapstructure:"protocol"`
	Expiry     ExpiryConfig     `mapstructure:"expiry"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Observer   ObserverConfig   `mapstructure:"observer"`
	JWKS       JWKSConfig       `mapstructure:"jwks"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// CORSAllowedOrigins enables CORS for browser clients when non-empty
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
	// MaxOpenConns caps the pool; 0 leaves it unbounded
	MaxOpenConns int           `mapstructure:"max_open_conns" validate:"gte=0"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
}

// StorageConfig selects the offer store backend
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=postgres memory"`
}

// ProtocolConfig holds the swap timing parameters
type ProtocolConfig struct {
	MinWindow          time.Duration `mapstructure:"min_window"`
	SafetyMargin       time.Duration `mapstructure:"safety_margin"`
	OfferTTL           time.Duration `mapstructure:"offer_ttl"`
	ClockSkew          time.Duration `mapstructure:"clock_skew"`
	DefaultTakerWindow time.Duration `mapstructure:"default_taker_window"`
}

// ExpiryConfig controls the background expiry sweeper
type ExpiryConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Schedule string        `mapstructure:"schedule" validate:"required_if=Enabled true"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// NotifyConfig controls where offer snapshots are published after each change
type NotifyConfig struct {
	Log  bool       `mapstructure:"log"`
	AMQP AMQPConfig `mapstructure:"amqp"`
}

// AMQPConfig contains RabbitMQ publisher settings
type AMQPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url" validate:"required_if=Enabled true"`
	Exchange string `mapstructure:"exchange" validate:"required_if=Enabled true"`
}

// ObserverConfig controls the chain observer engine
type ObserverConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// JWKSConfig contains JWKS configuration for JWT validation of chain event submissions.
// Leaving URL empty disables authentication on the events endpoint.
type JWKSConfig struct {
	URL    string `mapstructure:"url"`
	Issuer string `mapstructure:"issuer"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

// LoadSwapServer loads the server configuration from a YAML file. Every key can be
// overridden by an environment variable with the SWAP_ prefix, e.g. SWAP_SERVER_PORT.
func LoadSwapServer(configPath string) (*SwapServerConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("swap")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setSwapServerDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config SwapServerConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateSwapServer(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setSwapServerDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.cors_allowed_origins", []string{})

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.database", "swap")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.dial_timeout", "5s")

	v.SetDefault("storage.driver", "postgres")

	// Protocol defaults
	v.SetDefault("protocol.min_window", "10m")
	v.SetDefault("protocol.safety_margin", "120s")
	v.SetDefault("protocol.offer_ttl", "24h")
	v.SetDefault("protocol.clock_skew", "30s")
	v.SetDefault("protocol.default_taker_window", "1h")

	// Expiry sweeper defaults
	v.SetDefault("expiry.enabled", true)
	v.SetDefault("expiry.schedule", "@every 30s")
	v.SetDefault("expiry.timeout", "20s")

	// Notification defaults
	v.SetDefault("notify.log", true)
	v.SetDefault("notify.amqp.enabled", false)
	v.SetDefault("notify.amqp.url", "")
	v.SetDefault("notify.amqp.exchange", "swap.offers")

	// JWKS is off unless configured
	v.SetDefault("jwks.url", "")
	v.SetDefault("jwks.issuer", "")

	v.SetDefault("observer.enabled", true)

	// Monitoring defaults
	v.SetDefault("monitoring.enabled", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateSwapServer(config *SwapServerConfig) error {
	if err := validate.Struct(config); err != nil {
		return err
	}
	if config.Storage.Driver == "postgres" && config.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if config.JWKS.URL != "" {
		if _, err := url.ParseRequestURI(config.JWKS.URL); err != nil {
			return fmt.Errorf("jwks.url is invalid: %w", err)
		}
	}
	return nil
}
