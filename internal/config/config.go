package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Mpesa    MpesaConfig
	Order    OrderConfig
	Payment  PaymentConfig
	Events   EventsConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// MpesaConfig holds the Daraja credentials. It is built once at startup and never mutated.
type MpesaConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	PassKey        string
	CallbackURL    string
	Timeout        time.Duration
}

type OrderConfig struct {
	CreateTxTimeout time.Duration
}

type PaymentConfig struct {
	ReconcileTxTimeout time.Duration
	MaxRetryAttempts   int
}

// EventsConfig configures the NATS publisher. An empty NatsURL disables publishing.
type EventsConfig struct {
	NatsURL string
	Subject string
}

// Load reads configuration from an optional .env file, an optional YAML file named by
// CONFIG_FILE and the process environment, in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "karen")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "karen")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke")
	v.SetDefault("MPESA_TIMEOUT", "10s")
	v.SetDefault("ORDER_CREATE_TX_TIMEOUT", "5s")
	v.SetDefault("PAYMENT_RECONCILE_TX_TIMEOUT", "5s")
	v.SetDefault("PAYMENT_MAX_RETRY_ATTEMPTS", 3)
	v.SetDefault("NATS_URL", "")
	v.SetDefault("NATS_SUBJECT", "payment.confirmed")

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	connMaxLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, fmt.Errorf("parsing DB_CONN_MAX_LIFETIME: %w", err)
	}

	mpesaTimeout, err := time.ParseDuration(v.GetString("MPESA_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("parsing MPESA_TIMEOUT: %w", err)
	}

	orderTimeout, err := time.ParseDuration(v.GetString("ORDER_CREATE_TX_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("parsing ORDER_CREATE_TX_TIMEOUT: %w", err)
	}

	reconcileTimeout, err := time.ParseDuration(v.GetString("PAYMENT_RECONCILE_TX_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("parsing PAYMENT_RECONCILE_TX_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Mpesa: MpesaConfig{
			BaseURL:        strings.TrimRight(v.GetString("MPESA_BASE_URL"), "/"),
			ConsumerKey:    v.GetString("MPESA_CONSUMER_KEY"),
			ConsumerSecret: v.GetString("MPESA_CONSUMER_SECRET"),
			ShortCode:      v.GetString("MPESA_SHORTCODE"),
			PassKey:        v.GetString("MPESA_PASSKEY"),
			CallbackURL:    v.GetString("MPESA_CALLBACK_URL"),
			Timeout:        mpesaTimeout,
		},
		Order: OrderConfig{
			CreateTxTimeout: orderTimeout,
		},
		Payment: PaymentConfig{
			ReconcileTxTimeout: reconcileTimeout,
			MaxRetryAttempts:   v.GetInt("PAYMENT_MAX_RETRY_ATTEMPTS"),
		},
		Events: EventsConfig{
			NatsURL: v.GetString("NATS_URL"),
			Subject: v.GetString("NATS_SUBJECT"),
		},
	}

	return cfg, nil
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.Mpesa.ConsumerKey == "" {
		missing = append(missing, "MPESA_CONSUMER_KEY")
	}
	if c.Mpesa.ConsumerSecret == "" {
		missing = append(missing, "MPESA_CONSUMER_SECRET")
	}
	if c.Mpesa.ShortCode == "" {
		missing = append(missing, "MPESA_SHORTCODE")
	}
	if c.Mpesa.PassKey == "" {
		missing = append(missing, "MPESA_PASSKEY")
	}
	if c.Mpesa.CallbackURL == "" {
		missing = append(missing, "MPESA_CALLBACK_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.Mpesa.Timeout < 5*time.Second || c.Mpesa.Timeout > 15*time.Second {
		return fmt.Errorf("MPESA_TIMEOUT must be between 5s and 15s, got %s", c.Mpesa.Timeout)
	}
	if c.Payment.MaxRetryAttempts < 1 {
		return fmt.Errorf("PAYMENT_MAX_RETRY_ATTEMPTS must be at least 1")
	}

	return nil
}
