package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	CORS    CORSConfig
	Backend BackendConfig
	Rates   RatesConfig
	News    NewsConfig
	Tax     TaxConfig
	Quotes  QuotesConfig
	Notify  NotifyConfig
	Session SessionConfig
	Alerts  AlertsConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// BackendConfig holds the location of the backend of record
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RatesConfig holds the exchange-rate service endpoint
type RatesConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// NewsConfig holds the news service location and API key
type NewsConfig struct {
	BaseURL string
	APIKey  string
}

// TaxConfig holds the tax-calculation service endpoint
type TaxConfig struct {
	Endpoint string
}

// QuotesConfig holds the stock and crypto quote service settings
type QuotesConfig struct {
	AlphaVantageURL   string
	AlphaVantageKey   string
	CoinMarketCapURL  string
	CoinMarketCapKey  string
	RequestsPerMinute int
}

// NotifyConfig holds the email notification API settings
type NotifyConfig struct {
	Endpoint  string
	Token     string
	Recipient string
	UserID    int
}

// SessionConfig holds the session token store settings.
// Key is a base64 fernet key; when empty a random key is generated at startup,
// which makes any previously persisted tokens unreadable.
type SessionConfig struct {
	Path string
	Key  string
}

// AlertsConfig holds the price-alert watcher settings
type AlertsConfig struct {
	Enabled  bool
	Schedule string // cron spec
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:8000"),
			Timeout: getEnvDuration("BACKEND_TIMEOUT", 15*time.Second),
		},
		Rates: RatesConfig{
			Endpoint: getEnv("RATES_ENDPOINT", ""),
			Timeout:  getEnvDuration("RATES_TIMEOUT", 10*time.Second),
		},
		News: NewsConfig{
			BaseURL: getEnv("NEWS_BASE_URL", "https://www.alphavantage.co"),
			APIKey:  getEnv("NEWS_API_KEY", ""),
		},
		Tax: TaxConfig{
			Endpoint: getEnv("TAX_ENDPOINT", ""),
		},
		Quotes: QuotesConfig{
			AlphaVantageURL:   getEnv("ALPHAVANTAGE_URL", "https://www.alphavantage.co"),
			AlphaVantageKey:   getEnv("ALPHAVANTAGE_API_KEY", ""),
			CoinMarketCapURL:  getEnv("COINMARKETCAP_URL", "https://pro-api.coinmarketcap.com"),
			CoinMarketCapKey:  getEnv("COINMARKETCAP_API_KEY", ""),
			RequestsPerMinute: getEnvInt("QUOTES_REQUESTS_PER_MINUTE", 30),
		},
		Notify: NotifyConfig{
			Endpoint:  getEnv("NOTIFY_ENDPOINT", ""),
			Token:     getEnv("NOTIFY_TOKEN", ""),
			Recipient: getEnv("NOTIFY_RECIPIENT", ""),
			UserID:    getEnvInt("NOTIFY_USER_ID", 1),
		},
		Session: SessionConfig{
			Path: getEnv("SESSION_PATH", "./data/session.tokens"),
			Key:  getEnv("SESSION_KEY", ""),
		},
		Alerts: AlertsConfig{
			Enabled:  getEnvBool("ALERTS_ENABLED", true),
			Schedule: getEnv("ALERTS_SCHEDULE", "@every 15m"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvDuration gets a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
