package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	DBUrl       string `mapstructure:"DATABASE_URL"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`
	// Database pool
	DBMaxConns     int32 `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32 `mapstructure:"DB_MIN_CONNS"`
	DBConnectRetry int   `mapstructure:"DB_CONNECT_RETRY"`
	// Identity provider
	JWTSecret string `mapstructure:"JWT_SECRET"`
	JWKSURL   string `mapstructure:"JWKS_URL"`
	// Logging
	LogJSON  bool `mapstructure:"LOG_JSON"`
	LogDebug bool `mapstructure:"LOG_DEBUG"`
	// SMTP
	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      string `mapstructure:"SMTP_PORT"`
	SMTPUsername  string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword  string `mapstructure:"SMTP_PASSWORD"`
	SMTPFromEmail string `mapstructure:"SMTP_FROM_EMAIL"`
	// Mail outbox and retry sweep
	MailSendEnabled   bool          `mapstructure:"MAIL_SEND_ENABLED"`
	MailSubject       string        `mapstructure:"MAIL_SUBJECT"`
	MailRetryInterval time.Duration `mapstructure:"MAIL_RETRY_INTERVAL"`
	MailMaxAttempts   int           `mapstructure:"MAIL_MAX_ATTEMPTS"`
	MailSweepLockTTL  time.Duration `mapstructure:"MAIL_SWEEP_LOCK_TTL"`
	// Redis (optional, coordinates the sweep across instances)
	RedisURL      string `mapstructure:"REDIS_URL"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	// Kafka (optional, push notification hand-off)
	KafkaBrokers            string `mapstructure:"KAFKA_BROKERS"`
	KafkaNotificationsTopic string `mapstructure:"KAFKA_NOTIFICATIONS_TOPIC"`
	// Matching
	SuggestionLimit int `mapstructure:"SUGGESTION_LIMIT"`
}

var defaults = map[string]any{
	"PORT":                      "8080",
	"DATABASE_URL":              "",
	"FRONTEND_URL":              "http://localhost:3000",
	"DB_MAX_CONNS":              25,
	"DB_MIN_CONNS":              5,
	"DB_CONNECT_RETRY":          3,
	"JWT_SECRET":                "",
	"JWKS_URL":                  "",
	"LOG_JSON":                  true,
	"LOG_DEBUG":                 false,
	"SMTP_HOST":                 "localhost",
	"SMTP_PORT":                 "587",
	"SMTP_USERNAME":             "",
	"SMTP_PASSWORD":             "",
	"SMTP_FROM_EMAIL":           "noreply@marketplace.local",
	"MAIL_SEND_ENABLED":         false,
	"MAIL_SUBJECT":              "New notification",
	"MAIL_RETRY_INTERVAL":       "30s",
	"MAIL_MAX_ATTEMPTS":         5,
	"MAIL_SWEEP_LOCK_TTL":       "2m",
	"REDIS_URL":                 "",
	"REDIS_PASSWORD":            "",
	"KAFKA_BROKERS":             "",
	"KAFKA_NOTIFICATIONS_TOPIC": "notifications",
	"SUGGESTION_LIMIT":          6,
}

// LoadConfig reads a local .env file when present, then the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	if cfg.MailMaxAttempts < 1 {
		cfg.MailMaxAttempts = 1
	}
	return &cfg, nil
}

// Brokers splits KAFKA_BROKERS into addresses. Empty means Kafka is disabled.
func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Warnings lists settings that leave a feature disabled.
func (c *Config) Warnings() []string {
	var w []string
	if c.DBUrl == "" {
		w = append(w, "DATABASE_URL is missing; the application will fail to connect")
	}
	if c.JWTSecret == "" && c.JWKSURL == "" {
		w = append(w, "neither JWT_SECRET nor JWKS_URL is set; every authenticated request will be rejected")
	}
	if c.RedisURL == "" {
		w = append(w, "REDIS_URL not configured; mail sweeps are only serialized within this process")
	}
	if len(c.Brokers()) == 0 {
		w = append(w, "KAFKA_BROKERS not configured; push notification events are not published")
	}
	return w
}
