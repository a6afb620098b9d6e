package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	ServerPort int    `env:"PORT" envDefault:"8080"`
	DataDir    string `env:"DATA_DIR" envDefault:"./data"`
	UploadDir  string `env:"UPLOAD_DIR" envDefault:"./data/uploads"`

	// StoreBackend selects the keyed store implementation: "json" or "sqlite".
	StoreBackend string `env:"STORE_BACKEND" envDefault:"json"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"./data/stonescan.db"`

	JWTSecret          string `env:"SECRET_KEY" envDefault:"change-me-please"`
	JWTAlgorithm       string `env:"ALGORITHM" envDefault:"HS256"`
	AccessTokenMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"120"`

	OTPExpireMinutes int    `env:"OTP_EXPIRE_MINUTES" envDefault:"10"`
	OTPSweepSchedule string `env:"OTP_SWEEP_SCHEDULE" envDefault:"@every 1m"`

	ModelServerURL string `env:"MODEL_SERVER_URL" envDefault:"http://localhost:9000/predict"`

	StatsIntervalSeconds int `env:"STATS_INTERVAL_SECONDS" envDefault:"15"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenMinutes) * time.Minute
}

// OTPTTL returns the configured one-time code lifetime.
func (c *Config) OTPTTL() time.Duration {
	return time.Duration(c.OTPExpireMinutes) * time.Minute
}

// StatsInterval returns how often host stats are sampled.
func (c *Config) StatsInterval() time.Duration {
	return time.Duration(c.StatsIntervalSeconds) * time.Second
}

// MailEnabled reports whether SMTP delivery is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}
