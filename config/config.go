package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env       string `env:"ENV" envDefault:"local"`
	Port      int    `env:"PORT" envDefault:"8083"`
	SentryDSN string `env:"SENTRY_DSN"`
	Release   string `env:"RELEASE" envDefault:"makeover@1.0.0"`

	// Database
	DBUsername string `env:"DB_USERNAME"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_NAME"`

	// Auth
	JWTSecret      string `env:"JWT_SECRET,required,notEmpty"`
	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`
	AppleTeamID    string `env:"APPLE_TEAM_ID"`
	AppleKeyID     string `env:"APPLE_KEY_ID"`
	AppleClientID  string `env:"APPLE_CLIENT_ID"`

	// Generative services
	GoogleAPIKey string `env:"GOOGLE_API_KEY"`
	TextModel    string `env:"TEXT_MODEL" envDefault:"gemini-2.0-flash"`
	ImageModel   string `env:"IMAGE_MODEL" envDefault:"gemini-2.0-flash-preview-image-generation"`

	// Storage
	StoreBackend string   `env:"STORE_BACKEND" envDefault:"postgres"`
	R2           R2Config `envPrefix:"R2_"`

	// Products
	ProductFinder string `env:"PRODUCT_FINDER" envDefault:"mock"`
	ShopSearchURL string `env:"SHOP_SEARCH_URL"`

	// Background work
	AsyncBrokerAddress string `env:"ASYNC_BROKER_ADDRESS" envDefault:"localhost:6379"`
	DailyLookCron      string `env:"DAILY_LOOK_CRON" envDefault:"0 7 * * *"`

	// Telegram
	TelegramBot    bool    `env:"TELEGRAM_BOT" envDefault:"false"`
	TelegramToken  string  `env:"TG_TOKEN"`
	TelegramAdmins []int64 `env:"TG_ADMINS" envSeparator:","`
}

// R2Config points at the Cloudflare R2 bucket holding wardrobe photos and
// look images.
type R2Config struct {
	AccountID       string `env:"ACCOUNT_ID"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	AccessKeySecret string `env:"ACCESS_KEY_SECRET"`
	Bucket          string `env:"BUCKET_NAME" envDefault:"makeover"`
}

func (r R2Config) Endpoint() string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.AccountID)
}

// Load reads an optional .env file and parses the environment into Config.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		c.DBUsername, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}
