package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"flickr_syncer/internal/domain"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Flickr   FlickrConfig   `yaml:"flickr"`
	Telegram TelegramConfig `yaml:"telegram"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Sync     SyncConfig     `yaml:"sync"`
	LogLevel string         `yaml:"log_level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type FlickrConfig struct {
	BaseURL        string        `yaml:"base_url"`
	ConsumerKey    string        `yaml:"consumer_key"`
	ConsumerSecret string        `yaml:"consumer_secret"`
	OAuthToken     string        `yaml:"oauth_token"`
	OAuthSecret    string        `yaml:"oauth_token_secret"`
	OAuthVerifier  string        `yaml:"oauth_verifier"`
	ReauthURL      string        `yaml:"reauth_url"`
	Timeout        time.Duration `yaml:"timeout"`
}

type TelegramConfig struct {
	BaseURL            string        `yaml:"base_url"`
	BotToken           string        `yaml:"bot_token"`
	PhotoChannelID     string        `yaml:"photo_channel_id"`
	ErrorReportingChat string        `yaml:"error_reporting_chat_id"`
	Timeout            time.Duration `yaml:"timeout"`
}

// RabbitMQConfig configures the optional sync-event publisher. An empty URL
// disables it.
type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type SyncConfig struct {
	Interval   time.Duration `yaml:"interval"`
	RunTimeout time.Duration `yaml:"run_timeout"`
	Action     string        `yaml:"action"`
	LeaseName  string        `yaml:"lease_name"`
	Release    RetryConfig   `yaml:"release_retry"`
}

type RetryConfig struct {
	MaxTries        uint          `yaml:"max_tries"`
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

// Validate checks the credentials and channel identifiers the sync cannot run
// without. Failures are classified as configuration errors.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return domain.E(domain.KindConfig, "telegram bot_token config missing")
	}
	if c.Telegram.ErrorReportingChat == "" {
		return domain.E(domain.KindConfig, "telegram error_reporting_chat_id config missing")
	}
	if c.Telegram.PhotoChannelID == "" {
		return domain.E(domain.KindConfig, "telegram photo_channel_id config missing")
	}
	if c.Flickr.ConsumerKey == "" || c.Flickr.ConsumerSecret == "" {
		return domain.E(domain.KindConfig, "flickr consumer_key / consumer_secret configs missing")
	}
	if c.Flickr.OAuthToken == "" || c.Flickr.OAuthSecret == "" || c.Flickr.OAuthVerifier == "" {
		return domain.E(domain.KindConfig, "flickr oauth credentials missing, need login: %s", c.Flickr.ReauthURL)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Flickr.BaseURL == "" {
		c.Flickr.BaseURL = "https://www.flickr.com/services/rest"
	}
	if c.Flickr.Timeout == 0 {
		c.Flickr.Timeout = 30 * time.Second
	}
	if c.Telegram.BaseURL == "" {
		c.Telegram.BaseURL = "https://api.telegram.org"
	}
	if c.Telegram.Timeout == 0 {
		c.Telegram.Timeout = 30 * time.Second
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "flickr_syncer"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "photo_events"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "photo_events"
	}
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 5 * time.Minute
	}
	if c.Sync.RunTimeout == 0 {
		c.Sync.RunTimeout = 10 * time.Minute
	}
	if c.Sync.Action == "" {
		c.Sync.Action = "recentlyUpdated"
	}
	if c.Sync.LeaseName == "" {
		c.Sync.LeaseName = "polling"
	}
	if c.Sync.Release.MaxTries == 0 {
		c.Sync.Release.MaxTries = 10
	}
	if c.Sync.Release.InitialInterval == 0 {
		c.Sync.Release.InitialInterval = 1 * time.Second
	}
	if c.Sync.Release.MaxInterval == 0 {
		c.Sync.Release.MaxInterval = 60 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
