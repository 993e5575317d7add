// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"telefication/internal/domain/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRelayURL    = "https://telefication.ir/api/sendNotification"
	DefaultTelegramAPI = "https://api.telegram.org"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	APIKey       string        `yaml:"api_key"`
	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// RateLimit caps operator calls that reach Telegram, per client and
	// minute. Enforced only when Redis is configured.
	RateLimit int `yaml:"rate_limit"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

// DeliveryConfig holds the backend endpoints. Timeout bounds every
// outbound request and is always finite.
type DeliveryConfig struct {
	RelayURL        string        `yaml:"relay_url"`
	TelegramAPI     string        `yaml:"telegram_api"`
	Timeout         time.Duration `yaml:"timeout"`
	Workers         int           `yaml:"workers"`
	QueueSize       int           `yaml:"queue_size"`
	DispatchTimeout time.Duration `yaml:"dispatch_timeout"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
	// EncryptionKey seals the bot token in the settings row. 16, 24 or 32 bytes.
	EncryptionKey string `yaml:"encryption_key"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type I18nConfig struct {
	Locale string `yaml:"locale"` // en|fa
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	I18n     I18nConfig     `yaml:"i18n"`
	// Notify seeds the settings snapshot when no settings store exists yet.
	Notify model.Settings `yaml:"notify"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, loads an optional .env next to the
// working directory and applies TELEFICATION_* overrides.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, err
	}

	// .env is optional
	_ = godotenv.Load()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return cfg, nil
}

// Parse decodes YAML and fills defaults without touching the environment.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.TokenTTL <= 0 {
		c.Server.TokenTTL = 30 * time.Minute
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.RateLimit <= 0 {
		c.Server.RateLimit = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Delivery.RelayURL == "" {
		c.Delivery.RelayURL = DefaultRelayURL
	}
	if c.Delivery.TelegramAPI == "" {
		c.Delivery.TelegramAPI = DefaultTelegramAPI
	}
	if c.Delivery.Timeout <= 0 {
		c.Delivery.Timeout = 10 * time.Second
	}
	if c.Delivery.Workers <= 0 {
		c.Delivery.Workers = 4
	}
	if c.Delivery.QueueSize <= 0 {
		c.Delivery.QueueSize = 256
	}
	if c.Delivery.DispatchTimeout <= 0 {
		c.Delivery.DispatchTimeout = 3 * c.Delivery.Timeout
	}
	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = 4
	}
	c.Redis.TTL = normalizeTTL(c.Redis.TTL)
	if c.I18n.Locale == "" {
		c.I18n.Locale = "en"
	}
}

// Validate performs minimal validation.
func (c *Config) Validate() error {
	if c.Server.APIKey == "" {
		return errors.New("server.api_key is required")
	}
	if c.Server.JWTSecret != "" && len(c.Server.JWTSecret) < 16 {
		return errors.New("server.jwt_secret must be at least 16 bytes")
	}
	if c.Delivery.Timeout <= 0 {
		return errors.New("delivery.timeout must be positive")
	}
	if k := len(c.Database.EncryptionKey); k != 0 && k != 16 && k != 24 && k != 32 {
		return errors.New("database.encryption_key must be 16, 24, or 32 bytes")
	}
	return nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}

// applyEnvOverrides lets operators inject secrets at deploy time without
// touching the YAML file.
func applyEnvOverrides(c *Config) {
	setStr(&c.Server.APIKey, "TELEFICATION_API_KEY")
	setStr(&c.Server.JWTSecret, "TELEFICATION_JWT_SECRET")
	setInt(&c.Server.Port, "TELEFICATION_PORT")
	setStr(&c.Log.Level, "TELEFICATION_LOG_LEVEL")
	setStr(&c.Database.URL, "TELEFICATION_DATABASE_URL")
	setStr(&c.Database.EncryptionKey, "TELEFICATION_ENCRYPTION_KEY")
	setStr(&c.Redis.URL, "TELEFICATION_REDIS_URL")
	setStr(&c.Redis.Password, "TELEFICATION_REDIS_PASSWORD")
	setStr(&c.Delivery.RelayURL, "TELEFICATION_RELAY_URL")
	setStr(&c.Notify.BotToken, "TELEFICATION_BOT_TOKEN")
	setStr(&c.Notify.ChatID, "TELEFICATION_CHAT_ID")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
