package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string   `env:"PORT" envDefault:"3001"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	RoomID        string `env:"ROOM_ID" envDefault:"game-room"`
	AutoJoin      bool   `env:"AUTO_JOIN" envDefault:"false"`
	RoomInboxSize int    `env:"ROOM_INBOX_SIZE" envDefault:"64"`

	// Zero disables the limit.
	ChatMaxLength   int `env:"CHAT_MAX_LENGTH" envDefault:"0"`
	ChatMaxMessages int `env:"CHAT_MAX_MESSAGES" envDefault:"0"`

	WSSendBuffer   int           `env:"WS_SEND_BUFFER" envDefault:"16"`
	WSPingInterval time.Duration `env:"WS_PING_INTERVAL" envDefault:"30s"`
	WSReadTimeout  time.Duration `env:"WS_READ_TIMEOUT" envDefault:"60s"`
	WSWriteTimeout time.Duration `env:"WS_WRITE_TIMEOUT" envDefault:"10s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	DatabaseURL       string        `env:"DATABASE_URL"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`

	RedisURL      string `env:"REDIS_URL"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	ResultQueueSize     int           `env:"RESULT_QUEUE_SIZE" envDefault:"32"`
	ResultRetentionDays int           `env:"RESULT_RETENTION_DAYS" envDefault:"30"`
	CleanupInterval     time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.AllowedOrigins = trimAll(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.RoomID) == "" {
		return errors.New("ROOM_ID must not be empty")
	}
	if c.ChatMaxLength < 0 || c.ChatMaxMessages < 0 {
		return errors.New("chat limits must not be negative")
	}
	if c.RoomInboxSize <= 0 || c.WSSendBuffer <= 0 || c.ResultQueueSize <= 0 {
		return errors.New("queue sizes must be positive")
	}
	if c.WSPingInterval >= c.WSReadTimeout {
		return fmt.Errorf("WS_PING_INTERVAL (%s) must be shorter than WS_READ_TIMEOUT (%s)", c.WSPingInterval, c.WSReadTimeout)
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) ResultRetention() time.Duration {
	return time.Duration(c.ResultRetentionDays) * 24 * time.Hour
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
