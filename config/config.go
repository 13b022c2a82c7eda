package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	CheckIn     CheckInConfig     `yaml:"checkin"`
	SeatLock    SeatLockConfig    `yaml:"seat_lock"`
	Idempotency IdempotencyConfig `yaml:"idempotency"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	CheckInEventsTopic string   `yaml:"checkin_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

// CheckInConfig bounds the check-in window relative to departure.
// WindowHoursAfter is normally negative: -1 means the window closes one
// hour past departure.
type CheckInConfig struct {
	WindowHoursBefore float64 `yaml:"window_hours_before"`
	WindowHoursAfter  float64 `yaml:"window_hours_after"`
}

type SeatLockConfig struct {
	TTLMs        int `yaml:"ttl_ms"`
	Retries      int `yaml:"retries"`
	RetryDelayMs int `yaml:"retry_delay_ms"`
}

func (s SeatLockConfig) TTL() time.Duration {
	return time.Duration(s.TTLMs) * time.Millisecond
}

func (s SeatLockConfig) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelayMs) * time.Millisecond
}

type IdempotencyConfig struct {
	ProcessingTTLSeconds int `yaml:"processing_ttl_seconds"`
	ResponseTTLHours     int `yaml:"response_ttl_hours"`
}

func (i IdempotencyConfig) ProcessingTTL() time.Duration {
	return time.Duration(i.ProcessingTTLSeconds) * time.Second
}

func (i IdempotencyConfig) ResponseTTL() time.Duration {
	return time.Duration(i.ResponseTTLHours) * time.Hour
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.CheckIn.WindowHoursBefore == 0 {
		c.CheckIn.WindowHoursBefore = 24
	}
	if c.CheckIn.WindowHoursAfter == 0 {
		c.CheckIn.WindowHoursAfter = -1
	}
	if c.SeatLock.TTLMs == 0 {
		c.SeatLock.TTLMs = 10000
	}
	if c.SeatLock.Retries == 0 {
		c.SeatLock.Retries = 3
	}
	if c.SeatLock.RetryDelayMs == 0 {
		c.SeatLock.RetryDelayMs = 100
	}
	if c.Idempotency.ProcessingTTLSeconds == 0 {
		c.Idempotency.ProcessingTTLSeconds = 60
	}
	if c.Idempotency.ResponseTTLHours == 0 {
		c.Idempotency.ResponseTTLHours = 24
	}
}
