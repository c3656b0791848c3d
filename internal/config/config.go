package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ProviderConfig struct {
	Name        string `yaml:"name"`
	APIKey      string `yaml:"apiKey"`
	Endpoint    string `yaml:"endpoint"`
	Model       string `yaml:"model"`
	VisionModel string `yaml:"visionModel"`
	MultiModal  bool   `yaml:"multiModal"`
	DailyLimit  int    `yaml:"dailyLimit"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	AI struct {
		Providers         []ProviderConfig `yaml:"providers"`
		DefaultDailyLimit int              `yaml:"defaultDailyLimit"`
		MaxAttempts       int              `yaml:"maxAttempts"`
		CallTimeoutSec    int              `yaml:"callTimeoutSec"`
		EnableAIOrigin    bool             `yaml:"enableAIOrigin"`
	} `yaml:"ai"`

	Auth struct {
		// tenant -> API key; kosong berarti auth dimatikan
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
	if cfg.AI.DefaultDailyLimit == 0 {
		cfg.AI.DefaultDailyLimit = 1000
	}
	return &cfg, nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	ssl := c.Database.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		ssl,
	)
}

// CallTimeout converts the configured per-call timeout, with a default.
func (c *Config) CallTimeout() time.Duration {
	if c.AI.CallTimeoutSec <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.AI.CallTimeoutSec) * time.Second
}

// DailyLimits maps provider name to its configured daily call ceiling.
func (c *Config) DailyLimits() map[string]int {
	out := make(map[string]int, len(c.AI.Providers))
	for _, p := range c.AI.Providers {
		if p.DailyLimit > 0 {
			out[p.Name] = p.DailyLimit
		}
	}
	return out
}
