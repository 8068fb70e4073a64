package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort        = 8080
	defaultEnv         = "development"
	defaultMongoHost   = "127.0.0.1"
	defaultMongoPort   = 27017
	defaultMongoDBName = "opencircle"
	defaultRedisURL    = "redis://localhost:6379/0"

	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour

	defaultPrivateKeyPath = "jwt.key"
	defaultPublicKeyPath  = "jwt.key.pub"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int           `yaml:"port"`
	Env            string        `yaml:"env"` // "development" | "production"
	Mongo          MongoConfig   `yaml:"mongo"`
	RedisURL       string        `yaml:"redis_url"`
	Auth           AuthConfig    `yaml:"auth"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	Timezone       string        `yaml:"timezone"`
}

// MongoConfig describes the document-store connection.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"db_name"`
}

// AuthConfig holds signing key material locations and token lifetimes.
type AuthConfig struct {
	PrivateKeyPath  string        `yaml:"private_key"`
	PublicKeyPath   string        `yaml:"public_key"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
}

// Load reads and normalizes the YAML config file. A missing file yields the
// built-in development defaults.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && path == DefaultConfigPath:
		// Fall through to defaults.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *AppConfig) normalize() {
	if c.Port <= 0 {
		c.Port = defaultPort
	}
	if strings.TrimSpace(c.Env) == "" {
		c.Env = defaultEnv
	}
	if c.Mongo.Host == "" {
		c.Mongo.Host = defaultMongoHost
	}
	if c.Mongo.Port <= 0 {
		c.Mongo.Port = defaultMongoPort
	}
	if c.Mongo.DBName == "" {
		c.Mongo.DBName = defaultMongoDBName
	}
	if strings.TrimSpace(c.RedisURL) == "" {
		c.RedisURL = defaultRedisURL
	}
	if c.Auth.PrivateKeyPath == "" {
		c.Auth.PrivateKeyPath = defaultPrivateKeyPath
	}
	if c.Auth.PublicKeyPath == "" {
		c.Auth.PublicKeyPath = defaultPublicKeyPath
	}
	if c.Auth.AccessTokenTTL <= 0 {
		c.Auth.AccessTokenTTL = defaultAccessTokenTTL
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		c.Auth.RefreshTokenTTL = defaultRefreshTokenTTL
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

// MongoURI assembles the connection string when an explicit uri is absent.
func (c *AppConfig) MongoURI() string {
	if uri := strings.TrimSpace(c.Mongo.URI); uri != "" {
		return uri
	}
	u := url.URL{
		Scheme: "mongodb",
		Host:   fmt.Sprintf("%s:%d", c.Mongo.Host, c.Mongo.Port),
		Path:   "/" + c.Mongo.DBName,
	}
	if c.Mongo.Username != "" {
		u.User = url.UserPassword(c.Mongo.Username, c.Mongo.Password)
	}
	return u.String()
}
