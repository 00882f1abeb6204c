// config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dev-mohitbeniwal/bookclub/model"
)

// DevelopmentSecret signs session tokens when no secret is configured outside
// production. It is public and must never protect real accounts.
const DevelopmentSecret = "bookclub-development-secret"

// EnvProduction is the app.env value that enables strict startup checks.
const EnvProduction = "production"

var ErrMissingSecret = errors.New("auth.secret must be set when app.env is production")

// Configuration stores all the configurations
type Configuration struct {
	App           AppConfiguration
	Server        ServerConfiguration
	Neo4j         DatabaseConfiguration
	Redis         RedisConfiguration
	Elasticsearch ElasticsearchConfiguration
	Auth          AuthConfiguration
	Bestsellers   BestsellersConfiguration
	RateLimit     RateLimitConfiguration
	Log           LogConfiguration
}

type AppConfiguration struct {
	Env string
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port string
}

// DatabaseConfiguration stores data for database connection
type DatabaseConfiguration struct {
	URI      string
	Username string
	Password string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr            string
	Password        string
	DB              int
	EncryptionKey   string
	DefaultCacheTTL time.Duration
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	URL string
}

// AuthConfiguration controls session token signing.
type AuthConfiguration struct {
	Secret   string
	TokenTTL time.Duration
}

// BestsellersConfiguration controls the upstream list API and its cache.
type BestsellersConfiguration struct {
	APIKey            string
	BaseURL           string
	CacheTTL          time.Duration
	CacheBackend      string
	RequestTimeout    time.Duration
	RequestsPerMinute int
	Categories        []string
}

type RateLimitConfiguration struct {
	Requests int
	Window   time.Duration
}

type LogConfiguration struct {
	Dir string
}

var config *Configuration

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("server.port", "8080")
	v.SetDefault("neo4j.uri", "bolt://localhost:7687")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.encryptionKey", "")
	v.SetDefault("redis.defaultCacheTTL", "10m")
	v.SetDefault("elasticsearch.url", "http://localhost:9200")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.tokenTTL", "2h")
	v.SetDefault("bestsellers.apiKey", "")
	v.SetDefault("bestsellers.baseURL", "https://api.nytimes.com/svc/books/v3")
	v.SetDefault("bestsellers.cacheTTL", "1h")
	v.SetDefault("bestsellers.cacheBackend", "memory")
	v.SetDefault("bestsellers.requestTimeout", "10s")
	v.SetDefault("bestsellers.requestsPerMinute", 10)
	v.SetDefault("bestsellers.categories", model.BestsellerCategories)
	v.SetDefault("rateLimit.requests", 100)
	v.SetDefault("rateLimit.window", "1m")
	v.SetDefault("log.dir", "logging")
}

func InitConfig() error {
	// .env is optional
	_ = godotenv.Load()

	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	cfg, err := Load(viper.GetViper())
	if err != nil {
		return err
	}
	config = cfg
	return nil
}

// Load reads configuration through v, applying defaults and environment
// overrides, and validates the result.
func Load(v *viper.Viper) (*Configuration, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // read in environment variables that match
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return nil, err
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the process must not start with.
func (c *Configuration) Validate() error {
	if c.IsProduction() && strings.TrimSpace(c.Auth.Secret) == "" {
		return ErrMissingSecret
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.tokenTTL must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Bestsellers.CacheTTL <= 0 {
		return fmt.Errorf("bestsellers.cacheTTL must be positive, got %s", c.Bestsellers.CacheTTL)
	}
	switch c.Bestsellers.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("bestsellers.cacheBackend must be memory or redis, got %q", c.Bestsellers.CacheBackend)
	}
	return nil
}

func (c *Configuration) IsProduction() bool {
	return strings.EqualFold(c.App.Env, EnvProduction)
}

// SigningSecret returns the configured secret, or the development fallback
// along with false when none was supplied.
func (c *Configuration) SigningSecret() (string, bool) {
	if s := strings.TrimSpace(c.Auth.Secret); s != "" {
		return s, true
	}
	return DevelopmentSecret, false
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
