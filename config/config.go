package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Image     ImageConfig
}

type AppConfig struct {
	Name        string        `mapstructure:"name"`
	Environment string        `mapstructure:"environment"`
	Debug       bool          `mapstructure:"debug"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Port        string        `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type JWTConfig struct {
	Secret         string        `mapstructure:"secret"`
	ExpirationTime time.Duration `mapstructure:"expiration_time"`
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
	ListCacheTTL time.Duration `mapstructure:"list_cache_ttl"`
	// MemoryFallback keeps the list cache in-process when Redis is off.
	MemoryFallback bool `mapstructure:"memory_fallback"`
}

type RateLimitConfig struct {
	Request  int `mapstructure:"request"`
	Duration int `mapstructure:"duration"`
}

// ImageConfig selects and configures the picture storage backend.
type ImageConfig struct {
	Store          string        `mapstructure:"store"` // "cloudinary" or "local"
	CloudName      string        `mapstructure:"cloud_name"`
	APIKey         string        `mapstructure:"api_key"`
	APISecret      string        `mapstructure:"api_secret"`
	BaseURL        string        `mapstructure:"base_url"`
	LocalDir       string        `mapstructure:"local_dir"`
	PublicURL      string        `mapstructure:"public_url"`
	FolderTemplate string        `mapstructure:"folder_template"`
	MaxBytes       int64         `mapstructure:"max_bytes"`
	AllowedTypes   []string      `mapstructure:"allowed_types"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RetryMax       int           `mapstructure:"retry_max"`
}

func LoadConfig() (*Config, error) {
	// A missing .env is fine, the environment may be set by the orchestrator.
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "marketplace-offers"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
			Timeout:     getEnvAsDuration("APP_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "marketplace"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			Database:     getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvAsDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getEnvAsDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
			ListCacheTTL: getEnvAsDuration("REDIS_LIST_CACHE_TTL", time.Minute),

			MemoryFallback: getEnvAsBool("LIST_CACHE_MEMORY", true),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", "default_secret_key_change_in_production"),
			ExpirationTime: getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Request:  getEnvAsInt("RATE_LIMIT_MAX_REQUEST", 100),
			Duration: getEnvAsInt("RATE_LIMIT_DURATION", 60),
		},
		Image: ImageConfig{
			Store:          getEnv("IMAGE_STORE", "local"),
			CloudName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:         getEnv("CLOUDINARY_API_KEY", ""),
			APISecret:      getEnv("CLOUDINARY_API_SECRET", ""),
			BaseURL:        getEnv("CLOUDINARY_BASE_URL", "https://api.cloudinary.com/v1_1"),
			LocalDir:       getEnv("IMAGE_LOCAL_DIR", "./media"),
			PublicURL:      getEnv("IMAGE_PUBLIC_URL", "http://localhost:8080/media"),
			FolderTemplate: getEnv("IMAGE_FOLDER_TEMPLATE", "vinted/offers/{{ .OfferID }}"),
			MaxBytes:       int64(getEnvAsInt("PICTURE_MAX_BYTES", 5*1024*1024)),
			AllowedTypes:   getEnvAsList("PICTURE_ALLOWED_TYPES", []string{"image/jpeg", "image/png", "image/webp", "image/gif"}),
			RequestTimeout: getEnvAsDuration("IMAGE_REQUEST_TIMEOUT", 20*time.Second),
			RetryMax:       getEnvAsInt("IMAGE_RETRY_MAX", 2),
		},
	}

	if config.Image.Store != "local" && config.Image.Store != "cloudinary" {
		return nil, fmt.Errorf("unsupported IMAGE_STORE %q", config.Image.Store)
	}

	return config, nil
}

func (c *Config) DatabaseConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
