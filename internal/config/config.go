// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Export   ExportConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// StorageConfig holds the object-store connection info. PathPrefix is the
// fixed folder every survey object lives under inside the bucket.
type StorageConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	PathPrefix string
	Region     string
	UseSSL     bool
}

type CacheConfig struct {
	Enabled         bool
	RedisURL        string
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RedisDB         int
	PivotTTLSeconds int
}

// ExportConfig tunes report and date behavior.
//
// FilterUTCOffsetMinutes is the wall-clock offset assumed for incoming
// from/to filter dates when converting them to UTC (330 = IST).
// LegacyZeroAsNA restores the historical report behavior of rendering
// numeric zeros as "NA"; it conflates zero with missing and is off by
// default.
type ExportConfig struct {
	FilterUTCOffsetMinutes int
	LegacyZeroAsNA         bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_LOG_LEVEL", "info")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 120)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "1433")
		viper.SetDefault("DB_USER", "sa")
		viper.SetDefault("DB_PASSWORD", "")
		viper.SetDefault("DB_NAME", "survey")
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "survey")
		viper.SetDefault("STORAGE_PATH_PREFIX", "Dabur2025")
		viper.SetDefault("STORAGE_REGION", "")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_PIVOT_TTL_SECONDS", 60)
		viper.SetDefault("EXPORT_FILTER_UTC_OFFSET_MINUTES", 330)
		viper.SetDefault("EXPORT_LEGACY_ZERO_AS_NA", false)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				LogLevel:       viper.GetString("SERVER_LOG_LEVEL"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
			},
			Storage: StorageConfig{
				Endpoint:   viper.GetString("STORAGE_ENDPOINT"),
				AccessKey:  viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey:  viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:     viper.GetString("STORAGE_BUCKET"),
				PathPrefix: viper.GetString("STORAGE_PATH_PREFIX"),
				Region:     viper.GetString("STORAGE_REGION"),
				UseSSL:     viper.GetBool("STORAGE_USE_SSL"),
			},
			Cache: CacheConfig{
				Enabled:         viper.GetBool("CACHE_ENABLED"),
				RedisURL:        viper.GetString("REDIS_URL"),
				RedisHost:       viper.GetString("REDIS_HOST"),
				RedisPort:       viper.GetString("REDIS_PORT"),
				RedisPassword:   viper.GetString("REDIS_PASSWORD"),
				RedisDB:         viper.GetInt("REDIS_DB"),
				PivotTTLSeconds: viper.GetInt("CACHE_PIVOT_TTL_SECONDS"),
			},
			Export: ExportConfig{
				FilterUTCOffsetMinutes: viper.GetInt("EXPORT_FILTER_UTC_OFFSET_MINUTES"),
				LegacyZeroAsNA:         viper.GetBool("EXPORT_LEGACY_ZERO_AS_NA"),
			},
		}
	})

	return instance
}
