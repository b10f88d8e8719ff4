package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	OIDC      OIDCConfig
	Gemini    GeminiConfig
	RateLimit RateLimitConfig
	Crypto    CryptoConfig
	Telemetry TelemetryConfig
	Usage     UsageConfig
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration `mapstructure:"idleTimeout"`
	ShutdownPeriod time.Duration `mapstructure:"shutdownPeriod"`
	AllowedOrigins []string      `mapstructure:"allowedOrigins"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type OIDCConfig struct {
	IssuerURL string `mapstructure:"issuerUrl"`
	ClientID  string `mapstructure:"clientId"`
}

type GeminiConfig struct {
	BaseURL        string        `mapstructure:"baseUrl"`
	Model          string        `mapstructure:"model"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
}

type RateLimitConfig struct {
	Window  time.Duration `mapstructure:"window"`
	Ceiling int           `mapstructure:"ceiling"`
}

type CryptoConfig struct {
	Secret string `mapstructure:"secret"`
}

type TelemetryConfig struct {
	WebhookURL string        `mapstructure:"webhookUrl"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type UsageConfig struct {
	Retention     time.Duration `mapstructure:"retention"`
	PruneSchedule string        `mapstructure:"pruneSchedule"`
}

func LoadConfig(configPath string) (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables and config file")
	}

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.readTimeout", 5*time.Second)
	viper.SetDefault("server.writeTimeout", 75*time.Second)
	viper.SetDefault("server.idleTimeout", 120*time.Second)
	viper.SetDefault("server.shutdownPeriod", 15*time.Second)
	viper.SetDefault("server.allowedOrigins", []string{"http://localhost:3000"})

	viper.SetDefault("database.maxOpenConns", 25)
	viper.SetDefault("database.maxIdleConns", 25)
	viper.SetDefault("database.connMaxLifetime", 5*time.Minute)

	viper.SetDefault("redis.db", "0")

	viper.SetDefault("log.level", "info")

	viper.SetDefault("gemini.baseUrl", "https://generativelanguage.googleapis.com")
	viper.SetDefault("gemini.model", "gemini-3-pro-preview")
	viper.SetDefault("gemini.requestTimeout", 60*time.Second)

	viper.SetDefault("ratelimit.window", 60*time.Second)
	viper.SetDefault("ratelimit.ceiling", 10)

	viper.SetDefault("telemetry.timeout", 10*time.Second)

	viper.SetDefault("usage.retention", 24*time.Hour)
	viper.SetDefault("usage.pruneSchedule", "@every 1h")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AllowEmptyEnv(true)

	if configPath != "" {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			log.Printf("Warning: could not read config file: %s. Error: %v\n", configPath, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
