package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	LLM        LLMConfig
	Retry      RetryConfig
	Generation GenerationLimits
	Batch      BatchConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	CacheTTLs  CacheTTLConfig
}

// LLMConfig holds the completion-service connection settings.
type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
}

// RetryConfig tunes the completion client's retry loop.
type RetryConfig struct {
	MaxRetries  int           `yaml:"max_retries"`
	BaseBackoff time.Duration `yaml:"base_backoff"`
	MaxBackoff  time.Duration `yaml:"max_backoff"`
	Timeout     time.Duration `yaml:"timeout"`
}

// GenerationLimits bounds the accepted generation parameters. Every bound is
// checked before any network call is issued.
type GenerationLimits struct {
	MinContentLength int `yaml:"min_content_length"`
	MaxContentLength int `yaml:"max_content_length"`
	MinQuantity      int `yaml:"min_quantity"`
	MaxQuantity      int `yaml:"max_quantity"`
}

// BatchConfig tunes the sequential batch helper.
type BatchConfig struct {
	RequestDelay time.Duration `yaml:"request_delay"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

// CacheTTLConfig holds TTLs as duration strings (e.g. "24h").
type CacheTTLConfig struct {
	GenerationResult string `yaml:"generation_result"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Log the config file being used
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		LLM: LLMConfig{
			APIKey:      viper.GetString("llm.api_key"),
			Model:       viper.GetString("llm.model"),
			BaseURL:     viper.GetString("llm.base_url"),
			Temperature: viper.GetFloat64("llm.temperature"),
		},
		Retry: RetryConfig{
			MaxRetries:  viper.GetInt("retry.max_retries"),
			BaseBackoff: viper.GetDuration("retry.base_backoff"),
			MaxBackoff:  viper.GetDuration("retry.max_backoff"),
			Timeout:     viper.GetDuration("retry.timeout"),
		},
		Generation: GenerationLimits{
			MinContentLength: viper.GetInt("generation.min_content_length"),
			MaxContentLength: viper.GetInt("generation.max_content_length"),
			MinQuantity:      viper.GetInt("generation.min_quantity"),
			MaxQuantity:      viper.GetInt("generation.max_quantity"),
		},
		Batch: BatchConfig{
			RequestDelay: viper.GetDuration("batch.request_delay"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		CacheTTLs: CacheTTLConfig{
			GenerationResult: viper.GetString("cache_ttls.generation_result"),
		},
	}

	// Override with environment variables if set
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		config.LLM.Model = model
	}
	if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.temperature", 0.7)
	viper.SetDefault("retry.max_retries", 3)
	viper.SetDefault("retry.base_backoff", "1s")
	viper.SetDefault("retry.max_backoff", "8s")
	viper.SetDefault("retry.timeout", "60s")
	viper.SetDefault("generation.min_content_length", 50)
	viper.SetDefault("generation.max_content_length", 50000)
	viper.SetDefault("generation.min_quantity", 1)
	viper.SetDefault("generation.max_quantity", 20)
	viper.SetDefault("batch.request_delay", "2s")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("cache_ttls.generation_result", "24h")
}

// ParseTTLStringOrDefault parses a duration string from the config, falling
// back to defaultTTL when the value is empty or malformed.
func (c *Config) ParseTTLStringOrDefault(ttlStr string, defaultTTL time.Duration) time.Duration {
	if ttlStr == "" {
		return defaultTTL
	}
	d, err := time.ParseDuration(ttlStr)
	if err != nil {
		return defaultTTL
	}
	return d
}
