package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Weaviate  WeaviateStoreConfig `mapstructure:"weaviate"`
	Embedding EmbeddingConfig     `mapstructure:"embedding"`
	Dreamer   DreamerConfig       `mapstructure:"dreamer"`
}

type WeaviateStoreConfig struct {
	Host      string        `mapstructure:"host"`
	APIKey    string        `mapstructure:"api_key"`
	ClassName string        `mapstructure:"class_name"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// EmbeddingConfig selects and configures the embedding provider. Provider is
// "gemini" or "openai"; BaseURL lets the openai provider point at any
// OpenAI-compatible endpoint.
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
}

type DreamerConfig struct {
	BatchSize     int           `mapstructure:"batch_size"`
	EmbedInterval time.Duration `mapstructure:"embed_interval"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
	}

	v.SetDefault("weaviate.host", "http://localhost:8080")
	v.SetDefault("weaviate.class_name", "KnowledgeDocument")
	v.SetDefault("weaviate.timeout", "120s")
	v.SetDefault("embedding.provider", "gemini")
	v.SetDefault("embedding.model", "gemini-embedding-001")
	v.SetDefault("embedding.dimensions", 3072)
	v.SetDefault("dreamer.batch_size", 50)
	v.SetDefault("dreamer.embed_interval", "100ms")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()
	v.BindEnv("WEAVIATE_APIKEY")
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("OPENAI_API_KEY")

	if configPath != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Secrets come from the environment, never the config file.
	if key := v.GetString("WEAVIATE_APIKEY"); key != "" {
		config.Weaviate.APIKey = key
	}
	switch config.Embedding.Provider {
	case "openai":
		if key := v.GetString("OPENAI_API_KEY"); key != "" {
			config.Embedding.APIKey = key
		}
	default:
		if key := v.GetString("GEMINI_API_KEY"); key != "" {
			config.Embedding.APIKey = key
		}
	}

	return &config, nil
}
