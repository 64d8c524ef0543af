package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// LLM providers understood by the generator factory.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	Session SessionConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	AllowOrigins string
}

type LLMConfig struct {
	Provider  string
	APIKey    string
	Model     string
	ServerURL string // ollama only
	Timeout   time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LoggerConfig struct {
	Level string
	Env   string
}

type SessionConfig struct {
	TTL time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 20)
	v.SetDefault("server.idle_timeout", 20)
	v.SetDefault("server.allow_origins", "*")
	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.timeout", 60)
	v.SetDefault("llm.server_url", "http://localhost:11434")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("session.ttl", "2h")
}

// DefaultModel returns the model used when llm.model is not configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderOllama:
		return "qwen3:0.6b"
	default:
		return "gemini-2.5-flash"
	}
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
			IdleTimeout:  time.Duration(v.GetInt("server.idle_timeout")) * time.Second,
			AllowOrigins: v.GetString("server.allow_origins"),
		},
		LLM: LLMConfig{
			Provider:  v.GetString("llm.provider"),
			APIKey:    v.GetString("llm.api_key"),
			Model:     v.GetString("llm.model"),
			ServerURL: v.GetString("llm.server_url"),
			Timeout:   time.Duration(v.GetInt("llm.timeout")) * time.Second,
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Session: SessionConfig{
			TTL: v.GetDuration("session.ttl"),
		},
	}

	// Override with environment variables if set
	if port := os.Getenv("SERVER_PORT"); port != "" {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err != nil {
			return nil, fmt.Errorf("invalid SERVER_PORT %q: %w", port, err)
		}
		config.Server.Port = p
	}
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		config.LLM.Model = model
	}
	if llmServer := os.Getenv("LLM_SERVER"); llmServer != "" {
		config.LLM.ServerURL = llmServer
	}
	if config.LLM.APIKey == "" {
		config.LLM.APIKey = apiKeyFromEnv(config.LLM.Provider)
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if env := os.Getenv("ENV"); env != "" {
		config.Logger.Env = env
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logger.Level = level
	}

	if config.LLM.Model == "" {
		config.LLM.Model = DefaultModel(config.LLM.Provider)
	}
	if config.Session.TTL <= 0 {
		config.Session.TTL = 2 * time.Hour
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// apiKeyFromEnv looks up the provider's conventional key variable.
func apiKeyFromEnv(provider string) string {
	switch provider {
	case ProviderGemini:
		for _, k := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"} {
			if v := os.Getenv(k); v != "" {
				return v
			}
		}
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	}
	return ""
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required for provider %q", c.LLM.Provider)
		}
	case ProviderOllama:
		if c.LLM.ServerURL == "" {
			return fmt.Errorf("llm.server_url is required for provider %q", c.LLM.Provider)
		}
	default:
		return fmt.Errorf("unsupported llm provider: %q", c.LLM.Provider)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}
