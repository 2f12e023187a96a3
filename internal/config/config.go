package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"mantra/backend/internal/llm/contract"
)

const (
	defaultPort               = "3001"
	defaultOrigin             = "*"
	defaultProvider           = "huggingface"
	defaultTimeout            = 8 * time.Second
	defaultMaxConcurrent      = 10
	defaultMaxNewTokens       = 100
	defaultTemperature        = 0.8
	defaultRateLimitPerMinute = 60
)

type Config struct {
	Port               string
	Production         bool
	FrontendOrigin     string
	RateLimitPerMinute int
	Generator          GeneratorConfig
}

type GeneratorConfig struct {
	Provider      string
	URL           string
	APIKey        string
	Model         string
	Timeout       time.Duration
	MaxConcurrent int
	MaxNewTokens  int
	Temperature   float64
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() Config {
	cfg := Config{
		Port:               os.Getenv("PORT"),
		Production:         os.Getenv("PRODUCTION") != "",
		FrontendOrigin:     os.Getenv("FRONTEND_ORIGIN"),
		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", defaultRateLimitPerMinute),
		Generator: GeneratorConfig{
			Provider:      os.Getenv("GENERATOR_PROVIDER"),
			URL:           strings.TrimSpace(os.Getenv("GENERATOR_URL")),
			APIKey:        os.Getenv("GENERATOR_API_KEY"),
			Model:         strings.TrimSpace(os.Getenv("GENERATOR_MODEL")),
			Timeout:       envDuration("GENERATION_TIMEOUT", defaultTimeout),
			MaxConcurrent: envInt("GENERATION_MAX_CONCURRENT", defaultMaxConcurrent),
			MaxNewTokens:  envInt("GENERATION_MAX_NEW_TOKENS", defaultMaxNewTokens),
			Temperature:   envFloat("GENERATION_TEMPERATURE", defaultTemperature),
		},
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.FrontendOrigin == "" {
		cfg.FrontendOrigin = defaultOrigin
	}
	if cfg.Generator.Provider == "" {
		cfg.Generator.Provider = defaultProvider
	}
	if cfg.Generator.MaxConcurrent <= 0 {
		cfg.Generator.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.Generator.MaxNewTokens <= 0 {
		cfg.Generator.MaxNewTokens = defaultMaxNewTokens
	}
	if cfg.RateLimitPerMinute < 0 {
		cfg.RateLimitPerMinute = 0
	}
	return cfg
}

func (g GeneratorConfig) ProviderConfig() *contract.ProviderConfig {
	return &contract.ProviderConfig{
		ProviderName: g.Provider,
		APIKey:       g.APIKey,
		ModelName:    g.Model,
		BaseURL:      g.URL,
		Temperature:  g.Temperature,
		MaxTokens:    g.MaxNewTokens,
	}
}

func envInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func envFloat(name string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envDuration(name string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
