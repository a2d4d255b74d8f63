package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Zero is a meaningful threshold, so these are seeded before the file and
// environment are read instead of filled in afterwards.
const (
	defaultMinDistance = 0.7
	defaultMinAngle    = 150.0
)

type Config struct {
	YouTube    YouTubeConfig    `yaml:"youtube"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Contra     ContraConfig     `yaml:"contra"`
	Sampler    SamplerConfig    `yaml:"sampler"`
	Cache      CacheConfig      `yaml:"cache"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Schedule   string           `yaml:"schedule"`
	LogLevel   string           `yaml:"log_level"`
}

// YouTubeConfig selects API key auth when APIKey is set, otherwise the OAuth
// device flow with ClientID/ClientSecret.
type YouTubeConfig struct {
	APIKey       string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile    string `yaml:"token_file"`

	RequestsPerSecond     float64 `yaml:"requests_per_second"` // 0 disables pacing
	BreakerFailures       uint32  `yaml:"breaker_failures"`
	BreakerTimeoutSeconds int     `yaml:"breaker_timeout_seconds"`
}

type EmbeddingConfig struct {
	Provider       string `yaml:"provider"` // "gemini" or "tei"
	GeminiAPIKey   string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model          string `yaml:"model"`
	Dimension      int    `yaml:"dimension"`
	URL            string `yaml:"url" env:"EMBEDDING_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ContraConfig struct {
	NumContraVideos int     `yaml:"num_contra_videos"`
	SampleSize      int     `yaml:"random_sample_size"`
	Method          string  `yaml:"method"`
	MinDistance     float64 `yaml:"min_distance" env:"MIN_DISTANCE_THRESHOLD"`
	MinAngle        float64 `yaml:"min_angle_degrees" env:"ANGLE_THRESHOLD"`
}

type SamplerConfig struct {
	Strategy         string `yaml:"strategy"` // "hybrid" or "random_id"
	PrefixLength     int    `yaml:"prefix_length"`
	RandomIDAttempts int    `yaml:"random_id_attempts"`
	RefreshSizes     []int  `yaml:"refresh_sizes"`
}

type CacheConfig struct {
	Dir               string `yaml:"dir"`
	EmbeddingCapacity int    `yaml:"embedding_capacity"` // 0 keeps every embedding
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

// Load reads the file named by CONFIG_FILE, or config.yaml.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile reads configFile (config.yaml when empty), then layers .env,
// environment fallbacks and defaults on top. A missing file is not an error.
func LoadFile(configFile string) (*Config, error) {
	_ = godotenv.Load()

	if configFile == "" {
		configFile = "config.yaml"
	}

	cfg := Config{Contra: ContraConfig{
		MinDistance: defaultMinDistance,
		MinAngle:    defaultMinAngle,
	}}
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Environment-only operation.
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if c.YouTube.APIKey == "" {
		c.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if c.YouTube.ClientID == "" {
		c.YouTube.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if c.YouTube.ClientSecret == "" {
		c.YouTube.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if c.Embedding.GeminiAPIKey == "" {
		c.Embedding.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Embedding.URL == "" {
		c.Embedding.URL = os.Getenv("EMBEDDING_URL")
	}

	// Threshold env vars override the file, matching how they are tuned in practice.
	if v := os.Getenv("MIN_DISTANCE_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid MIN_DISTANCE_THRESHOLD %q: %w", v, err)
		}
		c.Contra.MinDistance = f
	}
	if v := os.Getenv("ANGLE_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid ANGLE_THRESHOLD %q: %w", v, err)
		}
		c.Contra.MinAngle = f
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.YouTube.TokenFile == "" {
		c.YouTube.TokenFile = "youtube_token.json"
	}
	if c.YouTube.BreakerFailures == 0 {
		c.YouTube.BreakerFailures = 5
	}
	if c.YouTube.BreakerTimeoutSeconds == 0 {
		c.YouTube.BreakerTimeoutSeconds = 60
	}

	if c.Embedding.Provider == "" {
		if c.Embedding.URL != "" {
			c.Embedding.Provider = "tei"
		} else {
			c.Embedding.Provider = "gemini"
		}
	}
	if c.Embedding.Model == "" {
		switch c.Embedding.Provider {
		case "tei":
			c.Embedding.Model = "sentence-transformers/all-MiniLM-L6-v2"
		default:
			c.Embedding.Model = "gemini-embedding-001"
		}
	}
	if c.Embedding.Dimension == 0 {
		switch c.Embedding.Provider {
		case "tei":
			c.Embedding.Dimension = 384
		default:
			c.Embedding.Dimension = 768
		}
	}
	if c.Embedding.TimeoutSeconds == 0 {
		c.Embedding.TimeoutSeconds = 30
	}

	if c.Contra.NumContraVideos == 0 {
		c.Contra.NumContraVideos = 20
	}
	if c.Contra.SampleSize == 0 {
		c.Contra.SampleSize = 1000
	}
	if c.Contra.Method == "" {
		c.Contra.Method = "diametric"
	}

	if c.Sampler.Strategy == "" {
		c.Sampler.Strategy = "hybrid"
	}
	if c.Sampler.PrefixLength == 0 {
		c.Sampler.PrefixLength = 5
	}
	if c.Sampler.RandomIDAttempts == 0 {
		c.Sampler.RandomIDAttempts = 1000
	}
	if len(c.Sampler.RefreshSizes) == 0 {
		c.Sampler.RefreshSizes = []int{c.Contra.SampleSize}
	}

	if c.Cache.Dir == "" {
		c.Cache.Dir = "data/random_samples"
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
	if c.Schedule == "" {
		c.Schedule = "0 0 3 * * *" // Daily at 3 AM
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	if c.YouTube.APIKey == "" && (c.YouTube.ClientID == "" || c.YouTube.ClientSecret == "") {
		return fmt.Errorf("YouTube credentials are required (set YOUTUBE_API_KEY, or GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET)")
	}

	switch c.Embedding.Provider {
	case "gemini":
		if c.Embedding.GeminiAPIKey == "" {
			return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or embedding.gemini_api_key)")
		}
	case "tei":
		if c.Embedding.URL == "" {
			return fmt.Errorf("embedding service URL is required (set EMBEDDING_URL or embedding.url)")
		}
	default:
		return fmt.Errorf("unknown embedding provider %q (want gemini or tei)", c.Embedding.Provider)
	}
	if c.Embedding.Dimension < 1 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Embedding.Dimension)
	}

	if c.Contra.NumContraVideos < 1 || c.Contra.NumContraVideos > 50 {
		return fmt.Errorf("contra.num_contra_videos must be between 1 and 50, got %d", c.Contra.NumContraVideos)
	}
	if c.Contra.SampleSize < 100 || c.Contra.SampleSize > 10000 {
		return fmt.Errorf("contra.random_sample_size must be between 100 and 10000, got %d", c.Contra.SampleSize)
	}
	// Keep in sync with contra.ParseMethod.
	if c.Contra.Method != "diametric" && c.Contra.Method != "centroid" {
		return fmt.Errorf("contra.method must be diametric or centroid, got %q", c.Contra.Method)
	}
	if math.IsNaN(c.Contra.MinDistance) || c.Contra.MinDistance < 0 || c.Contra.MinDistance > 2 {
		return fmt.Errorf("contra.min_distance must be between 0 and 2, got %v", c.Contra.MinDistance)
	}
	if math.IsNaN(c.Contra.MinAngle) || c.Contra.MinAngle < 0 || c.Contra.MinAngle > 180 {
		return fmt.Errorf("contra.min_angle_degrees must be between 0 and 180, got %v", c.Contra.MinAngle)
	}

	// Keep in sync with sampler.StrategyHybrid and sampler.StrategyRandomID.
	if c.Sampler.Strategy != "hybrid" && c.Sampler.Strategy != "random_id" {
		return fmt.Errorf("sampler.strategy must be hybrid or random_id, got %q", c.Sampler.Strategy)
	}
	for _, size := range c.Sampler.RefreshSizes {
		if size < 100 || size > 10000 {
			return fmt.Errorf("sampler.refresh_sizes entries must be between 100 and 10000, got %d", size)
		}
	}
	if c.Cache.EmbeddingCapacity < 0 {
		return fmt.Errorf("cache.embedding_capacity must not be negative, got %d", c.Cache.EmbeddingCapacity)
	}
	return nil
}
