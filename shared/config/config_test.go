package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"YOUTUBE_API_KEY", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET",
		"GEMINI_API_KEY", "EMBEDDING_URL", "MIN_DISTANCE_THRESHOLD", "ANGLE_THRESHOLD",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeConfig(t, `
youtube:
  api_key: yt-key
embedding:
  gemini_api_key: gem-key
`))

	cfg, err := Load()
	gt.NoError(t, err).Required()

	gt.Value(t, cfg.Embedding.Provider).Equal("gemini")
	gt.Value(t, cfg.Embedding.Dimension).Equal(768)
	gt.Value(t, cfg.Contra.NumContraVideos).Equal(20)
	gt.Value(t, cfg.Contra.SampleSize).Equal(1000)
	gt.Value(t, cfg.Contra.Method).Equal("diametric")
	gt.Value(t, cfg.Contra.MinDistance).Equal(0.7)
	gt.Value(t, cfg.Contra.MinAngle).Equal(150.0)
	gt.Value(t, cfg.Sampler.Strategy).Equal("hybrid")
	gt.Value(t, cfg.Sampler.PrefixLength).Equal(5)
	gt.Value(t, cfg.Sampler.RefreshSizes).Equal([]int{1000})
	gt.Value(t, cfg.Cache.Dir).Equal("data/random_samples")
	gt.Value(t, cfg.Cache.EmbeddingCapacity).Equal(0)
	gt.Value(t, cfg.Monitoring.HealthPort).Equal(8080)
}

func TestLoadEnvFallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("YOUTUBE_API_KEY", "env-yt")
	t.Setenv("EMBEDDING_URL", "http://localhost:8081")
	t.Setenv("MIN_DISTANCE_THRESHOLD", "0.9")
	t.Setenv("ANGLE_THRESHOLD", "120")

	cfg, err := Load()
	gt.NoError(t, err).Required()

	gt.Value(t, cfg.YouTube.APIKey).Equal("env-yt")
	gt.Value(t, cfg.Embedding.Provider).Equal("tei")
	gt.Value(t, cfg.Embedding.Dimension).Equal(384)
	gt.Value(t, cfg.Contra.MinDistance).Equal(0.9)
	gt.Value(t, cfg.Contra.MinAngle).Equal(120.0)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "No YouTube credentials",
			body: "embedding:\n  gemini_api_key: k\n",
		},
		{
			name: "Unknown method",
			body: "youtube:\n  api_key: k\nembedding:\n  gemini_api_key: k\ncontra:\n  method: average\n",
		},
		{
			name: "Too many contra videos",
			body: "youtube:\n  api_key: k\nembedding:\n  gemini_api_key: k\ncontra:\n  num_contra_videos: 51\n",
		},
		{
			name: "Sample too small",
			body: "youtube:\n  api_key: k\nembedding:\n  gemini_api_key: k\ncontra:\n  random_sample_size: 50\n",
		},
		{
			name: "Unknown provider",
			body: "youtube:\n  api_key: k\nembedding:\n  provider: openai\n",
		},
		{
			name: "Unknown strategy",
			body: "youtube:\n  api_key: k\nembedding:\n  gemini_api_key: k\nsampler:\n  strategy: trending\n",
		},
		{
			name: "Distance above range",
			body: "youtube:\n  api_key: k\nembedding:\n  gemini_api_key: k\ncontra:\n  min_distance: 2.5\n",
		},
		{
			name: "Distance not a number",
			body: "youtube:\n  api_key: k\nembedding:\n  gemini_api_key: k\ncontra:\n  min_distance: .nan\n",
		},
		{
			name: "Angle above range",
			body: "youtube:\n  api_key: k\nembedding:\n  gemini_api_key: k\ncontra:\n  min_angle_degrees: 181\n",
		},
		{
			name: "Negative capacity",
			body: "youtube:\n  api_key: k\nembedding:\n  gemini_api_key: k\ncache:\n  embedding_capacity: -1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("CONFIG_FILE", writeConfig(t, tt.body))
			_, err := Load()
			gt.Error(t, err)
		})
	}
}

func TestLoadOAuthCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeConfig(t, `
youtube:
  client_id: id
  client_secret: secret
embedding:
  gemini_api_key: gem-key
`))

	cfg, err := Load()
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.YouTube.APIKey).Equal("")
	gt.Value(t, cfg.YouTube.TokenFile).Equal("youtube_token.json")
}

func TestLoadZeroThresholds(t *testing.T) {
	t.Run("From file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONFIG_FILE", writeConfig(t, `
youtube:
  api_key: yt-key
embedding:
  gemini_api_key: gem-key
contra:
  min_distance: 0
  min_angle_degrees: 0
`))

		cfg, err := Load()
		gt.NoError(t, err).Required()
		gt.Value(t, cfg.Contra.MinDistance).Equal(0.0)
		gt.Value(t, cfg.Contra.MinAngle).Equal(0.0)
	})

	t.Run("From environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
		t.Setenv("YOUTUBE_API_KEY", "env-yt")
		t.Setenv("GEMINI_API_KEY", "env-gem")
		t.Setenv("MIN_DISTANCE_THRESHOLD", "0")
		t.Setenv("ANGLE_THRESHOLD", "0")

		cfg, err := Load()
		gt.NoError(t, err).Required()
		gt.Value(t, cfg.Contra.MinDistance).Equal(0.0)
		gt.Value(t, cfg.Contra.MinAngle).Equal(0.0)
	})
}
