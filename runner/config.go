// Package runner drives translation runs over a source tree: document
// discovery, per-pair orchestration, and output persistence.
package runner

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/loclab/changeling"
)

// Config is the full configuration surface of a run, loaded from the
// environment (optionally seeded from a .env file).
type Config struct {
	SourceDir     string `envconfig:"SOURCE_DIR" default:"docs"`
	OutputDir     string `envconfig:"OUTPUT_DIR" default:"translations"`
	LanguagesFile string `envconfig:"LANGUAGES_FILE" default:"languages.yaml"`

	MaxChunkChars  int    `envconfig:"MAX_CHUNK_CHARS" default:"4000"`
	MaxRetries     int    `envconfig:"MAX_RETRIES" default:"3"`
	BackoffBaseMs  int    `envconfig:"BACKOFF_BASE_MS" default:"500"`
	VerbatimMarker string `envconfig:"VERBATIM_MARKER"`
	VerbatimPolicy string `envconfig:"VERBATIM_POLICY" default:"prefix-preserved"`
	SkipUnchanged  bool   `envconfig:"SKIP_UNCHANGED" default:"true"`
	LanguageFanout int    `envconfig:"LANGUAGE_FANOUT" default:"1"`

	OpenAIAPIKey      string  `envconfig:"OPENAI_API_KEY"`
	Model             string  `envconfig:"MODEL" default:"gpt-4o-mini"`
	Temperature       float32 `envconfig:"TEMPERATURE" default:"0.3"`
	RequestsPerMinute int     `envconfig:"REQUESTS_PER_MINUTE" default:"60"`

	Cache    string `envconfig:"CACHE" default:"memory"` // memory, redis or none
	CacheTTL int    `envconfig:"CACHE_TTL" default:"3600"`
	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379"`

	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}

	if _, err := changeling.ParseMarkerPolicy(cfg.VerbatimPolicy); err != nil {
		return Config{}, err
	}
	if cfg.MaxRetries < 1 {
		return Config{}, fmt.Errorf("MAX_RETRIES must be at least 1, got %d", cfg.MaxRetries)
	}
	if cfg.MaxChunkChars < 1 {
		return Config{}, fmt.Errorf("MAX_CHUNK_CHARS must be positive, got %d", cfg.MaxChunkChars)
	}

	return cfg, nil
}

// MarkerPolicy returns the parsed verbatim policy. Load has already
// validated it.
func (c Config) MarkerPolicy() changeling.MarkerPolicy {
	policy, _ := changeling.ParseMarkerPolicy(c.VerbatimPolicy)
	return policy
}

// BackoffBase returns the backoff base as a duration.
func (c Config) BackoffBase() time.Duration {
	return time.Duration(c.BackoffBaseMs) * time.Millisecond
}

// languagesFile is the YAML shape of the target-language configuration.
type languagesFile struct {
	Languages []changeling.LanguageSpec `yaml:"languages"`
}

// LoadLanguages reads the ordered target-language list from a YAML file.
func LoadLanguages(path string) ([]changeling.LanguageSpec, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseLanguages(data)
}

// ParseLanguages parses the language list from YAML data.
func ParseLanguages(data []byte) ([]changeling.LanguageSpec, error) {
	var f languagesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing languages file: %w", err)
	}

	if len(f.Languages) == 0 {
		return nil, fmt.Errorf("languages file defines no target languages")
	}

	seen := make(map[string]bool, len(f.Languages))
	for i, lang := range f.Languages {
		code := strings.TrimSpace(lang.Code)
		if code == "" {
			return nil, fmt.Errorf("language entry %d has no code", i)
		}
		if seen[code] {
			return nil, fmt.Errorf("duplicate language code %q", code)
		}
		seen[code] = true
		f.Languages[i].Code = code
	}

	return f.Languages, nil
}
