package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingCredential is returned when a remote provider is configured but
// its API key is not present in the environment.
var ErrMissingCredential = errors.New("missing API credential")

// Mismatch policies for query/chunk embeddings of different length.
const (
	MismatchZeroScore = "zero_score"
	MismatchSkip      = "skip"
)

// Config holds all configuration for docsqa.
type Config struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Index     IndexConfig     `yaml:"index"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Answer    AnswerConfig    `yaml:"answer"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CorpusConfig selects the documents to ingest.
type CorpusConfig struct {
	Dir      string   `yaml:"dir"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// IndexConfig holds chunking configuration.
type IndexConfig struct {
	MaxChunkSize  int  `yaml:"max_chunk_size"` // in user-perceived characters
	SanitizeInput bool `yaml:"sanitize_input"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	Threshold           float64 `yaml:"threshold"` // keep chunks scoring strictly above this
	OnDimensionMismatch string  `yaml:"on_dimension_mismatch"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string        `yaml:"provider"` // "openai", "ollama", "hash"
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"`
	BaseURL   string        `yaml:"base_url"`
	Dimension int           `yaml:"dimension"` // hash provider only
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// AnswerConfig holds answer generation configuration.
type AnswerConfig struct {
	Provider string `yaml:"provider"` // "openai", "ollama", "echo"
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Dir:      "data",
			Includes: []string{"*.txt"},
		},
		Index: IndexConfig{
			MaxChunkSize:  100,
			SanitizeInput: true,
		},
		Retrieve: RetrieveConfig{
			Threshold:           0.8,
			OnDimensionMismatch: MismatchZeroScore,
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-ada-002",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 256,
			CacheTTL:  10 * time.Minute,
		},
		Answer: AnswerConfig{
			Provider: "openai",
			Model:    "gpt-3.5-turbo",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for docsqa.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docsqa.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".docsqa", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports configuration values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Index.MaxChunkSize <= 0 {
		return fmt.Errorf("index.max_chunk_size must be positive, got %d", c.Index.MaxChunkSize)
	}
	switch c.Retrieve.OnDimensionMismatch {
	case MismatchZeroScore, MismatchSkip:
	default:
		return fmt.Errorf("unknown retrieve.on_dimension_mismatch %q", c.Retrieve.OnDimensionMismatch)
	}
	switch c.Embedding.Provider {
	case "openai", "ollama":
	case "hash":
		if c.Embedding.Dimension <= 0 {
			return fmt.Errorf("embedding.dimension must be positive for the hash provider")
		}
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	switch c.Answer.Provider {
	case "openai", "ollama", "echo":
	default:
		return fmt.Errorf("unknown answer provider %q", c.Answer.Provider)
	}
	return nil
}

// NeedsCredential reports whether any configured provider talks to the
// OpenAI API and therefore requires a key.
func (c *Config) NeedsCredential() bool {
	return c.Embedding.Provider == "openai" || c.Answer.Provider == "openai"
}

// APIKey resolves the API key from the environment. It returns
// ErrMissingCredential when a provider needs it and it is unset.
func (c *Config) APIKey() (string, error) {
	key := os.Getenv(c.Embedding.APIKeyEnv)
	if key == "" && c.NeedsCredential() {
		return "", fmt.Errorf("%w: environment variable %s is not set", ErrMissingCredential, c.Embedding.APIKeyEnv)
	}
	return key, nil
}

// CorpusDir resolves the corpus directory against root.
func (c *Config) CorpusDir(root string) string {
	if filepath.IsAbs(c.Corpus.Dir) {
		return c.Corpus.Dir
	}
	return filepath.Join(root, c.Corpus.Dir)
}
