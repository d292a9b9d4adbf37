package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type RetrievalConfig struct {
	TopK   int  `toml:"top_k"`
	Rerank bool `toml:"rerank"`
}

type DialogueConfig struct {
	// HistoryWindow is the number of recent turns loaded at invocation start
	// and reloaded after persisting.
	HistoryWindow int `toml:"history_window"`
}

type SchedulingConfig struct {
	// UpcomingLimit caps the availability listing.
	UpcomingLimit int `toml:"upcoming_limit"`
}

type Config struct {
	LLM        LLMConfig        `toml:"llm"`
	Memgraph   MemgraphConfig   `toml:"memgraph"`
	Database   DatabaseConfig   `toml:"database"`
	Retrieval  RetrievalConfig  `toml:"retrieval"`
	Dialogue   DialogueConfig   `toml:"dialogue"`
	Scheduling SchedulingConfig `toml:"scheduling"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns a config usable without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) ApplyDefaults() {
	if c.Database.Path == "" {
		c.Database.Path = "data/dealership.db"
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 3
	}
	if c.Dialogue.HistoryWindow <= 0 {
		c.Dialogue.HistoryWindow = 12
	}
	if c.Scheduling.UpcomingLimit <= 0 {
		c.Scheduling.UpcomingLimit = 5
	}
	if c.Memgraph.URI == "" {
		c.Memgraph.URI = "bolt://localhost:7687"
	}
}
