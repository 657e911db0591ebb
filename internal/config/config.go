package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SplitterConfig configures how documents are split into chunks.
type SplitterConfig struct {
	Type         string `yaml:"type"` // character | recursive
	Separator    string `yaml:"separator"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
}

// EmbedderConfig selects and configures the text embedder implementation.
// The tfidf embedder is offline and needs no further configuration.
type EmbedderConfig struct {
	Type   string               `yaml:"type"` // openai | tfidf
	OpenAI OpenAIEmbedderConfig `yaml:"openai"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"` // memory | qdrant
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// RetrieverConfig tunes retrieval breadth per question kind.
type RetrieverConfig struct {
	LookupTopK          int  `yaml:"lookup_top_k"`
	SummaryTopK         int  `yaml:"summary_top_k"`
	FetchK              int  `yaml:"fetch_k"`
	UseMMR              bool `yaml:"use_mmr"`
	SummaryFullDocument bool `yaml:"summary_full_document"`
}

// ChatConfig configures the chat completions model.
type ChatConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Splitter        SplitterConfig    `yaml:"splitter"`
	Embedder        EmbedderConfig    `yaml:"embedder"`
	VectorStore     VectorStoreConfig `yaml:"vector_store"`
	Retriever       RetrieverConfig   `yaml:"retriever"`
	Chat            ChatConfig        `yaml:"chat"`
	Persona         string            `yaml:"persona"`
	Greeting        string            `yaml:"greeting"`
	SummaryKeywords []string          `yaml:"summary_keywords,omitempty"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docchat/config.yaml.
// If neither exists, it writes defaults to ~/.config/docchat/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docchat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Splitter:    SplitterConfig{Type: "character"},
		VectorStore: VectorStoreConfig{Type: "memory"},
		Retriever:   RetrieverConfig{UseMMR: true},
		Greeting:    "Hello! I'm ready to answer questions about your documents.",
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Splitter.Separator == "" {
		cfg.Splitter.Separator = "\n"
	}
	if cfg.Splitter.ChunkSize == 0 {
		cfg.Splitter.ChunkSize = 500
	}
	if cfg.Splitter.ChunkOverlap == 0 {
		cfg.Splitter.ChunkOverlap = 200
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "openai"
	}
	if cfg.Embedder.OpenAI.BaseURL == "" {
		cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embedder.OpenAI.APIKeyEnv == "" {
		cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedder.OpenAI.Model == "" {
		cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
	}
	if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
		cfg.Embedder.OpenAI.TimeoutSecs = 30
	}
	if cfg.Embedder.OpenAI.BatchSize == 0 {
		cfg.Embedder.OpenAI.BatchSize = 32
	}
	if cfg.Retriever.LookupTopK == 0 {
		cfg.Retriever.LookupTopK = 3
	}
	if cfg.Retriever.SummaryTopK == 0 {
		cfg.Retriever.SummaryTopK = 10
	}
	if cfg.Retriever.FetchK == 0 {
		cfg.Retriever.FetchK = 10
	}
	if cfg.Chat.BaseURL == "" {
		cfg.Chat.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Chat.APIKeyEnv == "" {
		cfg.Chat.APIKeyEnv = "GROQ_API_KEY"
	}
	if cfg.Chat.Model == "" {
		cfg.Chat.Model = "llama-3.3-70b-versatile"
	}
	if cfg.Chat.Temperature == 0 {
		cfg.Chat.Temperature = 0.2
	}
	if cfg.Chat.MaxTokens == 0 {
		cfg.Chat.MaxTokens = 500
	}
	if cfg.Chat.TimeoutSecs == 0 {
		cfg.Chat.TimeoutSecs = 120
	}
}
