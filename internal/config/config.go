package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CorpusConfig locates the document corpus and the persisted index.
type CorpusConfig struct {
	DataDir  string `yaml:"data_dir"`
	IndexDir string `yaml:"index_dir"`
}

// ChunkerConfig configures the character-window chunker.
type ChunkerConfig struct {
	WindowChars  int `yaml:"window_chars"`
	OverlapChars int `yaml:"overlap_chars"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
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
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// RetrievalConfig configures the top-k query contract.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// RouterConfig carries the two disjoint keyword sets of the routing
// heuristic as data, so they can be tested and localized without code
// change.
type RouterConfig struct {
	QuestionKeywords []string `yaml:"question_keywords"`
	PlanningKeywords []string `yaml:"planning_keywords"`
}

// LLMConfig configures the chat completion client.
type LLMConfig struct {
	BaseURL      string `yaml:"base_url"`
	APIKeyEnv    string `yaml:"api_key_env"`
	ModelEnv     string `yaml:"model_env"`
	DefaultModel string `yaml:"default_model"`
	TimeoutSecs  int    `yaml:"timeout_secs"`
}

// SummarizerConfig configures the corpus overview summarizer.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus      CorpusConfig      `yaml:"corpus"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Router      RouterConfig      `yaml:"router"`
	LLM         LLMConfig         `yaml:"llm"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
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

// LoadDefault tries ./config.yaml first, then ~/.config/ragplanner/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
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
	return filepath.Join(home, ".config", "ragplanner", "config.yaml"), nil
}

// DefaultQuestionKeywords marks interrogative/topic terms (Greek first,
// since the corpus and users of the original system are Greek).
func DefaultQuestionKeywords() []string {
	return []string{
		"τι", "ποια", "ποιες", "πώς", "γιατί", "εξήγησε",
		"σύμφωνα", "αναφέρονται", "απειλές", "ασφάλεια", "iot", "pdf",
		"what", "how", "why", "explain",
	}
}

// DefaultPlanningKeywords marks planning intent; these win every routing tie.
func DefaultPlanningKeywords() []string {
	return []string{
		"πλάνο", "προγραμμα", "πρόγραμμα", "οργάνωσε", "ημέρ", "βδομάδ",
		"plan", "schedule", "organize", "day", "week",
	}
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Corpus:      CorpusConfig{DataDir: "data", IndexDir: "vector_db"},
		Chunker:     ChunkerConfig{WindowChars: 900, OverlapChars: 150},
		Embedder:    EmbedderConfig{Type: "tfidf"},
		VectorStore: VectorStoreConfig{Type: "memory"},
		Retrieval:   RetrievalConfig{TopK: 4},
		Router: RouterConfig{
			QuestionKeywords: DefaultQuestionKeywords(),
			PlanningKeywords: DefaultPlanningKeywords(),
		},
		LLM: LLMConfig{
			BaseURL:      "https://openrouter.ai/api/v1",
			APIKeyEnv:    "OPENROUTER_API_KEY",
			ModelEnv:     "OPENROUTER_MODEL",
			DefaultModel: "openai/gpt-4o-mini",
			TimeoutSecs:  60,
		},
		Summarizer: SummarizerConfig{MaxSentences: 5},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Corpus.DataDir == "" {
		cfg.Corpus.DataDir = "data"
	}
	if cfg.Corpus.IndexDir == "" {
		cfg.Corpus.IndexDir = "vector_db"
	}
	if cfg.Chunker.WindowChars == 0 {
		cfg.Chunker.WindowChars = 900
	}
	if cfg.Chunker.OverlapChars == 0 {
		cfg.Chunker.OverlapChars = 150
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 4
	}
	if len(cfg.Router.QuestionKeywords) == 0 {
		cfg.Router.QuestionKeywords = DefaultQuestionKeywords()
	}
	if len(cfg.Router.PlanningKeywords) == 0 {
		cfg.Router.PlanningKeywords = DefaultPlanningKeywords()
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "OPENROUTER_API_KEY"
	}
	if cfg.LLM.ModelEnv == "" {
		cfg.LLM.ModelEnv = "OPENROUTER_MODEL"
	}
	if cfg.LLM.DefaultModel == "" {
		cfg.LLM.DefaultModel = "openai/gpt-4o-mini"
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 60
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 5
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
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
	}
}
