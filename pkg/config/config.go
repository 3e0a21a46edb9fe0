package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Agent     AgentConfig     `json:"agent"`
	Character CharacterConfig `json:"character"`
	Providers ProvidersConfig `json:"providers"`
	Web3      Web3Config      `json:"web3"`
	Search    SearchConfig    `json:"search"`
	Trainer   TrainerConfig   `json:"trainer"`
	Evaluator EvaluatorConfig `json:"evaluator"`
	Store     StoreConfig     `json:"store"`
	Logging   LoggingConfig   `json:"logging"`
}

type AgentConfig struct {
	Name               string `json:"name" env:"FAITHAGENT_AGENT_NAME"`
	TwitterUserName    string `json:"twitter_user_name" env:"FAITHAGENT_AGENT_TWITTER_USER_NAME"`
	ConversationLength int    `json:"conversation_length" env:"FAITHAGENT_AGENT_CONVERSATION_LENGTH"`
	MaxPostLength      int    `json:"max_post_length" env:"FAITHAGENT_AGENT_MAX_POST_LENGTH"`
}

// CharacterConfig is the long-lived agent profile rendered into prompts.
type CharacterConfig struct {
	Bio            []string `json:"bio"`
	Lore           []string `json:"lore"`
	Topics         []string `json:"topics"`
	Adjectives     []string `json:"adjectives"`
	PostExamples   []string `json:"post_examples"`
	PostDirections []string `json:"post_directions"`
}

type ProvidersConfig struct {
	Generation GenerationConfig `json:"generation"`
	OpenAI     ProviderConfig   `json:"openai"`
	Anthropic  ProviderConfig   `json:"anthropic"`
}

type GenerationConfig struct {
	Backend        string `json:"backend" env:"FAITHAGENT_PROVIDERS_GENERATION_BACKEND"`
	SmallModel     string `json:"small_model" env:"FAITHAGENT_PROVIDERS_GENERATION_SMALL_MODEL"`
	LargeModel     string `json:"large_model" env:"FAITHAGENT_PROVIDERS_GENERATION_LARGE_MODEL"`
	EmbeddingModel string `json:"embedding_model" env:"FAITHAGENT_PROVIDERS_GENERATION_EMBEDDING_MODEL"`
	TimeoutSeconds int    `json:"timeout_seconds" env:"FAITHAGENT_PROVIDERS_GENERATION_TIMEOUT_SECONDS"`
}

type ProviderConfig struct {
	APIKey  string `json:"api_key"`
	APIBase string `json:"api_base"`
}

type Web3Config struct {
	BaseURL                string `json:"base_url" env:"FAITHAGENT_WEB3_BASE_URL"`
	SupportChainID         string `json:"support_chain_id" env:"FAITHAGENT_WEB3_SUPPORT_CHAIN_ID"`
	ScoreBaseURL           string `json:"score_base_url" env:"FAITHAGENT_WEB3_SCORE_BASE_URL"`
	AirdropContractAddress string `json:"airdrop_contract_address" env:"FAITHAGENT_WEB3_AIRDROP_CONTRACT_ADDRESS"`
	TimeoutSeconds         int    `json:"timeout_seconds" env:"FAITHAGENT_WEB3_TIMEOUT_SECONDS"`
}

type SearchConfig struct {
	SerperAPIKey   string `json:"serper_api_key" env:"FAITHAGENT_SEARCH_SERPER_API_KEY"`
	SerperAPIBase  string `json:"serper_api_base" env:"FAITHAGENT_SEARCH_SERPER_API_BASE"`
	TimeoutSeconds int    `json:"timeout_seconds" env:"FAITHAGENT_SEARCH_TIMEOUT_SECONDS"`
}

type TrainerConfig struct {
	Enabled bool   `json:"enabled" env:"FAITHAGENT_TRAINER_ENABLED"`
	Cron    string `json:"cron" env:"FAITHAGENT_TRAINER_CRON"`
}

type EvaluatorConfig struct {
	FactPacingMS        int     `json:"fact_pacing_ms" env:"FAITHAGENT_EVALUATOR_FACT_PACING_MS"`
	SimilarityThreshold float64 `json:"similarity_threshold" env:"FAITHAGENT_EVALUATOR_SIMILARITY_THRESHOLD"`
}

type StoreConfig struct {
	Path string `json:"path" env:"FAITHAGENT_STORE_PATH"`
}

type LoggingConfig struct {
	Debug       bool   `json:"debug" env:"FAITHAGENT_LOGGING_DEBUG"`
	FileEnabled bool   `json:"file_enabled" env:"FAITHAGENT_LOGGING_FILE_ENABLED"`
	FilePath    string `json:"file_path" env:"FAITHAGENT_LOGGING_FILE_PATH"`
	MaxSizeMB   int    `json:"max_size_mb" env:"FAITHAGENT_LOGGING_MAX_SIZE_MB"`
}

func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:               "sage",
			TwitterUserName:    "sage",
			ConversationLength: 32,
			MaxPostLength:      280,
		},
		Character: CharacterConfig{
			Bio:            []string{},
			Lore:           []string{},
			Topics:         []string{},
			Adjectives:     []string{"insightful"},
			PostExamples:   []string{},
			PostDirections: []string{},
		},
		Providers: ProvidersConfig{
			Generation: GenerationConfig{
				Backend:        "openai",
				SmallModel:     "gpt-4o-mini",
				LargeModel:     "gpt-4o",
				EmbeddingModel: "text-embedding-3-small",
				TimeoutSeconds: 60,
			},
		},
		Web3: Web3Config{
			TimeoutSeconds: 15,
		},
		Search: SearchConfig{
			SerperAPIBase:  "https://google.serper.dev",
			TimeoutSeconds: 15,
		},
		Trainer: TrainerConfig{
			Enabled: false,
			Cron:    "0 */6 * * *",
		},
		Evaluator: EvaluatorConfig{
			FactPacingMS:        250,
			SimilarityThreshold: 0.95,
		},
		Store: StoreConfig{
			Path: "~/.faithagent/faithagent.db",
		},
		Logging: LoggingConfig{
			Debug:       false,
			FileEnabled: true,
			FilePath:    "~/.faithagent/faithagent.log",
			MaxSizeMB:   50,
		},
	}
}

// LoadConfig reads the JSON config at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	applyProviderEnvOverrides(cfg)
	resolveSecretEnvRefs(cfg)

	return cfg, nil
}

func applyProviderEnvOverrides(cfg *Config) {
	bindings := []struct {
		target *ProviderConfig
		apiKey string
	}{
		{target: &cfg.Providers.OpenAI, apiKey: "FAITHAGENT_PROVIDERS_OPENAI_API_KEY"},
		{target: &cfg.Providers.Anthropic, apiKey: "FAITHAGENT_PROVIDERS_ANTHROPIC_API_KEY"},
	}

	for _, b := range bindings {
		if v := strings.TrimSpace(os.Getenv(b.apiKey)); v != "" {
			b.target.APIKey = v
		}
	}
}

func resolveSecretEnvRefs(cfg *Config) {
	refs := []*string{
		&cfg.Providers.OpenAI.APIKey,
		&cfg.Providers.OpenAI.APIBase,
		&cfg.Providers.Anthropic.APIKey,
		&cfg.Providers.Anthropic.APIBase,
		&cfg.Search.SerperAPIKey,
	}
	for _, ref := range refs {
		*ref = resolveEnvRef(*ref)
	}
}

// resolveEnvRef expands "$VAR" and "${VAR}" values so secrets can live in
// the environment instead of the config file.
func resolveEnvRef(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return v
	}
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		key := strings.TrimSpace(s[2 : len(s)-1])
		if key == "" {
			return v
		}
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return v
	}
	if strings.HasPrefix(s, "$") && len(s) > 1 {
		key := strings.TrimSpace(s[1:])
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
	}
	return v
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// StorePath expands the home-relative store location.
func (c *Config) StorePath() string {
	return expandHome(c.Store.Path)
}

// StoreDir is the directory holding the database and sibling state files.
func (c *Config) StoreDir() string {
	p := c.StorePath()
	if p == "" {
		return ""
	}
	return filepath.Dir(p)
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
