// Package config holds operator-level configuration for a Max installation:
// where state lives, which text generator to use, where the dealership
// registry and inventory feed are, and how the HTTP surface is exposed.
//
// Set via env vars (MAX_*) or a max.config.yaml file. Per-dealership
// settings (persona, hours, rate limits) live in the dealership registry
// file, not here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Viper keys. Each maps to an env var with the MAX_ prefix
// (e.g. "openai_api_key" → MAX_OPENAI_API_KEY) and to a YAML field in
// max.config.yaml.
const (
	KeyDataDir          = "data_dir"
	KeyLLMProvider      = "llm_provider"
	KeyModel            = "model"
	KeyOpenAIAPIKey     = "openai_api_key"
	KeyOpenAIBaseURL    = "openai_base_url"
	KeyOllamaBaseURL    = "ollama_base_url"
	KeyDealershipFile   = "dealership_file"
	KeyInventoryFeed    = "inventory_feed"
	KeyFeedSchedule     = "feed_schedule"
	KeyListenAddr       = "listen_addr"
	KeyWebhookAuthToken = "webhook_auth_token"
	KeyWebhookBaseURL   = "webhook_base_url"
)

// Defaults.
const (
	DefaultProvider     = "openai"
	DefaultOllamaURL    = "http://localhost:11434"
	DefaultListenAddr   = ":8080"
	DefaultFeedSchedule = "0 3 * * *" // nightly, 03:00
)

// Config holds resolved operator-level configuration for a Max process.
type Config struct {
	DataDir          string // base directory for state (~/.max)
	LLMProvider      string // "openai" or "ollama"
	Model            string // generation model; empty uses the agent default
	OpenAIAPIKey     string
	OpenAIBaseURL    string // optional OpenAI-compatible endpoint
	OllamaBaseURL    string
	DealershipFile   string // dealership registry YAML
	InventoryFeed    string // JSON feed file imported into the inventory DB
	FeedSchedule     string // cron expression for feed re-import
	ListenAddr       string
	WebhookAuthToken string // HMAC key for inbound webhook signatures
	WebhookBaseURL   string // public URL prefix signatures are computed over
}

// InventoryDBPath returns the full path to the inventory SQLite database.
func (c *Config) InventoryDBPath() string {
	return filepath.Join(c.DataDir, "inventory.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o700)
}

func init() {
	viper.SetEnvPrefix("MAX")
	viper.AutomaticEnv()
	viper.SetDefault(KeyLLMProvider, DefaultProvider)
	viper.SetDefault(KeyOllamaBaseURL, DefaultOllamaURL)
	viper.SetDefault(KeyListenAddr, DefaultListenAddr)
	viper.SetDefault(KeyFeedSchedule, DefaultFeedSchedule)
}

// Load reads configuration from Viper (which merges env vars, config file,
// and defaults) and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		DataDir:          resolveDataDir(),
		LLMProvider:      viper.GetString(KeyLLMProvider),
		Model:            viper.GetString(KeyModel),
		OpenAIAPIKey:     viper.GetString(KeyOpenAIAPIKey),
		OpenAIBaseURL:    viper.GetString(KeyOpenAIBaseURL),
		OllamaBaseURL:    viper.GetString(KeyOllamaBaseURL),
		DealershipFile:   viper.GetString(KeyDealershipFile),
		InventoryFeed:    viper.GetString(KeyInventoryFeed),
		FeedSchedule:     viper.GetString(KeyFeedSchedule),
		ListenAddr:       viper.GetString(KeyListenAddr),
		WebhookAuthToken: viper.GetString(KeyWebhookAuthToken),
		WebhookBaseURL:   viper.GetString(KeyWebhookBaseURL),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func resolveDataDir() string {
	if dir := viper.GetString(KeyDataDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".max"
	}
	return filepath.Join(home, ".max")
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case "openai":
		if c.OpenAIAPIKey == "" && c.OpenAIBaseURL == "" {
			return fmt.Errorf("llm_provider is openai but no api key configured; set MAX_OPENAI_API_KEY")
		}
	case "ollama":
	default:
		return fmt.Errorf("unknown llm_provider %q (want openai or ollama)", c.LLMProvider)
	}
	return nil
}
