package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "REVIEWPULSE_CONFIG"
	listenAddrEnv    = "REVIEWPULSE_ADDR"
	databaseDSNEnv   = "DATABASE_DSN"
	llmAPIKeyEnv     = "LLM_API_KEY"
	llmModelEnv      = "LLM_MODEL"
	classifierURLEnv = "CLASSIFIER_URL"
	classifierKeyEnv = "CLASSIFIER_API_KEY"
	mailRelayURLEnv  = "MAIL_RELAY_URL"
	mailRelayKeyEnv  = "MAIL_RELAY_API_KEY"
	companyNameEnv   = "COMPANY_NAME"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Classifier ClassifierConfig `yaml:"classifier"`
	LLM        LLMConfig        `yaml:"llm"`
	Mail       MailConfig       `yaml:"mail"`
	Chat       ChatConfig       `yaml:"chat"`
	Retention  RetentionConfig  `yaml:"retention"`
	Company    string           `yaml:"companyName"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig describes the HTTP listener and its outbound budget.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	UpstreamTimeout time.Duration `yaml:"upstreamTimeout"`
}

// DatabaseConfig describes the optional Postgres archive connection.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ClassifierConfig describes the external inference service.
type ClassifierConfig struct {
	InferenceURL string `yaml:"inferenceUrl"`
	APIKey       string `yaml:"apiKey"`
}

// LLMConfig defines how to contact the chat-completions API.
type LLMConfig struct {
	Endpoint      string  `yaml:"endpoint"`
	Model         string  `yaml:"model"`
	APIKey        string  `yaml:"apiKey"`
	SystemPrompt  string  `yaml:"systemPrompt"`
	DefaultPrompt string  `yaml:"defaultPrompt"`
	Temperature   float64 `yaml:"temperature"`
	MaxTokens     int     `yaml:"maxTokens"`
}

// MailConfig wires the HTTP mail relay used for report delivery.
type MailConfig struct {
	RelayURL string `yaml:"relayUrl"`
	APIKey   string `yaml:"apiKey"`
	From     string `yaml:"from"`
}

// ChatConfig bounds the per-job conversational state.
type ChatConfig struct {
	HistoryWindow  int `yaml:"historyWindow"`
	MaxSuggestions int `yaml:"maxSuggestions"`
}

// RetentionConfig controls eviction of old terminal jobs.
type RetentionConfig struct {
	MaxAge        time.Duration `yaml:"maxAge"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(classifierURLEnv); v != "" {
		c.Classifier.InferenceURL = v
	}
	if v := os.Getenv(classifierKeyEnv); v != "" {
		c.Classifier.APIKey = v
	}
	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(mailRelayURLEnv); v != "" {
		c.Mail.RelayURL = v
	}
	if v := os.Getenv(mailRelayKeyEnv); v != "" {
		c.Mail.APIKey = v
	}
	if v := os.Getenv(companyNameEnv); v != "" {
		c.Company = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.UpstreamTimeout > 0 {
		base.Server.UpstreamTimeout = override.Server.UpstreamTimeout
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Classifier.InferenceURL != "" {
		base.Classifier.InferenceURL = override.Classifier.InferenceURL
	}
	if override.Classifier.APIKey != "" {
		base.Classifier.APIKey = override.Classifier.APIKey
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.SystemPrompt != "" {
		base.LLM.SystemPrompt = override.LLM.SystemPrompt
	}
	if override.LLM.DefaultPrompt != "" {
		base.LLM.DefaultPrompt = override.LLM.DefaultPrompt
	}
	if override.LLM.Temperature > 0 {
		base.LLM.Temperature = override.LLM.Temperature
	}
	if override.LLM.MaxTokens > 0 {
		base.LLM.MaxTokens = override.LLM.MaxTokens
	}

	if override.Mail.RelayURL != "" {
		base.Mail.RelayURL = override.Mail.RelayURL
	}
	if override.Mail.APIKey != "" {
		base.Mail.APIKey = override.Mail.APIKey
	}
	if override.Mail.From != "" {
		base.Mail.From = override.Mail.From
	}

	if override.Chat.HistoryWindow > 0 {
		base.Chat.HistoryWindow = override.Chat.HistoryWindow
	}
	if override.Chat.MaxSuggestions > 0 {
		base.Chat.MaxSuggestions = override.Chat.MaxSuggestions
	}

	if override.Retention.MaxAge > 0 {
		base.Retention.MaxAge = override.Retention.MaxAge
	}
	if override.Retention.SweepInterval > 0 {
		base.Retention.SweepInterval = override.Retention.SweepInterval
	}

	if override.Company != "" {
		base.Company = override.Company
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			UpstreamTimeout: 30 * time.Second,
		},
		Classifier: ClassifierConfig{},
		LLM: LLMConfig{
			Endpoint:     "https://api.groq.com/openai/v1/chat/completions",
			Model:        "llama-3.1-8b-instant",
			SystemPrompt: "You are an expert sentiment analysis assistant. You help users understand their customer feedback data.",
			DefaultPrompt: "Based on the customer feedback below, provide concrete, prioritized recommendations " +
				"the business should act on. Focus on the issues raised most often in negative reviews.",
			Temperature: 0.3,
			MaxTokens:   1024,
		},
		Chat: ChatConfig{
			HistoryWindow:  2,
			MaxSuggestions: 6,
		},
		Retention: RetentionConfig{
			MaxAge:        7 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
		Company: "Awesome Company",
		Logging: LoggingConfig{Level: "info"},
	}
}
