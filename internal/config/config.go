package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir     string   `json:"data_dir"`
	LogLevel    string   `json:"log_level"`
	Listen      string   `json:"listen"`
	CORSOrigins []string `json:"cors_origins"`
	LLM         struct {
		BaseURL          string  `json:"base_url"`
		APIKey           string  `json:"api_key"`
		Model            string  `json:"model"`
		TranscribeModel  string  `json:"transcribe_model"`
		MaxTokens        int     `json:"max_tokens"`
		Temperature      float32 `json:"temperature"`
		MaxContextTokens int     `json:"max_context_tokens"`
	} `json:"llm"`
	Classifier struct {
		MaxTokens int `json:"max_tokens"`
	} `json:"classifier"`
	SMTP struct {
		Host     string `json:"host"`
		Port     int    `json:"port"`
		Username string `json:"username"`
		Password string `json:"password"`
		From     string `json:"from"`
		To       string `json:"to"`
	} `json:"smtp"`
	Telegram struct {
		Token  string `json:"token"`
		ChatID int64  `json:"chat_id"`
	} `json:"telegram"`
	Notify struct {
		MaxConcurrent int `json:"max_concurrent"`
	} `json:"notify"`
}

func Load(path string) (*Config, error) {
	// .env in the working directory, if present, feeds the env overrides
	// below. Missing file is fine.
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:  filepath.Join(os.Getenv("HOME"), ".hotline"),
		LogLevel: "info",
		Listen:   ":5000",
	}
	cfg.LLM.BaseURL = "https://api.openai.com/v1"
	cfg.LLM.Model = "gpt-3.5-turbo"
	cfg.LLM.TranscribeModel = "whisper-1"
	cfg.LLM.MaxTokens = 500
	cfg.LLM.MaxContextTokens = 3500
	cfg.Classifier.MaxTokens = 10
	cfg.SMTP.Port = 587
	cfg.Notify.MaxConcurrent = 4

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Listen = ":" + port
	}
	if origins := os.Getenv("CORS_ORIGIN"); origins != "" {
		cfg.CORSOrigins = splitOrigins(origins)
	}
	if host := os.Getenv("SMTP_HOST"); host != "" {
		cfg.SMTP.Host = host
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.SMTP.Port = n
		}
	}
	if user := os.Getenv("SMTP_USER"); user != "" {
		cfg.SMTP.Username = user
	}
	if pass := os.Getenv("SMTP_PASS"); pass != "" {
		cfg.SMTP.Password = pass
	}
	if from := os.Getenv("SMTP_FROM"); from != "" {
		cfg.SMTP.From = from
	}
	if to := os.Getenv("EMAIL_TO"); to != "" {
		cfg.SMTP.To = to
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	if chat := os.Getenv("TELEGRAM_CHAT_ID"); chat != "" {
		if n, err := strconv.ParseInt(chat, 10, 64); err == nil {
			cfg.Telegram.ChatID = n
		}
	}

	return cfg, nil
}

// Save writes the config as indented JSON, atomically via a temp file.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// splitOrigins parses the comma-separated CORS_ORIGIN value the way the
// dashboard deployment sets it.
func splitOrigins(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if o := strings.TrimSpace(part); o != "" {
			out = append(out, o)
		}
	}
	return out
}
