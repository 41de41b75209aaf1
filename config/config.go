package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultFile необязательный yaml рядом с бинарником
const DefaultFile = "config.yaml"

// Config настройки сервиса. API-ключ OpenAI сюда не входит: его присылает пользователь.
type Config struct {
	HTTPAddr       string        `koanf:"http_addr"`
	TelegramToken  string        `koanf:"telegram_token"`
	OpenAIBaseURL  string        `koanf:"openai_base_url"`
	OpenAIModel    string        `koanf:"openai_model"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	LogLevel       string        `koanf:"log_level"`
}

var envKeys = map[string]bool{
	"http_addr":       true,
	"telegram_token":  true,
	"openai_base_url": true,
	"openai_model":    true,
	"request_timeout": true,
	"log_level":       true,
}

func defaults() *Config {
	return &Config{
		HTTPAddr:       ":8080",
		OpenAIModel:    "gpt-4o",
		RequestTimeout: 60 * time.Second,
		LogLevel:       "info",
	}
}

func Load() (*Config, error) {
	return LoadFile(DefaultFile)
}

// LoadFile читает yaml (если есть), затем переменные окружения поверх него.
func LoadFile(path string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(key)
		if !envKeys[key] || value == "" {
			return "", nil
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("request_timeout must be positive, got %s", cfg.RequestTimeout)
	}

	return cfg, nil
}

// SlogLevel переводит log_level в уровень slog, неизвестное значение даёт info
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Logger собирает текстовый slog-логгер в stderr
func (c *Config) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.SlogLevel()}))
}
