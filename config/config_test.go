package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for key := range envKeys {
		t.Setenv(strings.ToUpper(key), "")
	}
}

func TestLoadFile_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "gpt-4o", cfg.OpenAIModel)
	require.Equal(t, 60*time.Second, cfg.RequestTimeout)
	require.Empty(t, cfg.TelegramToken)
	require.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFile_YAMLThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":9090"
openai_model: gpt-4o-mini
request_timeout: 15s
log_level: debug
`), 0o600))

	t.Setenv("OPENAI_MODEL", "gpt-4.1")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, "gpt-4.1", cfg.OpenAIModel)
	require.Equal(t, "123:abc", cfg.TelegramToken)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
	require.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadFile_EnvDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQUEST_TIMEOUT", "2m")

	cfg, err := LoadFile("")
	require.NoError(t, err)
	require.Equal(t, 2*time.Minute, cfg.RequestTimeout)
}

func TestLoadFile_RejectsNonPositiveTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQUEST_TIMEOUT", "-1s")

	_, err := LoadFile("")
	require.Error(t, err)
}

func TestSlogLevel_Unknown(t *testing.T) {
	cfg := &Config{LogLevel: "chatty"}
	require.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
