package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"deskwell/internal/ai"
)

// Config holds process-level settings read from the environment.
type Config struct {
	APIKey       string
	BaseURL      string
	PostureModel string
	SpeechModel  string
	SpeechVoice  string
	LogLevel     slog.Level
}

// Load reads .env (if present) and the process environment.
// Process environment wins over .env values.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIKey:       get("GEMINI_API_KEY", ""),
		BaseURL:      get("DESKWELL_API_BASE_URL", ai.DefaultBaseURL),
		PostureModel: get("DESKWELL_POSTURE_MODEL", ai.DefaultPostureModel),
		SpeechModel:  get("DESKWELL_SPEECH_MODEL", ai.DefaultSpeechModel),
		SpeechVoice:  get("DESKWELL_SPEECH_VOICE", ai.DefaultSpeechVoice),
		LogLevel:     ParseLevel(get("DESKWELL_LOG_LEVEL", "info")),
	}
}

// AI returns the client settings.
func (c *Config) AI() ai.Config {
	return ai.Config{
		APIKey:       c.APIKey,
		BaseURL:      c.BaseURL,
		PostureModel: c.PostureModel,
		SpeechModel:  c.SpeechModel,
		SpeechVoice:  c.SpeechVoice,
	}
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
