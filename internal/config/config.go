package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiAPIVersion string
	TextModel        string
	ImageModel       string

	// ImageRetries is negative when retries are disabled.
	ImageRetries int
	ImageBackoff time.Duration

	RateLimit float64
	RateBurst int

	LogLevel string
	Debug    bool

	PreferIPv4     bool
	HTTPTimeout    time.Duration
	RequestTimeout time.Duration
	MaxConcurrent  int

	WebAddr     string
	CORSOrigins []string

	TelegramToken string
}

// Load reads the configuration from the environment. A missing Gemini key is
// not an error: the AI features then run in disabled mode.
func Load() (Config, error) {
	cfg := Config{
		GeminiAPIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL:    strings.TrimSpace(os.Getenv("GEMINI_BASE_URL")),
		GeminiAPIVersion: strings.TrimSpace(os.Getenv("GEMINI_API_VERSION")),
		TextModel:        getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		ImageModel:       getEnv("GEMINI_IMAGE_MODEL", "imagen-3.0-generate-002"),

		ImageRetries: getEnvInt("IMAGE_RETRIES", 2),
		ImageBackoff: time.Duration(getEnvInt("IMAGE_BACKOFF_MS", 1000)) * time.Millisecond,

		RateLimit: getEnvFloat("AI_RATE_LIMIT", 0),
		RateBurst: getEnvInt("AI_RATE_BURST", 1),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Debug:    getEnvBool("DEBUG", false),

		PreferIPv4:     getEnvBool("PREFER_IPV4", true),
		HTTPTimeout:    time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 240)) * time.Second,
		MaxConcurrent:  getEnvInt("MAX_CONCURRENT", 4),

		WebAddr:     getEnv("WEB_ADDR", ":8080"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "*")),

		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
	}

	if cfg.ImageRetries <= 0 {
		cfg.ImageRetries = -1
	}
	if cfg.ImageBackoff <= 0 {
		cfg.ImageBackoff = 1000 * time.Millisecond
	}
	if cfg.RateLimit < 0 {
		cfg.RateLimit = 0
	}
	if cfg.RateBurst < 1 {
		cfg.RateBurst = 1
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 240 * time.Second
	}

	return cfg, nil
}

// LoadBot is Load plus the settings only the Telegram bot needs.
func LoadBot() (Config, error) {
	cfg, err := Load()
	if err != nil {
		return Config{}, err
	}

	if cfg.TelegramToken == "" {
		return Config{}, errors.New("TELEGRAM_BOT_TOKEN is required")
	}

	return cfg, nil
}

// AIEnabled reports whether a Gemini key is configured.
func (c Config) AIEnabled() bool {
	return c.GeminiAPIKey != ""
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
