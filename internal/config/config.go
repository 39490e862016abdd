// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// R2Config addresses the Cloudflare R2 bucket holding answer attachments.
type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

type Config struct {
	HTTPPort int

	DBUrl       string
	RabbitMQUrl string

	// Advisory service
	AdvisorMode      string
	GoogleApiKey     string
	FastModel        string
	ProModel         string
	TTSModel         string
	TTSVoice         string
	ResponseLanguage string
	MaxQuestions     int
	RequestTimeout   time.Duration

	SessionTTL time.Duration

	R2 R2Config

	ReportWebhookURL string
	ReportWorkers    int

	LogMode string
	LogFile string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:         getEnvInt("HTTP_PORT", 8080),
		DBUrl:            os.Getenv("DB_URL"),
		RabbitMQUrl:      os.Getenv("RABBITMQ_URL"),
		AdvisorMode:      strings.ToUpper(os.Getenv("ADVISOR_MODE")),
		GoogleApiKey:     os.Getenv("GOOGLE_API_KEY"),
		FastModel:        getEnv("FAST_MODEL", "gemini-2.5-flash"),
		ProModel:         getEnv("PRO_MODEL", "gemini-2.5-pro"),
		TTSModel:         getEnv("TTS_MODEL", "gemini-2.5-flash-preview-tts"),
		TTSVoice:         getEnv("TTS_VOICE", "Kore"),
		ResponseLanguage: getEnv("RESPONSE_LANGUAGE", "Vietnamese"),
		MaxQuestions:     getEnvInt("MAX_QUESTIONS", 12),
		RequestTimeout:   getEnvDuration("REQUEST_TIMEOUT_MS", 90*time.Second),
		SessionTTL:       time.Duration(getEnvInt("SESSION_TTL_MINUTES", 120)) * time.Minute,
		R2: R2Config{
			AccountID: os.Getenv("R2_ACCOUNT_ID"),
			Bucket:    os.Getenv("R2_BUCKET"),
			AccessKey: os.Getenv("R2_ACCESS_KEY"),
			SecretKey: os.Getenv("R2_SECRET_KEY"),
		},
		ReportWebhookURL: os.Getenv("REPORT_WEBHOOK_URL"),
		ReportWorkers:    getEnvInt("REPORT_WORKERS", 3),
		LogMode:          getEnv("LOG_MODE", "dev"),
		LogFile:          os.Getenv("LOG_FILE"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"DB_URL":             c.DBUrl,
		"RABBITMQ_URL":       c.RabbitMQUrl,
		"R2_ACCOUNT_ID":      c.R2.AccountID,
		"R2_BUCKET":          c.R2.Bucket,
		"R2_ACCESS_KEY":      c.R2.AccessKey,
		"R2_SECRET_KEY":      c.R2.SecretKey,
		"REPORT_WEBHOOK_URL": c.ReportWebhookURL,
	}
	if c.AdvisorMode != "MOCK" {
		required["GOOGLE_API_KEY"] = c.GoogleApiKey
	}
	var missing []string
	for key, val := range required {
		if val == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("empty %s in environment", strings.Join(missing, ", "))
	}
	if c.ReportWorkers < 1 {
		return fmt.Errorf("REPORT_WORKERS must be at least 1, got %d", c.ReportWorkers)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if ms, err := strconv.Atoi(val); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultVal
}
