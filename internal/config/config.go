package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"sprint-metrics/internal/jira"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Jira jira.Config

	// DatasetPath replaces the live client with an offline dataset when set.
	DatasetPath string

	Location           *time.Location
	WorklogConcurrency int
	VelocityWindow     int

	HTTPAddr            string
	DataPath            string
	LogDir              string
	ExportDir           string
	ExportExtraField    string
	ExportExtraLabel    string
	EnableMermaidCharts bool

	DigestCron   string
	DigestBoards []int
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	exeDir := loadDotEnv()

	v := viper.New()
	v.AutomaticEnv()

	dataPath := exeDir
	if dataPath == "" {
		dataPath = "."
	}
	v.SetDefault("DATA_PATH", dataPath)
	v.SetDefault("JIRA_TIMEOUT", "60s")
	v.SetDefault("JIRA_MAX_RETRIES", 3)
	v.SetDefault("STORY_POINTS_FIELDS", "customfield_10030,customfield_10016")
	v.SetDefault("TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("WORKLOG_CONCURRENCY", 8)
	v.SetDefault("VELOCITY_WINDOW", 6)
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("ENABLE_MERMAID_CHARTS", false)
	v.SetDefault("EXPORT_EXTRA_FIELD", "customfield_10162")
	v.SetDefault("EXPORT_EXTRA_FIELD_LABEL", "Budget Code")

	return fromViper(v)
}

// loadDotEnv loads .env from the binary directory, then from the working directory.
// Existing environment variables always win.
func loadDotEnv() string {
	exeDir := ""
	if exePath, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}
	return exeDir
}

func fromViper(v *viper.Viper) (*AppConfig, error) {
	tzName := v.GetString("TIMEZONE")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
	}

	digestBoards, err := splitInts(v.GetString("DIGEST_BOARDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid DIGEST_BOARDS: %w", err)
	}

	dataPath := v.GetString("DATA_PATH")
	logDir := v.GetString("LOGS_FOLDER")
	if logDir == "" {
		logDir = filepath.Join(dataPath, "logs")
	}
	exportDir := v.GetString("EXPORT_DIR")
	if exportDir == "" {
		exportDir = filepath.Join(dataPath, "exports")
	}
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		log.Warn().Err(err).Str("path", exportDir).Msg("Failed to create export directory")
	}

	cfg := &AppConfig{
		Jira: jira.Config{
			BaseURL:          v.GetString("JIRA_URL"),
			User:             v.GetString("JIRA_USER"),
			APIToken:         v.GetString("JIRA_API_TOKEN"),
			Token:            v.GetString("JIRA_TOKEN"),
			Timeout:          v.GetDuration("JIRA_TIMEOUT"),
			MaxRetries:       v.GetInt("JIRA_MAX_RETRIES"),
			StoryPointFields: splitList(v.GetString("STORY_POINTS_FIELDS")),
			Location:         loc,
		},
		DatasetPath:         v.GetString("JIRA_DATASET"),
		Location:            loc,
		WorklogConcurrency:  v.GetInt("WORKLOG_CONCURRENCY"),
		VelocityWindow:      v.GetInt("VELOCITY_WINDOW"),
		HTTPAddr:            v.GetString("HTTP_ADDR"),
		DataPath:            dataPath,
		LogDir:              logDir,
		ExportDir:           exportDir,
		ExportExtraField:    strings.TrimSpace(v.GetString("EXPORT_EXTRA_FIELD")),
		ExportExtraLabel:    strings.TrimSpace(v.GetString("EXPORT_EXTRA_FIELD_LABEL")),
		EnableMermaidCharts: v.GetBool("ENABLE_MERMAID_CHARTS"),
		DigestCron:          strings.TrimSpace(v.GetString("DIGEST_CRON")),
		DigestBoards:        digestBoards,
	}

	if cfg.Jira.BaseURL == "" && cfg.DatasetPath == "" {
		return nil, errors.New("JIRA_URL is required (or JIRA_DATASET for offline mode)")
	}
	if strings.EqualFold(cfg.ExportExtraField, "none") {
		cfg.ExportExtraField = ""
	}
	if cfg.WorklogConcurrency < 1 {
		cfg.WorklogConcurrency = 1
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func splitInts(raw string) ([]int, error) {
	var out []int
	for _, part := range splitList(raw) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
