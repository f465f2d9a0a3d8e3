// Load envs from .env
// Load YAML config
// Apply env overrides and defaults
// Validate per command

package config

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-jobfit-automation/internal/apperr"
)

const DefaultConfigPath = "configs/config.yaml"

type Config struct {
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	Port           string `yaml:"port" env:"PORT"`

	//Storage
	DataFolder   string `yaml:"data_folder"`
	JobsFile     string `yaml:"jobs_file"`
	AnalysisFile string `yaml:"analysis_file"`
	ResumeFile   string `yaml:"resume_file"`

	Search  SearchConfig  `yaml:"search"`
	Filter  FilterConfig  `yaml:"filter"`
	AI      AIConfig      `yaml:"ai"`
	Scoring ScoringConfig `yaml:"scoring"`
	Browser BrowserConfig `yaml:"browser"`
	Server  ServerConfig  `yaml:"server"`
}

type SearchConfig struct {
	Keywords string `yaml:"keywords" env:"JOB_TITLE"`
	Location string `yaml:"location" env:"JOB_LOCATION"`
	MaxPages int    `yaml:"max_pages"`
}

type FilterConfig struct {
	ExcludeKeywords []string `yaml:"exclude_keywords"`
	MaxAgeDays      int      `yaml:"max_age_days"`
}

type AIConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model" env:"AI_MODEL"`
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"-"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

type ScoringConfig struct {
	// Delay is the fixed pause between two scored jobs.
	Delay           time.Duration `yaml:"delay"`
	NotifyThreshold int           `yaml:"notify_threshold"`
	Limit           int           `yaml:"limit"`
}

type BrowserConfig struct {
	Headless      bool          `yaml:"headless"`
	CookiesPath   string        `yaml:"cookies_path"`
	ScreenshotDir string        `yaml:"screenshot_dir"`
	Timeout       time.Duration `yaml:"timeout"`
}

type ServerConfig struct {
	// AllowOrigins lists CORS origins; empty allows all.
	AllowOrigins []string `yaml:"allow_origins"`
}

const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Load reads the config for a main package and exits on any config error.
func Load() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	return cfg
}

// LoadFrom reads the YAML file at path (a missing file is only a warning),
// then applies .env, environment overrides and defaults.
func LoadFrom(path string) (*Config, error) {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, apperr.Config("could not read "+path, err)
		}
		log.Printf("⚠️ Could not read %s: %v. Using defaults.", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, apperr.Config("error parsing "+path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	//Override with env vars
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return apperr.Config("invalid TELEGRAM_CHAT_ID", err)
		}
		cfg.TelegramChatID = id
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if title := os.Getenv("JOB_TITLE"); title != "" {
		cfg.Search.Keywords = title
	}
	if location := os.Getenv("JOB_LOCATION"); location != "" {
		cfg.Search.Location = location
	}
	if model := os.Getenv("AI_MODEL"); model != "" {
		cfg.AI.Model = model
	}
	if provider := os.Getenv("AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}

	if cfg.AI.Provider == "" {
		cfg.AI.Provider = ProviderOpenAI
	}
	switch cfg.AI.Provider {
	case ProviderOpenAI:
		cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
		if model := os.Getenv("OPENAI_API_MODEL"); model != "" && cfg.AI.Model == "" {
			cfg.AI.Model = model
		}
	case ProviderGroq:
		cfg.AI.APIKey = os.Getenv("GROQ_API_KEY")
	case ProviderGemini:
		cfg.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	default:
		return apperr.Config("unknown ai provider "+strconv.Quote(cfg.AI.Provider), nil)
	}
	return nil
}

func (cfg *Config) applyDefaults() {
	//Set default values if not set
	if cfg.DataFolder == "" {
		cfg.DataFolder = "./data"
	}
	if cfg.JobsFile == "" {
		cfg.JobsFile = "job_data.csv"
	}
	if cfg.AnalysisFile == "" {
		cfg.AnalysisFile = "analysis.csv"
	}
	if cfg.ResumeFile == "" {
		cfg.ResumeFile = filepath.Join(cfg.DataFolder, "resume.txt")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.Search.Keywords == "" {
		cfg.Search.Keywords = "Software Engineer"
	}
	if cfg.Search.Location == "" {
		cfg.Search.Location = "Remote"
	}
	if cfg.Search.MaxPages <= 0 {
		cfg.Search.MaxPages = 1
	}

	switch {
	case cfg.AI.Model != "":
	case cfg.AI.Provider == ProviderGroq:
		cfg.AI.Model = "llama-3.3-70b-versatile"
	case cfg.AI.Provider == ProviderGemini:
		cfg.AI.Model = "gemini-2.5-flash"
	default:
		cfg.AI.Model = "gpt-4o"
	}
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = 60 * time.Second
	}

	if cfg.Scoring.Delay <= 0 {
		cfg.Scoring.Delay = 2 * time.Second
	}
	if cfg.Scoring.NotifyThreshold <= 0 {
		cfg.Scoring.NotifyThreshold = 80
	}

	if cfg.Browser.CookiesPath == "" {
		cfg.Browser.CookiesPath = "./.cookies"
	}
	if cfg.Browser.ScreenshotDir == "" {
		cfg.Browser.ScreenshotDir = filepath.Join("logs", "screenshots")
	}
	if cfg.Browser.Timeout <= 0 {
		cfg.Browser.Timeout = 60 * time.Second
	}
}

//Validate required fields

// ValidateScoring checks what the scorer needs before it touches any job.
func (cfg *Config) ValidateScoring() error {
	if cfg.AI.APIKey == "" {
		return apperr.Config("API key for provider "+cfg.AI.Provider+" is required", nil)
	}
	return nil
}

func (cfg *Config) ValidateTelegram() error {
	if cfg.TelegramToken == "" {
		return apperr.Config("TELEGRAM_BOT_TOKEN is required", nil)
	}
	if cfg.TelegramChatID == 0 {
		return apperr.Config("TELEGRAM_CHAT_ID is required", nil)
	}
	return nil
}

func (cfg *Config) TelegramEnabled() bool {
	return cfg.ValidateTelegram() == nil
}

func (cfg *Config) ValidateDatabase() error {
	if cfg.DatabaseURL == "" {
		return apperr.Config("DATABASE_URL is required", nil)
	}
	return nil
}
