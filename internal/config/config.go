package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone     = "UTC"
	configPathEnv       = "FACTSIFT_CONFIG"
	googleAPIKeyEnv     = "GOOGLE_API_KEY"
	geminiModelEnv      = "GEMINI_MODEL"
	factCheckAPIKeyEnv  = "GOOGLE_FACT_CHECK_API_KEY"
	serperAPIKeyEnv     = "SERPER_API_KEY"
	databasePathEnv     = "DATABASE_PATH"
	telegramTokenEnv    = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv   = "TELEGRAM_CHAT_ID"
	notionTokenEnv      = "NOTION_TOKEN"
	notionParentPageEnv = "NOTION_PARENT_PAGE_ID"
	publishToNotionEnv  = "PUBLISH_TO_NOTION"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Gemini        GeminiConfig       `yaml:"gemini"`
	Serper        SerperConfig       `yaml:"serper"`
	FactCheck     FactCheckConfig    `yaml:"factcheck"`
	Scraper       ScraperConfig      `yaml:"scraper"`
	Analysis      AnalysisConfig     `yaml:"analysis"`
	Database      DatabaseConfig     `yaml:"database"`
	Notifications NotificationConfig `yaml:"notifications"`
	Notion        NotionConfig       `yaml:"notion"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GeminiConfig defines how to contact the Gemini API.
type GeminiConfig struct {
	Endpoint       string  `yaml:"endpoint"`
	Model          string  `yaml:"model"`
	APIKey         string  `yaml:"apiKey"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeoutSeconds"`
}

// SerperConfig defines how to reach the web search API.
type SerperConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"apiKey"`
	MaxResults int    `yaml:"maxResults"`
}

// FactCheckConfig defines how to reach the claim review registry.
type FactCheckConfig struct {
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"apiKey"`
	Language       string `yaml:"language"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// ScraperConfig controls page downloading and content extraction.
type ScraperConfig struct {
	MaxContentLength    int     `yaml:"maxContentLength"`
	RequestDelaySeconds float64 `yaml:"requestDelaySeconds"`
	TimeoutSeconds      int     `yaml:"timeoutSeconds"`
}

// RequestDelay returns the pause inserted between page downloads.
func (s ScraperConfig) RequestDelay() time.Duration {
	return secondsToDuration(s.RequestDelaySeconds)
}

// AnalysisConfig paces the LLM stages and locates run artifacts.
type AnalysisConfig struct {
	SummaryDelaySeconds   float64 `yaml:"summaryDelaySeconds"`
	FactCheckDelaySeconds float64 `yaml:"factcheckDelaySeconds"`
	ClassifyDelaySeconds  float64 `yaml:"classifyDelaySeconds"`
	TempDir               string  `yaml:"tempDir"`
}

// SummaryDelay returns the pause inserted between summarization calls.
func (a AnalysisConfig) SummaryDelay() time.Duration {
	return secondsToDuration(a.SummaryDelaySeconds)
}

// FactCheckDelay returns the pause inserted between fact-check lookups.
func (a AnalysisConfig) FactCheckDelay() time.Duration {
	return secondsToDuration(a.FactCheckDelaySeconds)
}

// ClassifyDelay returns the pause inserted between classification calls.
func (a AnalysisConfig) ClassifyDelay() time.Duration {
	return secondsToDuration(a.ClassifyDelaySeconds)
}

// DatabaseConfig locates the SQLite history database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// NotionConfig wires the optional knowledge-base publisher.
type NotionConfig struct {
	Token        string `yaml:"token"`
	ParentPageID string `yaml:"parentPageId"`
	Publish      bool   `yaml:"publish"`
}

// SchedulerConfig defines when watch mode re-runs its topics.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	Topics         []string       `yaml:"topics"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// Load reads YAML configuration (if present) and applies environment
// overrides. An explicit path wins over the FACTSIFT_CONFIG variable.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
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
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(googleAPIKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}

	if v := os.Getenv(geminiModelEnv); v != "" {
		c.Gemini.Model = v
	}

	if v := os.Getenv(factCheckAPIKeyEnv); v != "" {
		c.FactCheck.APIKey = v
	}

	if v := os.Getenv(serperAPIKeyEnv); v != "" {
		c.Serper.APIKey = v
	}

	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(notionTokenEnv); v != "" {
		c.Notion.Token = v
	}

	if v := os.Getenv(notionParentPageEnv); v != "" {
		c.Notion.ParentPageID = v
	}

	if v := os.Getenv(publishToNotionEnv); v != "" {
		c.Notion.Publish = strings.EqualFold(strings.TrimSpace(v), "true")
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Gemini.Endpoint != "" {
		base.Gemini.Endpoint = override.Gemini.Endpoint
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}
	if override.Gemini.Temperature > 0 {
		base.Gemini.Temperature = override.Gemini.Temperature
	}
	if override.Gemini.TimeoutSeconds > 0 {
		base.Gemini.TimeoutSeconds = override.Gemini.TimeoutSeconds
	}

	if override.Serper.Endpoint != "" {
		base.Serper.Endpoint = override.Serper.Endpoint
	}
	if override.Serper.APIKey != "" {
		base.Serper.APIKey = override.Serper.APIKey
	}
	if override.Serper.MaxResults > 0 {
		base.Serper.MaxResults = override.Serper.MaxResults
	}

	if override.FactCheck.Endpoint != "" {
		base.FactCheck.Endpoint = override.FactCheck.Endpoint
	}
	if override.FactCheck.APIKey != "" {
		base.FactCheck.APIKey = override.FactCheck.APIKey
	}
	if override.FactCheck.Language != "" {
		base.FactCheck.Language = override.FactCheck.Language
	}
	if override.FactCheck.TimeoutSeconds > 0 {
		base.FactCheck.TimeoutSeconds = override.FactCheck.TimeoutSeconds
	}

	if override.Scraper.MaxContentLength > 0 {
		base.Scraper.MaxContentLength = override.Scraper.MaxContentLength
	}
	if override.Scraper.RequestDelaySeconds > 0 {
		base.Scraper.RequestDelaySeconds = override.Scraper.RequestDelaySeconds
	}
	if override.Scraper.TimeoutSeconds > 0 {
		base.Scraper.TimeoutSeconds = override.Scraper.TimeoutSeconds
	}

	if override.Analysis.SummaryDelaySeconds > 0 {
		base.Analysis.SummaryDelaySeconds = override.Analysis.SummaryDelaySeconds
	}
	if override.Analysis.FactCheckDelaySeconds > 0 {
		base.Analysis.FactCheckDelaySeconds = override.Analysis.FactCheckDelaySeconds
	}
	if override.Analysis.ClassifyDelaySeconds > 0 {
		base.Analysis.ClassifyDelaySeconds = override.Analysis.ClassifyDelaySeconds
	}
	if override.Analysis.TempDir != "" {
		base.Analysis.TempDir = override.Analysis.TempDir
	}

	if override.Database.Path != "" {
		base.Database.Path = override.Database.Path
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Notion.Token != "" {
		base.Notion.Token = override.Notion.Token
	}
	if override.Notion.ParentPageID != "" {
		base.Notion.ParentPageID = override.Notion.ParentPageID
	}
	if override.Notion.Publish {
		base.Notion.Publish = true
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}
	if len(override.Scheduler.Topics) > 0 {
		base.Scheduler.Topics = override.Scheduler.Topics
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Gemini: GeminiConfig{
			Endpoint:       "https://generativelanguage.googleapis.com",
			Model:          "gemini-1.5-flash",
			APIKey:         "",
			Temperature:    0.2,
			TimeoutSeconds: 30,
		},
		Serper: SerperConfig{
			Endpoint:   "https://google.serper.dev/search",
			APIKey:     "",
			MaxResults: 10,
		},
		FactCheck: FactCheckConfig{
			Endpoint:       "https://factchecktools.googleapis.com/v1alpha1/claims:search",
			APIKey:         "",
			Language:       "en",
			TimeoutSeconds: 10,
		},
		Scraper: ScraperConfig{
			MaxContentLength:    5000,
			RequestDelaySeconds: 1.0,
			TimeoutSeconds:      10,
		},
		Analysis: AnalysisConfig{
			SummaryDelaySeconds:   0.5,
			FactCheckDelaySeconds: 1.0,
			ClassifyDelaySeconds:  0.5,
			TempDir:               "temp",
		},
		Database: DatabaseConfig{Path: "articles.db"},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		Notion:    NotionConfig{Token: "", ParentPageID: "", Publish: false},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
	}
}

func secondsToDuration(seconds float64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
