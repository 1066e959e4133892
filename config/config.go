package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Ollama    OllamaConfig    `mapstructure:"ollama"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Coach     CoachConfig     `mapstructure:"coach"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Server    ServerConfig    `mapstructure:"server"`
}

type TelegramConfig struct {
	Token   string `mapstructure:"token"`
	Enabled bool   `mapstructure:"enabled"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LLM provider selection
type LLMConfig struct {
	Provider string `mapstructure:"provider"` // "ollama", "openai" or "none"
}

type OllamaConfig struct {
	Host    string `mapstructure:"host"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

type OpenAIConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	BaseURL   string `mapstructure:"base_url"`   // Optional, defaults to OpenAI API
	MaxTokens int    `mapstructure:"max_tokens"`
	Timeout   int    `mapstructure:"timeout"`
}

// CoachConfig holds behaviour knobs of the coaching engine itself.
type CoachConfig struct {
	// Timezone is the reference location for streaks and reminder windows.
	// Empty means the process-local zone.
	Timezone string `mapstructure:"timezone"`
}

// SchedulerConfig carries the cron specs of the three outreach sweeps.
type SchedulerConfig struct {
	ReminderSpec     string `mapstructure:"reminder_spec"`
	ReengagementSpec string `mapstructure:"reengagement_spec"`
	RecapSpec        string `mapstructure:"recap_spec"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.BindEnv("telegram.token", "TELEGRAM_TOKEN")
	viper.BindEnv("openai.api_key", "COACHPRO_OPENAI_API_KEY")
	viper.BindEnv("openai.model", "OPENAI_MODEL")
	viper.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	viper.BindEnv("llm.provider", "LLM_PROVIDER")

	viper.SetDefault("telegram.enabled", true)
	viper.SetDefault("database.path", "./coach_pro.db")

	viper.SetDefault("llm.provider", "none")

	viper.SetDefault("ollama.host", "http://localhost:11434")
	viper.SetDefault("ollama.model", "llama3.2")
	viper.SetDefault("ollama.timeout", 30)

	viper.SetDefault("openai.timeout", 30)
	viper.SetDefault("openai.max_tokens", 300)

	viper.SetDefault("coach.timezone", "")

	// Half-hourly reminder window scan, nightly inactivity scan,
	// Monday morning recap.
	viper.SetDefault("scheduler.reminder_spec", "*/30 * * * *")
	viper.SetDefault("scheduler.reengagement_spec", "0 20 * * *")
	viper.SetDefault("scheduler.recap_spec", "0 8 * * 1")

	viper.SetDefault("server.port", "8080")

	// Allow environment variables
	viper.SetEnvPrefix("COACHPRO")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found, use defaults
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
