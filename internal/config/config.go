package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Seed      SeedConfig      `yaml:"seed" mapstructure:"seed"`
	Chat      ChatConfig      `yaml:"chat" mapstructure:"chat"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Email     EmailConfig     `yaml:"email" mapstructure:"email"`
	Messaging MessagingConfig `yaml:"messaging" mapstructure:"messaging"`
	Notify    NotifyConfig    `yaml:"notify" mapstructure:"notify"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SeedConfig configures the startup fetch of company pages.
type SeedConfig struct {
	URLs             []string `yaml:"urls" mapstructure:"urls"`
	SnippetChars     int      `yaml:"snippet_chars" mapstructure:"snippet_chars"`
	FetchTimeoutSecs int      `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
	RatePerSec       float64  `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	UserAgent        string   `yaml:"user_agent" mapstructure:"user_agent"`
}

// ChatConfig configures per-request chat behavior.
type ChatConfig struct {
	HistoryWindow int    `yaml:"history_window" mapstructure:"history_window"`
	RepliesPath   string `yaml:"replies_path" mapstructure:"replies_path"`
}

// StoreConfig configures transcript persistence.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Dir         string `yaml:"dir" mapstructure:"dir"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// EmailConfig configures the outbound email channel.
type EmailConfig struct {
	Provider     string `yaml:"provider" mapstructure:"provider"`
	SendgridKey  string `yaml:"sendgrid_key" mapstructure:"sendgrid_key"`
	SMTPHost     string `yaml:"smtp_host" mapstructure:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port" mapstructure:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username" mapstructure:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password" mapstructure:"smtp_password"`
	From         string `yaml:"from" mapstructure:"from"`
	CompanyTo    string `yaml:"company_to" mapstructure:"company_to"`
}

// MessagingConfig configures the outbound messaging channel.
type MessagingConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"`
	WhatsAppToken  string `yaml:"whatsapp_token" mapstructure:"whatsapp_token"`
	PhoneNumberID  string `yaml:"phone_number_id" mapstructure:"phone_number_id"`
	GraphBaseURL   string `yaml:"graph_base_url" mapstructure:"graph_base_url"`
	CompanyNumber  string `yaml:"company_number" mapstructure:"company_number"`
	CountryPrefix  string `yaml:"country_prefix" mapstructure:"country_prefix"`
	TelegramToken  string `yaml:"telegram_token" mapstructure:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id" mapstructure:"telegram_chat_id"`
}

// NotifyConfig configures the background notification dispatcher.
type NotifyConfig struct {
	QueueSize int `yaml:"queue_size" mapstructure:"queue_size"`
}

// Load reads configuration from .env, config file, and environment.
func Load() (*Config, error) {
	// Optional .env for local development.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CHATBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 200)
	v.SetDefault("seed.urls", []string{
		"https://sozhaa.tech/",
		"https://sozhaa.tech/about",
		"https://sozhaa.tech/services",
		"https://sozhaa.tech/contact",
	})
	v.SetDefault("seed.snippet_chars", 1500)
	v.SetDefault("seed.fetch_timeout_secs", 8)
	v.SetDefault("seed.rate_per_sec", 2.0)
	v.SetDefault("seed.user_agent", "SozhaaBot/1.0 (+https://sozhaa.tech)")
	v.SetDefault("chat.history_window", 3)
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.dir", "chat_data")
	v.SetDefault("email.provider", "sendgrid")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.from", "chatbotsozhaatech@gmail.com")
	v.SetDefault("email.company_to", "groupsozhaa@gmail.com")
	v.SetDefault("messaging.provider", "whatsapp")
	v.SetDefault("messaging.graph_base_url", "https://graph.facebook.com/v22.0")
	v.SetDefault("messaging.company_number", "+917094062522")
	v.SetDefault("messaging.country_prefix", "+91")
	v.SetDefault("notify.queue_size", 64)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
