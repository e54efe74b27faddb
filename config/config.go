package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	ReviewChatID     int64  `envconfig:"REVIEW_CHAT_ID"     required:"true"`
	ChannelChatID    int64  `envconfig:"CHANNEL_CHAT_ID"    required:"true"`
	SuperAdminID     int64  `envconfig:"SUPER_ADMIN_ID"     required:"true"`
	DatabasePath     string `envconfig:"DATABASE_PATH"      default:"jobboard.db"`
	DefaultLanguage  string `envconfig:"DEFAULT_LANGUAGE"   default:"uz"`
	RedirectBaseURL  string `envconfig:"REDIRECT_BASE_URL"  required:"true"`
	ListenAddr       string `envconfig:"LISTEN_ADDR"        default:":8080"`
	ArtifactsDir     string `envconfig:"ARTIFACTS_DIR"      default:"artifacts"`
	TemplatesDir     string `envconfig:"TEMPLATES_DIR"      default:"templates"`
	SessionTTLMin    int    `envconfig:"SESSION_TTL_MINUTES" default:"60"`
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config
	err = envconfig.Process("", &cfg)
	if err != nil {
		log.Fatalf("Failed to process configuration: %v", err)
	}

	return cfg
}
