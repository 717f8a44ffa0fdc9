package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Bot      BotConfig
	API      APIConfig
	Ton      TonConfig
	Game     GameConfig
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"
}

type DatabaseConfig struct {
	Path string // single-file SQLite database
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

type BotConfig struct {
	Token    string
	AdminID  int64
	Username string
}

type APIConfig struct {
	Key string
}

type TonConfig struct {
	WalletAddress string
	APIBase       string
	APIKey        string
	APITimeout    time.Duration

	// Reconciliation tuning.
	PollInterval    time.Duration
	PendingTTL      time.Duration
	AmountTolerance int64 // nano-units either side of the expected amount
	ConfirmTimeout  time.Duration
	ListLimit       int
	ListMaxPages    int
	TonToUSDRate    float64
}

type GameConfig struct {
	WinningDiceValue int
	HitPoints        int
	WelcomeBonus     int
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("DB_PATH", "cgspins.db")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("TON_API_BASE", "https://tonapi.io")
	viper.SetDefault("TON_API_TIMEOUT", "30s")
	viper.SetDefault("TON_POLL_INTERVAL", "15s")
	viper.SetDefault("TON_PAYMENT_EXPIRY", "1h")
	viper.SetDefault("TON_AMOUNT_TOLERANCE_NANO", 1)
	viper.SetDefault("TON_CONFIRM_TIMEOUT", "3s")
	viper.SetDefault("TON_LIST_LIMIT", 100)
	viper.SetDefault("TON_LIST_MAX_PAGES", 5)
	viper.SetDefault("TON_TO_USD_RATE", 5.0)
	viper.SetDefault("WINNING_DICE_VALUE", 64)
	viper.SetDefault("HIT_POINTS", 10)
	viper.SetDefault("REFERRAL_WELCOME_BONUS", 2)

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Path: viper.GetString("DB_PATH"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
		Bot: BotConfig{
			Token:    viper.GetString("BOT_TOKEN"),
			AdminID:  viper.GetInt64("BOT_ADMIN_ID"),
			Username: viper.GetString("BOT_USERNAME"),
		},
		API: APIConfig{
			Key: viper.GetString("API_KEY"),
		},
		Ton: TonConfig{
			WalletAddress:   viper.GetString("TON_WALLET_ADDRESS"),
			APIBase:         viper.GetString("TON_API_BASE"),
			APIKey:          viper.GetString("TON_API_KEY"),
			APITimeout:      viper.GetDuration("TON_API_TIMEOUT"),
			PollInterval:    viper.GetDuration("TON_POLL_INTERVAL"),
			PendingTTL:      viper.GetDuration("TON_PAYMENT_EXPIRY"),
			AmountTolerance: viper.GetInt64("TON_AMOUNT_TOLERANCE_NANO"),
			ConfirmTimeout:  viper.GetDuration("TON_CONFIRM_TIMEOUT"),
			ListLimit:       viper.GetInt("TON_LIST_LIMIT"),
			ListMaxPages:    viper.GetInt("TON_LIST_MAX_PAGES"),
			TonToUSDRate:    viper.GetFloat64("TON_TO_USD_RATE"),
		},
		Game: GameConfig{
			WinningDiceValue: viper.GetInt("WINNING_DICE_VALUE"),
			HitPoints:        viper.GetInt("HIT_POINTS"),
			WelcomeBonus:     viper.GetInt("REFERRAL_WELCOME_BONUS"),
		},
	}

	if cfg.Bot.Token == "" {
		log.Println("WARNING: BOT_TOKEN is not set")
	}
	if cfg.Ton.WalletAddress == "" {
		log.Println("WARNING: TON_WALLET_ADDRESS is not set")
	}

	return cfg, nil
}
