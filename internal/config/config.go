package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Допустимые значения Backend.
const (
	BackendRemote    = "remote"
	BackendFirestore = "firestore"
)

type Config struct {
	// Server-side settings
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	AMQPURL     string `env:"AMQP_URL"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	Debug       bool   `env:"DEBUG"`

	// Client-side settings
	ServerURL        string `env:"-"`
	Backend          string `env:"INVENTORY_BACKEND"`
	FirestoreProject string `env:"FIRESTORE_PROJECT"`
	ConfigDir        string `env:"MEDISTOCK_CONFIG_DIR"`
	Version          bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres://... или file:...)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.AMQPURL, "amqp-url", cfg.AMQPURL, "адрес RabbitMQ для публикации событий (пусто — не публиковать)")
	// Shared flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the MediStock backend (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: use https scheme for BaseURL)")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "verbose logging")
	// Client flags
	flag.StringVar(&cfg.Backend, "backend", cfg.Backend, "inventory backend: remote|firestore")
	flag.StringVar(&cfg.FirestoreProject, "firestore-project", cfg.FirestoreProject, "Google Cloud project for the firestore backend")
	flag.StringVar(&cfg.ConfigDir, "config-dir", cfg.ConfigDir, "directory for the auth token and last login (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	applyDefaults(cfg)
	return cfg
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

// applyDefaults заполняет незаданные поля значениями по умолчанию.
func applyDefaults(cfg *Config) {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "file:medistock.db"
	}
	// BaseURL должен быть в виде "address:port" (без схемы и пути), иначе берём значение по умолчанию.
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}
	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.Backend != BackendFirestore {
		cfg.Backend = BackendRemote
	}

	if cfg.ConfigDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.ConfigDir = filepath.Join(dir, "MediStock")
		}
	}
}
