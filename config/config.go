package config

import (
	"flag"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultServerAddr      = ":8080"
	defaultDatabaseDSN     = ""
	defaultLogLevel        = "debug"
	defaultDuplicateWindow = 30
	minDuplicateWindow     = 5
	maxDuplicateWindow     = 30
	defaultSMTPPort        = 587
	defaultWSOrigin        = "http://localhost:3000"
	defaultTokenTTL        = 24 * time.Hour
)

type Config struct {
	ServerAddr      string
	DatabaseDSN     string
	LogLevel        string
	TokenKey        string
	TokenTTL        time.Duration
	DuplicateWindow time.Duration
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string
	SMTPFrom        string
	WSOrigin        string
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		// .env is optional, missing file is not an error
		_ = godotenv.Load()

		cfg := Config{
			TokenTTL: defaultTokenTTL,
			SMTPPort: defaultSMTPPort,
		}

		var windowMins int

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddr, "restaurant server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "restaurant database DSN")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.IntVar(&windowMins, "w", defaultDuplicateWindow, "duplicate order window in minutes")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if dsnEnv := os.Getenv("DATABASE_URI"); dsnEnv != "" {
			cfg.DatabaseDSN = dsnEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if windowEnv := os.Getenv("DUPLICATE_WINDOW_MINUTES"); windowEnv != "" {
			if v, err := strconv.Atoi(windowEnv); err == nil {
				windowMins = v
			}
		}

		// window is clamped to 5..30 minutes
		if windowMins < minDuplicateWindow {
			windowMins = minDuplicateWindow
		}
		if windowMins > maxDuplicateWindow {
			windowMins = maxDuplicateWindow
		}
		cfg.DuplicateWindow = time.Duration(windowMins) * time.Minute

		cfg.TokenKey = os.Getenv("JWT_SECRET")

		cfg.SMTPHost = os.Getenv("SMTP_HOST")
		if portEnv := os.Getenv("SMTP_PORT"); portEnv != "" {
			if v, err := strconv.Atoi(portEnv); err == nil {
				cfg.SMTPPort = v
			}
		}
		cfg.SMTPUser = os.Getenv("SMTP_USER")
		cfg.SMTPPass = os.Getenv("SMTP_PASS")
		cfg.SMTPFrom = os.Getenv("SMTP_FROM")
		if cfg.SMTPFrom == "" {
			cfg.SMTPFrom = cfg.SMTPUser
		}

		cfg.WSOrigin = defaultWSOrigin
		if originEnv := os.Getenv("FRONTEND_URL"); originEnv != "" {
			cfg.WSOrigin = originEnv
		}

		singleton = &cfg
	})

	return singleton, nil
}
