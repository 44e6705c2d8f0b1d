package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// server config
	APP_PORT string
	TIMEZONE string
	// local storage config
	LOCAL_DB_DRIVER      string
	LOCAL_DB_PATH        string
	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_CONN_MAX_LIFETIME time.Duration
	DB_MAX_IDLE_CONNS    int
	DB_MAX_OPEN_CONNS    int
	// remote document config
	DATASTORE_PROJECT_ID string
	DATASTORE_KIND       string
	DATASTORE_DOC_NAME   string
	SYNC_DEBOUNCE        time.Duration
	SYNC_POLL_INTERVAL   time.Duration
	// report config
	TEMPLATE_PATH      string
	TEMPLATE_URL       string
	REPORT_LAYOUT_PATH string
	// search index config
	ELASTIC_URL   string
	ELASTIC_INDEX string
	// notifier config
	TELEGRAM_TOKEN   string
	TELEGRAM_CHAT_ID int64
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
}

// LoadEnvConfig reads .env (when present) and the process environment.
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	DefaultEnvConfig = &envConfig{
		APP_PORT:             getEnvString("APP_PORT", "8080"),
		TIMEZONE:             getEnvString("TIMEZONE", "Africa/Cairo"),
		LOCAL_DB_DRIVER:      getEnvString("LOCAL_DB_DRIVER", "sqlite3"),
		LOCAL_DB_PATH:        getEnvString("LOCAL_DB_PATH", "timekeeper.db"),
		DB_HOST:              getEnvString("DB_HOST", "localhost"),
		DB_PORT:              getEnvInt("DB_PORT", 5432),
		DB_USER:              getEnvString("DB_USER", "postgres"),
		DB_PASSWORD:          getEnvString("DB_PASSWORD", "postgres"),
		DB_NAME:              getEnvString("DB_NAME", "timekeeper"),
		DB_SSL_MODE:          getEnvString("DB_SSL_MODE", "disable"),
		DB_CONN_MAX_LIFETIME: getEnvDuration("DB_CONN_MAX_LIFETIME", 20*time.Minute),
		DB_MAX_IDLE_CONNS:    getEnvInt("DB_MAX_IDLE_CONNS", 2),
		DB_MAX_OPEN_CONNS:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DATASTORE_PROJECT_ID: getEnvString("DATASTORE_PROJECT_ID", ""),
		DATASTORE_KIND:       getEnvString("DATASTORE_KIND", "data"),
		DATASTORE_DOC_NAME:   getEnvString("DATASTORE_DOC_NAME", "master"),
		SYNC_DEBOUNCE:        getEnvDuration("SYNC_DEBOUNCE", 2*time.Second),
		SYNC_POLL_INTERVAL:   getEnvDuration("SYNC_POLL_INTERVAL", 5*time.Second),
		TEMPLATE_PATH:        getEnvString("TEMPLATE_PATH", "Daily Attendance 2.xlsx"),
		TEMPLATE_URL:         getEnvString("TEMPLATE_URL", ""),
		REPORT_LAYOUT_PATH:   getEnvString("REPORT_LAYOUT_PATH", ""),
		ELASTIC_URL:          getEnvString("ELASTIC_URL", ""),
		ELASTIC_INDEX:        getEnvString("ELASTIC_INDEX", "attendance"),
		TELEGRAM_TOKEN:       getEnvString("TELEGRAM_TOKEN", ""),
		TELEGRAM_CHAT_ID:     getEnvInt64("TELEGRAM_CHAT_ID", 0),
		LOG_FILE_PATH:        getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:            strings.ToLower(getEnvString("LOG_LEVEL", "info")),
	}
	return nil
}

// Location resolves TIMEZONE, falling back to the host zone.
func (c *envConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TIMEZONE)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
