package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func init() {
	// Optional .env next to the binary. A missing file is not an error.
	_ = godotenv.Load()
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("TP_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("TP_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("TP_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/taskpanel"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("TP_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

func GetListen() string {
	return os.Getenv("TP_WEB_LISTEN")
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("TP_WEB_PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return 8080
	}
	return port
}

// GetWebDomain returns the expected Host header value, or "" when host
// validation is disabled.
func GetWebDomain() string {
	return os.Getenv("TP_WEB_DOMAIN")
}

// GetSessionSecret returns the cookie-signing secret. Empty means the caller
// should generate an ephemeral one, which invalidates sessions on restart.
func GetSessionSecret() string {
	return os.Getenv("TP_SESSION_SECRET")
}

func GetTimeLocation() (*time.Location, error) {
	locName := os.Getenv("TP_TIME_LOCATION")
	if locName == "" {
		return time.Local, nil
	}
	return time.LoadLocation(locName)
}

func GetSMTPHost() string {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	return host
}

func GetSMTPPort() int {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return 587
	}
	return port
}

// GetMailUsername returns the relay account, also used as the From address.
func GetMailUsername() string {
	return os.Getenv("MAIL_USERNAME")
}

func GetMailPassword() string {
	return os.Getenv("MAIL_PASSWORD")
}
