package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Settings struct {
	Env            string
	Port           string
	DatabaseDSN    string
	RedisAddr      string
	RedisPassword  string
	SendGridAPIKey string
	MailFrom       string
	SeedPath       string
	Timezone       string
	CORSOrigins    []string
	LogLevel       string
	LogFormat      string
}

var Cfg Settings

// Init loads an optional .env file, reads the settings and configures the logger.
func Init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		Logger.WithError(err).Warn("Failed to load .env file")
	}

	Cfg = Load()
	configureLogger(Cfg)

	Logger.WithFields(logrus.Fields{
		"env":  Cfg.Env,
		"port": Cfg.Port,
	}).Info("Configuration loaded")
}

func Load() Settings {
	return Settings{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		DatabaseDSN:    os.Getenv("DATABASE_DSN"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getEnv("MAIL_FROM", "no-reply@cyberaware.app"),
		SeedPath:       os.Getenv("SEED_PATH"),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}
}

func (s Settings) IsProduction() bool {
	return s.Env == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
