package config

import (
	"context"
	"os"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

var Logger = logrus.New()

func configureLogger(s Settings) {
	Logger.SetOutput(os.Stdout)

	if s.LogFormat == "json" || s.IsProduction() {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		Logger.WithError(err).Warnf("Invalid LOG_LEVEL %q, falling back to info", s.LogLevel)
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
}

// WithContext returns a logger carrying the request id and the
// authenticated user id found in ctx.
func WithContext(ctx context.Context) logrus.FieldLogger {
	entry := logrus.NewEntry(Logger)
	if ctx == nil {
		return entry
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		entry = entry.WithField("request_id", reqID)
	}
	if userID, ok := ctx.Value(userIDKey).(uint); ok && userID != 0 {
		entry = entry.WithField("user_id", userID)
	}
	return entry
}

func ContextWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
