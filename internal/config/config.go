package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	Port           int
	MaxBodyBytes   int64
	WriteTimeout   time.Duration
	AllowedOrigins []string
	OTLPEndpoint   string

	Store StoreConfig
	Cache CacheConfig
	Mail  MailConfig

	SendConcurrency int
}

type StoreConfig struct {
	Backend          string // firestore | postgres | file
	CredentialsFile  string
	ProjectID        string
	DBURL            string
	ParticipantsFile string
}

type CacheConfig struct {
	Driver        string // none | memory | redis
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type MailConfig struct {
	Driver   string // smtp | log
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// LoadDotEnv reads a .env file into the process environment if one exists.
// Variables already set win.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

func Load() Config {
	env := getEnv("APP_ENV", "dev")

	// the log driver never delivers, so it is only used when asked for
	mail := MailConfig{
		Driver:   getEnv("MAIL_DRIVER", "smtp"),
		Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		Port:     getEnvInt("SMTP_PORT", 587),
		User:     os.Getenv("EMAIL_USER"),
		Password: os.Getenv("EMAIL_PASSWORD"),
	}
	mail.From = getEnv("EMAIL_FROM", "Event Team <"+mail.User+">")

	return Config{
		Env:            env,
		Port:           getEnvInt("PORT", 5000),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		// 0 leaves a bulk send unbounded; a timeout would drop the tally response
		WriteTimeout:   time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 0)) * time.Second,
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Store: StoreConfig{
			Backend:          getEnv("STORE_BACKEND", "firestore"),
			CredentialsFile:  getEnv("GOOGLE_APPLICATION_CREDENTIALS", "serviceAccountKey.json"),
			ProjectID:        os.Getenv("FIRESTORE_PROJECT_ID"),
			DBURL:            buildDBURL(),
			ParticipantsFile: getEnv("PARTICIPANTS_FILE", "participants.json"),
		},
		Cache: CacheConfig{
			Driver:        getEnv("CACHE_DRIVER", "none"),
			TTL:           time.Duration(getEnvInt("CACHE_TTL_SECONDS", 30)) * time.Second,
			RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Mail:            mail,
		SendConcurrency: getEnvInt("SEND_CONCURRENCY", 1),
	}
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "eventmail")
	pass := getEnv("DB_PASSWORD", "eventmail")
	name := getEnv("DB_NAME", "eventmail")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %s=%q is not an integer, using %d\n", key, v, fallback)
			return fallback
		}

		return num
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
