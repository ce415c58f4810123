package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port           string
	DatabaseDriver string
	DatabaseURL    string

	JWTSecret string
	TokenTTL  time.Duration

	UploadDir string
	S3Bucket  string
	AWSRegion string

	RedisAddr     string
	StatsCacheTTL time.Duration

	SendGridAPIKey string
	NotifyFrom     string
	NotifyTo       string

	CORSOrigins   []string
	AdminEmail    string
	AdminPassword string

	LogLevel  string
	LogFormat string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded, using process environment")
	}

	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:           getEnv("PORT", "3001"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite3"),
		DatabaseURL:    getEnv("DATABASE_URL", "afyaconnect.db"),
		JWTSecret:      secret,
		TokenTTL:       getEnvDuration("TOKEN_TTL", 24*time.Hour),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		AWSRegion:      getEnv("AWS_REGION", "eu-west-1"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		StatsCacheTTL:  getEnvDuration("STATS_CACHE_TTL", 5*time.Minute),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		NotifyFrom:     getEnv("NOTIFY_FROM", "no-reply@afyaconnect.co.ke"),
		NotifyTo:       getEnv("NOTIFY_TO", "inquiries@afyaconnect.co.ke"),
		CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}, nil
}

// jwtSecret requires JWT_SECRET in release mode. Elsewhere a missing secret
// is replaced by a random one, so tokens do not survive a restart.
func jwtSecret() (string, error) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return secret, nil
	}
	if os.Getenv(gin.EnvGinMode) == gin.ReleaseMode {
		return "", errors.New("JWT_SECRET must be set in release mode")
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "could not generate a jwt secret")
	}
	log.Warn("JWT_SECRET is not set, using a random per-process secret")
	return hex.EncodeToString(buf), nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// plain integers are seconds
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.WithField("key", key).Warnf("invalid duration %q, using %s", value, defaultValue)
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
