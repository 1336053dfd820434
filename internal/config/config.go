package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env      string
	HTTPPort string

	// Client settings.
	BaseURL     string
	HTTPTimeout time.Duration
	SessionDir  string

	// Static coordinates used by the dev location fixer.
	FixLatitude  float64
	FixLongitude float64
	FixDelay     time.Duration

	// Server settings.
	JWTIssuer       string
	JWTSigningKey   string
	AccessTTL       time.Duration
	RedisAddr       string
	DatabaseURL     string
	StateBackend    string
	RateLimitPerMin int
	DevEmail        string
	DevPassword     string
	DevName         string
}

// Load returns application config populated from environment variables with
// sensible defaults. A .env file in the working directory is read first when
// present.
func Load() App {
	_ = godotenv.Load()

	return App{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("HTTP_PORT", "3000"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:3000"),
		HTTPTimeout:     durationEnv("HTTP_TIMEOUT", 10*time.Second),
		SessionDir:      getEnv("SESSION_DIR", defaultSessionDir()),
		FixLatitude:     floatEnv("FIX_LATITUDE", 12.971599),
		FixLongitude:    floatEnv("FIX_LONGITUDE", 77.594566),
		FixDelay:        durationEnv("FIX_DELAY", 0),
		JWTIssuer:       getEnv("JWT_ISSUER", "presence"),
		JWTSigningKey:   getEnv("JWT_SIGNING_KEY", "dev-signing-secret-change"),
		AccessTTL:       durationEnv("ACCESS_TTL", 12*time.Hour),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		StateBackend:    getEnv("STATE_BACKEND", "memory"),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 120),
		DevEmail:        getEnv("DEV_EMAIL", "dev@example.com"),
		DevPassword:     getEnv("DEV_PASSWORD", "secret1"),
		DevName:         getEnv("DEV_NAME", "Dev User"),
	}
}

func defaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".presence"
	}
	return filepath.Join(home, ".presence")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func floatEnv(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		var parsed float64
		if _, err := fmt.Sscanf(val, "%g", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid float for %s, using fallback %g", key, fallback)
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
