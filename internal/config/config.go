package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. The struct is built once in main and passed by value
// to the components that need it; nothing mutates it afterwards.
type Config struct {
	Env            string   // application environment (e.g. "dev", "prod")
	Port           string   // HTTP port to listen on
	DBUser         string   // database username
	DBPass         string   // database password (optional)
	DBHost         string   // database host address
	DBPort         string   // database port number
	DBName         string   // database name
	JWTSecret      string   // secret used to sign and verify JWTs
	AccessTTLMin   int      // access token time-to-live in minutes
	RefreshTTLDays int      // refresh token time-to-live in days
	ResetTTLMin    int      // password-reset token time-to-live in minutes
	BcryptCost     int      // bcrypt cost for password hashing
	AllowedOrigins []string // CORS allowed origins
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values cause
// the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   intOr("ACCESS_TOKEN_TTL_MIN", 30),
		RefreshTTLDays: intOr("REFRESH_TOKEN_TTL_DAYS", 7),
		ResetTTLMin:    intOr("RESET_TOKEN_TTL_MIN", 60),
		BcryptCost:     intOr("BCRYPT_COST", 10),
		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr converts an optional environment variable to an int, falling back to
// def when unset. An unparsable value is a configuration mistake and fatal.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
