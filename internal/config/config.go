// Package config loads runtime settings from the environment, optionally
// seeded from .env.local and .env files in the working directory.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MaxLookupTimeout caps every outbound catalog request.
const MaxLookupTimeout = 10 * time.Second

type Config struct {
	// Storage
	DataDir    string
	BooksFile  string // $DATA_DIR/books.json unless set
	MoviesFile string // $DATA_DIR/movies.json unless set

	// Catalogs
	OpenLibraryURL string
	OpenLibraryRPS int
	GhibliURL      string
	OMDBURL        string
	OMDBAPIKey     string
	LookupTimeout  time.Duration
	LookupCacheTTL time.Duration // 0 disables the lookup cache
	UserAgent      string

	// Server
	Addr               string
	RateLimitRPS       float64
	RateLimitBurst     int
	CORSAllowedOrigins []string
	EnableHSTS         bool
	MaxBodyBytes       int64

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads .env.local and .env (real environment variables win) and builds
// a Config from the environment.
func Load() (*Config, error) {
	for _, f := range []string{".env.local", ".env"} {
		_ = godotenv.Load(f)
	}

	v := viper.New()
	v.AutomaticEnv()
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("OPENLIBRARY_URL", "https://openlibrary.org")
	v.SetDefault("OPENLIBRARY_RPS", 1)
	v.SetDefault("GHIBLI_URL", "https://ghibliapi.vercel.app")
	v.SetDefault("OMDB_URL", "http://www.omdbapi.com")
	v.SetDefault("LOOKUP_TIMEOUT", "10s")
	v.SetDefault("LOOKUP_CACHE_TTL", "0s")
	v.SetDefault("USER_AGENT", "shelf/1.0")
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("ENABLE_HSTS", false)
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func fromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	dataDir := v.GetString("DATA_DIR")
	cfg := &Config{
		DataDir:    dataDir,
		BooksFile:  v.GetString("BOOKS_FILE"),
		MoviesFile: v.GetString("MOVIES_FILE"),

		OpenLibraryURL: v.GetString("OPENLIBRARY_URL"),
		OpenLibraryRPS: v.GetInt("OPENLIBRARY_RPS"),
		GhibliURL:      v.GetString("GHIBLI_URL"),
		OMDBURL:        v.GetString("OMDB_URL"),
		OMDBAPIKey:     v.GetString("OMDB_API_KEY"),
		LookupTimeout:  v.GetDuration("LOOKUP_TIMEOUT"),
		LookupCacheTTL: v.GetDuration("LOOKUP_CACHE_TTL"),
		UserAgent:      v.GetString("USER_AGENT"),

		Addr:               v.GetString("APP_ADDR"),
		RateLimitRPS:       v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		EnableHSTS:         v.GetBool("ENABLE_HSTS"),
		MaxBodyBytes:       v.GetInt64("MAX_BODY_BYTES"),

		JWTSecret: v.GetString("SHELF_JWT_SECRET"),
		TokenTTL:  v.GetDuration("TOKEN_TTL"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}

	if cfg.BooksFile == "" {
		cfg.BooksFile = filepath.Join(dataDir, "books.json")
	}
	if cfg.MoviesFile == "" {
		cfg.MoviesFile = filepath.Join(dataDir, "movies.json")
	}
	if cfg.LookupTimeout <= 0 || cfg.LookupTimeout > MaxLookupTimeout {
		cfg.LookupTimeout = MaxLookupTimeout
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must not be negative, got %d", c.RateLimitBurst)
	}
	if c.LookupCacheTTL < 0 {
		return fmt.Errorf("LOOKUP_CACHE_TTL must not be negative, got %s", c.LookupCacheTTL)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
