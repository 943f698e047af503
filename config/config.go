package config

import (
	"os"
	"strconv"
	"strings"
)

// AppConfig carries all runtime configuration, sourced from environment
// variables with sane defaults.
type AppConfig struct {
	AppPort string
	GinMode string

	// MySQL
	DatabaseURI string // full DSN; overrides the individual fields when set
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// Redis (session store)
	RedisHost       string
	RedisPort       int
	RedisDB         int
	RedisPassword   string
	SessionTTLHours int

	// Feed tuning
	PostsPerPage   int
	PrefetchFactor int // feed window = PostsPerPage * PrefetchFactor
	UploadLimitMB  int

	RateLimitPerMinute int
	AllowedOrigins     []string

	// Logging
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load reads configuration from environment variables. Call once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	cfg = AppConfig{
		AppPort: getEnv("PICFEED_PORT", "8080"),
		GinMode: getEnv("PICFEED_GIN_MODE", "release"),

		DatabaseURI: getEnv("PICFEED_DB_URI", ""),
		DBHost:      getEnv("PICFEED_DB_HOST", "localhost"),
		DBPort:      getEnv("PICFEED_DB_PORT", "3306"),
		DBUser:      getEnv("PICFEED_DB_USER", "root"),
		DBPassword:  getEnv("PICFEED_DB_PASSWORD", ""),
		DBName:      getEnv("PICFEED_DB_NAME", "picfeed"),

		RedisHost:       getEnv("PICFEED_REDIS_HOST", "localhost"),
		RedisPort:       getEnvInt("PICFEED_REDIS_PORT", 6379),
		RedisDB:         getEnvInt("PICFEED_REDIS_DB", 0),
		RedisPassword:   getEnv("PICFEED_REDIS_PASSWORD", ""),
		SessionTTLHours: getEnvInt("PICFEED_SESSION_TTL_HOURS", 24),

		PostsPerPage:   getEnvInt("PICFEED_POSTS_PER_PAGE", 20),
		PrefetchFactor: getEnvInt("PICFEED_PREFETCH_FACTOR", 2),
		UploadLimitMB:  getEnvInt("PICFEED_UPLOAD_LIMIT_MB", 10),

		RateLimitPerMinute: getEnvInt("PICFEED_RATE_LIMIT_PER_MINUTE", 30),
		AllowedOrigins:     getEnvList("PICFEED_ALLOWED_ORIGINS", []string{"*"}),

		LogLevel:      getEnv("PICFEED_LOG_LEVEL", "info"),
		LogPath:       getEnv("PICFEED_LOG_PATH", ""),
		LogMaxSizeMB:  getEnvInt("PICFEED_LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getEnvInt("PICFEED_LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("PICFEED_LOG_MAX_AGE_DAYS", 7),
		LogCompress:   getEnvBool("PICFEED_LOG_COMPRESS", false),
	}

	if cfg.PostsPerPage <= 0 {
		cfg.PostsPerPage = 20
	}
	if cfg.PrefetchFactor < 1 {
		cfg.PrefetchFactor = 2
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
