package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIURL is the public SNCF availability simulator.
const DefaultAPIURL = "https://sncf-simulateur-api-prod.azurewebsites.net/api"

// DefaultUserAgent is sent on every provider request.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 6.1; Win64; x64) Gecko/20100101 Firefox/81.0"

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Provider
	APIURL      string        // base URL of the availability API
	UserAgent   string        // User-Agent header for provider calls
	HTTPTimeout time.Duration // 0 => transport default (no client timeout)
	Timezone    string        // location of the provider's naive datetimes

	// Watches
	CheckInterval   time.Duration // default period between two checks of a trip
	FirstCheckDelay time.Duration // delay before the first check of a new trip
	ProfilesFile    string        // optional YAML profiles, empty => everyone allowed

	// Telegram
	TelegramToken       string // empty => notifications are only logged
	TelegramAPIEndpoint string // optional, ex: "https://api.telegram.org/bot%s/%s"

	// Redis search cache (optional)
	RedisAddr           string        // empty => no cache
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int           // connection pool size
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, doubles each attempt
	RedisMaxWait        time.Duration // cap on the wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt
	RedisWarnAttempts   int           // failed attempts logged as warnings before errors
	SearchCacheTTL      time.Duration // lifetime of a cached provider response

	AllowedCIDRS []string // optional, restrict access to the API
	TrustProxy   bool     // true => trust X-Forwarded-For headers

	RateLimitBurst  int // trip creations allowed at once per client IP
	RateLimitPerMin int // trip creations refilled per minute per client IP
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("TGVMAX_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("TGVMAX_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("TGVMAX_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TGVMAX_PRETTY_LOG", true),

		// Provider
		APIURL:      strings.TrimRight(getenv("TGVMAX_API_URL", DefaultAPIURL), "/"),
		UserAgent:   getenv("TGVMAX_USER_AGENT", DefaultUserAgent),
		HTTPTimeout: mustDuration("TGVMAX_HTTP_TIMEOUT", 0),
		Timezone:    getenv("TGVMAX_TIMEZONE", "Europe/Paris"),

		// Watches
		CheckInterval:   mustDuration("TGVMAX_CHECK_INTERVAL", 10*time.Minute),
		FirstCheckDelay: mustDuration("TGVMAX_FIRST_CHECK_DELAY", 10*time.Second),
		ProfilesFile:    getenv("TGVMAX_PROFILES_FILE", ""),

		// Telegram
		TelegramToken:       getenv("TGVMAX_TELEGRAM_TOKEN", ""),
		TelegramAPIEndpoint: getenv("TGVMAX_TELEGRAM_API_ENDPOINT", ""),

		// Redis settings
		RedisAddr:           getenv("TGVMAX_REDIS_ADDR", ""),
		RedisUser:           getenv("TGVMAX_REDIS_USERNAME", ""),
		RedisPassword:       getenv("TGVMAX_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("TGVMAX_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnAttempts:   getenvInt("REDIS_WARN_ATTEMPTS", 3),
		SearchCacheTTL:      mustDuration("TGVMAX_SEARCH_CACHE_TTL", time.Minute),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("TGVMAX_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("TGVMAX_TRUST_PROXY", false),

		// Trip creation rate limit
		RateLimitBurst:  getenvInt("TGVMAX_RATE_LIMIT_BURST", 5),
		RateLimitPerMin: getenvInt("TGVMAX_RATE_LIMIT_PER_MIN", 10),
	}

	if cfg.CheckInterval <= 0 {
		panic(fmt.Sprintf("❌ FATAL: TGVMAX_CHECK_INTERVAL must be > 0, got %v", cfg.CheckInterval))
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid TGVMAX_TIMEZONE %q: %v", cfg.Timezone, err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = redact(cfg.RedisPassword)
		cfgCopy.TelegramToken = redact(cfg.TelegramToken)
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// Location returns the configured time zone. Load already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

// mustDuration accepts Go durations ("90s") and bare seconds ("3600").
func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return def
}

func redact(v string) string {
	if v == "" {
		return ""
	}
	return "***REDACTED***"
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
