// Package config loads the demo server settings from the environment and the
// command line. Flags win over environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const (
	EngineChi = "chi"
	EngineGin = "gin"

	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSigned = "signed"

	LogText = "text"
	LogJSON = "json"

	MinVariant = 1
	MaxVariant = 3
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Port        int
	Engine      string
	Variant     int
	IdleTimeout time.Duration
	MaxConns    int
	CORSOrigins []string

	CSRFStore      string
	CSRFCookie     string
	CSRFTTL        time.Duration
	CSRFSecure     bool
	CSRFSigningKey string
	RedisURL       string

	LogFormat string
	LogLevel  slog.Level
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:        3000,
		Engine:      EngineChi,
		Variant:     MaxVariant,
		IdleTimeout: 60 * time.Second,
		CSRFStore:   StoreMemory,
		CSRFCookie:  "csrf_session",
		CSRFTTL:     time.Hour,
		RedisURL:    "localhost:6379",
		LogFormat:   LogText,
		LogLevel:    slog.LevelInfo,
	}
}

// Addr is the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Load builds a Config from defaults, then getenv, then args (without the
// program name).
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if err := cfg.fromEnv(getenv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "listen port")
	fs.StringVar(&cfg.Engine, "engine", cfg.Engine, "router engine: chi or gin")
	fs.IntVar(&cfg.Variant, "variant", cfg.Variant, "route set: 1 static pages, 2 adds /login, 3 adds the CSRF form")
	fs.DurationVar(&cfg.IdleTimeout, "idle-timeout", cfg.IdleTimeout, "keep-alive idle timeout")
	fs.IntVar(&cfg.MaxConns, "max-conns", cfg.MaxConns, "max simultaneous connections, 0 for no limit")
	origins := fs.String("cors-origins", strings.Join(cfg.CORSOrigins, ","), "comma separated CORS origins, empty disables CORS")
	fs.StringVar(&cfg.CSRFStore, "csrf-store", cfg.CSRFStore, "token store: memory, redis or signed")
	fs.StringVar(&cfg.CSRFCookie, "csrf-cookie", cfg.CSRFCookie, "CSRF session cookie name")
	fs.DurationVar(&cfg.CSRFTTL, "csrf-ttl", cfg.CSRFTTL, "token lifetime and cookie Max-Age")
	fs.BoolVar(&cfg.CSRFSecure, "csrf-secure", cfg.CSRFSecure, "mark the CSRF cookie Secure")
	fs.StringVar(&cfg.CSRFSigningKey, "csrf-signing-key", cfg.CSRFSigningKey, "HMAC key for the signed store (32+ bytes)")
	fs.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "redis address for the redis store")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	fs.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.CORSOrigins = splitList(*origins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) fromEnv(getenv func(string) string) error {
	var err error
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := getenv(key); v != "" && err == nil {
			n, perr := strconv.Atoi(v)
			if perr != nil {
				err = fmt.Errorf("%w: %s=%q: %v", ErrInvalid, key, v, perr)
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v := getenv(key); v != "" && err == nil {
			d, perr := time.ParseDuration(v)
			if perr != nil {
				err = fmt.Errorf("%w: %s=%q: %v", ErrInvalid, key, v, perr)
				return
			}
			*dst = d
		}
	}

	num("PORT", &c.Port)
	str("ENGINE", &c.Engine)
	num("VARIANT", &c.Variant)
	dur("IDLE_TIMEOUT", &c.IdleTimeout)
	num("MAX_CONNS", &c.MaxConns)
	if v := getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}
	str("CSRF_STORE", &c.CSRFStore)
	str("CSRF_COOKIE", &c.CSRFCookie)
	dur("CSRF_TTL", &c.CSRFTTL)
	if v := getenv("CSRF_SECURE"); v != "" && err == nil {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			err = fmt.Errorf("%w: CSRF_SECURE=%q: %v", ErrInvalid, v, perr)
		}
		c.CSRFSecure = b
	}
	str("CSRF_SIGNING_KEY", &c.CSRFSigningKey)
	str("REDIS_URL", &c.RedisURL)
	str("LOG_FORMAT", &c.LogFormat)
	if v := getenv("LOG_LEVEL"); v != "" && err == nil {
		if perr := c.LogLevel.UnmarshalText([]byte(v)); perr != nil {
			err = fmt.Errorf("%w: LOG_LEVEL=%q: %v", ErrInvalid, v, perr)
		}
	}
	return err
}

// Validate reports the first setting out of range.
func (c Config) Validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("%w: port %d out of range", ErrInvalid, c.Port)
	case c.Engine != EngineChi && c.Engine != EngineGin:
		return fmt.Errorf("%w: unknown engine %q", ErrInvalid, c.Engine)
	case c.Variant < MinVariant || c.Variant > MaxVariant:
		return fmt.Errorf("%w: variant %d not in %d..%d", ErrInvalid, c.Variant, MinVariant, MaxVariant)
	case c.IdleTimeout < 0:
		return fmt.Errorf("%w: negative idle timeout", ErrInvalid)
	case c.MaxConns < 0:
		return fmt.Errorf("%w: negative max conns", ErrInvalid)
	case c.CSRFCookie == "":
		return fmt.Errorf("%w: empty CSRF cookie name", ErrInvalid)
	case c.CSRFTTL <= 0:
		return fmt.Errorf("%w: CSRF ttl must be positive", ErrInvalid)
	case c.LogFormat != LogText && c.LogFormat != LogJSON:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.LogFormat)
	}

	switch c.CSRFStore {
	case StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: redis store needs a redis url", ErrInvalid)
		}
	case StoreSigned:
		if len(c.CSRFSigningKey) < 32 {
			return fmt.Errorf("%w: signed store needs a signing key of 32+ bytes", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown CSRF store %q", ErrInvalid, c.CSRFStore)
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
