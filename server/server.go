// Package server wires the demo routes, the request logger and the CSRF
// protector onto a chi or gin engine and runs them behind an http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"golang.org/x/net/netutil"

	"github.com/JeanGrijp/dast-demo/config"
	"github.com/JeanGrijp/dast-demo/csrf"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
	sweepInterval     = time.Minute
)

type Server struct {
	cfg     config.Config
	logger  *slog.Logger
	store   csrf.Store
	redis   *redis.Client
	handler http.Handler
}

// New builds the token store, the protector and the engine selected by cfg.
// With the redis store it checks the connection first.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{cfg: cfg, logger: logger}

	switch cfg.CSRFStore {
	case config.StoreRedis:
		s.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		rs := csrf.NewRedisStore(s.redis, "")
		if err := rs.Ping(ctx); err != nil {
			s.redis.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisURL, err)
		}
		s.store = rs
	case config.StoreSigned:
		ss, err := csrf.NewSignedStore([]byte(cfg.CSRFSigningKey))
		if err != nil {
			return nil, err
		}
		s.store = ss
	default:
		s.store = csrf.NewMemoryStore()
	}

	p := csrf.New(csrf.Config{
		CookieName:   cfg.CSRFCookie,
		CookieSecure: cfg.CSRFSecure,
		TokenTTL:     cfg.CSRFTTL,
		Store:        s.store,
		ErrorHandler: csrfErrorHandler(logger),
	})

	var c *cors.Cors
	if len(cfg.CORSOrigins) > 0 {
		c = cors.New(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Content-Type", "X-CSRF-Token"},
			AllowCredentials: true,
			MaxAge:           3600,
		})
	}

	if cfg.Engine == config.EngineGin {
		s.handler = NewGinHandler(p, cfg.Variant, logger, c)
	} else {
		s.handler = NewChiHandler(p, cfg.Variant, logger, c)
	}
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.handler }

// Serve answers on ln until ctx is done, then drains in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConns)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if ms, ok := s.store.(*csrf.MemoryStore); ok {
		go ms.Run(ctx, sweepInterval)
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("listening",
			slog.String("addr", ln.Addr().String()),
			slog.String("engine", s.cfg.Engine),
			slog.Int("variant", s.cfg.Variant),
			slog.String("csrf_store", s.cfg.CSRFStore),
		)
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on the configured port and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Close releases the redis connection, if any.
func (s *Server) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
