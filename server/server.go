// Package server serves on-demand scores of the local device over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/edgeorch/rater/config"
	"github.com/edgeorch/rater/logger"
	"github.com/edgeorch/rater/scoring"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Server handles HTTP requests for scores computed from the resources of
// the local device. Scores are computed per request and never cached.
type Server struct {
	conf     config.Server
	registry *scoring.Registry
	bound    string
	query    scoring.Query
	limiter  *rate.Limiter
	log      *logger.Logger
}

// New returns a Server scoring q with the strategies in reg.
// Requests which don't name a strategy use the bound strategy.
func New(conf config.Server, reg *scoring.Registry, bound string, q scoring.Query, log *logger.Logger) *Server {
	s := &Server{
		conf:     conf,
		registry: reg,
		bound:    bound,
		query:    q,
		log:      log,
	}
	if conf.RateLimit > 0 {
		burst := conf.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(conf.RateLimit), burst)
	}
	return s
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/strategies", s.listStrategies)
	mux.Handle("GET /v1/score", s.rateLimit(http.HandlerFunc(s.score)))
	mux.Handle("GET /v1/score/{name}", s.rateLimit(http.HandlerFunc(s.score)))
	mux.Handle("GET /metrics", promhttp.Handler())
	return disableCache(mux)
}

// Serve listens on the configured address and blocks until ctx is canceled
// or the server fails.
func (s *Server) Serve(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.conf.ListenAddress())
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: time.Second * 10,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- httpServer.Serve(lis)
	}()
	s.log.Info("HTTP server listening", "address", lis.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		if !s.limiter.Allow() {
			writeError(resp, http.StatusTooManyRequests, "too many score requests")
			return
		}
		next.ServeHTTP(resp, req)
	})
}

// Set a cache-control header that disables response caching.
func disableCache(next http.Handler) http.HandlerFunc {
	return func(resp http.ResponseWriter, req *http.Request) {
		resp.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(resp, req)
	}
}
