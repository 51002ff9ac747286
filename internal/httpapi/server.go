package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type ServerOptions struct {
	Logger        *zap.Logger
	ListenAddress string
	Source        StatusSource
	Gatherer      prometheus.Gatherer
	RateLimit     float64
	Burst         int
}

// Server exposes the watcher status, health and metrics over HTTP.
type Server struct {
	logger        *zap.Logger
	listenAddress string
	handler       http.Handler
	httpServer    *http.Server
}

func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Source == nil {
		return nil, errors.New("httpapi: a status source is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	h := &handlers{logger: logger, source: opts.Source}
	limiter := newLimiterSet(opts.RateLimit, opts.Burst)

	r := mux.NewRouter()
	r.HandleFunc("/api/status", h.serveStatus).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.serveHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// Wrapped outside the router so unmatched paths and methods are limited too.
	handler := WithCORS(limiter.middleware(r))

	return &Server{
		logger:        logger,
		listenAddress: opts.ListenAddress,
		handler:       handler,
		httpServer: &http.Server{
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve accepts connections on l until Shutdown. It returns nil after a
// clean shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("status endpoint listening", zap.String("address", l.Addr().String()))
	err := s.httpServer.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Listen binds the configured address; the caller passes the result to Serve.
func (s *Server) Listen() (net.Listener, error) {
	l, err := net.Listen("tcp", s.listenAddress)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %s", s.listenAddress)
	}
	return l, nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
