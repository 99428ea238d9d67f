package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/nerrad567/graystore/internal/dispatch"
	"github.com/nerrad567/graystore/internal/infrastructure/config"
	"github.com/nerrad567/graystore/internal/infrastructure/database"
	"github.com/nerrad567/graystore/internal/infrastructure/logging"
	"github.com/nerrad567/graystore/internal/infrastructure/mqtt"
)

// gracefulShutdownTimeout bounds how long Close waits for in-flight requests.
const gracefulShutdownTimeout = 10 * time.Second

// DispatchRecorder receives one sample per dispatched request.
// *influxdb.Client implements it.
type DispatchRecorder interface {
	RecordDispatch(action string, status int, duration time.Duration)
}

// HealthChecker is a dependency reported by /_system/health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds what the server needs. Invoker and Logger are required.
type Deps struct {
	Config  config.APIConfig
	WS      config.WebSocketConfig
	Logger  *logging.Logger
	Invoker dispatch.Invoker

	// Hub, if set, is used instead of a server-owned hub so the same hub
	// can be wired as an event publisher before the server exists.
	Hub *Hub

	// Optional.
	Recorder DispatchRecorder
	DB       *database.DB
	MQTT     *mqtt.Client
	Checks   map[string]HealthChecker

	Version string
}

// Server is one HTTP listener serving the dispatcher and system endpoints.
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	logger   *logging.Logger
	invoker  dispatch.Invoker
	recorder DispatchRecorder
	db       *database.DB
	mqtt     *mqtt.Client
	checks   map[string]HealthChecker
	version  string

	hub         *Hub
	externalHub bool
	stats       requestStats
	startTime   time.Time

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	cancel   context.CancelFunc
}

// New creates a server. It does not listen until Start.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Invoker == nil {
		return nil, fmt.Errorf("invoker is required")
	}

	checks := make(map[string]HealthChecker, len(deps.Checks)+2)
	for name, c := range deps.Checks {
		checks[name] = c
	}
	if deps.DB != nil {
		checks["database"] = deps.DB
	}
	if deps.MQTT != nil {
		checks["mqtt"] = deps.MQTT
	}

	s := &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		logger:    deps.Logger.With("component", "api"),
		invoker:   deps.Invoker,
		recorder:  deps.Recorder,
		db:        deps.DB,
		mqtt:      deps.MQTT,
		checks:    checks,
		version:   deps.Version,
		startTime: time.Now(),
	}
	if deps.Hub != nil {
		s.hub = deps.Hub
		s.externalHub = true
	} else {
		s.hub = NewHub(deps.WS, s.logger)
	}
	return s, nil
}

// Hub returns the websocket hub streaming events to /_system/watch clients.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the router, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start binds the configured address and serves in the background. A bind
// failure, such as the address already in use, is returned directly.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return fmt.Errorf("api server already started")
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)
	if !s.externalHub {
		go s.hub.Run(srvCtx)
	}

	s.listener = ln
	s.server = &http.Server{
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
		BaseContext:       func(net.Listener) context.Context { return srvCtx },
	}

	s.logger.Info("API server listening", "address", ln.Addr().String())
	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}(s.server)
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close stops accepting connections and waits for in-flight requests.
func (s *Server) Close() error {
	s.mu.Lock()
	srv, cancel := s.server, s.cancel
	s.server, s.listener, s.cancel = nil, nil, nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	ctx, done := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer done()

	s.logger.Info("API server shutting down")
	err := srv.Shutdown(ctx)
	// Cancelled after Shutdown so watch connections are closed last.
	if cancel != nil {
		cancel()
	}
	if err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck reports an error when the server is not listening.
func (s *Server) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("api health check: %w", err)
	}
	if s.Addr() == "" {
		return fmt.Errorf("api server not started")
	}
	return nil
}
