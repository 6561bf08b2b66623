// Package api implements app.Runner for the swap coordinator server process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/swap-coordinator/pkg/app/errors"
	apphttp "github.com/chainsafe/swap-coordinator/pkg/app/http"
	"github.com/chainsafe/swap-coordinator/pkg/auth"
	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/config"
	"github.com/chainsafe/swap-coordinator/pkg/expiry"
	"github.com/chainsafe/swap-coordinator/pkg/notify"
	"github.com/chainsafe/swap-coordinator/pkg/observer"
	"github.com/chainsafe/swap-coordinator/pkg/offer"
	"github.com/chainsafe/swap-coordinator/pkg/offer/service"
	"github.com/chainsafe/swap-coordinator/pkg/offerstore"
	"github.com/chainsafe/swap-coordinator/pkg/pgutil"
)

const defaultRequestTimeout = 60

// offerStore is what the server needs from a store backend.
type offerStore interface {
	service.Store
	expiry.StatusCounter
}

// Server holds cfg to init the swap coordinator server.
type Server struct {
	cfg      *config.SwapServerConfig
	logger   *zap.Logger
	gateways []chain.Gateway
}

// Option configures the Server
type Option func(*Server)

// WithLogger sets the logger instead of building one from the logging config.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithGateways attaches chain gateways whose Watch streams feed the chain observer.
func WithGateways(gws ...chain.Gateway) Option {
	return func(s *Server) { s.gateways = append(s.gateways, gws...) }
}

// NewServer initializes new swap coordinator server.
func NewServer(cfg *config.SwapServerConfig, opts ...Option) *Server {
	s := &Server{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("swap server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := s.logger
	if logger == nil {
		var err error
		if logger, err = config.NewLogger(cfg.Logging); err != nil {
			return fmt.Errorf("setup logger: %w", err)
		}
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting swap coordinator",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	params, err := protocolParams(&cfg.Protocol)
	if err != nil {
		return err
	}

	store, closeStore, err := s.openStore(ctx, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	registry := chain.DefaultRegistry()
	for _, gw := range s.gateways {
		if err := registry.SetGateway(gw); err != nil {
			return fmt.Errorf("attach gateway: %w", err)
		}
	}

	notifier, closeNotifier, err := s.setupNotifier(logger)
	if err != nil {
		return err
	}
	defer closeNotifier()

	var engine *observer.Engine
	if cfg.Observer.Enabled {
		engine = observer.NewEngine(registry, logger)
		notifier.Add("observer", engine)
	}

	svc := service.NewService(store, registry, notifier, params, logger)
	logged := service.NewLog(svc, logger)

	if engine != nil {
		if err := engine.Start(ctx, logged); err != nil {
			return fmt.Errorf("start chain observer: %w", err)
		}
		defer engine.Stop()
	}

	stopSweeper, err := s.startSweeper(logged, store, logger)
	if err != nil {
		return err
	}

	router := s.setupRouter(logged, logger)

	err = apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)

	// Stop background work before the deferred store and publisher closes kick in.
	stopSweeper()

	return err
}

func protocolParams(cfg *config.ProtocolConfig) (offer.Params, error) {
	params := offer.DefaultParams()
	if cfg.MinWindow > 0 {
		params.MinWindow = cfg.MinWindow
	}
	if cfg.SafetyMargin > 0 {
		params.SafetyMargin = cfg.SafetyMargin
	}
	if cfg.OfferTTL > 0 {
		params.OfferTTL = cfg.OfferTTL
	}
	if cfg.ClockSkew >= 0 {
		params.ClockSkew = cfg.ClockSkew
	}
	if cfg.DefaultTakerWindow > 0 {
		params.DefaultTakerWindow = cfg.DefaultTakerWindow
	}
	if err := params.Validate(); err != nil {
		return offer.Params{}, err
	}
	return params, nil
}

func (s *Server) openStore(ctx context.Context, logger *zap.Logger) (offerStore, func(), error) {
	if s.cfg.Storage.Driver == "memory" {
		logger.Warn("Using in-memory offer store, offers are lost on restart")
		return offerstore.NewMemoryStore(), func() {}, nil
	}

	db, err := pgutil.ConnectDB(ctx, &s.cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect db: %w", err)
	}
	logger.Info("Connected to database",
		zap.String("host", s.cfg.Database.Host),
		zap.String("database", s.cfg.Database.Database),
	)
	return offerstore.NewStore(db), func() { _ = db.Close() }, nil
}

func (s *Server) setupNotifier(logger *zap.Logger) (*notify.Multi, func(), error) {
	cfg := s.cfg.Notify
	multi := notify.NewMulti()
	if cfg.Log {
		multi.Add("log", notify.NewLog(logger))
	}
	if !cfg.AMQP.Enabled {
		return multi, func() {}, nil
	}

	publisher, err := notify.NewAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect amqp: %w", err)
	}
	logger.Info("Publishing offer snapshots to AMQP", zap.String("exchange", cfg.AMQP.Exchange))
	multi.Add("amqp", publisher)

	return multi, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close AMQP publisher", zap.Error(err))
		}
	}, nil
}

func (s *Server) startSweeper(svc service.Service, store offerStore, logger *zap.Logger) (func(), error) {
	cfg := s.cfg.Expiry
	if !cfg.Enabled {
		return func() {}, nil
	}

	sweeper := expiry.New(svc, store, cfg.Schedule, cfg.Timeout, logger)
	if err := sweeper.Start(); err != nil {
		return nil, fmt.Errorf("start expiry sweeper: %w", err)
	}
	return sweeper.Stop, nil
}

func (s *Server) setupRouter(svc service.Service, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Second * defaultRequestTimeout))
	if origins := s.cfg.Server.CORSAllowedOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apphttp.DefaultErrorHandler(w, apperrors.ResourceNotFoundError(nil, "no route for "+r.Method+" "+r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apphttp.DefaultErrorHandler(w, apperrors.NotSupportedError(nil, r.Method+" is not allowed on "+r.URL.Path))
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if s.cfg.Monitoring.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	var eventAuth []func(http.Handler) http.Handler
	if validator := auth.NewJWTValidator(s.cfg.JWKS.URL, s.cfg.JWKS.Issuer); validator.IsConfigured() {
		eventAuth = append(eventAuth, auth.RequireBearer(validator, logger))
	} else {
		logger.Warn("JWKS is not configured, chain event submissions are not authenticated")
	}

	service.RegisterRoutes(r, svc, logger, eventAuth...)
	return r
}
