// Package health поднимает gRPC сервер стандартного протокола grpc.health.v1.
// Статус обновляется периодической проверкой зависимостей сервиса.
package health

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"walkydoggy/internal/config"
	"walkydoggy/pkg/logger"
)

// Константы для логирования.
const (
	LogServerStarting = "Starting gRPC health server"
	LogServerStarted  = "gRPC health server started"
	LogServerStopping = "Stopping gRPC health server"
	LogServerStopped  = "gRPC health server stopped"
	LogProbeFailed    = "dependency probe failed"
	LogProbeRecovered = "dependency probe recovered"
	ErrServerStart    = "failed to start gRPC health server"

	defaultProbeInterval = 15 * time.Second
	probeTimeout         = 3 * time.Second
)

// Probe проверяет одну зависимость.
type Probe func(ctx context.Context) error

// Server gRPC сервер здоровья.
type Server struct {
	cfg      *config.GRPCConfig
	server   *grpc.Server
	health   *health.Server
	probes   map[string]Probe
	listener net.Listener

	mu     sync.Mutex
	failed map[string]bool
}

// New создает сервер. Имена проб становятся именами сервисов в протоколе здоровья.
func New(cfg *config.GRPCConfig, probes map[string]Probe) *Server {
	s := &Server{
		cfg:    cfg,
		server: grpc.NewServer(),
		health: health.NewServer(),
		probes: probes,
		failed: make(map[string]bool),
	}
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)
	return s
}

// Start проверяет зависимости, открывает порт и запускает цикл проверок до отмены ctx.
func (s *Server) Start(ctx context.Context) error {
	log := logger.Log(ctx)
	address := s.cfg.GetAddress()

	log.Info(ctx, LogServerStarting, zap.String("address", address))

	listener, err := net.Listen("tcp", address)
	if err != nil {
		log.Error(ctx, ErrServerStart, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrServerStart, err)
	}
	s.listener = listener

	s.Probe(ctx)

	go func() {
		if err := s.server.Serve(listener); err != nil {
			log.Error(ctx, ErrServerStart, zap.Error(err))
		}
	}()
	go s.loop(ctx)

	log.Info(ctx, LogServerStarted, zap.String("address", listener.Addr().String()))
	return nil
}

// Addr адрес, который слушает запущенный сервер.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop переводит все сервисы в NOT_SERVING и останавливает сервер.
func (s *Server) Stop(ctx context.Context) {
	log := logger.Log(ctx)

	log.Info(ctx, LogServerStopping)
	s.health.Shutdown()
	s.server.GracefulStop()
	log.Info(ctx, LogServerStopped)
}

// Probe выполняет все проверки и обновляет статусы. Общий статус "" SERVING, только если прошли все.
func (s *Server) Probe(ctx context.Context) {
	log := logger.Log(ctx)
	overall := healthpb.HealthCheckResponse_SERVING

	for name, probe := range s.probes {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := probe(probeCtx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = healthpb.HealthCheckResponse_NOT_SERVING
		}
		s.health.SetServingStatus(name, status)

		s.mu.Lock()
		wasFailed := s.failed[name]
		s.failed[name] = err != nil
		s.mu.Unlock()

		switch {
		case err != nil && !wasFailed:
			log.Warn(ctx, LogProbeFailed, zap.String("dependency", name), zap.Error(err))
		case err == nil && wasFailed:
			log.Info(ctx, LogProbeRecovered, zap.String("dependency", name))
		}
	}

	s.health.SetServingStatus("", overall)
}

func (s *Server) loop(ctx context.Context) {
	interval := s.cfg.ProbeInterval
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Probe(ctx)
		}
	}
}
