package grpc_server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the service reported next to the overall "" status.
const ServiceName = "gw-currency-trader"

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer serves grpc.health.v1 and flips between SERVING and
// NOT_SERVING according to the database ping.
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	db       Pinger
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewHealthServer(db Pinger, interval, timeout time.Duration, log *slog.Logger) *HealthServer {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &HealthServer{
		server:   srv,
		health:   hs,
		db:       db,
		interval: interval,
		timeout:  timeout,
		log:      log,
		stopCh:   make(chan struct{}),
	}
}

// Serve blocks until Stop is called or the listener fails.
func (s *HealthServer) Serve(lis net.Listener) error {
	s.check()

	s.wg.Add(1)
	go s.watch()

	s.log.Info("gRPC health server listening", slog.String("addr", lis.Addr().String()))
	if err := s.server.Serve(lis); err != nil {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

func (s *HealthServer) Listen(port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", port, err)
	}
	return s.Serve(lis)
}

func (s *HealthServer) watch() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.check()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HealthServer) check() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.Ping(ctx); err != nil {
		s.log.Warn("database ping failed", slog.String("error", err.Error()))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *HealthServer) Stop() {
	close(s.stopCh)
	s.wg.Wait()

	s.health.Shutdown()
	s.server.GracefulStop()
	s.log.Info("gRPC health server stopped")
}
