// Package grpc serves the standard gRPC health protocol so orchestrators can
// probe the service without going through the HTTP middleware chain.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"renthub-backend/internal/api/grpc/interceptor"
	"renthub-backend/internal/logger"
)

// ServiceName is the health service name reported alongside the overall ("") status.
const ServiceName = "renthub.v1.API"

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthServer struct {
	server *grpc.Server
	health *health.Server
	db     Pinger
}

func NewHealthServer(db Pinger) *HealthServer {
	s := grpc.NewServer(grpc.UnaryInterceptor(interceptor.Unary()))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)

	return &HealthServer{server: s, health: hs, db: db}
}

// Probe pings the database once and publishes the resulting status.
func (h *HealthServer) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := h.db.PingContext(ctx); err != nil {
		logger.Warn("Health probe failed", "error", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus("", st)
	h.health.SetServingStatus(ServiceName, st)
	return st
}

// Watch probes every interval until ctx is done.
func (h *HealthServer) Watch(ctx context.Context, interval time.Duration) {
	h.Probe(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}

func (h *HealthServer) Serve(lis net.Listener) error {
	return h.server.Serve(lis)
}

// Stop marks every service NOT_SERVING and drains in-flight RPCs.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
