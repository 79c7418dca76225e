package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the gRPC health service name reported alongside the overall ("") status.
const ServiceName = "interntracker.v1.Api"

// NewGRPCServer builds a gRPC server exposing the standard health service and reflection.
func NewGRPCServer(hs *health.Server) *grpc.Server {
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)
	return gs
}

// WatchHealth sets the serving status of hs from check every interval until ctx is done.
func WatchHealth(ctx context.Context, hs *health.Server, check func(context.Context) error, interval time.Duration, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	update := func() {
		status := healthpb.HealthCheckResponse_SERVING
		if err := check(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("health.check.failed", "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus("", status)
		hs.SetServingStatus(ServiceName, status)
	}

	update()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-t.C:
			update()
		}
	}
}
