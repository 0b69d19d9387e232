// Command healthcheck probes the gRPC health endpoint and exits non-zero
// unless the service reports SERVING. It is meant for container probes.
package main

import (
	"context"
	"flag"
	"gw-currency-trader/internal/grpc_client"
	"gw-currency-trader/internal/grpc_server"
	"log/slog"
	"os"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	addr := flag.String("addr", "localhost:50051", "gRPC health server address")
	timeout := flag.Duration("timeout", 3*time.Second, "probe timeout")
	flag.Parse()

	os.Exit(run(*addr, *timeout))
}

func run(addr string, timeout time.Duration) int {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	client, err := grpc_client.NewHealthClient(addr, timeout, log)
	if err != nil {
		log.Error("failed to create health client", slog.String("error", err.Error()))
		return 1
	}
	defer client.Close()

	status, err := client.Check(context.Background(), grpc_server.ServiceName)
	if err != nil {
		return 1
	}
	if status != healthpb.HealthCheckResponse_SERVING {
		log.Error("service not serving", slog.String("status", status.String()))
		return 1
	}
	return 0
}
