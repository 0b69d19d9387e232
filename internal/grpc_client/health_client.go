package grpc_client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type HealthClient interface {
	Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error)
	Close() error
}

type grpcHealthClient struct {
	conn    *grpc.ClientConn
	client  healthpb.HealthClient
	timeout time.Duration
	log     *slog.Logger
}

func NewHealthClient(addr string, timeout time.Duration, log *slog.Logger) (HealthClient, error) {
	const op = "grpc_client.NewHealthClient"

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect: %w", op, err)
	}

	return &grpcHealthClient{
		conn:    conn,
		client:  healthpb.NewHealthClient(conn),
		timeout: timeout,
		log:     log,
	}, nil
}

func (c *grpcHealthClient) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	const op = "grpc_client.Check"

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		c.log.Error("health check failed", slog.String("op", op), slog.String("error", err.Error()))
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("%s: %w", op, err)
	}

	c.log.Debug("health check",
		slog.String("service", service),
		slog.String("status", resp.GetStatus().String()),
		slog.Duration("duration", time.Since(start)))

	return resp.GetStatus(), nil
}

func (c *grpcHealthClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
