package grpc

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
)

// DaemonServer serves the control plane on a Unix socket
type DaemonServer struct {
	listener net.Listener
	server   *grpc.Server
	health   *health.Server
}

// NewDaemonServer creates the listener and registers the services
func NewDaemonServer(m mediator.Mediator, runner *TickRunner, socketPath string) (*DaemonServer, error) {
	// Ensure socket directory exists
	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	// Remove existing socket file if present
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// Set socket permissions (owner only)
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	return NewDaemonServerOn(listener, m, runner), nil
}

// NewDaemonServerOn serves on an existing listener
func NewDaemonServerOn(listener net.Listener, m mediator.Mediator, runner *TickRunner) *DaemonServer {
	server := grpc.NewServer()
	RegisterLogisticsDaemonServer(server, NewDaemonServiceImpl(m, runner))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)

	return &DaemonServer{listener: listener, server: server, health: healthServer}
}

// Serve blocks until ctx is cancelled, then stops gracefully
func (s *DaemonServer) Serve(ctx context.Context) error {
	logger := common.LoggerFromContext(ctx)
	logger.Log(common.LevelInfo, "Control plane listening", map[string]interface{}{
		"address": s.listener.Addr().String(),
	})

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(s.listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Log(common.LevelInfo, "Stopping control plane", nil)
		s.health.Shutdown()
		s.server.GracefulStop()
		return nil
	}
}
