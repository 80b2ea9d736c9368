package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
)

// DaemonClient is the control plane as seen by its callers
type DaemonClient interface {
	Status(ctx context.Context, colony string) (*StatusReply, error)
	Step(ctx context.Context) (*StepReply, error)
	Retarget(ctx context.Context, colony string) (*TickReply, error)
	PlanFleet(ctx context.Context, colony string, dryRun bool) (*FleetReply, error)
	History(ctx context.Context, colony string, limit int) (*HistoryReply, error)
	Runner(ctx context.Context) (*RunnerReply, error)
	Pause(ctx context.Context) (*RunnerReply, error)
	Resume(ctx context.Context) (*RunnerReply, error)
	Close() error
}

// DaemonClientGRPC talks to a daemon over its Unix socket
type DaemonClientGRPC struct {
	conn *grpc.ClientConn
}

// NewDaemonClientGRPC creates a new gRPC daemon client.
// socketPath should be a Unix domain socket path (e.g., "/tmp/overmind-logistics.sock")
func NewDaemonClientGRPC(socketPath string) (*DaemonClientGRPC, error) {
	return DialDaemon("unix:" + socketPath)
}

// DialDaemon connects to a daemon at any gRPC target
func DialDaemon(target string, opts ...grpc.DialOption) (*DaemonClientGRPC, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}
	return &DaemonClientGRPC{conn: conn}, nil
}

// Close closes the gRPC connection
func (c *DaemonClientGRPC) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// HealthCheck asks the daemon's health service whether the control plane serves
func (c *DaemonClientGRPC) HealthCheck(ctx context.Context) (string, error) {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return "", fmt.Errorf("health check failed: %w", err)
	}
	return resp.GetStatus().String(), nil
}

func (c *DaemonClientGRPC) invoke(ctx context.Context, method string, in, out interface{}) error {
	req, err := encode(in)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, fullMethod(method), req, resp); err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	return decode(resp, out)
}

// Status retrieves the fleet snapshot of a colony
func (c *DaemonClientGRPC) Status(ctx context.Context, colony string) (*StatusReply, error) {
	out := &StatusReply{}
	if err := c.invoke(ctx, MethodStatus, &ColonyRequest{Colony: colony}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Step runs one tick immediately
func (c *DaemonClientGRPC) Step(ctx context.Context) (*StepReply, error) {
	out := &StepReply{}
	if err := c.invoke(ctx, MethodStep, &Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Retarget recomputes every transporter's plan of a colony
func (c *DaemonClientGRPC) Retarget(ctx context.Context, colony string) (*TickReply, error) {
	out := &TickReply{}
	if err := c.invoke(ctx, MethodRetarget, &ColonyRequest{Colony: colony}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// PlanFleet sizes the transport fleet of a colony
func (c *DaemonClientGRPC) PlanFleet(ctx context.Context, colony string, dryRun bool) (*FleetReply, error) {
	out := &FleetReply{}
	if err := c.invoke(ctx, MethodPlanFleet, &ColonyRequest{Colony: colony, DryRun: dryRun}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// History lists recent tick summaries
func (c *DaemonClientGRPC) History(ctx context.Context, colony string, limit int) (*HistoryReply, error) {
	out := &HistoryReply{}
	if err := c.invoke(ctx, MethodHistory, &ColonyRequest{Colony: colony, Limit: limit}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Runner describes the tick loop
func (c *DaemonClientGRPC) Runner(ctx context.Context) (*RunnerReply, error) {
	return c.runnerCall(ctx, MethodRunner)
}

// Pause holds the tick loop
func (c *DaemonClientGRPC) Pause(ctx context.Context) (*RunnerReply, error) {
	return c.runnerCall(ctx, MethodPause)
}

// Resume releases the tick loop
func (c *DaemonClientGRPC) Resume(ctx context.Context) (*RunnerReply, error) {
	return c.runnerCall(ctx, MethodResume)
}

func (c *DaemonClientGRPC) runnerCall(ctx context.Context, method string) (*RunnerReply, error) {
	out := &RunnerReply{}
	if err := c.invoke(ctx, method, &Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}
