package grpc

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
)

var (
	_ DaemonClient = (*DaemonClientLocal)(nil)
	_ DaemonClient = (*DaemonClientGRPC)(nil)
)

// DaemonClientLocal implements DaemonClient by calling the service directly.
// The offline simulate command uses it to drive a world without a socket.
type DaemonClientLocal struct {
	service LogisticsDaemonServer
}

// NewDaemonClientLocal creates a new local daemon client
func NewDaemonClientLocal(m mediator.Mediator, runner *TickRunner) *DaemonClientLocal {
	return &DaemonClientLocal{service: NewDaemonServiceImpl(m, runner)}
}

// Close is a no-op; there is no connection
func (c *DaemonClientLocal) Close() error { return nil }

type localMethod func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// call keeps the JSON round trip so local and remote replies are identical
func (c *DaemonClientLocal) call(ctx context.Context, method localMethod, in, out interface{}) error {
	req, err := encode(in)
	if err != nil {
		return err
	}
	resp, err := method(ctx, req)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func (c *DaemonClientLocal) Status(ctx context.Context, colony string) (*StatusReply, error) {
	out := &StatusReply{}
	if err := c.call(ctx, c.service.Status, &ColonyRequest{Colony: colony}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DaemonClientLocal) Step(ctx context.Context) (*StepReply, error) {
	out := &StepReply{}
	if err := c.call(ctx, c.service.Step, &Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DaemonClientLocal) Retarget(ctx context.Context, colony string) (*TickReply, error) {
	out := &TickReply{}
	if err := c.call(ctx, c.service.Retarget, &ColonyRequest{Colony: colony}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DaemonClientLocal) PlanFleet(ctx context.Context, colony string, dryRun bool) (*FleetReply, error) {
	out := &FleetReply{}
	if err := c.call(ctx, c.service.PlanFleet, &ColonyRequest{Colony: colony, DryRun: dryRun}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DaemonClientLocal) History(ctx context.Context, colony string, limit int) (*HistoryReply, error) {
	out := &HistoryReply{}
	if err := c.call(ctx, c.service.History, &ColonyRequest{Colony: colony, Limit: limit}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DaemonClientLocal) Runner(ctx context.Context) (*RunnerReply, error) {
	out := &RunnerReply{}
	if err := c.call(ctx, c.service.Runner, &Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DaemonClientLocal) Pause(ctx context.Context) (*RunnerReply, error) {
	out := &RunnerReply{}
	if err := c.call(ctx, c.service.Pause, &Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DaemonClientLocal) Resume(ctx context.Context) (*RunnerReply, error) {
	out := &RunnerReply{}
	if err := c.call(ctx, c.service.Resume, &Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}
