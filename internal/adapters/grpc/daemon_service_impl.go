package grpc

import (
	"context"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
	transportCmd "github.com/SupernovaXTS/overmind-logistics/internal/application/transport/commands"
	transportQuery "github.com/SupernovaXTS/overmind-logistics/internal/application/transport/queries"
)

// daemonServiceImpl implements LogisticsDaemonServer.
// It bridges control plane calls to the mediator and the tick runner.
type daemonServiceImpl struct {
	mediator mediator.Mediator
	runner   *TickRunner
}

// NewDaemonServiceImpl creates the control plane implementation
func NewDaemonServiceImpl(m mediator.Mediator, runner *TickRunner) LogisticsDaemonServer {
	return &daemonServiceImpl{mediator: m, runner: runner}
}

func (s *daemonServiceImpl) colonyRequest(req *structpb.Struct) (*ColonyRequest, error) {
	var in ColonyRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if in.Colony == "" {
		return nil, fmt.Errorf("colony is required")
	}
	return &in, nil
}

// Status returns the fleet snapshot of a colony
func (s *daemonServiceImpl) Status(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := s.colonyRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.mediator.Send(ctx, &transportQuery.FleetStatusQuery{Colony: in.Colony})
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	status, ok := resp.(*transportQuery.FleetStatusResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type from FleetStatusQuery")
	}
	return encode(toStatusReply(status))
}

// Step runs one full tick immediately
func (s *daemonServiceImpl) Step(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	results, err := s.runner.Step(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to step: %w", err)
	}

	reply := &StepReply{Ticks: s.runner.Ticks()}
	for _, r := range results {
		reply.Results = append(reply.Results, toTickReply(r))
	}
	return encode(reply)
}

// Retarget recomputes every transporter's plan of a colony
func (s *daemonServiceImpl) Retarget(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := s.colonyRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.mediator.Send(ctx, &transportCmd.RetargetCommand{Colony: in.Colony})
	if err != nil {
		return nil, fmt.Errorf("failed to retarget: %w", err)
	}
	retarget, ok := resp.(*transportCmd.RetargetResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type from RetargetCommand")
	}
	reply := toTickReply(retarget.Result)
	return encode(&reply)
}

// PlanFleet sizes the transport fleet of a colony
func (s *daemonServiceImpl) PlanFleet(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := s.colonyRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.mediator.Send(ctx, &transportCmd.PlanFleetCommand{Colony: in.Colony, DryRun: in.DryRun})
	if err != nil {
		return nil, fmt.Errorf("failed to plan fleet: %w", err)
	}
	plan, ok := resp.(*transportCmd.PlanFleetResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type from PlanFleetCommand")
	}
	return encode(toFleetReply(plan))
}

// History lists recent tick summaries of a colony
func (s *daemonServiceImpl) History(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := s.colonyRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.mediator.Send(ctx, &transportQuery.TickHistoryQuery{Colony: in.Colony, Limit: in.Limit})
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	history, ok := resp.(*transportQuery.TickHistoryResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type from TickHistoryQuery")
	}

	reply := &HistoryReply{}
	for _, r := range history.Reports {
		reply.Reports = append(reply.Reports, toReportInfo(r))
	}
	return encode(reply)
}

// Runner describes the tick loop
func (s *daemonServiceImpl) Runner(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return encode(toRunnerReply(s.runner.Status()))
}

// Pause holds the tick loop
func (s *daemonServiceImpl) Pause(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.runner.Pause(); err != nil {
		return nil, fmt.Errorf("failed to pause: %w", err)
	}
	return encode(toRunnerReply(s.runner.Status()))
}

// Resume releases the tick loop
func (s *daemonServiceImpl) Resume(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.runner.Resume(); err != nil {
		return nil, fmt.Errorf("failed to resume: %w", err)
	}
	return encode(toRunnerReply(s.runner.Status()))
}
