package queries

import (
	"context"
	"fmt"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/transport"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/fleet"
)

// FleetStatusQuery asks for the transport fleet state of a colony
type FleetStatusQuery struct {
	Colony string
}

// AgentStatus is one transporter's current plan
type AgentStatus struct {
	Name     string
	Position string
	Carry    string
	Task     string
	Evading  bool
}

// RequestStatus is one open logistics request
type RequestStatus struct {
	ID        string
	Amount    int
	Committed int
	Priority  int
}

// FleetStatusResponse represents the fleet snapshot
type FleetStatusResponse struct {
	Colony   string
	Tick     int
	Report   fleet.Report
	Downtime float64
	Agents   []AgentStatus
	Requests []RequestStatus
	Pending  []fleet.SpawnRequest
}

// FleetStatusHandler handles the FleetStatus query
type FleetStatusHandler struct {
	colonies    common.ColonyStore
	coordinator *transport.Coordinator
	spawns      common.SpawnQueue
}

// NewFleetStatusHandler creates a new FleetStatusHandler. spawns may be nil.
func NewFleetStatusHandler(colonies common.ColonyStore, coordinator *transport.Coordinator, spawns common.SpawnQueue) *FleetStatusHandler {
	return &FleetStatusHandler{colonies: colonies, coordinator: coordinator, spawns: spawns}
}

// Handle executes the FleetStatus query
func (h *FleetStatusHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*FleetStatusQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *FleetStatusQuery")
	}

	response := &FleetStatusResponse{Colony: query.Colony}
	err := h.colonies.WithColony(ctx, query.Colony, func(c *colony.Colony) error {
		response.Tick = c.Tick()
		response.Report = fleet.Summarize(c, colony.RoleTransport)

		for _, agent := range c.Agents(colony.RoleTransport) {
			status := AgentStatus{
				Name:     agent.Name(),
				Position: agent.Pos().String(),
				Carry:    agent.Carry().String(),
				Evading:  agent.InDanger(c.Tick()),
			}
			if t := agent.Task(); t != nil {
				status.Task = t.String()
			}
			response.Agents = append(response.Agents, status)
		}

		// Network accounts for plans already in flight, so Amount is what
		// is still unclaimed.
		for _, r := range h.coordinator.Network(c).Open() {
			response.Requests = append(response.Requests, RequestStatus{
				ID:        r.ID(),
				Amount:    r.Amount(),
				Committed: r.Committed(),
				Priority:  int(r.Priority()),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read fleet status: %w", err)
	}

	if response.Downtime, err = h.coordinator.Downtime(ctx, query.Colony); err != nil {
		return nil, fmt.Errorf("failed to read downtime: %w", err)
	}

	if h.spawns != nil {
		if response.Pending, err = h.spawns.Pending(ctx, query.Colony); err != nil {
			return nil, fmt.Errorf("failed to list pending spawns: %w", err)
		}
	}

	return response, nil
}
