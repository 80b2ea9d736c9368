package setup

import (
	"fmt"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/transport"
	transportCmd "github.com/SupernovaXTS/overmind-logistics/internal/application/transport/commands"
	transportQuery "github.com/SupernovaXTS/overmind-logistics/internal/application/transport/queries"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/fleet"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	colonies    common.ColonyStore
	coordinator *transport.Coordinator
	sizer       *fleet.Sizer
	spawns      common.SpawnQueue
	reports     common.TickReportRepository
	clock       shared.Clock
}

// NewHandlerRegistry creates a new handler registry with required dependencies.
// spawns and reports may be nil.
func NewHandlerRegistry(
	colonies common.ColonyStore,
	coordinator *transport.Coordinator,
	sizer *fleet.Sizer,
	spawns common.SpawnQueue,
	reports common.TickReportRepository,
	clock shared.Clock,
) *HandlerRegistry {
	clock = shared.ClockOrReal(clock)

	return &HandlerRegistry{
		colonies:    colonies,
		coordinator: coordinator,
		sizer:       sizer,
		spawns:      spawns,
		reports:     reports,
		clock:       clock,
	}
}

// RegisterTransportHandlers registers the transport commands and queries:
//   - RunTransportTickCommand → RunTransportTickHandler
//   - RetargetCommand → RetargetHandler
//   - PlanFleetCommand → PlanFleetHandler
//   - FleetStatusQuery → FleetStatusHandler
//   - TickHistoryQuery → TickHistoryHandler (only with a report repository)
func (r *HandlerRegistry) RegisterTransportHandlers(m mediator.Mediator) error {
	tickHandler := transportCmd.NewRunTransportTickHandler(r.colonies, r.coordinator, r.reports, r.clock)
	if err := mediator.RegisterHandler[*transportCmd.RunTransportTickCommand](m, tickHandler); err != nil {
		return fmt.Errorf("failed to register RunTransportTick handler: %w", err)
	}

	retargetHandler := transportCmd.NewRetargetHandler(r.colonies, r.coordinator)
	if err := mediator.RegisterHandler[*transportCmd.RetargetCommand](m, retargetHandler); err != nil {
		return fmt.Errorf("failed to register Retarget handler: %w", err)
	}

	var sink common.SpawnSink
	if r.spawns != nil {
		sink = r.spawns
	}
	planHandler := transportCmd.NewPlanFleetHandler(r.colonies, r.sizer, sink)
	if err := mediator.RegisterHandler[*transportCmd.PlanFleetCommand](m, planHandler); err != nil {
		return fmt.Errorf("failed to register PlanFleet handler: %w", err)
	}

	statusHandler := transportQuery.NewFleetStatusHandler(r.colonies, r.coordinator, r.spawns)
	if err := mediator.RegisterHandler[*transportQuery.FleetStatusQuery](m, statusHandler); err != nil {
		return fmt.Errorf("failed to register FleetStatus handler: %w", err)
	}

	if r.reports != nil {
		historyHandler := transportQuery.NewTickHistoryHandler(r.reports)
		if err := mediator.RegisterHandler[*transportQuery.TickHistoryQuery](m, historyHandler); err != nil {
			return fmt.Errorf("failed to register TickHistory handler: %w", err)
		}
	}

	return nil
}
