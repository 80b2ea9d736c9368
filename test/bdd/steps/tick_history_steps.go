package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/persistence"
	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/simulation"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/setup"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/transport"
	transportCmd "github.com/SupernovaXTS/overmind-logistics/internal/application/transport/commands"
	transportQuery "github.com/SupernovaXTS/overmind-logistics/internal/application/transport/queries"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/fleet"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
	"github.com/SupernovaXTS/overmind-logistics/test/helpers"
)

type tickHistoryContext struct {
	world    *simulation.World
	mediator mediator.Mediator
	clock    *shared.MockClock
	reports  []*common.TickReport
}

func (hc *tickHistoryContext) reset() error {
	hc.world = nil
	hc.mediator = nil
	hc.clock = shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	hc.reports = nil
	return helpers.TruncateAllTables()
}

func (hc *tickHistoryContext) aDaemonServesTheWorld(doc *godog.DocString) error {
	wf, err := simulation.ParseWorldFile([]byte(doc.Content))
	if err != nil {
		return err
	}
	world, err := simulation.NewWorld(wf)
	if err != nil {
		return err
	}

	coordinator := transport.NewCoordinator(transport.DefaultConfig(), world.Oracle(), nil, nil,
		persistence.NewGormColonyMemory(helpers.SharedTestDB, hc.clock))
	sizer := fleet.NewSizer(fleet.DefaultSizerConfig(), world.Oracle())

	med := mediator.NewMediator()
	registry := setup.NewHandlerRegistry(
		world,
		coordinator,
		sizer,
		persistence.NewGormSpawnQueue(helpers.SharedTestDB, hc.clock),
		persistence.NewGormTickReportRepository(helpers.SharedTestDB),
		hc.clock,
	)
	if err := registry.RegisterTransportHandlers(med); err != nil {
		return err
	}

	hc.world = world
	hc.mediator = med
	return nil
}

func (hc *tickHistoryContext) theDaemonRunsTicksFor(ticks int, colonyName string) error {
	ctx := context.Background()
	for i := 0; i < ticks; i++ {
		if _, err := hc.mediator.Send(ctx, &transportCmd.RunTransportTickCommand{Colony: colonyName}); err != nil {
			return err
		}
		if err := hc.world.Step(ctx); err != nil {
			return err
		}
		hc.clock.Advance(time.Second)
	}
	return nil
}

func (hc *tickHistoryContext) theLastReportsOfAreRequested(limit int, colonyName string) error {
	resp, err := hc.mediator.Send(context.Background(), &transportQuery.TickHistoryQuery{Colony: colonyName, Limit: limit})
	if err != nil {
		return err
	}
	history, ok := resp.(*transportQuery.TickHistoryResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", resp)
	}
	hc.reports = history.Reports
	return nil
}

func (hc *tickHistoryContext) reportsAreListed(count int) error {
	if len(hc.reports) != count {
		return fmt.Errorf("expected %d reports, got %d", count, len(hc.reports))
	}
	return nil
}

func (hc *tickHistoryContext) theReportsAreNewestFirst() error {
	for i := 1; i < len(hc.reports); i++ {
		if hc.reports[i].Tick >= hc.reports[i-1].Tick {
			return fmt.Errorf("report %d (tick %d) is not older than report %d (tick %d)",
				i, hc.reports[i].Tick, i-1, hc.reports[i-1].Tick)
		}
	}
	return nil
}

func (hc *tickHistoryContext) everyReportCounts(agents int) error {
	for _, r := range hc.reports {
		if r.Agents != agents {
			return fmt.Errorf("tick %d reported %d agents, expected %d", r.Tick, r.Agents, agents)
		}
		if r.Matched+r.Fallbacks+r.Parked+r.Evading+r.Errors > r.Agents {
			return fmt.Errorf("tick %d outcome counts exceed its %d agents", r.Tick, r.Agents)
		}
	}
	return nil
}

// InitializeTickHistoryScenario registers the persisted tick report steps
func InitializeTickHistoryScenario(sc *godog.ScenarioContext) {
	hc := &tickHistoryContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, hc.reset()
	})

	sc.Step(`^a daemon serves the world:$`, hc.aDaemonServesTheWorld)
	sc.Step(`^the daemon runs (\d+) ticks for "([^"]*)"$`, hc.theDaemonRunsTicksFor)
	sc.Step(`^the last (\d+) reports of "([^"]*)" are requested$`, hc.theLastReportsOfAreRequested)
	sc.Step(`^(\d+) reports? (?:is|are) listed$`, hc.reportsAreListed)
	sc.Step(`^the reports are newest first$`, hc.theReportsAreNewestFirst)
	sc.Step(`^every report counts (\d+) agents?$`, hc.everyReportCounts)
}
