package common

import (
	"context"
	"time"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/fleet"
)

// TelemetrySink receives periodic scalar metrics keyed by colony and subsystem
type TelemetrySink interface {
	Record(colony, subsystem, metric string, value float64)
}

// ColonyMemory is a per-colony key-value store that survives restarts
type ColonyMemory interface {
	Get(ctx context.Context, colony, key string) (value string, found bool, err error)
	Set(ctx context.Context, colony, key, value string) error
}

// SpawnSink hands spawn requests to whatever builds agents
type SpawnSink interface {
	Wishlist(ctx context.Context, request fleet.SpawnRequest) error
}

// SpawnQueue is a SpawnSink whose pending requests can be listed
type SpawnQueue interface {
	SpawnSink
	Pending(ctx context.Context, colony string) ([]fleet.SpawnRequest, error)
}

// ColonyStore serialises access to live colony snapshots. fn runs with the
// colony locked; the snapshot must not be retained after fn returns.
type ColonyStore interface {
	WithColony(ctx context.Context, name string, fn func(c *colony.Colony) error) error
	ColonyNames() []string
}

// TickReport summarises one coordinator pass for history
type TickReport struct {
	Colony     string
	Tick       int
	Agents     int
	Matched    int
	Fallbacks  int
	Parked     int
	Evading    int
	Errors     int
	Downtime   float64
	Requests   int
	RecordedAt time.Time
}

// TickReportRepository persists tick summaries
type TickReportRepository interface {
	Save(ctx context.Context, report *TickReport) error
	ListRecent(ctx context.Context, colony string, limit int) ([]*TickReport, error)
}
