package transport

import (
	"context"
	"strconv"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/fleet"
)

const (
	// DowntimeMemoryKey is the colony memory key of the downtime average
	DowntimeMemoryKey = "transportNetwork.downtime"

	telemetrySubsystem = "transportNetwork"
	telemetryDowntime  = "downtime"
)

// EMA folds current into a moving average over window samples. Values that
// decay below 1e-9 snap to zero.
func EMA(current, average float64, window int) float64 {
	if window <= 1 {
		return current
	}
	next := (current + average*float64(window-1)) / float64(window)
	if next < 1e-9 && next > -1e-9 {
		return 0
	}
	return next
}

// recordDowntime updates the idle-fraction moving average in colony memory
// and emits it to telemetry. An empty fleet leaves the average untouched; an
// unreadable average restarts from zero.
func (co *Coordinator) recordDowntime(ctx context.Context, c *colony.Colony) (float64, error) {
	previous, err := co.loadDowntime(ctx, c.Name())
	if err != nil {
		common.LoggerFromContext(ctx).Log(common.LevelWarning, "Failed to read transport downtime", map[string]interface{}{
			"colony": c.Name(),
			"error":  err.Error(),
		})
		previous = 0
	}

	report := fleet.Summarize(c, colony.RoleTransport)
	if report.Total == 0 {
		return previous, nil
	}

	downtime := EMA(report.IdleFraction(), previous, co.cfg.DowntimeWindow)
	if co.telemetry != nil {
		co.telemetry.Record(c.Name(), telemetrySubsystem, telemetryDowntime, downtime)
	}
	if co.memory != nil {
		if err := co.memory.Set(ctx, c.Name(), DowntimeMemoryKey, strconv.FormatFloat(downtime, 'g', -1, 64)); err != nil {
			return downtime, err
		}
	}
	return downtime, nil
}

// Downtime returns the stored downtime average of a colony
func (co *Coordinator) Downtime(ctx context.Context, colonyName string) (float64, error) {
	return co.loadDowntime(ctx, colonyName)
}

func (co *Coordinator) loadDowntime(ctx context.Context, colonyName string) (float64, error) {
	if co.memory == nil {
		return 0, nil
	}
	raw, found, err := co.memory.Get(ctx, colonyName, DowntimeMemoryKey)
	if err != nil || !found {
		return 0, err
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, nil
	}
	return value, nil
}
