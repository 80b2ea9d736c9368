package logging

import (
	"fmt"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
)

// LogTelemetry writes telemetry scalars as log lines keyed
// colonies.<colony>.<subsystem>.<metric>
type LogTelemetry struct {
	logger common.ContainerLogger
}

// NewLogTelemetry creates a telemetry sink that logs at DEBUG level
func NewLogTelemetry(logger common.ContainerLogger) *LogTelemetry {
	return &LogTelemetry{logger: logger}
}

func (t *LogTelemetry) Record(colony, subsystem, metric string, value float64) {
	t.logger.Log(common.LevelDebug, "telemetry", map[string]interface{}{
		"key":   fmt.Sprintf("colonies.%s.%s.%s", colony, subsystem, metric),
		"value": value,
	})
}

// FanoutTelemetry forwards every record to several sinks
type FanoutTelemetry []common.TelemetrySink

func (f FanoutTelemetry) Record(colony, subsystem, metric string, value float64) {
	for _, sink := range f {
		if sink != nil {
			sink.Record(colony, subsystem, metric, value)
		}
	}
}
