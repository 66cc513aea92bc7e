package app

import (
	"fmt"

	"github.com/MKhiriev/autoenv/internal/persistence"
)

// persistStats sums the persistence counters over every file.
type persistStats struct {
	Updates        float64
	SkippedUpdates float64
	Writes         float64
	WriteFailures  float64
}

func (a *App) gatherPersistStats() (persistStats, error) {
	var stats persistStats

	families, err := a.gatherer.Gather()
	if err != nil {
		return stats, fmt.Errorf("gather persistence metrics: %w", err)
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			v := m.GetCounter().GetValue()
			switch mf.GetName() {
			case persistence.MetricUpdatesTotal:
				stats.Updates += v
			case persistence.MetricSkippedUpdatesTotal:
				stats.SkippedUpdates += v
			case persistence.MetricWritesTotal:
				failed := false
				for _, l := range m.GetLabel() {
					if l.GetName() == "status" && l.GetValue() == persistence.StatusFailure {
						failed = true
					}
				}
				if failed {
					stats.WriteFailures += v
				} else {
					stats.Writes += v
				}
			}
		}
	}
	return stats, nil
}

// logPersistStats logs the counters of this run. Failed writes raise the
// entry to warn.
func (a *App) logPersistStats() {
	stats, err := a.gatherPersistStats()
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to read persistence stats")
		return
	}

	event := a.log.Debug()
	if stats.WriteFailures > 0 {
		event = a.log.Warn()
	}
	event.
		Float64("updates", stats.Updates).
		Float64("skipped_updates", stats.SkippedUpdates).
		Float64("writes", stats.Writes).
		Float64("write_failures", stats.WriteFailures).
		Msg("persistence stats")
}
