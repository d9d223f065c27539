package studio

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

const statsWindow = 100

// durationWindow keeps the most recent generation durations in a ring
type durationWindow struct {
	seconds  []float64
	next     int
	full     bool
	outcomes map[string]int
}

func newDurationWindow(size int) durationWindow {
	return durationWindow{
		seconds:  make([]float64, size),
		outcomes: make(map[string]int),
	}
}

func (w *durationWindow) add(d time.Duration, outcome string) {
	w.seconds[w.next] = d.Seconds()
	w.next++
	if w.next == len(w.seconds) {
		w.next = 0
		w.full = true
	}
	w.outcomes[outcome]++
}

func (w *durationWindow) values() []float64 {
	if w.full {
		return append([]float64(nil), w.seconds...)
	}
	return append([]float64(nil), w.seconds[:w.next]...)
}

// GenerationStats summarizes the durations of the last generation cycles
// and counts every outcome since start.
func (s *Store) GenerationStats() types.GenerationStats {
	s.mu.RLock()
	values := s.stats.values()
	outcomes := make(map[string]int, len(s.stats.outcomes))
	for k, v := range s.stats.outcomes {
		outcomes[k] = v
	}
	s.mu.RUnlock()

	out := types.GenerationStats{Count: len(values), Outcomes: outcomes}
	if len(values) == 0 {
		return out
	}

	sort.Float64s(values)
	out.MeanSeconds = stat.Mean(values, nil)
	if len(values) > 1 {
		out.StdDev = stat.StdDev(values, nil)
	}
	out.P50Seconds = stat.Quantile(0.5, stat.Empirical, values, nil)
	out.P95Seconds = stat.Quantile(0.95, stat.Empirical, values, nil)

	if math.IsNaN(out.StdDev) {
		out.StdDev = 0
	}
	return out
}
