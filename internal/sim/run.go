package sim

import (
	"context"
	"time"

	"github.com/aukilabs/go-tooling/pkg/logs"
)

// RunOptions paces a simulation run.
type RunOptions struct {
	// The number of steps to run. 0 runs until the context is done.
	Steps int

	// The minimum wall clock time between two steps. 0 runs steps back to
	// back.
	StepDuration time.Duration

	// The period of the summary logs. 0 disables them.
	SummaryInterval time.Duration
}

// Run steps the world until o.Steps steps were run or ctx is done, and
// returns the stats of the run. A done context is not an error.
func (w *World) Run(ctx context.Context, o RunOptions) (StepStats, error) {
	var tick <-chan time.Time
	if o.StepDuration > 0 {
		ticker := time.NewTicker(o.StepDuration)
		defer ticker.Stop()
		tick = ticker.C
	}

	var run, summary StepStats
	lastSummary := time.Now()

	for o.Steps == 0 || run.Steps < o.Steps {
		if ctx.Err() != nil {
			return run, nil
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return run, nil
			case <-tick:
			}
		}

		stats, err := w.Step()
		if err != nil {
			return run, err
		}
		run.add(stats)
		summary.add(stats)

		if o.SummaryInterval > 0 && time.Since(lastSummary) >= o.SummaryInterval {
			w.logSummary(summary)
			summary = StepStats{}
			lastSummary = time.Now()
		}
	}
	return run, nil
}

func (w *World) logSummary(s StepStats) {
	if s.Steps == 0 {
		return
	}

	logs.WithTag("tree_id", w.tree.ID().String()).
		WithTag("bodies", w.tree.Size()).
		WithTag("tree_height", w.tree.Height()).
		WithTag("steps", s.Steps).
		WithTag("reinserted", s.Reinserted).
		WithTag("churned", s.Spawned).
		WithTag("candidate_pairs", s.CandidatePairs).
		WithTag("visible", s.Visible).
		WithTag("avg_step_duration", (s.Duration / time.Duration(s.Steps)).String()).
		Info("simulation summary")
}
