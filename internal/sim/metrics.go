package sim

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/peterstace/bvh"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	errTypeLabel = "error_type"
	queryLabel   = "query"
	opLabel      = "op"

	broadPhaseQuery = "broad_phase"
	visibilityQuery = "visibility"
	pickQuery       = "pick"

	spawnOp   = "spawn"
	despawnOp = "despawn"
)

var (
	simSteps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bvhsim_steps",
		Help: "The number of simulation steps.",
	})

	simStepLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "bvhsim_step_latency",
		Help: "The time to run a simulation step, in seconds.",
	})

	simReinsertedBodies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bvhsim_reinserted_bodies",
		Help: "The number of bodies that left their parent envelope and were reinserted.",
	})

	simChurnedBodies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bvhsim_churned_bodies",
		Help: "The number of spawned and despawned bodies.",
	}, []string{
		opLabel,
	})

	simCandidatePairs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bvhsim_candidate_pairs",
		Help: "The number of body pairs reported by the broad phase.",
	})

	simQueryResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bvhsim_query_results",
		Help:    "The number of elements returned by a tree query.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{
		queryLabel,
	})

	simQueryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bvhsim_query_errors",
		Help: "The errors that occured while querying the tree.",
	}, []string{
		queryLabel,
		errTypeLabel,
	})

	simTreeSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bvhsim_tree_size",
		Help: "The number of bodies tracked by the tree.",
	})

	simTreeHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bvhsim_tree_height",
		Help: "The height of the tree.",
	})

	simTreeNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bvhsim_tree_nodes",
		Help: "The number of leaf and internal nodes in the tree.",
	})

	simTreeVolume = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bvhsim_tree_volume",
		Help: "The volume of the box enclosing every body.",
	})
)

func instrumentStep(s StepStats) {
	simSteps.Add(float64(s.Steps))
	simStepLatency.Observe(s.Duration.Seconds())
	simReinsertedBodies.Add(float64(s.Reinserted))
	simCandidatePairs.Add(float64(s.CandidatePairs))
}

func instrumentChurn(op string) {
	simChurnedBodies.
		With(prometheus.Labels{
			opLabel: op,
		}).
		Inc()
}

func instrumentQuery(query string, results int) {
	simQueryResults.
		With(prometheus.Labels{
			queryLabel: query,
		}).
		Observe(float64(results))
}

func instrumentQueryError(query string, err error) {
	simQueryErrors.
		With(prometheus.Labels{
			queryLabel:   query,
			errTypeLabel: errors.Type(err),
		}).
		Inc()
}

func instrumentTree(t *bvh.Tree[*Body]) {
	stats := t.Stats()
	simTreeSize.Set(float64(stats.Leaves))
	simTreeHeight.Set(float64(stats.Height))
	simTreeNodes.Set(float64(stats.Nodes))
	simTreeVolume.Set(stats.Volume)
}
