package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"reflect"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/peterstace/bvh/internal/admin"
	"github.com/peterstace/bvh/internal/sim"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/encoding/json"
)

var (
	// The bvhsim version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "bvhsim_info",
		Help:        "bvhsim information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// Keeps the config field names intact when the binary is obfuscated, so that
// the cli package still generates readable options.
var _ = reflect.TypeOf(config{})

type config struct {
	Bodies             int           `cli:""        env:"BVHSIM_BODIES"               help:"The number of bodies spawned at start."`
	Steps              int           `cli:""        env:"BVHSIM_STEPS"                help:"The number of simulation steps. 0 runs until interrupted."`
	StepDuration       time.Duration `cli:""        env:"BVHSIM_STEP_DURATION"        help:"The wall clock duration of a step. 0 runs steps back to back."`
	WorldSize          float64       `cli:""        env:"BVHSIM_WORLD_SIZE"           help:"The edge of the cube bodies live in."`
	MaxSpeed           float64       `cli:""        env:"BVHSIM_MAX_SPEED"            help:"The maximum body speed per step on each axis."`
	MaxBodySize        float64       `cli:",hidden" env:"BVHSIM_MAX_BODY_SIZE"        help:"The maximum body edge length."`
	Churn              float64       `cli:""        env:"BVHSIM_CHURN"                help:"The fraction of bodies despawned and respawned per step."`
	QueryLimit         int           `cli:""        env:"BVHSIM_QUERY_LIMIT"          help:"The maximum number of results per broad phase query. 0 disables the limit."`
	Seed               int64         `cli:""        env:"BVHSIM_SEED"                 help:"The random seed."`
	AdminAddr          string        `cli:""        env:"BVHSIM_ADMIN_ADDR"           help:"Admin listening address. Empty disables the admin server."`
	LogLevel           string        `cli:""        env:"BVHSIM_LOG_LEVEL"            help:"Log level (debug|info|warning|error)."`
	LogIndent          bool          `cli:""        env:"BVHSIM_LOG_INDENT"           help:"Indent logs."`
	LogSummaryInterval time.Duration `cli:",hidden" env:"BVHSIM_LOG_SUMMARY_INTERVAL" help:"The duration between each simulation summary log."`
	Version            bool          `cli:""        env:"-"                           help:"Show version."`
	Help               bool          `cli:""        env:"-"                           help:"Show help."`
}

type report struct {
	Version    string        `json:"version"`
	TreeID     string        `json:"tree_id"`
	Bodies     int           `json:"bodies"`
	TreeHeight int           `json:"tree_height"`
	Elapsed    string        `json:"elapsed"`
	Totals     sim.StepStats `json:"totals"`
}

func main() {
	conf := config{
		Bodies:             10000,
		Steps:              600,
		StepDuration:       time.Millisecond * 16,
		WorldSize:          1000,
		MaxSpeed:           5,
		MaxBodySize:        10,
		Churn:              0.01,
		QueryLimit:         64,
		Seed:               1,
		AdminAddr:          ":18190",
		LogLevel:           logs.InfoLevel.String(),
		LogSummaryInterval: time.Second * 5,
	}

	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Runs a world of moving bodies indexed by a bounding volume hierarchy.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	world, err := sim.NewWorld(sim.Config{
		Bodies:      conf.Bodies,
		WorldSize:   conf.WorldSize,
		MaxSpeed:    conf.MaxSpeed,
		MaxBodySize: conf.MaxBodySize,
		Churn:       conf.Churn,
		QueryLimit:  conf.QueryLimit,
		Seed:        conf.Seed,
	})
	if err != nil {
		logs.Fatal(errors.New("creating world failed").Wrap(err))
	}

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("tree_id", world.Tree().ID().String()).
		WithTag("bodies", conf.Bodies).
		WithTag("steps", conf.Steps).
		Info("starting bvhsim")

	adminCtx, stopAdmin := context.WithCancel(ctx)
	adminDone := make(chan struct{})
	go func() {
		defer close(adminDone)
		if conf.AdminAddr == "" {
			return
		}
		admin.ListenAndServe(adminCtx, &http.Server{
			Addr:    conf.AdminAddr,
			Handler: admin.Handler(version),
		})
	}()

	start := time.Now()
	totals, err := world.Run(ctx, sim.RunOptions{
		Steps:           conf.Steps,
		StepDuration:    conf.StepDuration,
		SummaryInterval: conf.LogSummaryInterval,
	})
	if err != nil {
		logs.Warn(errors.New("simulation failed").Wrap(err))
	}

	stopAdmin()
	<-adminDone

	if err := printReport(report{
		Version:    version,
		TreeID:     world.Tree().ID().String(),
		Bodies:     world.Tree().Size(),
		TreeHeight: world.Tree().Height(),
		Elapsed:    time.Since(start).String(),
		Totals:     totals,
	}); err != nil {
		logs.Fatal(err)
	}
}

func printReport(r report) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.New("encoding report failed").Wrap(err)
	}
	fmt.Println(string(b))
	return nil
}

func validateConfig(conf config) error {
	if conf.Steps < 0 {
		return errors.New("steps must not be negative").
			WithTag("steps", conf.Steps)
	}

	if conf.StepDuration < 0 {
		return errors.New("step duration must not be negative").
			WithTag("step_duration", conf.StepDuration.String())
	}

	if conf.LogSummaryInterval < 0 {
		return errors.New("log summary interval must not be negative").
			WithTag("log_summary_interval", conf.LogSummaryInterval.String())
	}

	return nil
}
