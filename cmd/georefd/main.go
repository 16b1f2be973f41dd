package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/terrasignal/georef-engine/core"
	"github.com/terrasignal/georef-engine/internal/logging"
	"github.com/terrasignal/georef-engine/internal/observability"
	"github.com/terrasignal/georef-engine/timectrl"
)

// ambientConfig covers the settings that come from the environment rather
// than flags: logging, metrics, and tracing.
type ambientConfig struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	MetricsAddr string `env:"GEOREF_METRICS_ADDR" envDefault:":9090"`
}

// ISS TLE used as the default orbital viewer.
const (
	defaultTLE1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	defaultTLE2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
)

func main() {
	scenePath := flag.String("scene", "", "path to a scene JSON file (origin, rebasing, sub-levels)")
	duration := flag.Duration("duration", 60*time.Second, "total simulation duration")
	tick := flag.Duration("tick", 1*time.Second, "tick interval")
	accelerated := flag.Bool("accelerated", true, "run in accelerated mode (vs real-time)")
	tle1 := flag.String("tle1", defaultTLE1, "TLE line 1 for the orbital viewer")
	tle2 := flag.String("tle2", defaultTLE2, "TLE line 2 for the orbital viewer")
	flag.Parse()

	var cfg ambientConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parse environment: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "init tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	collector, err := observability.NewEngineCollector(nil)
	if err != nil {
		log.Error(ctx, "init metrics", logging.String("error", err.Error()))
		os.Exit(1)
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			log.Warn(ctx, "metrics server stopped", logging.String("error", err.Error()))
		}
	}()

	engine := core.NewEngine(log)
	engine.SetMetrics(collector)

	if *scenePath != "" {
		f, err := os.Open(*scenePath)
		if err != nil {
			log.Error(ctx, "open scene", logging.String("error", err.Error()))
			os.Exit(1)
		}
		summary, err := core.LoadScene(engine, f)
		f.Close()
		if err != nil {
			log.Error(ctx, "load scene", logging.String("error", err.Error()))
			os.Exit(1)
		}
		log.Info(ctx, "scene loaded",
			logging.String("placement", summary.Placement.String()),
			logging.Int("sub_levels", len(summary.SubLevelNames)),
		)
	}

	start := time.Date(2021, 10, 2, 0, 0, 0, 0, time.UTC)
	camera := core.NewOrbitalCamera(engine.Geo, *tle1, *tle2, start)
	engine.World.SetCamera(camera)

	mode := timectrl.RealTime
	if *accelerated {
		mode = timectrl.Accelerated
	}
	clock := timectrl.NewFrameClock(start, *tick, mode)

	// The camera advances and the engine steps first; georeferenced
	// objects would register their listeners after this one.
	clock.AddListener(func(simTime time.Time) {
		camera.Advance(simTime)
		engine.Step()

		origin := engine.Geo.Origin()
		worldOrigin := engine.World.OriginLocation()
		current, _ := engine.Switcher.Current()
		log.Debug(ctx, "tick",
			logging.Float64("origin_lon", origin.LongitudeDeg),
			logging.Float64("origin_lat", origin.LatitudeDeg),
			logging.Int("floating_x", int(worldOrigin.X)),
			logging.Int("floating_y", int(worldOrigin.Y)),
			logging.Int("floating_z", int(worldOrigin.Z)),
			logging.String("sub_level", current),
		)
	})

	log.Info(ctx, "starting georeference engine",
		logging.String("duration", duration.String()),
		logging.String("tick", tick.String()),
	)
	<-clock.Start(*duration)

	origin := engine.Geo.Origin()
	worldOrigin := engine.World.OriginLocation()
	log.Info(ctx, "finished",
		logging.Float64("origin_lon", origin.LongitudeDeg),
		logging.Float64("origin_lat", origin.LatitudeDeg),
		logging.Float64("origin_height", origin.HeightM),
		logging.Int("floating_x", int(worldOrigin.X)),
		logging.Int("floating_y", int(worldOrigin.Y)),
		logging.Int("floating_z", int(worldOrigin.Z)),
	)
}
