package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	lib "github.com/theoremus-urban-solutions/railtracker"
	"github.com/theoremus-urban-solutions/railtracker/config"
	"github.com/theoremus-urban-solutions/railtracker/estimate"
	"github.com/theoremus-urban-solutions/railtracker/route"
	"github.com/theoremus-urban-solutions/railtracker/sampler"
	"github.com/theoremus-urban-solutions/railtracker/session"
)

func main() {
	configPath := flag.String("config", "", "path to config.yml (default: search config.yml, ./config/config.yml)")
	sourceKind := flag.String("source", "", "gtfsrt|replay|push (overrides config)")
	station := flag.String("station", "", "initial station name (overrides config)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	lib.InitLogging()
	if err := run(*configPath, *sourceKind, *station, *port); err != nil {
		log.Printf("fatal: %v", err)
		os.Exit(1)
	}
}

func run(configPath, sourceKind, station string, port int) error {
	var paths []string
	if configPath != "" {
		paths = []string{configPath}
	}
	cfg, err := config.LoadAppConfig(paths...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if sourceKind != "" {
		cfg.Source.Kind = sourceKind
	}
	if station != "" {
		cfg.Tracking.InitialStation = station
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	model, err := loadModel(cfg)
	if err != nil {
		return fmt.Errorf("load route: %w", err)
	}
	log.Printf("route loaded: %.2f km, %d stations", model.Length(), len(model.Stations()))

	sess := session.New(model, session.Config{
		Origin:   route.Position{Longitude: cfg.Tracking.Origin.Longitude, Latitude: cfg.Tracking.Origin.Latitude},
		Interval: cfg.SampleInterval(),
		Estimate: estimate.Config{
			SpeedThresholdKMH: cfg.Tracking.SpeedThresholdKMH,
			DefaultSpeedKMH:   cfg.Tracking.DefaultSpeedKMH,
		},
	})
	if cfg.Tracking.InitialStation != "" {
		if err := sess.Select(cfg.Tracking.InitialStation); err != nil {
			return err
		}
	}

	source, push, err := buildSource(cfg)
	if err != nil {
		return fmt.Errorf("build source: %w", err)
	}
	poller := sampler.NewPoller(source, cfg.SampleInterval(), cfg.SourceTimeout())
	srv := lib.NewServer(cfg, sess, push)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error { return poller.Run(gctx) })
	g.Go(func() error { return sess.Consume(gctx, poller.Samples()) })
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("shutdown signal received")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func loadModel(cfg *config.AppConfig) (*route.Model, error) {
	f := newFetcher(cfg.SourceTimeout())
	opt := route.WithProjectionCache(cfg.Route.ProjectionCacheSize)
	if cfg.Route.GTFSFile != "" {
		data, err := f.fetch(cfg.Route.GTFSFile)
		if err != nil {
			return nil, err
		}
		return route.LoadGTFS(bytes.NewReader(data), int64(len(data)), cfg.Route.ShapeID, cfg.Route.MaxStationOffsetKM, opt)
	}
	line, err := f.fetch(cfg.Route.LineFile)
	if err != nil {
		return nil, err
	}
	stations, err := f.fetch(cfg.Route.StationsFile)
	if err != nil {
		return nil, err
	}
	return route.LoadGeoJSON(line, stations, cfg.Route.StationNameProperty, opt)
}

func buildSource(cfg *config.AppConfig) (sampler.Source, *sampler.PushSource, error) {
	switch cfg.Source.Kind {
	case "gtfsrt":
		src := sampler.NewGTFSRTSource(cfg.Source.GTFSRT.VehiclePositionsURL, cfg.Source.GTFSRT.VehicleID, cfg.SourceTimeout())
		return src, nil, nil
	case "replay":
		src, err := sampler.LoadReplayFile(cfg.Source.Replay.File, cfg.Source.Replay.Loop)
		if err != nil {
			return nil, nil, err
		}
		return src, nil, nil
	default:
		push := sampler.NewPushSource()
		return push, push, nil
	}
}
