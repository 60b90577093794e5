package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-strata/pkg/artifacts"
	"github.com/dd0wney/cluso-strata/pkg/config"
	"github.com/dd0wney/cluso-strata/pkg/extractor"
	"github.com/dd0wney/cluso-strata/pkg/health"
	"github.com/dd0wney/cluso-strata/pkg/logging"
	"github.com/dd0wney/cluso-strata/pkg/mapdata"
	"github.com/dd0wney/cluso-strata/pkg/metrics"
	"github.com/dd0wney/cluso-strata/pkg/pipeline"
)

func main() {
	var (
		configFile = flag.String("config", "", "YAML configuration file")
		envFile    = flag.String("env", ".env", "Environment file with STRATA_* overrides")
		inputDir   = flag.String("input", ".", "Directory of map data tables")
		graphDir   = flag.String("graph", ".", "Directory of topology extractor output")
		outputDir  = flag.String("output", "", "Output directory (overrides config)")
		quiet      = flag.Bool("quiet", false, "Do not print the run summary")
		check      = flag.Bool("check", false, "Run preflight checks, print them as JSON and exit")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile, *envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	logger := logging.New(cfg.Logging.Format, os.Stderr, logging.ParseLevel(cfg.Logging.Level))
	logging.SetDefaultLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files := extractor.Files{Dir: *graphDir}
	report := pipeline.Preflight(cfg, *inputDir, files).Check(ctx)
	if *check {
		if err := report.WriteJSON(os.Stdout); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		if report.Err() != nil {
			os.Exit(1)
		}
		return
	}
	if err := report.Err(); err != nil {
		logger.Error("preflight failed", logging.Error(err))
		os.Exit(1)
	}
	for _, name := range report.Order {
		if c := report.Checks[name]; c.Status == health.StatusDegraded {
			logger.Warn("preflight degraded", logging.String("check", name), logging.String("reason", c.Message))
		}
	}

	res, err := run(ctx, cfg, *inputDir, files, logger)
	if err != nil {
		logger.Error("run failed", logging.Error(err))
		os.Exit(1)
	}
	if !*quiet {
		fmt.Println(renderSummary(res))
	}
}

func run(ctx context.Context, cfg *config.Config, inputDir string, files extractor.Files, logger logging.Logger) (*pipeline.Result, error) {
	provider, err := mapdata.OpenDir(inputDir)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	sink, err := openSink(ctx, cfg.Output, runID)
	if err != nil {
		return nil, err
	}

	reg := metrics.NewRegistry()
	p, err := pipeline.New(pipeline.Options{
		Config:    cfg,
		Provider:  provider,
		Extractor: files,
		Sink:      sink,
		Logger:    logger,
		Metrics:   reg,
		RunID:     runID,
	})
	if err != nil {
		return nil, err
	}

	res, err := p.Run(ctx)
	if cfg.MetricsFile != "" {
		if merr := p.WriteMetrics(cfg.MetricsFile); merr != nil {
			logger.Warn("failed to write metrics", logging.Path(cfg.MetricsFile), logging.Error(merr))
		}
	}
	return res, err
}

// openSink writes locally, and also to S3 under <prefix>/<run id> when
// a bucket is configured.
func openSink(ctx context.Context, out config.OutputConfig, runID string) (artifacts.Sink, error) {
	local := &artifacts.Local{Dir: out.Dir}
	if out.S3.Bucket == "" {
		return local, nil
	}
	remote, err := artifacts.NewS3(ctx, artifacts.S3Options{
		Bucket:   out.S3.Bucket,
		Prefix:   path.Join(out.S3.Prefix, runID),
		Region:   out.S3.Region,
		Endpoint: out.S3.Endpoint,
	})
	if err != nil {
		return nil, err
	}
	return artifacts.Multi{local, remote}, nil
}
