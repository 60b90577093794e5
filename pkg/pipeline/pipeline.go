// Package pipeline runs a full resolution: it loads map records and
// extractor topology, resolves units, groups, supergroups and faults,
// fuses the result into one graph and writes the artifacts.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-strata/pkg/artifacts"
	"github.com/dd0wney/cluso-strata/pkg/authority"
	"github.com/dd0wney/cluso-strata/pkg/config"
	"github.com/dd0wney/cluso-strata/pkg/extractor"
	"github.com/dd0wney/cluso-strata/pkg/faults"
	"github.com/dd0wney/cluso-strata/pkg/fusion"
	"github.com/dd0wney/cluso-strata/pkg/groups"
	"github.com/dd0wney/cluso-strata/pkg/logging"
	"github.com/dd0wney/cluso-strata/pkg/mapdata"
	"github.com/dd0wney/cluso-strata/pkg/metrics"
	"github.com/dd0wney/cluso-strata/pkg/storage"
	"github.com/dd0wney/cluso-strata/pkg/strata"
	"github.com/dd0wney/cluso-strata/pkg/stratigraphy"
	"github.com/dd0wney/cluso-strata/pkg/supergroups"
)

var (
	ErrNoProvider  = errors.New("no map data provider")
	ErrNoExtractor = errors.New("no topology extractor")
)

// Options wires a pipeline. Provider and Extractor are required; a nil
// Sink skips artifact output.
type Options struct {
	Config    *config.Config
	Provider  mapdata.Provider
	Extractor extractor.Extractor
	Sink      artifacts.Sink
	// Authority overrides the source built from Config.
	Authority authority.Source
	Contact   faults.ContactChecker
	Logger    logging.Logger
	Metrics   *metrics.Registry
	// RunID identifies the run in metadata and logs. Generated when empty.
	RunID string
}

// Result holds every intermediate product of a run.
type Result struct {
	RunID            string
	Units            []strata.Unit
	Ages             []groups.Age
	Strat            *stratigraphy.Result
	Groups           *groups.Result
	Sorts            []groups.SortRow
	Supergroups      *supergroups.Result
	Network          *faults.Network
	Faults           []faults.Attributes
	UnitFaults       *faults.Incidence
	GroupFaults      *faults.Incidence
	SupergroupFaults *faults.Incidence
	Graph            *storage.GraphStorage
	Presentation     *fusion.Presentation
	Warnings         strata.Warnings
	Artifacts        []string
	Duration         time.Duration
}

// Pipeline is a configured resolution run.
type Pipeline struct {
	cfg       *config.Config
	provider  mapdata.Provider
	extractor extractor.Extractor
	sink      artifacts.Sink
	source    authority.Source
	contact   faults.ContactChecker
	logger    logging.Logger
	metrics   *metrics.Registry
	runID     string
}

// New validates opts and returns a pipeline. A nil Config means defaults.
func New(opts Options) (*Pipeline, error) {
	if opts.Provider == nil {
		return nil, ErrNoProvider
	}
	if opts.Extractor == nil {
		return nil, ErrNoExtractor
	}
	cfg := opts.Config
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:       cfg,
		provider:  opts.Provider,
		extractor: opts.Extractor,
		sink:      opts.Sink,
		source:    opts.Authority,
		contact:   opts.Contact,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		runID:     opts.RunID,
	}
	if p.source == nil {
		p.source = AuthoritySource(cfg.Authority)
	}
	if p.logger == nil {
		p.logger = logging.Default()
	}
	if p.metrics == nil {
		p.metrics = metrics.NewRegistry()
	}
	if p.runID == "" {
		p.runID = uuid.NewString()
	}
	p.logger = p.logger.With(logging.RunID(p.runID))
	return p, nil
}

// RunID returns the identifier stamped on this run.
func (p *Pipeline) RunID() string { return p.runID }

// Run executes every stage in order. The first fatal error stops the run;
// warnings collected so far are still logged.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	p.metrics.MarkRunStart(start, p.runID)
	res := &Result{RunID: p.runID}

	in := &inputs{}
	stages := []struct {
		name string
		fn   func(context.Context, *inputs, *Result) error
	}{
		{strata.StageLoad, p.loadInputs},
		{strata.StageExtract, p.extractTopology},
		{strata.StageAuthority, p.loadAuthority},
		{strata.StageStratigraphy, p.resolveUnits},
		{strata.StageGroups, p.aggregateGroups},
		{strata.StageSupergroups, p.clusterSupergroups},
		{strata.StageFaults, p.resolveFaults},
		{strata.StageFusion, p.fuseGraph},
		{strata.StageExport, p.writeArtifacts},
	}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.stage(ctx, s.name, in, res, s.fn); err != nil {
			res.Warnings.Log(p.logger)
			return nil, err
		}
	}

	res.Duration = time.Since(start)
	p.logger.Info("run complete",
		logging.Latency(res.Duration),
		logging.Int("warnings", len(res.Warnings)),
		logging.Int("artifacts", len(res.Artifacts)),
	)
	return res, nil
}

func (p *Pipeline) stage(ctx context.Context, name string, in *inputs, res *Result, fn func(context.Context, *inputs, *Result) error) error {
	timer := logging.StartTimer(p.logger, "stage finished", logging.Stage(name))
	before := len(res.Warnings)

	err := fn(ctx, in, res)
	p.metrics.RecordStage(name, err, timer.Elapsed())
	if err != nil {
		timer.EndError(err)
		return err
	}

	added := res.Warnings[before:]
	if len(added) > 0 {
		p.metrics.RecordWarnings(name, len(added))
		added.Log(p.logger)
	}
	timer.End(logging.Int("warnings", len(added)))
	return nil
}

// WriteMetrics writes the run metrics as a node_exporter text file.
func (p *Pipeline) WriteMetrics(path string) error {
	return p.metrics.WriteTextfile(path)
}
