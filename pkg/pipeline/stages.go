package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dd0wney/cluso-strata/pkg/authority"
	"github.com/dd0wney/cluso-strata/pkg/extractor"
	"github.com/dd0wney/cluso-strata/pkg/faults"
	"github.com/dd0wney/cluso-strata/pkg/fusion"
	"github.com/dd0wney/cluso-strata/pkg/groups"
	"github.com/dd0wney/cluso-strata/pkg/logging"
	"github.com/dd0wney/cluso-strata/pkg/mapdata"
	"github.com/dd0wney/cluso-strata/pkg/storage"
	"github.com/dd0wney/cluso-strata/pkg/strata"
	"github.com/dd0wney/cluso-strata/pkg/stratigraphy"
	"github.com/dd0wney/cluso-strata/pkg/supergroups"
)

// inputs carries loaded records between stages.
type inputs struct {
	faults    *mapdata.Faults
	girdles   []strata.Girdle
	thickness []strata.Thickness
	points    []strata.Point
	deposits  []strata.Deposit
	dtm       *strata.DTM
	bbox      *strata.BBox
	topology  *extractor.RawTopology
	raw       *storage.GraphStorage
	table     *authority.Table
}

func (p *Pipeline) loadInputs(ctx context.Context, in *inputs, res *Result) error {
	fail := func(what string, err error) error {
		return strata.NewError(strata.StageLoad).Context("%s", what).Cause(err).Err()
	}
	var err error
	if res.Units, err = p.provider.Units(ctx); err != nil {
		return fail("units", err)
	}
	if in.faults, err = p.provider.Faults(ctx); err != nil {
		return fail("faults", err)
	}
	if in.girdles, err = p.provider.Structures(ctx); err != nil {
		return fail("structures", err)
	}
	if in.thickness, err = p.provider.Thickness(ctx); err != nil {
		return fail("thickness", err)
	}
	if in.points, err = p.provider.Points(ctx); err != nil {
		return fail("points", err)
	}
	if in.deposits, err = p.provider.Deposits(ctx); err != nil {
		return fail("deposits", err)
	}
	if in.dtm, err = p.provider.DTM(ctx); err != nil {
		return fail("dtm", err)
	}
	if in.bbox, err = p.provider.BBox(ctx); err != nil {
		return fail("bbox", err)
	}

	p.logger.Info("map data loaded",
		logging.Int("units", len(res.Units)),
		logging.Int("faults", len(in.faults.Dimensions)),
		logging.Int("girdles", len(in.girdles)),
		logging.Int("points", len(in.points)),
	)
	return nil
}

func (p *Pipeline) extractTopology(ctx context.Context, in *inputs, _ *Result) error {
	topo, err := p.extractor.Extract(ctx)
	if err != nil {
		return err
	}
	if topo.StratGraph == nil {
		return strata.NewError(strata.StageExtract).
			Cause(fmt.Errorf("%w: no stratigraphic graph", strata.ErrInvalidInput)).Err()
	}
	raw, err := topo.StratGraph.Graph()
	if err != nil {
		return err
	}
	in.topology = topo
	in.raw = raw
	p.metrics.RecordGraph("raw", raw.NodeCount(), raw.EdgeCount())
	return nil
}

func (p *Pipeline) loadAuthority(ctx context.Context, in *inputs, res *Result) error {
	if p.source == nil {
		return nil
	}
	if p.cfg.Authority.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Authority.Timeout)
		defer cancel()
	}
	table, warnings := authority.Load(ctx, p.source, p.logger, p.metrics)
	res.Warnings = append(res.Warnings, warnings...)
	if table == nil {
		return nil
	}
	in.table = table

	oriented, flipped := stratigraphy.Reorient(in.raw, table)
	in.raw = oriented
	p.logger.Debug("raw graph reoriented", logging.Int("flipped", flipped))
	return nil
}

func (p *Pipeline) resolveUnits(_ context.Context, in *inputs, res *Result) error {
	mode, err := stratigraphy.ParseMode(p.cfg.Ordering.UnitMode)
	if err != nil {
		return err
	}
	strat, err := stratigraphy.Resolve(in.raw, stratigraphy.Options{
		Authority:  in.table,
		Mode:       mode,
		MaxOrders:  p.cfg.Ordering.MaxOrders,
		CycleLimit: p.cfg.Ordering.CycleLimit,
		Logger:     p.logger,
	})
	if err != nil {
		return err
	}
	res.Strat = strat
	res.Warnings = append(res.Warnings, strat.Warnings...)
	for _, e := range strat.Removed {
		p.logger.Debug("overlie edge removed", logging.Unit(e.Over), logging.String("under", e.Under), logging.String("code", string(e.Code)))
	}
	p.metrics.RecordCycleBreaking(strata.StageStratigraphy, strat.Cycles, len(strat.Removed), strat.Longest)
	return nil
}

func (p *Pipeline) aggregateGroups(_ context.Context, in *inputs, res *Result) error {
	res.Ages = groups.Ages(res.Units)
	if p.logger.Enabled(logging.DebugLevel) {
		for _, a := range res.Ages {
			p.logger.Debug("group age", logging.Group(a.Group), logging.Float64("mean", a.Mean))
		}
	}
	agg, err := groups.Aggregate(in.raw, res.Ages, groups.Options{
		EnumerationLimit: p.cfg.Ordering.GroupEnumerationLimit,
		MaxOrders:        p.cfg.Ordering.MaxOrders,
		EqualAgeFallback: p.cfg.Ordering.EqualAgeFallback,
		CycleLimit:       p.cfg.Ordering.CycleLimit,
		Logger:           p.logger,
	})
	if err != nil {
		return err
	}
	res.Groups = agg
	res.Warnings = append(res.Warnings, agg.Warnings...)
	res.Sorts = groups.AllSorts(agg.Order, res.Strat)
	p.metrics.RecordCycleBreaking(strata.StageGroups, agg.Cycles, len(agg.Removed), agg.Longest)
	p.metrics.RecordGraph("groups", agg.Graph.NodeCount(), agg.Graph.EdgeCount())
	return nil
}

func (p *Pipeline) clusterSupergroups(_ context.Context, in *inputs, res *Result) error {
	classes := supergroups.Classify(res.Units, supergroups.Keywords{
		Intrusive: p.cfg.Keywords.Intrusive,
		Sill:      p.cfg.Keywords.Sill,
	})
	res.Supergroups = supergroups.Cluster(res.Groups.Order, in.girdles, classes, supergroups.Options{
		Misorientation: p.cfg.Misorientation,
		Cover:          p.cfg.CoverMap,
	})
	p.logger.Info("supergroups clustered",
		logging.Int("supergroups", len(res.Supergroups.Supergroups)),
		logging.Int("groups", len(res.Supergroups.Groups)),
	)
	return nil
}

func (p *Pipeline) resolveFaults(ctx context.Context, in *inputs, res *Result) error {
	f := in.faults
	tracked := faults.Tracked(f.Dimensions, p.cfg.Faults.MinLength)
	if err := faults.CheckGeometries(f.Geometries, tracked); err != nil {
		return err
	}

	net, err := faults.Resolve(in.topology.FaultIntersections, tracked, p.cfg.Ordering.CycleLimit)
	if err != nil {
		return err
	}
	res.Network = net
	res.Warnings = append(res.Warnings, net.Warnings...)
	p.metrics.RecordCycleBreaking(strata.StageFaults, net.Cycles, len(net.Removed), net.Longest)
	p.metrics.RecordGraph("faults", net.Graph.NodeCount(), net.Graph.EdgeCount())

	dims := uniqueDimensions(f.Dimensions)
	clusters, err := faults.ClusterFaults(ctx, trackedDimensions(dims, tracked), f.Orientations, faults.ClusterOptions{
		OrientationClusters: p.cfg.Faults.OrientationClusters,
		LengthClusters:      p.cfg.Faults.LengthClusters,
		Workers:             p.cfg.Faults.Workers,
	})
	if err != nil {
		return strata.NewError(strata.StageFaults).Context("clustering").Cause(err).Err()
	}
	res.Faults = faults.BuildAttributes(dims, f.Orientations, f.Points, clusters)

	units := groups.UnitOrder(res.Sorts)
	res.UnitFaults = faults.UnitFaults(in.topology.UnitFaultIntersections, units, tracked)
	res.GroupFaults = faults.GroupFaults(res.UnitFaults, res.Strat.UnitGroups(), res.Groups.Order, p.contact)
	labels := make([]string, len(res.Supergroups.Supergroups))
	for i, sg := range res.Supergroups.Supergroups {
		labels[i] = sg.Label
	}
	res.SupergroupFaults = faults.SupergroupFaults(res.GroupFaults, res.Supergroups.Membership, labels)

	p.logger.Info("fault network resolved",
		logging.Int("tracked", len(tracked)),
		logging.Int("edges", net.Graph.EdgeCount()),
		logging.Int("unit_contacts", res.UnitFaults.Count()),
		logging.Int("group_contacts", res.GroupFaults.Count()),
	)
	return nil
}

// uniqueDimensions keeps the first dimension row of every fault. Every
// fault in the table becomes a fused node, tracked or not.
func uniqueDimensions(dims []strata.FaultDimension) []strata.FaultDimension {
	seen := make(map[string]bool, len(dims))
	out := make([]strata.FaultDimension, 0, len(dims))
	for _, d := range dims {
		id := strata.FaultKey(d.Fault)
		if !seen[id] {
			seen[id] = true
			out = append(out, d)
		}
	}
	return out
}

func trackedDimensions(dims []strata.FaultDimension, tracked []string) []strata.FaultDimension {
	keep := make(map[string]bool, len(tracked))
	for _, id := range tracked {
		keep[id] = true
	}
	out := make([]strata.FaultDimension, 0, len(tracked))
	for _, d := range dims {
		id := strata.FaultKey(d.Fault)
		if keep[id] {
			out = append(out, d)
			delete(keep, id)
		}
	}
	return out
}

func (p *Pipeline) fuseGraph(_ context.Context, in *inputs, res *Result) error {
	meta := mapdata.Metadata(p.provider)
	meta["run_id"] = p.runID
	meta["deposits"] = strconv.Itoa(len(in.deposits))

	g, err := fusion.Fuse(fusion.Input{
		Units:       res.Units,
		Sorts:       res.Sorts,
		GroupOrder:  res.Groups.Order,
		Supergroups: res.Supergroups,
		Network:     res.Network,
		Faults:      res.Faults,
		Thickness:   in.thickness,
		UnitFaults:  res.UnitFaults,
		GroupFaults: res.GroupFaults,
		Payload: fusion.Payload{
			Points:   in.points,
			DTM:      in.dtm,
			BBox:     in.bbox,
			CRS:      p.provider.WorkingCRS(),
			Metadata: meta,
		},
	})
	if err != nil {
		return err
	}
	if err := fusion.Validate(g); err != nil {
		return err
	}
	res.Graph = g
	res.Presentation = fusion.Style(g)
	p.metrics.RecordGraph("fused", g.NodeCount(), g.EdgeCount())
	return nil
}
