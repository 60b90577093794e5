package pipeline

import (
	"bytes"
	"context"
	"io"
	"path"

	"github.com/dd0wney/cluso-strata/pkg/artifacts"
	"github.com/dd0wney/cluso-strata/pkg/export"
	"github.com/dd0wney/cluso-strata/pkg/logging"
	"github.com/dd0wney/cluso-strata/pkg/strata"
)

// Artifact names.
const (
	GraphFile       = "fused_graph.gml"
	StyledGraphFile = "fused_graph_styled.gml"
	GraphJSONFile   = "fused_graph.json"
	ChoicesDir      = "choices"
)

func (p *Pipeline) writeArtifacts(ctx context.Context, _ *inputs, res *Result) error {
	if p.sink == nil {
		return nil
	}
	w := &writer{ctx: ctx, p: p, res: res}

	w.encode(GraphFile, "graph", true, func(out io.Writer) error {
		return export.WriteGML(out, res.Graph, nil)
	})
	w.encode(StyledGraphFile, "graph", false, func(out io.Writer) error {
		return export.WriteGML(out, res.Graph, res.Presentation)
	})
	w.encode(GraphJSONFile, "graph", true, func(out io.Writer) error {
		return export.WriteJSON(out, res.Graph)
	})

	tables := []*export.Table{
		export.AllSortsTable(res.Sorts),
		export.GroupsTable(res.Groups.Order),
		export.GroupAgesTable(res.Ages),
		export.ChoiceTable("group_choices.csv", res.Groups.Orders),
		export.SupergroupsTable(res.Supergroups),
		export.FaultClustersTable(res.Faults),
		export.FaultEdgesTable(res.Network),
		export.IncidenceTable("unit-fault-relationships.csv", "code", res.UnitFaults),
		export.IncidenceTable("group-fault-relationships.csv", "group", res.GroupFaults),
		export.IncidenceTable("supergroup-fault-relationships.csv", "supergroup", res.SupergroupFaults),
		export.WarningsTable(res.Warnings),
	}
	for _, g := range res.Strat.Groups {
		t := export.ChoiceTable(path.Join(ChoicesDir, export.ChoiceName(g.Label)), g.Orders)
		tables = append(tables, t)
	}
	for _, t := range tables {
		w.encode(t.Name, "table", false, t.WriteCSV)
	}
	return w.err
}

// writer stops at the first failed artifact.
type writer struct {
	ctx context.Context
	p   *Pipeline
	res *Result
	err error
}

func (w *writer) encode(name, kind string, compressible bool, fn func(io.Writer) error) {
	if w.err != nil {
		return
	}
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		w.err = strata.NewError(strata.StageExport).Context("encode %s", name).Cause(err).Err()
		return
	}
	w.put(name, kind, buf.Bytes())
	if compressible && w.p.cfg.Output.Compress {
		packed, err := export.Compress(buf.Bytes())
		if err != nil {
			w.err = strata.NewError(strata.StageExport).Context("compress %s", name).Cause(err).Err()
			return
		}
		w.put(name+export.CompressedExt, kind, packed)
	}
}

func (w *writer) put(name, kind string, data []byte) {
	if w.err != nil {
		return
	}
	if err := w.p.sink.Put(w.ctx, name, data); err != nil {
		w.err = strata.NewError(strata.StageExport).Context("write %s", name).Cause(err).Err()
		return
	}
	loc := w.p.sink.Location(name)
	w.p.metrics.RecordArtifact(sinkName(w.p.sink), kind, len(data))
	w.p.logger.Debug("artifact written", logging.Path(loc), logging.Int("bytes", len(data)))
	w.res.Artifacts = append(w.res.Artifacts, loc)
}

func sinkName(s artifacts.Sink) string {
	switch s.(type) {
	case *artifacts.Local:
		return "local"
	case *artifacts.S3:
		return "s3"
	case *artifacts.Memory:
		return "memory"
	case artifacts.Multi:
		return "multi"
	}
	return "custom"
}
