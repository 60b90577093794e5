package pipeline

import (
	"path/filepath"

	"github.com/dd0wney/cluso-strata/pkg/config"
	"github.com/dd0wney/cluso-strata/pkg/extractor"
	"github.com/dd0wney/cluso-strata/pkg/health"
	"github.com/dd0wney/cluso-strata/pkg/mapdata"
)

// mapInputs lists the map tables read by mapdata.Dir; only units are
// required.
var mapInputs = []struct {
	name     string
	required bool
}{
	{mapdata.UnitsFile, true},
	{mapdata.FaultDimensionsFile, false},
	{mapdata.FaultOrientationsFile, false},
	{mapdata.GirdlesFile, false},
	{mapdata.ThicknessFile, false},
	{mapdata.PointsFile, false},
}

// Preflight registers the checks a file-based run depends on. The
// checks run in the order they are registered.
func Preflight(cfg *config.Config, inputDir string, files extractor.Files) *health.HealthChecker {
	hc := health.NewHealthChecker()
	for _, in := range mapInputs {
		hc.RegisterCheck("input:"+in.name, health.FileCheck(filepath.Join(inputDir, in.name), in.required))
	}
	hc.RegisterCheck("graph:strat", health.FileCheck(files.StratGraphPath(), true))
	hc.RegisterCheck("graph:fault-fault", health.FileCheck(files.FaultIntersectionPath(), false))
	hc.RegisterCheck("graph:unit-fault", health.FileCheck(files.UnitFaultPath(), false))
	hc.RegisterCheck("authority", health.AuthorityCheck(AuthoritySource(cfg.Authority), cfg.Authority.Timeout))
	hc.RegisterCheck("output", health.WritableDirCheck(cfg.Output.Dir))
	return hc
}
