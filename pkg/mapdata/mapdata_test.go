package mapdata

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-strata/pkg/strata"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestDirReadsAllLayers(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		UnitsFile: "code,group,min_age,max_age,rocktype1,description,colour\n" +
			"A,G1,1,2,sedimentary,shale,#aa0000\n" +
			"B,,,,intrusive,sill,#bb0000\n",
		FaultDimensionsFile:   "Fault,HorizontalRadius,VerticalRadius,InfluenceDistance,incLength,colour\nFault_1,10,5,2,1200,#000000\n",
		FaultOrientationsFile: "formation,X,Y,Z,dip,DipDirection,DipPolarity\nFault_1,1,2,3,80,90,\n",
		FaultPointsFile:       "formation,X,Y,Z\nFault_1,0,0,0\nFault_1,2,2,0\n",
		FaultGeometriesFile:   "fault,geometry\nFault_1,LineString\n",
		GirdlesFile:           "group,plunge,bearing,count\nG1,10,45,12\n",
		ThicknessFile:         "formation,thickness median,thickness std,method\nA,100,,interpolated\n",
		PointsFile:            "X,Y,Z,kind,source\n1,2,3,contact,geology\n",
		DepositsFile:          "id,X,Y,commodity\nd1,5,6,Au\n",
		DTMFile:               `{"data":[[1,2],[3,4]],"minx":0,"miny":0,"maxx":2,"maxy":2}`,
		ProjectFile:           "crs: EPSG:28350\nbbox: {minx: 0, miny: 0, maxx: 10, maxy: 10, base: -1000, top: 500}\nfiles:\n  geology: geol.shp\n",
	})
	ctx := context.Background()
	d, err := OpenDir(dir)
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}

	units, err := d.Units(ctx)
	if err != nil {
		t.Fatalf("Units: %v", err)
	}
	if len(units) != 2 || units[0].Colour != "#aa0000" {
		t.Fatalf("units = %+v", units)
	}
	if units[1].MinAge != strata.MissingMinAge || units[1].MaxAge != strata.MissingMaxAge {
		t.Errorf("missing ages = %v/%v", units[1].MinAge, units[1].MaxAge)
	}

	f, err := d.Faults(ctx)
	if err != nil {
		t.Fatalf("Faults: %v", err)
	}
	if len(f.Dimensions) != 1 || f.Dimensions[0].IncLength != 1200 {
		t.Errorf("dimensions = %+v", f.Dimensions)
	}
	if len(f.Orientations) != 1 || f.Orientations[0].DipPolarity != 1 {
		t.Errorf("orientations = %+v", f.Orientations)
	}
	if len(f.Points) != 2 || len(f.Geometries) != 1 || f.Geometries[0].Kind != strata.GeometryLineString {
		t.Errorf("points/geometries = %+v %+v", f.Points, f.Geometries)
	}

	girdles, err := d.Structures(ctx)
	if err != nil || len(girdles) != 1 || girdles[0].Count != 12 {
		t.Errorf("girdles = %+v, %v", girdles, err)
	}
	thick, err := d.Thickness(ctx)
	if err != nil || len(thick) != 1 || thick[0].Median != 100 || !math.IsNaN(thick[0].Std) {
		t.Errorf("thickness = %+v, %v", thick, err)
	}
	points, err := d.Points(ctx)
	if err != nil || len(points) != 1 || points[0].Kind != "contact" {
		t.Errorf("points = %+v, %v", points, err)
	}
	deposits, err := d.Deposits(ctx)
	if err != nil || len(deposits) != 1 || deposits[0].Commodity != "Au" {
		t.Errorf("deposits = %+v, %v", deposits, err)
	}
	dtm, err := d.DTM(ctx)
	if err != nil || dtm == nil {
		t.Fatalf("DTM = %v, %v", dtm, err)
	}
	if rows, cols := dtm.Shape(); rows != 2 || cols != 2 {
		t.Errorf("DTM shape = %d x %d", rows, cols)
	}
	bbox, err := d.BBox(ctx)
	if err != nil || bbox == nil || bbox.MaxX != 10 || bbox.Base != -1000 {
		t.Errorf("bbox = %+v, %v", bbox, err)
	}
	if d.WorkingCRS() != "EPSG:28350" || d.Filename(Geology) != "geol.shp" {
		t.Errorf("crs/filename = %q/%q", d.WorkingCRS(), d.Filename(Geology))
	}
	meta := Metadata(d)
	if meta["geology_file"] != "geol.shp" || meta["project_crs"] != "EPSG:28350" {
		t.Errorf("metadata = %v", meta)
	}
}

func TestDirOptionalLayers(t *testing.T) {
	dir := writeFiles(t, map[string]string{UnitsFile: "code\nA\n"})
	d, err := OpenDir(dir)
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	ctx := context.Background()
	f, err := d.Faults(ctx)
	if err != nil || len(f.Dimensions) != 0 {
		t.Errorf("faults = %+v, %v", f, err)
	}
	if dtm, err := d.DTM(ctx); dtm != nil || err != nil {
		t.Errorf("DTM = %v, %v", dtm, err)
	}
	if bbox, _ := d.BBox(ctx); bbox != nil {
		t.Errorf("bbox = %+v", bbox)
	}
}

func TestDirValidation(t *testing.T) {
	tests := map[string]map[string]string{
		"missing units":  {},
		"inverted ages":  {UnitsFile: "code,min_age,max_age\nA,10,5\n"},
		"bad number":     {UnitsFile: "code,min_age\nA,old\n"},
		"reserved comma": {UnitsFile: "code\n\"A,B\"\n"},
	}
	for name, files := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := OpenDir(writeFiles(t, files))
			if err != nil {
				t.Fatalf("OpenDir: %v", err)
			}
			if _, err := d.Units(context.Background()); err == nil {
				t.Error("expected error")
			}
		})
	}

	bad := writeFiles(t, map[string]string{
		UnitsFile:             "code\nA\n",
		FaultOrientationsFile: "formation,dip\nFault_1,120\n",
	})
	d, _ := OpenDir(bad)
	if _, err := d.Faults(context.Background()); err == nil || !strings.Contains(err.Error(), "fault orientation row 0") {
		t.Errorf("err = %v", err)
	}
}
