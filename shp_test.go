package sarburn

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/wgdzlh/sarburn/alg"

	"github.com/lukeroth/gdal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/planar"
)

func ringMask() alg.Mask {
	m := alg.NewMask(8, 6)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if x == 0 || y == 0 || x == 4 || y == 4 {
				m.Data[y*8+x] = 1
			}
		}
	}
	m.Data[5*8+7] = 1
	return m
}

func TestWriteShapefile(t *testing.T) {
	tb := NewToolbox(nil)
	c := vectorize(t, tb, ringMask(), testTransform, false)
	shp := filepath.Join(t.TempDir(), "out", "scars.shp")
	if err := tb.WritePolygons(shp, c); err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{".shx", ".dbf", ".prj"} {
		if _, err := os.Stat(shp[:len(shp)-4] + ext); err != nil {
			t.Errorf("missing sidecar: %v", err)
		}
	}
	ds, ok := gdal.OGRDriverByName(SHP_DRIVER_NAME).Open(shp, 0)
	if !ok {
		t.Fatal("reopen failed")
	}
	defer ds.Destroy()
	layer := ds.LayerByIndex(0)
	idx := layer.Definition().FieldIndex(FIELD_AREA_HA)
	if idx < 0 {
		t.Fatal("area_ha field missing")
	}
	var areas []float64
	for {
		feature := layer.NextFeature()
		if feature == nil {
			break
		}
		areas = append(areas, feature.FieldAsFloat64(idx))
		feature.Destroy()
	}
	if len(areas) != 2 {
		t.Fatalf("got %d features", len(areas))
	}
	if math.Abs(areas[0]+areas[1]-0.17) > 1e-6 {
		t.Errorf("areas %v, want 0.16 + 0.01", areas)
	}
}

func TestWriteShapefileOverwrites(t *testing.T) {
	tb := NewToolbox(nil)
	shp := filepath.Join(t.TempDir(), "scars.shp")
	c := vectorize(t, tb, ringMask(), testTransform, false)
	for i := 0; i < 2; i++ {
		if err := tb.WritePolygons(shp, c); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
}

func TestWritePolygonsUnsupported(t *testing.T) {
	err := NewToolbox(nil).WritePolygons(filepath.Join(t.TempDir(), "scars.kml"), alg.Collection{})
	if !errors.Is(err, ErrUnsupportedVector) {
		t.Fatalf("got %v", err)
	}
}

func writeFile(t *testing.T, path, body string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// 两个部分重叠的2x2正方形，合并后面积为7
const overlappingSquares = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {}, "geometry": {"type": "Polygon", "coordinates": [[[0,0],[2,0],[2,2],[0,2],[0,0]]]}},
    {"type": "Feature", "properties": {}, "geometry": {"type": "Polygon", "coordinates": [[[1,1],[3,1],[3,3],[1,3],[1,1]]]}}
  ]
}`

func TestLoadAoiDissolves(t *testing.T) {
	aoi := writeFile(t, filepath.Join(t.TempDir(), "aoi.geojson"), overlappingSquares)
	s, err := NewToolbox(nil).LoadAoiWkt(aoi)
	if err != nil {
		t.Fatal(err)
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := g.(orb.Polygon); !ok {
		t.Fatalf("got %s, want one polygon", g.GeoJSONType())
	}
	if a := planar.Area(g); math.Abs(a-7) > 1e-9 {
		t.Errorf("area %v, want 7", a)
	}
}

func TestLoadAoiReprojects(t *testing.T) {
	tb := NewToolbox(nil)
	m := alg.NewMask(4, 4)
	for i := range m.Data {
		m.Data[i] = 1
	}
	c := vectorize(t, tb, m, testTransform, false)
	aoi := filepath.Join(t.TempDir(), "aoi.geojson")
	if err := tb.WritePolygons(aoi, c); err != nil {
		t.Fatal(err)
	}
	s, err := tb.LoadAoiWkt(aoi)
	if err != nil {
		t.Fatal(err)
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		t.Fatal(err)
	}
	b := g.Bound()
	if b.Min[0] < 14 || b.Max[0] > 16 || b.Min[1] < 37 || b.Max[1] > 39 {
		t.Errorf("expected lon/lat near (15, 37.9), got %v", b)
	}
}

func TestLoadAoiEmpty(t *testing.T) {
	aoi := writeFile(t, filepath.Join(t.TempDir(), "aoi.geojson"), `{"type": "FeatureCollection", "features": []}`)
	if _, err := NewToolbox(nil).LoadAoiWkt(aoi); !errors.Is(err, ErrEmptyAoi) {
		t.Fatalf("got %v", err)
	}
}

func TestLoadAoiErrors(t *testing.T) {
	dir := t.TempDir()
	tb := NewToolbox(nil)
	if _, err := tb.LoadAoiWkt(filepath.Join(dir, "none.shp")); !errors.Is(err, ErrMissingInput) {
		t.Errorf("missing file: got %v", err)
	}
	kml := writeFile(t, filepath.Join(dir, "aoi.kml"), "<kml/>")
	if _, err := tb.LoadAoiWkt(kml); !errors.Is(err, ErrUnsupportedVector) {
		t.Errorf("kml: got %v", err)
	}
}
