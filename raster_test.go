package sarburn

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/wgdzlh/sarburn/alg"

	"github.com/lukeroth/gdal"
)

const testSrid = 32633

var testTransform = alg.GeoTransform{500000, 10, 0, 4200000, 0, -10}

func utmRef(t *testing.T, tb *Toolbox) gdal.SpatialReference {
	t.Helper()
	ref, err := tb.getSridRef(testSrid)
	if err != nil {
		t.Fatal(err)
	}
	return ref
}

func sridWkt(t *testing.T, tb *Toolbox, srid int) string {
	t.Helper()
	ref, err := tb.getSridRef(srid)
	if err != nil {
		t.Fatal(err)
	}
	wkt, err := ref.ToWKT()
	if err != nil {
		t.Fatal(err)
	}
	return wkt
}

func utmWkt(t *testing.T, tb *Toolbox) string {
	t.Helper()
	return sridWkt(t, tb, testSrid)
}

func geoWkt(t *testing.T, tb *Toolbox) string {
	t.Helper()
	return sridWkt(t, tb, UNIVERSAL_SRID)
}

// 三波段模拟配准影像：波段1、2为0.05，波段3在burn区域内为10倍
func burnStack(t *testing.T, tb *Toolbox, w, h int, burn func(x, y int) bool) *Raster {
	t.Helper()
	r := &Raster{
		GeoRef:   GeoRef{Transform: testTransform, Projection: utmWkt(t, tb)},
		Width:    w,
		Height:   h,
		DataType: gdal.Float32,
		Bands:    make([][]float64, 3),
	}
	for b := range r.Bands {
		r.Bands[b] = make([]float64, w*h)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			r.Bands[0][i] = 0.05
			r.Bands[1][i] = 0.07
			r.Bands[2][i] = 0.05
			if burn(x, y) {
				r.Bands[2][i] = 0.5
			}
		}
	}
	return r
}

func TestRasterRoundTrip(t *testing.T) {
	tb := NewToolbox(nil)
	src := burnStack(t, tb, 12, 9, func(x, y int) bool { return x > 5 && y < 4 })
	path := filepath.Join(t.TempDir(), "stack.tif")
	if err := tb.WriteRaster(path, src); err != nil {
		t.Fatal(err)
	}
	got, err := tb.ReadRaster(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 12 || got.Height != 9 || got.BandCount() != 3 {
		t.Fatalf("got %dx%d with %d bands", got.Width, got.Height, got.BandCount())
	}
	if got.Transform != testTransform {
		t.Errorf("transform %v", got.Transform)
	}
	if srid, err := tb.SridOfWkt(got.Projection); err != nil || srid != testSrid {
		t.Errorf("srid %d, %v", srid, err)
	}
	if got.DataType != gdal.Float32 {
		t.Errorf("data type %v", got.DataType)
	}
	for b := range src.Bands {
		for i, v := range src.Bands[b] {
			if math.Abs(got.Bands[b][i]-v) > 1e-7 {
				t.Fatalf("band %d cell %d: got %v, want %v", b+1, i, got.Bands[b][i], v)
			}
		}
	}
}

func TestMaskRasterRoundTrip(t *testing.T) {
	tb := NewToolbox(nil)
	m := alg.NewMask(5, 4)
	m.Data[3], m.Data[7] = 1, 1
	path := filepath.Join(t.TempDir(), "sub", "mask.tif")
	if err := tb.WriteRaster(path, NewMaskRaster(GeoRef{Transform: testTransform}, m)); err != nil {
		t.Fatal(err)
	}
	got, err := tb.ReadRaster(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.DataType != gdal.Byte || !got.HasNoData || got.NoData != 0 {
		t.Errorf("got type %v, nodata %v/%v", got.DataType, got.HasNoData, got.NoData)
	}
	if c := got.Mask().Count(); c != 2 {
		t.Errorf("mask has %d cells, want 2", c)
	}
}

func TestReadRasterMissing(t *testing.T) {
	_, err := NewToolbox(nil).ReadRaster(filepath.Join(t.TempDir(), "nope.tif"))
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("got %v", err)
	}
}

func TestChangeMetricTenfold(t *testing.T) {
	tb := NewToolbox(nil)
	src := burnStack(t, tb, 6, 6, func(x, y int) bool { return true })
	ch, err := ChangeMetric(src, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if ch.BandCount() != 1 || ch.DataType != gdal.Float32 || !ch.HasNoData || ch.NoData != 0 {
		t.Fatalf("unexpected change raster %+v", ch.GeoRef)
	}
	if ch.Transform != src.Transform || ch.Projection != src.Projection {
		t.Error("georeference not carried over")
	}
	for i, v := range ch.Bands[0] {
		if math.Abs(v-10) > 1e-9 {
			t.Fatalf("cell %d: %v, want 10", i, v)
		}
	}
	if src.Bands[2][0] != 0.5 {
		t.Error("source mutated")
	}
}

func TestChangeMetricBandOutOfRange(t *testing.T) {
	tb := NewToolbox(nil)
	src := burnStack(t, tb, 3, 3, func(x, y int) bool { return false })
	for _, b := range [][2]int{{0, 3}, {1, 4}} {
		if _, err := ChangeMetric(src, b[0], b[1]); !errors.Is(err, ErrInvalidBandIndex) {
			t.Errorf("bands %v: got %v", b, err)
		}
	}
}

func TestChangeMetricNoData(t *testing.T) {
	tb := NewToolbox(nil)
	src := burnStack(t, tb, 3, 1, func(x, y int) bool { return true })
	src.GeoRef = src.WithNoData(-9999)
	src.Bands[0][1] = -9999
	ch, err := ChangeMetric(src, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if ch.Bands[0][1] != 0 || ch.Bands[0][0] == 0 {
		t.Errorf("got %v", ch.Bands[0])
	}
}

func TestThresholdAndSieveRasters(t *testing.T) {
	tb := NewToolbox(nil)
	src := burnStack(t, tb, 10, 10, func(x, y int) bool { return (x < 4 && y < 4) || (x == 8 && y == 8) })
	ch, err := ChangeMetric(src, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	mask, err := Threshold(ch, 3)
	if err != nil {
		t.Fatal(err)
	}
	if mask.DataType != gdal.Byte || mask.Mask().Count() != 17 {
		t.Fatalf("mask type %v, %d cells", mask.DataType, mask.Mask().Count())
	}
	sieved, err := tb.Sieve(mask, 2)
	if err != nil {
		t.Fatal(err)
	}
	if c := sieved.Mask().Count(); c != 16 {
		t.Errorf("sieved mask has %d cells, want 16", c)
	}
	if sieved.Transform != src.Transform {
		t.Error("georeference not carried over")
	}
}
