package sarburn

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/wgdzlh/sarburn/alg"
)

// 以字符画构建掩膜，'#'为1
func maskRows(rows ...string) alg.Mask {
	m := alg.NewMask(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				m.Data[y*m.Width+x] = 1
			}
		}
	}
	return m
}

func maskRaster(t *testing.T, tb *Toolbox, m alg.Mask, gt alg.GeoTransform) *Raster {
	t.Helper()
	return NewMaskRaster(GeoRef{Transform: gt, Projection: utmWkt(t, tb)}, m)
}

func randomMask(r *rand.Rand, w, h int, p float64) alg.Mask {
	m := alg.NewMask(w, h)
	for i := range m.Data {
		if r.Float64() < p {
			m.Data[i] = 1
		}
	}
	return m
}

func sameCells(a, b alg.Mask) bool {
	if a.Width != b.Width || a.Height != b.Height {
		return false
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			return false
		}
	}
	return true
}

func TestSieveNoopAtOneOrLess(t *testing.T) {
	tb := NewToolbox(nil)
	m := randomMask(rand.New(rand.NewSource(3)), 30, 30, 0.3)
	for _, n := range []int{0, 1} {
		got, err := tb.Sieve(maskRaster(t, tb, m, testTransform), n)
		if err != nil {
			t.Fatal(err)
		}
		if !sameCells(got.Mask(), m) {
			t.Errorf("sieve %d changed the mask", n)
		}
	}
}

func TestSieveRemovesSmallGroups(t *testing.T) {
	tb := NewToolbox(nil)
	m := maskRows(
		"##.....",
		"##...#.",
		"......#",
		".#.....",
	)
	got, err := tb.Sieve(maskRaster(t, tb, m, testTransform), 2)
	if err != nil {
		t.Fatal(err)
	}
	want := maskRows(
		"##.....",
		"##...#.",
		"......#",
		".......",
	)
	if !sameCells(got.Mask(), want) {
		t.Errorf("got %v, want %v", got.Mask().Data, want.Data)
	}
	got, err = tb.Sieve(maskRaster(t, tb, m, testTransform), 3)
	if err != nil {
		t.Fatal(err)
	}
	if c := got.Mask().Count(); c != 4 {
		t.Errorf("sieve 3 kept %d cells, want 4", c)
	}
}

func TestSieveKeepsHoles(t *testing.T) {
	tb := NewToolbox(nil)
	m := maskRows(
		"#####",
		"#####",
		"##.##",
		"#####",
		"#####",
	)
	got, err := tb.Sieve(maskRaster(t, tb, m, testTransform), 4)
	if err != nil {
		t.Fatal(err)
	}
	if !sameCells(got.Mask(), m) {
		t.Errorf("got %v", got.Mask().Data)
	}
}

// 结果为输入子集，且不小于minSize的8邻域连通块完整保留
func TestSieveKeepsLargeGroups(t *testing.T) {
	tb := NewToolbox(nil)
	r := rand.New(rand.NewSource(11))
	for _, n := range []int{2, 5, 12} {
		m := randomMask(r, 40, 40, 0.3)
		got, err := tb.Sieve(maskRaster(t, tb, m, testTransform), n)
		if err != nil {
			t.Fatal(err)
		}
		out := got.Mask()
		labels, sizes := alg.Label(m, alg.Conn8)
		for i, v := range out.Data {
			if v == 1 && m.Data[i] != 1 {
				t.Fatalf("sieve %d set cell %d", n, i)
			}
			if l := labels[i]; l != 0 && sizes[l] >= n && v != 1 {
				t.Fatalf("sieve %d dropped cell %d of a group of %d", n, i, sizes[l])
			}
		}
	}
}

func TestSieveNeedsBand(t *testing.T) {
	_, err := NewToolbox(nil).Sieve(&Raster{Width: 2, Height: 2}, 3)
	if !errors.Is(err, ErrInvalidBandIndex) {
		t.Fatalf("got %v", err)
	}
}
