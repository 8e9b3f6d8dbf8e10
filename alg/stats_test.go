package alg

import (
	"math"
	"testing"
)

func TestDescribe(t *testing.T) {
	g := gridOf(6, 1, 0, 1, 2, 3, math.NaN(), 4)
	s := Describe(g)
	if s.Valid != 4 {
		t.Fatalf("valid %d, want 4", s.Valid)
	}
	if s.Min != 1 || s.Max != 4 || s.Mean != 2.5 {
		t.Errorf("got %+v", s)
	}
	if math.Abs(s.Std-math.Sqrt(1.25)) > 1e-12 {
		t.Errorf("population std %v", s.Std)
	}
}

func TestDescribeEmpty(t *testing.T) {
	if s := Describe(NewGrid(4, 4)); s != (Stats{}) {
		t.Errorf("got %+v", s)
	}
}
