package alg

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// 变化栅格可用像元（有限且非0）的统计量
type Stats struct {
	Min   float64
	Max   float64
	Mean  float64
	Std   float64
	Valid int
}

// 按总体统计可用像元，无可用像元时返回零值
func Describe(g Grid) (s Stats) {
	vals := make([]float64, 0, len(g.Data))
	for _, v := range g.Data {
		if v != 0 && !math.IsNaN(v) && !math.IsInf(v, 0) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return
	}
	s.Valid = len(vals)
	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	s.Mean, s.Std = stat.PopMeanStdDev(vals, nil)
	return
}
