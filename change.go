package sarburn

import (
	"github.com/wgdzlh/sarburn/alg"
)

// 计算bandB相对bandA（从1起）的对数比变化（dB）。输入无效值像元与非有限结果置0，
// 0亦为输出单波段Float32栅格的无效值
func ChangeMetric(src *Raster, bandA, bandB int) (*Raster, error) {
	pre, err := src.Band(bandA)
	if err != nil {
		return nil, err
	}
	post, err := src.Band(bandB)
	if err != nil {
		return nil, err
	}
	validA, validB := src.validCells(bandA), src.validCells(bandB)
	var valid func(int) bool
	if validA != nil {
		valid = func(i int) bool { return validA(i) && validB(i) }
	}
	g, err := alg.LogRatio(pre, post, valid)
	if err != nil {
		return nil, err
	}
	return NewFloatRaster(src.GeoRef.WithNoData(alg.ChangeNoData), g), nil
}

// 对变化栅格做斑点滤波，地理参考不变
func FilterChange(r *Raster, f alg.FilterStrategy) (*Raster, error) {
	g, err := r.Band(1)
	if err != nil {
		return nil, err
	}
	out, err := alg.ApplyFilter(g, f)
	if err != nil {
		return nil, err
	}
	return NewFloatRaster(r.GeoRef, out), nil
}
