package sarburn

import (
	"fmt"

	"github.com/wgdzlh/sarburn/alg"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 按阈值t（含）二值化变化栅格首波段，无效值像元恒为0
func Threshold(r *Raster, t float64) (*Raster, error) {
	g, err := r.Band(1)
	if err != nil {
		return nil, err
	}
	return NewMaskRaster(r.GeoRef, alg.Threshold(g, t, r.validCells(1))), nil
}

// 以GDAL筛选滤波去除像元数小于minSize的8邻域变化斑块，minSize不大于1时原样返回。
// 背景区域同样参与合并，故结果再与原掩膜相与，只删不补
func (g *Toolbox) Sieve(r *Raster, minSize int) (ret *Raster, err error) {
	if _, err = r.Band(1); err != nil {
		return
	}
	m := r.Mask()
	if minSize <= 1 || !m.Any() {
		ret = NewMaskRaster(r.GeoRef, m)
		return
	}
	ds, err := g.memMask(r.GeoRef, m, 2)
	if err != nil {
		return
	}
	defer ds.Close()
	src, dst := ds.RasterBand(1), ds.RasterBand(2)
	if err = src.SieveFilter(gdal.RasterBand{}, dst, minSize, SIEVE_CONNECTEDNESS, nil, gdal.DummyProgress, nil); err != nil {
		g.log.Error(g.logTag+"sieve filter failed", zap.Int("minSize", minSize), zap.Error(err))
		err = fmt.Errorf("%w: sieve: %v", ErrGdalAlgorithm, err)
		return
	}
	sieved, err := g.readMemMask(ds, 2)
	if err != nil {
		return
	}
	for i, v := range m.Data {
		if v != 1 {
			sieved.Data[i] = 0
		}
	}
	g.log.Debug(g.logTag+"mask sieved", zap.Int("minSize", minSize), zap.Int("before", m.Count()), zap.Int("after", sieved.Count()))
	ret = NewMaskRaster(r.GeoRef, sieved)
	return
}
