package sarburn

import (
	"fmt"
	"math"

	"github.com/wgdzlh/sarburn/alg"

	"github.com/lukeroth/gdal"
)

// 仿射变换、坐标系与无效值，三者始终随栅格一起传递
type GeoRef struct {
	Transform  alg.GeoTransform
	Projection string // WKT
	NoData     float64
	HasNoData  bool
}

// 返回声明新无效值的副本，仿射变换与坐标系不变
func (r GeoRef) WithNoData(v float64) GeoRef {
	r.NoData = v
	r.HasNoData = true
	return r
}

func (r GeoRef) isNoData(v float64) bool {
	if !r.HasNoData {
		return false
	}
	if math.IsNaN(r.NoData) {
		return math.IsNaN(v)
	}
	return v == r.NoData
}

// 内存栅格，波段数据统一以float64保存，DataType决定写出时的像元类型
type Raster struct {
	GeoRef
	Width    int
	Height   int
	DataType gdal.DataType
	Bands    [][]float64
}

func (r *Raster) BandCount() int {
	return len(r.Bands)
}

// 第i波段（从1起）的栅格视图，与Raster共享数据
func (r *Raster) Band(i int) (g alg.Grid, err error) {
	if i < 1 || i > len(r.Bands) {
		err = fmt.Errorf("%w: band %d, raster has %d", ErrInvalidBandIndex, i, len(r.Bands))
		return
	}
	g = alg.Grid{Width: r.Width, Height: r.Height, Data: r.Bands[i-1]}
	return
}

// 第i波段的有效像元判定，无无效值时返回nil
func (r *Raster) validCells(i int) func(int) bool {
	if !r.HasNoData {
		return nil
	}
	data := r.Bands[i-1]
	return func(k int) bool {
		return !r.isNoData(data[k])
	}
}

// 首波段按掩膜读取，值为1的像元置位
func (r *Raster) Mask() alg.Mask {
	m := alg.NewMask(r.Width, r.Height)
	if len(r.Bands) == 0 {
		return m
	}
	for i, v := range r.Bands[0] {
		if v == 1 {
			m.Data[i] = 1
		}
	}
	return m
}

// 将栅格包装为单波段Float32
func NewFloatRaster(ref GeoRef, g alg.Grid) *Raster {
	return &Raster{
		GeoRef:   ref,
		Width:    g.Width,
		Height:   g.Height,
		DataType: gdal.Float32,
		Bands:    [][]float64{g.Data},
	}
}

// 将掩膜包装为单波段Byte，无效值为0
func NewMaskRaster(ref GeoRef, m alg.Mask) *Raster {
	data := make([]float64, len(m.Data))
	for i, v := range m.Data {
		data[i] = float64(v)
	}
	return &Raster{
		GeoRef:   ref.WithNoData(0),
		Width:    m.Width,
		Height:   m.Height,
		DataType: gdal.Byte,
		Bands:    [][]float64{data},
	}
}
