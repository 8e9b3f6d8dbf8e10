package sarburn

import (
	"fmt"

	"github.com/wgdzlh/sarburn/alg"
	"github.com/wgdzlh/sarburn/utils"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 读取Tif全部波段，连同仿射变换、坐标系与无效值
func (g *Toolbox) ReadRaster(tif string) (r *Raster, err error) {
	if !utils.FileExists(tif) {
		err = fmt.Errorf("%w: %s", ErrMissingInput, tif)
		return
	}
	ds, err := gdal.Open(tif, gdal.ReadOnly)
	if err != nil {
		g.log.Error(g.logTag+"open tif failed", zap.String("tif", tif), zap.Error(err))
		err = fmt.Errorf("%w: %s", ErrInvalidTif, tif)
		return
	}
	defer ds.Close()
	var (
		x  = ds.RasterXSize()
		y  = ds.RasterYSize()
		bc = ds.RasterCount()
	)
	if bc == 0 || x == 0 || y == 0 {
		err = fmt.Errorf("%w: %s is empty", ErrInvalidTif, tif)
		return
	}
	r = &Raster{
		GeoRef: GeoRef{
			Transform:  alg.GeoTransform(ds.GeoTransform()),
			Projection: ds.Projection(),
		},
		Width:  x,
		Height: y,
		Bands:  make([][]float64, bc),
	}
	g.log.Info(g.logTag+"start read tif", zap.String("tif", tif), zap.Int("bands", bc), zap.Int("width", x), zap.Int("height", y))
	for i := 0; i < bc; i++ {
		band := ds.RasterBand(i + 1)
		if i == 0 {
			r.DataType = band.RasterDataType()
			if nd, ok := band.NoDataValue(); ok {
				r.GeoRef = r.GeoRef.WithNoData(nd)
			}
		}
		buf := make([]float64, x*y)
		if err = band.IO(gdal.Read, 0, 0, x, y, buf, x, y, 0, 0); err != nil {
			g.log.Error(g.logTag+"read tif band failed", zap.Int("band", i+1), zap.Error(err))
			err = fmt.Errorf("%w: band %d of %s", ErrTifReadFailed, i+1, tif)
			r = nil
			return
		}
		r.Bands[i] = buf
	}
	return
}

// 将内存栅格写出为GeoTiff，像元类型由DataType决定（Byte或Float32）
func (g *Toolbox) WriteRaster(tif string, r *Raster) (err error) {
	if r == nil || len(r.Bands) == 0 {
		err = fmt.Errorf("%w: nothing to write to %s", ErrTifWriteFailed, tif)
		return
	}
	if err = utils.EnsureParentDir(tif); err != nil {
		return
	}
	driver, err := gdal.GetDriverByName(TIF_DRIVER_NAME)
	if err != nil {
		g.log.Error(g.logTag+"get tif driver failed", zap.Error(err))
		err = ErrGdalDriverCreate
		return
	}
	dt := r.DataType
	if dt != gdal.Byte {
		dt = gdal.Float32
	}
	ds := driver.Create(tif, r.Width, r.Height, len(r.Bands), dt, TIF_CREATE_OPTIONS)
	defer ds.Close() // 落盘 + 释放资源
	if err = ds.SetGeoTransform([6]float64(r.Transform)); err != nil {
		g.log.Error(g.logTag+"set geo transform failed", zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrTifWriteFailed, err)
		return
	}
	if r.Projection != "" {
		if err = ds.SetProjection(r.Projection); err != nil {
			g.log.Error(g.logTag+"set projection failed", zap.Error(err))
			err = fmt.Errorf("%w: %v", ErrTifWriteFailed, err)
			return
		}
	}
	for i, data := range r.Bands {
		band := ds.RasterBand(i + 1)
		if r.HasNoData {
			if err = band.SetNoDataValue(r.NoData); err != nil {
				g.log.Error(g.logTag+"set nodata failed", zap.Int("band", i+1), zap.Error(err))
				err = fmt.Errorf("%w: %v", ErrTifWriteFailed, err)
				return
			}
		}
		var buf any
		if dt == gdal.Byte {
			buf = toBytes(data)
		} else {
			buf = toFloat32s(data)
		}
		if err = band.IO(gdal.Write, 0, 0, r.Width, r.Height, buf, r.Width, r.Height, 0, 0); err != nil {
			g.log.Error(g.logTag+"write tif band failed", zap.Int("band", i+1), zap.Error(err))
			err = fmt.Errorf("%w: band %d of %s", ErrTifWriteFailed, i+1, tif)
			return
		}
	}
	g.log.Info(g.logTag+"tif written", zap.String("tif", tif), zap.String("dataType", dt.Name()), zap.Int("bands", len(r.Bands)))
	return
}

func toBytes(data []float64) []uint8 {
	out := make([]uint8, len(data))
	for i, v := range data {
		out[i] = uint8(v)
	}
	return out
}

func toFloat32s(data []float64) []float32 {
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(v)
	}
	return out
}
