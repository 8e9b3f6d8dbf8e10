package sarburn

import (
	"fmt"

	"github.com/wgdzlh/sarburn/alg"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 以掩膜构建MEM内存栅格（Byte），首波段写入掩膜，其余波段留作输出；调用方负责Close
func (g *Toolbox) memMask(ref GeoRef, m alg.Mask, bands int) (ds gdal.Dataset, err error) {
	driver, err := gdal.GetDriverByName(MEM_DRIVER_NAME)
	if err != nil {
		g.log.Error(g.logTag+"get mem driver failed", zap.Error(err))
		err = ErrGdalDriverCreate
		return
	}
	ds = driver.Create("", m.Width, m.Height, bands, gdal.Byte, nil)
	defer func() {
		if err != nil {
			ds.Close()
		}
	}()
	if err = ds.SetGeoTransform([6]float64(ref.Transform)); err != nil {
		g.log.Error(g.logTag+"set geo transform failed", zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrGdalDriverCreate, err)
		return
	}
	if ref.Projection != "" {
		if err = ds.SetProjection(ref.Projection); err != nil {
			g.log.Error(g.logTag+"set projection failed", zap.Error(err))
			err = fmt.Errorf("%w: %v", ErrGdalDriverCreate, err)
			return
		}
	}
	buf := make([]uint8, len(m.Data))
	copy(buf, m.Data)
	if err = ds.RasterBand(1).IO(gdal.Write, 0, 0, m.Width, m.Height, buf, m.Width, m.Height, 0, 0); err != nil {
		g.log.Error(g.logTag+"write mem band failed", zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrTifWriteFailed, err)
	}
	return
}

// 读取MEM栅格第i波段为掩膜，仅值为1的像元置位
func (g *Toolbox) readMemMask(ds gdal.Dataset, i int) (m alg.Mask, err error) {
	m = alg.NewMask(ds.RasterXSize(), ds.RasterYSize())
	buf := make([]uint8, len(m.Data))
	if err = ds.RasterBand(i).IO(gdal.Read, 0, 0, m.Width, m.Height, buf, m.Width, m.Height, 0, 0); err != nil {
		g.log.Error(g.logTag+"read mem band failed", zap.Int("band", i), zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrTifReadFailed, err)
		return
	}
	for k, v := range buf {
		if v == 1 {
			m.Data[k] = 1
		}
	}
	return
}
