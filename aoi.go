package sarburn

import (
	"fmt"

	"github.com/wgdzlh/sarburn/utils"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 按扩展名选择OGR驱动
func vectorDriverName(path string) (name string, err error) {
	switch utils.LowerExt(path) {
	case FILE_EXT_SHP:
		name = SHP_DRIVER_NAME
	case FILE_EXT_GEOJSON, FILE_EXT_JSON:
		name = JSON_DRIVER_NAME
	case FILE_EXT_GPKG:
		name = GPKG_DRIVER_NAME
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedVector, path)
	}
	return
}

// 合并矢量文件首个图层内全部要素，若坐标系非4326则转换
func (g *Toolbox) parseVector(path string) (ret gdal.Geometry, err error) {
	name, err := vectorDriverName(path)
	if err != nil {
		return
	}
	driver := gdal.OGRDriverByName(name)
	ds, ok := driver.Open(path, 0)
	if !ok {
		g.log.Error(g.logTag+"open vector failed", zap.String("file", path))
		err = fmt.Errorf("%w: %s", ErrGdalDriverOpen, path)
		return
	}
	defer ds.Destroy()
	if ds.LayerCount() == 0 {
		err = fmt.Errorf("%w: %s has no layer", ErrEmptyAoi, path)
		return
	}
	var (
		layer   = ds.LayerByIndex(0)
		srid    = UNIVERSAL_SRID
		feature *gdal.Feature
		gc      []destroyable
	)
	if v, e := g.getSrid(layer.SpatialReference()); e == nil {
		srid = v
	} else {
		g.log.Warn(g.logTag+"aoi srid unknown, assume 4326", zap.String("file", path))
	}
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	ret = gdal.Create(gdal.GT_Polygon)
	for {
		if feature = layer.NextFeature(); feature == nil {
			break
		}
		gc = append(gc, *feature)
		gc = append(gc, ret)
		ret = ret.Union(feature.Geometry())
	}
	if srid != UNIVERSAL_SRID && !ret.IsEmpty() {
		var tRef gdal.SpatialReference
		if tRef, err = g.getSridRef(UNIVERSAL_SRID); err == nil {
			if err = ret.TransformTo(tRef); err != nil {
				g.log.Error(g.logTag+"geo transform failed", zap.Error(err))
			}
		}
		if err != nil {
			gc = append(gc, ret)
		}
	}
	return
}

// 将矢量文件全部要素合并为EPSG:4326下的单个几何，返回WKT
func (g *Toolbox) LoadAoiWkt(path string) (ret string, err error) {
	if !utils.FileExists(path) {
		err = fmt.Errorf("%w: %s", ErrMissingInput, path)
		return
	}
	g.log.Info(g.logTag+"start aoi wkt trans", zap.String("file", path))
	geo, err := g.parseVector(path)
	if err != nil {
		return
	}
	defer geo.Destroy()
	if geo.IsEmpty() {
		err = fmt.Errorf("%w: %s", ErrEmptyAoi, path)
		return
	}
	if ret, err = geo.ToWKT(); err != nil {
		g.log.Error(g.logTag+"aoi to wkt failed", zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrInvalidWKT, err)
		return
	}
	g.log.Info(g.logTag+"got wkt from aoi", zap.String("file", path), zap.Int("len", len(ret)))
	return
}
