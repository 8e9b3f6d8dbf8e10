package sarburn

import (
	"fmt"

	"github.com/wgdzlh/sarburn/alg"

	"github.com/lukeroth/gdal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"go.uber.org/zap"
)

// 将掩膜首波段的4邻域连通区域矢量化为多边形（栅格地面坐标），clean为真时先开闭运算。
// 由GDAL Polygonize生成，无效几何经Buffer(0)修复，面积取自GEOS
func (g *Toolbox) Vectorize(r *Raster, clean bool) (c alg.Collection, err error) {
	if _, err = r.Band(1); err != nil {
		return
	}
	c.Projection = r.Projection
	m := r.Mask()
	if clean {
		m = alg.Clean(m)
	}
	if !m.Any() {
		return
	}
	ds, err := g.memMask(r.GeoRef, m, 1)
	if err != nil {
		return
	}
	defer ds.Close()
	ref, owned, err := g.outputRef(r.Projection)
	if err != nil {
		return
	}
	if owned {
		defer ref.Destroy()
	}
	src, ok := gdal.OGRDriverByName(OGR_MEM_DRIVER).Create("", nil)
	if !ok {
		err = fmt.Errorf("%w: %s", ErrGdalDriverCreate, OGR_MEM_DRIVER)
		return
	}
	defer src.Destroy()
	layer := src.CreateLayer(POLYGON_LAYER, ref, gdal.GT_Polygon, nil)
	valueField := gdal.CreateFieldDefinition(FIELD_VALUE, gdal.FT_Integer)
	defer valueField.Destroy()
	if err = layer.CreateField(valueField, false); err != nil {
		g.log.Error(g.logTag+"create value field failed", zap.Error(err))
		return
	}
	// 掩膜波段兼作自身的有效区，背景不生成多边形
	band := ds.RasterBand(1)
	if err = band.Polygonize(band, layer, 0, nil, gdal.DummyProgress, nil); err != nil {
		g.log.Error(g.logTag+"polygonize failed", zap.Error(err))
		err = fmt.Errorf("%w: polygonize: %v", ErrGdalAlgorithm, err)
		return
	}
	layer.ResetReading()
	for {
		feature := layer.NextFeature()
		if feature == nil {
			break
		}
		err = g.collectPolygons(&c, feature.Geometry())
		feature.Destroy()
		if err != nil {
			return
		}
	}
	g.log.Info(g.logTag+"mask vectorized", zap.Int("polygons", len(c.Features)), zap.Int("repaired", c.Repaired))
	return
}

// 收集要素几何，无效时Buffer(0)修复，修复结果为多部件时逐个拆出
func (g *Toolbox) collectPolygons(c *alg.Collection, geo gdal.Geometry) (err error) {
	if geo.IsEmpty() {
		return
	}
	if !geo.IsValid() {
		fixed := geo.Buffer(0, BUFF_QUAD_SEGS)
		defer fixed.Destroy()
		geo = fixed
		c.Repaired++
		g.log.Debug(g.logTag + "polygon repaired by buffer(0)")
	}
	switch geo.Type() {
	case gdal.GT_Polygon:
		err = g.appendPolygon(c, geo)
	case gdal.GT_MultiPolygon:
		for i := 0; i < geo.GeometryCount(); i++ {
			if err = g.appendPolygon(c, geo.Geometry(i)); err != nil {
				return
			}
		}
	default:
		g.log.Warn(g.logTag+"unexpected geometry dropped", zap.String("type", geo.Name()))
	}
	return
}

func (g *Toolbox) appendPolygon(c *alg.Collection, geo gdal.Geometry) (err error) {
	if geo.IsEmpty() {
		return
	}
	s, err := geo.ToWKT()
	if err != nil {
		g.log.Error(g.logTag+"export wkt failed", zap.Error(err))
		err = ErrInvalidWKT
		return
	}
	og, err := wkt.Unmarshal(s)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidWKT, err)
		return
	}
	p, ok := og.(orb.Polygon)
	if !ok {
		err = fmt.Errorf("%w: got %s", ErrInvalidWKT, og.GeoJSONType())
		return
	}
	alg.OrientPolygon(p)
	c.Features = append(c.Features, alg.Feature{
		Geometry: p,
		AreaHa:   geo.Area() / alg.SquareMetersPerHectare,
	})
	return
}
