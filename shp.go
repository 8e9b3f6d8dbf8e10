package sarburn

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wgdzlh/sarburn/alg"
	"github.com/wgdzlh/sarburn/utils"

	"github.com/lukeroth/gdal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

// 输出为Shapefile（.shp）或GeoJSON（.geojson、.json），每个多边形一个要素并带area_ha属性；结果为空时仍生成文件
func (g *Toolbox) WritePolygons(path string, c alg.Collection) (err error) {
	if err = utils.EnsureParentDir(path); err != nil {
		return
	}
	switch utils.LowerExt(path) {
	case FILE_EXT_SHP:
		err = g.writeShapefile(path, c)
	case FILE_EXT_GEOJSON, FILE_EXT_JSON:
		err = g.writeGeoJSON(path, c)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedVector, path)
	}
	return
}

// 获取输出坐标系，优先按EPSG编码复用缓存
func (g *Toolbox) outputRef(projection string) (ref gdal.SpatialReference, owned bool, err error) {
	if srid, e := g.SridOfWkt(projection); e == nil {
		ref, err = g.getSridRef(srid)
		return
	}
	ref = gdal.CreateSpatialReference("")
	if projection != "" {
		if err = ref.FromWKT(projection); err != nil {
			ref.Destroy()
			g.log.Error(g.logTag+"parse projection failed", zap.Error(err))
			err = ErrVoidSrid
			return
		}
	}
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	owned = true
	return
}

func (g *Toolbox) getShpDriver(shp string, ref gdal.SpatialReference) (ds gdal.DataSource, layer gdal.Layer, err error) {
	g.log.Info(g.logTag+"output shp files", zap.String("shp", shp))
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	if e := utils.RemoveShapefile(shp); e != nil {
		g.log.Warn(g.logTag+"delete old shp failed", zap.Error(e))
	}
	ds, ok := driver.Create(shp, nil)
	if !ok {
		err = ErrGdalDriverCreate
		return
	}
	layer = ds.CreateLayer(utils.GetFilenameWithoutExt(shp), ref, gdal.GT_Polygon, []string{ENCODING_OPTION})
	return
}

func (g *Toolbox) initShpLayer(layer gdal.Layer) (err error) {
	areaField := gdal.CreateFieldDefinition(FIELD_AREA_HA, gdal.FT_Real)
	defer areaField.Destroy()
	areaField.SetWidth(AREA_WIDTH)
	areaField.SetPrecision(AREA_PREC)
	err = layer.CreateField(areaField, false)
	return
}

// 将多边形转为OGR几何，无效时以Buffer(0)修复
func (g *Toolbox) toOgrPolygon(p orb.Polygon, ref gdal.SpatialReference) (geo gdal.Geometry, err error) {
	if geo, err = g.parseWKT(wkt.MarshalString(p), ref); err != nil {
		return
	}
	if !geo.IsValid() {
		fixed := geo.Buffer(0, BUFF_QUAD_SEGS)
		geo.Destroy()
		geo = fixed
		g.log.Debug(g.logTag + "polygon repaired by buffer(0)")
	}
	return
}

func (g *Toolbox) writeShapefile(shp string, c alg.Collection) (err error) {
	ref, owned, err := g.outputRef(c.Projection)
	if err != nil {
		return
	}
	if owned {
		defer ref.Destroy()
	}
	ds, layer, err := g.getShpDriver(shp, ref)
	if err != nil {
		return
	}
	defer ds.Destroy() // 生成shp文件 + 释放资源
	if err = g.initShpLayer(layer); err != nil {
		g.log.Error(g.logTag+"create area field failed", zap.Error(err))
		return
	}
	var (
		def     = layer.Definition()
		areaIdx = def.FieldIndex(FIELD_AREA_HA)
		feature gdal.Feature
		geo     gdal.Geometry
		valid   int
		e       error
		gc      = make([]destroyable, 0, len(c.Features))
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	for i, f := range c.Features {
		feature = def.Create()
		gc = append(gc, feature)
		if e = feature.SetFID(int64(i)); e != nil {
			g.log.Error(g.logTag+"err in set feature fid", zap.Error(e))
			continue
		}
		feature.SetFieldFloat64(areaIdx, f.AreaHa)
		if geo, e = g.toOgrPolygon(f.Geometry, ref); e != nil {
			continue
		}
		if e = feature.SetGeometryDirectly(geo); e != nil {
			g.log.Error(g.logTag+"err in set geom of feature", zap.Error(e))
			continue
		}
		if e = layer.Create(feature); e != nil {
			g.log.Error(g.logTag+"err in create feature of layer", zap.Error(e))
			continue
		}
		valid++
	}
	if valid < len(c.Features) {
		err = fmt.Errorf("%w: %d of %d polygons written to %s", ErrGdalDriverCreate, valid, len(c.Features), shp)
	}
	g.log.Info(g.logTag+"shp files created", zap.String("shp", shp), zap.Int("total", len(c.Features)), zap.Int("valid", valid))
	return
}

func (g *Toolbox) writeGeoJSON(path string, c alg.Collection) (err error) {
	fc := geojson.NewFeatureCollection()
	for _, f := range c.Features {
		feat := geojson.NewFeature(f.Geometry)
		feat.Properties[FIELD_AREA_HA] = f.AreaHa
		fc.Append(feat)
	}
	if srid, e := g.SridOfWkt(c.Projection); e == nil {
		fc.ExtraMembers = geojson.Properties{
			"crs": map[string]any{
				"type": "name",
				"properties": map[string]any{
					"name": fmt.Sprintf("urn:ogc:def:crs:EPSG::%d", srid),
				},
			},
		}
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return
	}
	g.log.Info(g.logTag+"geojson file created", zap.String("file", path), zap.Int("total", len(c.Features)))
	return
}
