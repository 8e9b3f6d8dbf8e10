package sarburn

import (
	"strconv"
	"sync"

	"github.com/wgdzlh/sarburn/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

type Toolbox struct {
	refMap map[int]gdal.SpatialReference
	rLock  sync.Mutex
	log    *zap.Logger
	logTag string
}

// 由GDAL库C语言创建的内存对象，需要手动调用Destroy回收
type destroyable interface {
	Destroy()
}

// 初始化GDAL工具箱，logger为空时不输出日志
func NewToolbox(logger *zap.Logger) *Toolbox {
	return &Toolbox{
		refMap: map[int]gdal.SpatialReference{},
		log:    log.OrNop(logger),
		logTag: "Toolbox:",
	}
}

// 获取srid对应的坐标系（可复用，故无需回收）
func (g *Toolbox) getSridRef(srid int) (ref gdal.SpatialReference, err error) {
	g.rLock.Lock()
	defer g.rLock.Unlock()
	ref, ok := g.refMap[srid]
	if ok {
		return
	}
	ref = gdal.CreateSpatialReference("")
	if err = ref.FromEPSG(srid); err != nil {
		g.log.Error(g.logTag+"set ref srid failed", zap.Int("srid", srid), zap.Error(err))
		ref.Destroy()
		return
	}
	// 固定(经度,纬度)/(东,北)轴序，避免转换坐标系或输出WKT时出现次序倒置
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	g.refMap[srid] = ref
	return
}

// 获取坐标系的EPSG编码，投影坐标系取PROJCS节点下的AUTHORITY
func (g *Toolbox) getSrid(sp gdal.SpatialReference) (srid int, err error) {
	node := "GEOGCS|AUTHORITY"
	if sp.IsProjected() {
		node = "PROJCS|AUTHORITY"
	}
	rawId, ok := sp.AttrValue(node, 1)
	if !ok {
		if e := sp.AutoIdentifyEPSG(); e == nil {
			rawId, ok = sp.AttrValue(node, 1)
		}
	}
	if !ok {
		err = ErrVoidSrid
		return
	}
	srid, err = strconv.Atoi(rawId)
	g.log.Debug(g.logTag+"got srid from sp", zap.String("id", rawId))
	return
}

// 获取WKT坐标系的EPSG编码
func (g *Toolbox) SridOfWkt(wkt string) (srid int, err error) {
	if wkt == "" {
		err = ErrVoidSrid
		return
	}
	sp := gdal.CreateSpatialReference(wkt)
	defer sp.Destroy()
	return g.getSrid(sp)
}

// 是否为投影坐标系（平面坐标，通常以米为单位）
func (g *Toolbox) IsProjected(wkt string) bool {
	if wkt == "" {
		return false
	}
	sp := gdal.CreateSpatialReference(wkt)
	defer sp.Destroy()
	return sp.IsProjected()
}

func (g *Toolbox) parseWKT(wkt string, ref gdal.SpatialReference) (ret gdal.Geometry, err error) {
	ret, err = gdal.CreateFromWKT(wkt, ref)
	if err != nil {
		g.log.Error(g.logTag+"parse wkt failed", zap.Error(err))
		err = ErrInvalidWKT
	}
	return
}
