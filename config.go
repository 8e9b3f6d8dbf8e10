package sarburn

const (
	FILE_EXT_SHP     = ".shp"
	FILE_EXT_JSON    = ".json"
	FILE_EXT_GEOJSON = ".geojson"
	FILE_EXT_GPKG    = ".gpkg"
	SHAPE_ENCODING   = "UTF-8"
	SHP_DRIVER_NAME  = "ESRI Shapefile"
	JSON_DRIVER_NAME = "GeoJSON"
	GPKG_DRIVER_NAME = "GPKG"
	TIF_DRIVER_NAME  = "GTiff"
	MEM_DRIVER_NAME  = "MEM"
	OGR_MEM_DRIVER   = "Memory"
	ENCODING_OPTION  = "ENCODING=" + SHAPE_ENCODING
	UNIVERSAL_SRID   = 4326

	// 阶段中间产物（位于工作目录）
	COREG_TIF  = "coreg_stack.tif"
	CHANGE_TIF = "change.tif"
	MASK_TIF   = "mask.tif"
	SIEVE_TIF  = "mask_sieved.tif"

	BUFF_QUAD_SEGS = 12

	// 筛选滤波按8邻域合并，矢量化沿用GDAL默认的4邻域
	SIEVE_CONNECTEDNESS = 8
	POLYGON_LAYER       = "burn"
	FIELD_VALUE         = "value"

	FIELD_AREA_HA = "area_ha"
	AREA_WIDTH    = 24
	AREA_PREC     = 6

	DEFAULT_BAND_PRE         = 1
	DEFAULT_BAND_POST        = 3
	DEFAULT_CHANGE_THRESHOLD = 3.0
	DEFAULT_SIEVE_SIZE       = 10
	DEFAULT_FILTER           = "median"

	DEFAULT_GPT   = "/opt/snap/bin/gpt"
	DEFAULT_GRAPH = "config/graphs/preproc_full.xml"
)

var (
	TIF_CREATE_OPTIONS = []string{"COMPRESS=LZW", "TILED=YES"}
)
