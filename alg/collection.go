package alg

import (
	"github.com/paulmach/orb"
)

// 平方米转公顷
const SquareMetersPerHectare = 10000.0

// 矢量化前开闭运算所用方形结构元边长
const CleanSize = 3

// 单个火烧迹地多边形及其面积（公顷）
type Feature struct {
	Geometry orb.Polygon
	AreaHa   float64
}

// 矢量化结果，Projection为WKT
type Collection struct {
	Projection string
	Features   []Feature
	Repaired   int // 经Buffer(0)修复的无效几何数
}

func (c Collection) Empty() bool {
	return len(c.Features) == 0
}

func (c Collection) TotalHa() (ha float64) {
	for _, f := range c.Features {
		ha += f.AreaHa
	}
	return
}

// 先开后闭（3x3，边缘复制），去除毛刺并填补细缝
func Clean(m Mask) Mask {
	return Close(Open(m, CleanSize, BorderReplicate), CleanSize, BorderReplicate)
}

// 统一环向：外环逆时针、内环顺时针（原地修改）
func OrientPolygon(p orb.Polygon) {
	for i, r := range p {
		want := orb.CW
		if i == 0 {
			want = orb.CCW
		}
		if o := r.Orientation(); o != 0 && o != want {
			r.Reverse()
		}
	}
}
