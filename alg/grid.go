// 火烧迹地流程的内存栅格算法，均按行优先整幅数组处理；文件读写与坐标系在上层包
package alg

import "math"

// 单波段实数栅格，按行存储
type Grid struct {
	Width  int
	Height int
	Data   []float64
}

func NewGrid(w, h int) Grid {
	return Grid{Width: w, Height: h, Data: make([]float64, w*h)}
}

func (g Grid) At(x, y int) float64 {
	return g.Data[y*g.Width+x]
}

func (g Grid) Clone() Grid {
	d := make([]float64, len(g.Data))
	copy(d, g.Data)
	return Grid{Width: g.Width, Height: g.Height, Data: d}
}

func (g Grid) sameShape(o Grid) bool {
	return g.Width == o.Width && g.Height == o.Height && len(g.Data) == len(o.Data)
}

// 二值掩膜，像元取0或1
type Mask struct {
	Width  int
	Height int
	Data   []uint8
}

func NewMask(w, h int) Mask {
	return Mask{Width: w, Height: h, Data: make([]uint8, w*h)}
}

func (m Mask) At(x, y int) uint8 {
	return m.Data[y*m.Width+x]
}

func (m Mask) Clone() Mask {
	d := make([]uint8, len(m.Data))
	copy(d, m.Data)
	return Mask{Width: m.Width, Height: m.Height, Data: d}
}

// 值为1的像元数
func (m Mask) Count() (n int) {
	for _, v := range m.Data {
		if v == 1 {
			n++
		}
	}
	return
}

func (m Mask) Any() bool {
	for _, v := range m.Data {
		if v == 1 {
			return true
		}
	}
	return false
}

// GDAL仿射变换：X = t[0] + col*t[1] + row*t[2]，Y = t[3] + col*t[4] + row*t[5]
type GeoTransform [6]float64

// 像元角点即坐标（北向上、单位像元）
var IdentityTransform = GeoTransform{0, 1, 0, 0, 0, 1}

// 单个像元的地面面积（坐标单位的平方）
func (t GeoTransform) CellArea() float64 {
	return math.Abs(t[1]*t[5] - t[2]*t[4])
}

// 连通分组所用邻域
type Connectivity int

const (
	Conn4 Connectivity = 4
	Conn8 Connectivity = 8
)

var (
	offsets4 = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	offsets8 = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func (c Connectivity) offsets() [][2]int {
	if c == Conn4 {
		return offsets4
	}
	return offsets8
}

// 以边缘镜像折回[0,n)，越界先重复边缘像元：d c b a | a b c d | d c b a
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}
