package alg

import (
	"fmt"
	"math"
	"sort"
)

// ParseFilter可识别的滤波名称
const (
	FilterNone               = "none"
	FilterMedian             = "median"
	FilterGaussian           = "gaussian"
	FilterBilateral          = "bilateral"
	FilterMorphological      = "morphological"
	FilterMinimumMappingUnit = "minimum_mapping_unit"
	FilterCombined           = "combined"
)

// 高斯核半径（以标准差计）
const gaussianTruncate = 4.0

// 斑点滤波策略，仅限本包定义的几种
type FilterStrategy interface {
	Name() string
	speckleFilter()
}

// 不滤波
type NoFilter struct{}

// Size×Size窗口中值滤波
type Median struct {
	Size int
}

// 标准差为Sigma的各向同性高斯卷积
type Gaussian struct {
	Sigma float64
}

// 以同Sigma的高斯滤波近似，不做保边加权
type Bilateral struct {
	Sigma float64
}

// 保留|v| > Threshold的像元，其掩膜先开后闭（StructureSize为0时跳过）
type Morphological struct {
	Threshold     float64
	StructureSize int
}

// 保留|v| > Threshold且所在8邻域连通块不少于MinPixels像元的像元
type MinimumMappingUnit struct {
	Threshold float64
	MinPixels int
}

// 依次中值、高斯，再对掩膜做开运算
type Combined struct {
	MedianSize    int
	GaussianSigma float64
	Threshold     float64
	StructureSize int
}

func (NoFilter) Name() string           { return FilterNone }
func (Median) Name() string             { return FilterMedian }
func (Gaussian) Name() string           { return FilterGaussian }
func (Bilateral) Name() string          { return FilterBilateral }
func (Morphological) Name() string      { return FilterMorphological }
func (MinimumMappingUnit) Name() string { return FilterMinimumMappingUnit }
func (Combined) Name() string           { return FilterCombined }

func (NoFilter) speckleFilter()           {}
func (Median) speckleFilter()             {}
func (Gaussian) speckleFilter()           {}
func (Bilateral) speckleFilter()          {}
func (Morphological) speckleFilter()      {}
func (MinimumMappingUnit) speckleFilter() {}
func (Combined) speckleFilter()           {}

// 按名称与参数（size、sigma、threshold、structure_size、min_pixels、median_size、
// gaussian_sigma）构建滤波策略；缺省参数取默认值，无关参数忽略
func ParseFilter(name string, params map[string]float64) (FilterStrategy, error) {
	for k, v := range params {
		if !finite(v) {
			return nil, fmt.Errorf("%w: %s %v", ErrInvalidFilterParam, k, v)
		}
	}
	get := func(key string, def float64) float64 {
		if v, ok := params[key]; ok {
			return v
		}
		return def
	}
	var f FilterStrategy
	switch name {
	case FilterNone:
		f = NoFilter{}
	case FilterMedian:
		f = Median{Size: int(get("size", 3))}
	case FilterGaussian:
		f = Gaussian{Sigma: get("sigma", 1.0)}
	case FilterBilateral:
		f = Bilateral{Sigma: get("sigma", 1.0)}
	case FilterMorphological:
		f = Morphological{Threshold: get("threshold", 0.5), StructureSize: int(get("structure_size", 3))}
	case FilterMinimumMappingUnit:
		f = MinimumMappingUnit{Threshold: get("threshold", 0.5), MinPixels: int(get("min_pixels", 9))}
	case FilterCombined:
		f = Combined{
			MedianSize:    int(get("median_size", 3)),
			GaussianSigma: get("gaussian_sigma", 0.8),
			Threshold:     get("threshold", 0.3),
			StructureSize: int(get("structure_size", 2)),
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilterStrategy, name)
	}
	if err := ValidateFilter(f); err != nil {
		return nil, err
	}
	return f, nil
}

// 校验滤波参数，sigma与阈值须为有限值
func ValidateFilter(f FilterStrategy) error {
	switch s := f.(type) {
	case NoFilter:
	case Median:
		if s.Size < 1 {
			return fmt.Errorf("%w: median size %d", ErrInvalidFilterParam, s.Size)
		}
	case Gaussian:
		if !validSigma(s.Sigma) {
			return fmt.Errorf("%w: gaussian sigma %v", ErrInvalidFilterParam, s.Sigma)
		}
	case Bilateral:
		if !validSigma(s.Sigma) {
			return fmt.Errorf("%w: bilateral sigma %v", ErrInvalidFilterParam, s.Sigma)
		}
	case Morphological:
		if !finite(s.Threshold) {
			return fmt.Errorf("%w: morphological threshold %v", ErrInvalidFilterParam, s.Threshold)
		}
		if s.StructureSize < 0 {
			return fmt.Errorf("%w: structure size %d", ErrInvalidFilterParam, s.StructureSize)
		}
	case MinimumMappingUnit:
		if !finite(s.Threshold) {
			return fmt.Errorf("%w: minimum mapping unit threshold %v", ErrInvalidFilterParam, s.Threshold)
		}
		if s.MinPixels < 0 {
			return fmt.Errorf("%w: min pixels %d", ErrInvalidFilterParam, s.MinPixels)
		}
	case Combined:
		if s.MedianSize < 1 || !validSigma(s.GaussianSigma) || !finite(s.Threshold) || s.StructureSize < 0 {
			return fmt.Errorf("%w: combined %+v", ErrInvalidFilterParam, s)
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnknownFilterStrategy, f)
	}
	return nil
}

// 对整幅栅格滤波，返回同尺寸新栅格；此处形态学运算视边界外为背景
func ApplyFilter(g Grid, f FilterStrategy) (Grid, error) {
	if err := ValidateFilter(f); err != nil {
		return Grid{}, err
	}
	switch s := f.(type) {
	case NoFilter:
		return g.Clone(), nil
	case Median:
		return medianFilter(g, s.Size), nil
	case Gaussian:
		return gaussianFilter(g, s.Sigma), nil
	case Bilateral:
		return gaussianFilter(g, s.Sigma), nil
	case Morphological:
		m := absAbove(g, s.Threshold)
		if s.StructureSize > 0 {
			m = Close(Open(m, s.StructureSize, BorderZero), s.StructureSize, BorderZero)
		}
		return keepMasked(g, m), nil
	case MinimumMappingUnit:
		m := RemoveSmallComponents(absAbove(g, s.Threshold), s.MinPixels, Conn8)
		return keepMasked(g, m), nil
	case Combined:
		out := gaussianFilter(medianFilter(g, s.MedianSize), s.GaussianSigma)
		m := absAbove(out, s.Threshold)
		if s.StructureSize > 0 {
			m = Open(m, s.StructureSize, BorderZero)
		}
		return keepMasked(out, m), nil
	}
	return Grid{}, fmt.Errorf("%w: %T", ErrUnknownFilterStrategy, f)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validSigma(v float64) bool {
	return finite(v) && v >= 0
}

func absAbove(g Grid, t float64) Mask {
	m := NewMask(g.Width, g.Height)
	for i, v := range g.Data {
		if math.Abs(v) > t {
			m.Data[i] = 1
		}
	}
	return m
}

func keepMasked(g Grid, m Mask) Grid {
	out := NewGrid(g.Width, g.Height)
	for i, v := range g.Data {
		if m.Data[i] == 1 {
			out.Data[i] = v
		}
	}
	return out
}

// 取窗口内秩为n/2的元素，偶数个时为上中位数
func medianFilter(g Grid, size int) Grid {
	if size <= 1 {
		return g.Clone()
	}
	out := NewGrid(g.Width, g.Height)
	lo, hi := squareSpan(size)
	win := make([]float64, 0, size*size)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			win = win[:0]
			for dy := lo; dy <= hi; dy++ {
				yy := reflectIndex(y+dy, g.Height)
				for dx := lo; dx <= hi; dx++ {
					win = append(win, g.Data[yy*g.Width+reflectIndex(x+dx, g.Width)])
				}
			}
			sort.Float64s(win)
			out.Data[y*g.Width+x] = win[len(win)/2]
		}
	}
	return out
}

func gaussianKernel(sigma float64) []float64 {
	radius := int(gaussianTruncate*sigma + 0.5)
	k := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-0.5 * float64(i*i) / (sigma * sigma))
		k[i+radius] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// 归一化核先按行、再按列卷积
func gaussianFilter(g Grid, sigma float64) Grid {
	if sigma <= 0 {
		return g.Clone()
	}
	k := gaussianKernel(sigma)
	r := len(k) / 2
	tmp := NewGrid(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		row := g.Data[y*g.Width : (y+1)*g.Width]
		for x := 0; x < g.Width; x++ {
			var acc float64
			for i, w := range k {
				acc += w * row[reflectIndex(x+i-r, g.Width)]
			}
			tmp.Data[y*g.Width+x] = acc
		}
	}
	out := NewGrid(g.Width, g.Height)
	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			var acc float64
			for i, w := range k {
				acc += w * tmp.Data[reflectIndex(y+i-r, g.Height)*g.Width+x]
			}
			out.Data[y*g.Width+x] = acc
		}
	}
	return out
}
