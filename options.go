package sarburn

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/wgdzlh/sarburn/alg"
	"github.com/wgdzlh/sarburn/utils"
)

// 单次运行的原始参数，与命令行一一对应
type RunOptions struct {
	Master string
	Slave  string
	Aoi    string // 可选
	Out    string

	BandPre  int
	BandPost int

	Filter       string
	FilterParams map[string]float64

	ChangeThreshold float64
	SieveSize       int
	NoClean         bool

	Debug    bool   // 保留中间文件
	DebugDir string // 保留目录，为空时在WorkRoot下新建
	WorkRoot string
	Timer    bool
}

// 全部取默认值的运行参数
func DefaultRunOptions() RunOptions {
	return RunOptions{
		BandPre:         DEFAULT_BAND_PRE,
		BandPost:        DEFAULT_BAND_POST,
		Filter:          DEFAULT_FILTER,
		ChangeThreshold: DEFAULT_CHANGE_THRESHOLD,
		SieveSize:       DEFAULT_SIEVE_SIZE,
	}
}

// 经校验、规范化的运行参数，须由NewRunConfig构建
type RunConfig struct {
	Master string
	Slave  string
	Aoi    string
	Out    string

	BandPre  int
	BandPost int
	Filter   alg.FilterStrategy

	ChangeThreshold float64
	SieveSize       int
	Clean           bool

	WorkdirMode WorkdirMode
	WorkRoot    string
	DebugDir    string
	Timer       bool

	validated bool
}

// 校验参数，路径转为绝对路径并检查输入存在
func NewRunConfig(o RunOptions) (cfg *RunConfig, err error) {
	cfg = &RunConfig{
		BandPre:         o.BandPre,
		BandPost:        o.BandPost,
		ChangeThreshold: o.ChangeThreshold,
		SieveSize:       o.SieveSize,
		Clean:           !o.NoClean,
		Timer:           o.Timer,
	}
	if o.Master == "" || o.Slave == "" || o.Out == "" {
		return nil, fmt.Errorf("%w: master, slave and out are required", ErrInvalidConfig)
	}
	for _, p := range []struct {
		src string
		dst *string
	}{
		{o.Master, &cfg.Master},
		{o.Slave, &cfg.Slave},
		{o.Aoi, &cfg.Aoi},
		{o.Out, &cfg.Out},
		{o.DebugDir, &cfg.DebugDir},
		{o.WorkRoot, &cfg.WorkRoot},
	} {
		if p.src == "" {
			continue
		}
		if *p.dst, err = filepath.Abs(p.src); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, p.src, err)
		}
	}
	for _, in := range []string{cfg.Master, cfg.Slave, cfg.Aoi} {
		if in != "" && !utils.FileExists(in) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, in)
		}
	}
	switch utils.LowerExt(cfg.Out) {
	case FILE_EXT_SHP, FILE_EXT_GEOJSON, FILE_EXT_JSON:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVector, cfg.Out)
	}
	if cfg.BandPre < 1 {
		return nil, fmt.Errorf("%w: pre band %d", ErrInvalidBandIndex, cfg.BandPre)
	}
	if cfg.BandPost < 1 {
		return nil, fmt.Errorf("%w: post band %d", ErrInvalidBandIndex, cfg.BandPost)
	}
	if math.IsNaN(cfg.ChangeThreshold) || math.IsInf(cfg.ChangeThreshold, 0) {
		return nil, fmt.Errorf("%w: change threshold %v", ErrInvalidConfig, cfg.ChangeThreshold)
	}
	if cfg.SieveSize < 0 {
		return nil, fmt.Errorf("%w: sieve size %d", ErrInvalidConfig, cfg.SieveSize)
	}
	name := o.Filter
	if name == "" {
		name = DEFAULT_FILTER
	}
	if cfg.Filter, err = alg.ParseFilter(name, o.FilterParams); err != nil {
		return nil, err
	}
	if o.Debug || o.DebugDir != "" {
		cfg.WorkdirMode = Retained
	}
	cfg.validated = true
	return
}
