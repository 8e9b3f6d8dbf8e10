package sarburn

import (
	"fmt"
	"time"

	"github.com/wgdzlh/sarburn/alg"
	"github.com/wgdzlh/sarburn/log"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Stage string

const (
	StageSetup     Stage = "setup"
	StageCoreg     Stage = "coreg"
	StageChange    Stage = "change"
	StageThreshold Stage = "threshold"
	StageSieve     Stage = "sieve"
	StageVectorize Stage = "vectorize"
)

// 按执行顺序排列的处理阶段
var Stages = []Stage{StageCoreg, StageChange, StageThreshold, StageSieve, StageVectorize}

type StageTiming struct {
	Stage    Stage
	Duration time.Duration
}

// 运行结果汇总
type Report struct {
	Output   string
	Workdir  string // 仅保留模式下非空
	Timings  []StageTiming
	Change   alg.Stats
	Polygons int
	Repaired int
	TotalHa  float64
}

func (r *Report) Total() (d time.Duration) {
	for _, t := range r.Timings {
		d += t.Duration
	}
	return
}

// 在独立工作目录中依次执行配准、变化检测、阈值分割、筛选与矢量化
type Pipeline struct {
	tb     *Toolbox
	coreg  CoregistrationEngine
	log    *zap.Logger
	logTag string
}

func NewPipeline(tb *Toolbox, coreg CoregistrationEngine, logger *zap.Logger) *Pipeline {
	logger = log.OrNop(logger)
	if tb == nil {
		tb = NewToolbox(logger)
	}
	return &Pipeline{
		tb:     tb,
		coreg:  coreg,
		log:    logger,
		logTag: "Pipeline:",
	}
}

func (p *Pipeline) runStage(rep *Report, stage Stage, fn func() error) error {
	start := time.Now()
	p.log.Info(p.logTag+"stage start", zap.String("stage", string(stage)))
	err := fn()
	rep.Timings = append(rep.Timings, StageTiming{Stage: stage, Duration: time.Since(start)})
	if err != nil {
		p.log.Error(p.logTag+"stage failed", zap.String("stage", string(stage)), zap.Error(err))
		return &StageError{Stage: stage, Err: err}
	}
	return nil
}

// 顺序执行各阶段；任何退出路径均释放工作目录，释放失败并入返回错误
func (p *Pipeline) Run(cfg *RunConfig) (rep *Report, err error) {
	if cfg == nil || !cfg.validated {
		err = fmt.Errorf("%w: config must be built by NewRunConfig", ErrInvalidConfig)
		return
	}
	if p.coreg == nil {
		err = &StageError{Stage: StageSetup, Err: fmt.Errorf("%w: no coregistration engine", ErrInvalidConfig)}
		return
	}
	wd, err := NewWorkdir(cfg.WorkdirMode, cfg.WorkRoot, cfg.DebugDir)
	if err != nil {
		err = &StageError{Stage: StageSetup, Err: err}
		return
	}
	defer func() {
		err = multierr.Append(err, wd.Release())
	}()
	rep = &Report{Output: cfg.Out}
	if wd.Mode() == Retained {
		rep.Workdir = wd.Path()
	}
	p.log.Info(p.logTag+"run start",
		zap.String("master", cfg.Master),
		zap.String("slave", cfg.Slave),
		zap.String("out", cfg.Out),
		zap.String("filter", cfg.Filter.Name()),
		zap.String("workdir", wd.Path()),
		zap.Stringer("mode", wd.Mode()))

	var (
		coregTif = wd.File(COREG_TIF)
		chTif    = wd.File(CHANGE_TIF)
		maskTif  = wd.File(MASK_TIF)
		sieveTif = wd.File(SIEVE_TIF)
	)
	if err = p.runStage(rep, StageCoreg, func() (e error) {
		var aoiWkt string
		if cfg.Aoi != "" {
			if aoiWkt, e = p.tb.LoadAoiWkt(cfg.Aoi); e != nil {
				return
			}
		}
		return p.coreg.Run(cfg.Master, cfg.Slave, coregTif, aoiWkt)
	}); err != nil {
		return
	}
	if err = p.runStage(rep, StageChange, func() error {
		return p.changeStage(cfg, coregTif, chTif, rep)
	}); err != nil {
		return
	}
	if err = p.runStage(rep, StageThreshold, func() error {
		return p.rasterStage(chTif, maskTif, func(r *Raster) (*Raster, error) {
			return Threshold(r, cfg.ChangeThreshold)
		})
	}); err != nil {
		return
	}
	if err = p.runStage(rep, StageSieve, func() error {
		return p.rasterStage(maskTif, sieveTif, func(r *Raster) (*Raster, error) {
			return p.tb.Sieve(r, cfg.SieveSize)
		})
	}); err != nil {
		return
	}
	if err = p.runStage(rep, StageVectorize, func() error {
		return p.vectorizeStage(cfg, sieveTif, rep)
	}); err != nil {
		return
	}
	if cfg.Timer {
		p.logTimings(rep)
	}
	p.log.Info(p.logTag+"run done", zap.String("out", cfg.Out), zap.Int("polygons", rep.Polygons), zap.Float64("totalHa", rep.TotalHa))
	return
}

func (p *Pipeline) changeStage(cfg *RunConfig, in, out string, rep *Report) (err error) {
	stack, err := p.tb.ReadRaster(in)
	if err != nil {
		return
	}
	change, err := ChangeMetric(stack, cfg.BandPre, cfg.BandPost)
	if err != nil {
		return
	}
	if change, err = FilterChange(change, cfg.Filter); err != nil {
		return
	}
	g, _ := change.Band(1)
	rep.Change = alg.Describe(g)
	if rep.Change.Valid > 0 {
		p.log.Info(p.logTag+"change statistics",
			zap.Float64("min", rep.Change.Min),
			zap.Float64("max", rep.Change.Max),
			zap.Float64("mean", rep.Change.Mean),
			zap.Float64("std", rep.Change.Std),
			zap.Int("valid", rep.Change.Valid))
	} else {
		p.log.Info(p.logTag + "change raster has no valid pixels")
	}
	return p.tb.WriteRaster(out, change)
}

func (p *Pipeline) rasterStage(in, out string, fn func(*Raster) (*Raster, error)) (err error) {
	src, err := p.tb.ReadRaster(in)
	if err != nil {
		return
	}
	dst, err := fn(src)
	if err != nil {
		return
	}
	return p.tb.WriteRaster(out, dst)
}

func (p *Pipeline) vectorizeStage(cfg *RunConfig, in string, rep *Report) (err error) {
	mask, err := p.tb.ReadRaster(in)
	if err != nil {
		return
	}
	if !p.tb.IsProjected(mask.Projection) {
		p.log.Warn(p.logTag+"mask crs is not projected, area_ha is not in hectares", zap.String("in", in))
	}
	c, err := p.tb.Vectorize(mask, cfg.Clean)
	if err != nil {
		return
	}
	rep.Polygons = len(c.Features)
	rep.Repaired = c.Repaired
	rep.TotalHa = c.TotalHa()
	if c.Empty() {
		p.log.Info(p.logTag+"no burn scar detected, writing empty output", zap.String("out", cfg.Out))
	}
	if c.Repaired > 0 {
		p.log.Info(p.logTag+"invalid polygons repaired", zap.Int("polygons", c.Repaired))
	}
	return p.tb.WritePolygons(cfg.Out, c)
}

func (p *Pipeline) logTimings(rep *Report) {
	fields := make([]zap.Field, 0, len(rep.Timings)+1)
	for _, t := range rep.Timings {
		fields = append(fields, zap.Duration(string(t.Stage), t.Duration))
	}
	fields = append(fields, zap.Duration("total", rep.Total()))
	p.log.Info(p.logTag+"timing report", fields...)
}
