// sarburn：由灾前/灾后SAR影像对提取火烧迹地
//
// 用法：sarburn -master pre.zip -slave post.zip -aoi aoi.geojson -out scars.shp [options]
//
// 安装相关配置（gpt、graph、工作根目录、日志）读取SARBURN_*环境变量
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/wgdzlh/sarburn"
	"github.com/wgdzlh/sarburn/log"

	"go.uber.org/zap"
)

var (
	flagMaster = flag.String("master", "", "Pre-event (master) product archive")
	flagSlave  = flag.String("slave", "", "Post-event (slave) product archive")
	flagAoi    = flag.String("aoi", "", "AOI vector file (.shp, .geojson, .json, .gpkg)")
	flagOut    = flag.String("out", "", "Output polygon file (.shp, .geojson, .json)")
	flagStack  = flag.String("stack", "", "Use an already coregistered stack instead of running gpt")

	flagBandPre  = flag.Int("band-pre", sarburn.DEFAULT_BAND_PRE, "Pre-event band of the coregistered stack")
	flagBandPost = flag.Int("band-post", sarburn.DEFAULT_BAND_POST, "Post-event band of the coregistered stack")
	flagFilter   = flag.String("filter", sarburn.DEFAULT_FILTER, "Speckle filter: none, median, gaussian, bilateral, morphological, minimum_mapping_unit, combined")

	flagChangeThreshold = flag.Float64("change-threshold", sarburn.DEFAULT_CHANGE_THRESHOLD, "Change threshold in dB")
	flagSieve           = flag.Int("sieve", sarburn.DEFAULT_SIEVE_SIZE, "Minimum cluster size in pixels")
	flagNoClean         = flag.Bool("no-clean", false, "Skip morphological cleaning before vectorization")
	flagDebug           = flag.Bool("debug", false, "Keep intermediate rasters")
	flagDebugDir        = flag.String("debug-dir", "", "Directory for intermediate rasters (implies -debug)")
	flagTimer           = flag.Bool("timer", false, "Report stage timings")
)

// 滤波参数，仅转发显式设置的项
var filterParamFlags = map[string]*float64{
	"size":           flag.Float64("size", 0, "Median kernel size"),
	"sigma":          flag.Float64("sigma", 0, "Gaussian sigma"),
	"threshold":      flag.Float64("threshold", 0, "Filter threshold for morphological, minimum_mapping_unit and combined"),
	"structure_size": flag.Float64("structure-size", 0, "Structuring element size"),
	"min_pixels":     flag.Float64("min-pixels", 0, "Minimum mapping unit in pixels"),
	"median_size":    flag.Float64("median-size", 0, "Median size for the combined filter"),
	"gaussian_sigma": flag.Float64("gaussian-sigma", 0, "Gaussian sigma for the combined filter"),
}

func filterParams() map[string]float64 {
	params := map[string]float64{}
	flag.Visit(func(f *flag.Flag) {
		key := flagKey(f.Name)
		if v, ok := filterParamFlags[key]; ok {
			params[key] = *v
		}
	})
	return params
}

func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sarburn: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	if *flagMaster == "" || *flagSlave == "" || *flagAoi == "" || *flagOut == "" {
		flag.Usage()
		return fmt.Errorf("%w: -master, -slave, -aoi and -out are required", sarburn.ErrInvalidConfig)
	}
	env, err := sarburn.LoadEnvConfig(nil)
	if err != nil {
		return
	}
	logger, err := log.New(env.LogLevel, env.LogFormat)
	if err != nil {
		return
	}
	defer logger.Sync()

	opts := sarburn.DefaultRunOptions()
	opts.Master = *flagMaster
	opts.Slave = *flagSlave
	opts.Aoi = *flagAoi
	opts.Out = *flagOut
	opts.BandPre = *flagBandPre
	opts.BandPost = *flagBandPost
	opts.Filter = *flagFilter
	opts.FilterParams = filterParams()
	opts.ChangeThreshold = *flagChangeThreshold
	opts.SieveSize = *flagSieve
	opts.NoClean = *flagNoClean
	opts.Debug = *flagDebug
	opts.DebugDir = *flagDebugDir
	opts.WorkRoot = env.WorkRoot
	opts.Timer = *flagTimer
	cfg, err := sarburn.NewRunConfig(opts)
	if err != nil {
		return
	}

	var engine sarburn.CoregistrationEngine
	if *flagStack != "" {
		engine = sarburn.StackFile(*flagStack)
	} else if engine, err = sarburn.NewGptEngine(env.GptExecutable(), env.Graph, logger); err != nil {
		return
	}

	tb := sarburn.NewToolbox(logger)
	rep, err := sarburn.NewPipeline(tb, engine, logger).Run(cfg)
	if err != nil {
		return
	}
	logger.Info("burn scars written",
		zap.String("out", rep.Output),
		zap.Int("polygons", rep.Polygons),
		zap.Float64("totalHa", rep.TotalHa))
	if rep.Workdir != "" {
		logger.Info("intermediates kept", zap.String("dir", rep.Workdir))
	}
	return
}
