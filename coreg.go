package sarburn

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/wgdzlh/sarburn/log"
	"github.com/wgdzlh/sarburn/utils"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapio"
)

// 将主/从影像对配准为output处的单个GeoTIFF堆栈，aoiWkt非空时按其裁剪
type CoregistrationEngine interface {
	Run(master, slave, output, aoiWkt string) error
}

// 调用SNAP gpt命令行执行处理图
type GptEngine struct {
	Executable string
	Graph      string

	log    *zap.Logger
	logTag string
}

// 从PATH查找gpt，找不到时取SNAP默认安装位置
func LookupGpt() string {
	if p, err := exec.LookPath("gpt"); err == nil {
		return p
	}
	return DEFAULT_GPT
}

// 校验gpt与处理图均存在
func NewGptEngine(executable, graph string, logger *zap.Logger) (*GptEngine, error) {
	if executable == "" {
		executable = LookupGpt()
	}
	if !utils.FileExists(executable) {
		return nil, fmt.Errorf("%w: %s", ErrGptNotFound, executable)
	}
	if !utils.FileExists(graph) {
		return nil, fmt.Errorf("%w: %s", ErrGraphNotFound, graph)
	}
	return &GptEngine{
		Executable: executable,
		Graph:      graph,
		log:        log.OrNop(logger),
		logTag:     "GptEngine:",
	}, nil
}

func (e *GptEngine) args(master, slave, output, aoiWkt string) []string {
	args := []string{
		e.Graph,
		"-Pmaster=" + master,
		"-Pslave=" + slave,
		"-Poutput=" + output,
	}
	if aoiWkt != "" {
		args = append(args, "-Paoi="+aoiWkt)
	}
	return args
}

// 阻塞至gpt退出，其输出转入debug日志
func (e *GptEngine) Run(master, slave, output, aoiWkt string) (err error) {
	if err = utils.EnsureParentDir(output); err != nil {
		return
	}
	cmd := exec.Command(e.Executable, e.args(master, slave, output, aoiWkt)...)
	w := &zapio.Writer{Log: e.log.With(zap.String("proc", "gpt")), Level: zapcore.DebugLevel}
	defer w.Close()
	cmd.Stdout = w
	cmd.Stderr = w
	e.log.Info(e.logTag+"processing pair with graph",
		zap.String("graph", e.Graph),
		zap.String("master", master),
		zap.String("slave", slave),
		zap.String("output", output),
		zap.Bool("aoi", aoiWkt != ""))
	if err = cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = &CoregError{ExitCode: exitErr.ExitCode(), Err: err}
		}
		e.log.Error(e.logTag+"gpt failed", zap.Error(err))
		return
	}
	if !utils.FileExists(output) {
		err = fmt.Errorf("%w: gpt produced no %s", ErrMissingInput, output)
		return
	}
	e.log.Info(e.logTag+"gpt done", zap.String("output", output))
	return
}

var _ CoregistrationEngine = (*GptEngine)(nil)

// 测试或离线场景下直接使用已配准的影像
type StackFile string

func (s StackFile) Run(_, _, output, _ string) error {
	src := string(s)
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMissingInput, src)
	}
	return os.WriteFile(output, data, 0o644)
}
