package sarburn

import (
	"errors"
	"fmt"

	"github.com/wgdzlh/sarburn/alg"
)

var (
	ErrGdalDriverCreate      = errors.New("gdal driver create err")
	ErrGdalDriverOpen        = errors.New("gdal driver open err")
	ErrGdalAlgorithm         = errors.New("gdal algorithm err")
	ErrVoidSrid              = errors.New("gdal layer with void srid")
	ErrInvalidWKT            = errors.New("invalid WKT")
	ErrInvalidTif            = errors.New("invalid tif")
	ErrTifReadFailed         = errors.New("tif read failed")
	ErrTifWriteFailed        = errors.New("tif write failed")
	ErrUnsupportedVector     = errors.New("unsupported vector format")
	ErrEmptyAoi              = errors.New("aoi has no geometry")
	ErrMissingInput          = errors.New("input file not found")
	ErrInvalidBandIndex      = errors.New("invalid band index")
	ErrInvalidConfig         = errors.New("invalid run config")
	ErrGraphNotFound         = errors.New("gpt graph not found")
	ErrGptNotFound           = errors.New("gpt executable not found")
	ErrUnknownFilterStrategy = alg.ErrUnknownFilterStrategy
)

// 标明出错的流程阶段
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// 配准子进程非0退出
type CoregError struct {
	ExitCode int
	Err      error
}

func (e *CoregError) Error() string {
	return fmt.Sprintf("gpt processing failed with exit code %d", e.ExitCode)
}

func (e *CoregError) Unwrap() error {
	return e.Err
}
