package sarburn

import (
	"fmt"

	"github.com/wgdzlh/sarburn/log"

	"github.com/caarlos0/env/v10"
)

const ENV_PREFIX = "SARBURN_"

// 安装相关配置，读取SARBURN_*环境变量
type EnvConfig struct {
	Gpt       string `env:"GPT"` // 为空时从PATH查找
	Graph     string `env:"GRAPH"` // 为空时取DEFAULT_GRAPH
	WorkRoot  string `env:"WORK_ROOT"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// 解析环境变量，environ非空时代替进程环境
func LoadEnvConfig(environ map[string]string) (*EnvConfig, error) {
	cfg := &EnvConfig{}
	opts := env.Options{
		Prefix:      ENV_PREFIX,
		Environment: environ,
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.Graph == "" {
		cfg.Graph = DEFAULT_GRAPH
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *EnvConfig) Validate() error {
	if c.Graph == "" {
		return fmt.Errorf("%w: empty graph path", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case log.FormatJSON, log.FormatConsole:
	default:
		return fmt.Errorf("%w: log format %q, must be json or console", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// 优先使用配置的gpt，否则从PATH查找
func (c *EnvConfig) GptExecutable() string {
	if c.Gpt != "" {
		return c.Gpt
	}
	return LookupGpt()
}
