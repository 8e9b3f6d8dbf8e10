package sarburn

import (
	"os"
	"path/filepath"

	"github.com/wgdzlh/sarburn/utils"
)

type WorkdirMode int

const (
	// Release时删除
	Ephemeral WorkdirMode = iota
	// 保留以供排查
	Retained
)

func (m WorkdirMode) String() string {
	if m == Retained {
		return "retained"
	}
	return "ephemeral"
}

// 单次运行的中间栅格目录
type Workdir struct {
	path string
	mode WorkdirMode
}

// Ephemeral模式在root（为空时取系统临时目录）下新建唯一目录，Retained模式直接使用dir
func NewWorkdir(mode WorkdirMode, root, dir string) (w *Workdir, err error) {
	w = &Workdir{mode: mode}
	if mode == Retained && dir != "" {
		if err = utils.EnsureDir(dir); err != nil {
			return nil, err
		}
		w.path = dir
		return
	}
	if w.path, err = utils.GetUniqSubDir(root); err != nil {
		return nil, err
	}
	return
}

func (w *Workdir) Path() string {
	return w.path
}

func (w *Workdir) Mode() WorkdirMode {
	return w.mode
}

// 目录内中间文件路径
func (w *Workdir) File(name string) string {
	return filepath.Join(w.path, name)
}

// 删除Ephemeral目录，可重复调用
func (w *Workdir) Release() error {
	if w == nil || w.mode == Retained || w.path == "" {
		return nil
	}
	err := os.RemoveAll(w.path)
	if err == nil {
		w.path = ""
	}
	return err
}
