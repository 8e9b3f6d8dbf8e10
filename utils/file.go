package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

func GetUniqSubDir(parentPath string) (path string, err error) {
	if parentPath == "" {
		parentPath = os.TempDir()
	}
	if err = os.MkdirAll(parentPath, os.ModePerm); err != nil {
		return
	}
	path = filepath.Join(parentPath, "sarburn-"+uuid.NewString())
	err = os.Mkdir(path, os.ModePerm)
	return
}

func EnsureDir(path string) error {
	return os.MkdirAll(path, os.ModePerm)
}

func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, os.ModePerm)
}

func FileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func DirExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

// 小写扩展名，含点号
func LowerExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

var shpSidecars = []string{".shp", ".shx", ".dbf", ".prj", ".cpg"}

// 删除shp及其附属文件，文件不存在时忽略
func RemoveShapefile(shp string) (err error) {
	prefix := strings.TrimSuffix(shp, filepath.Ext(shp))
	for _, ext := range shpSidecars {
		if e := os.Remove(prefix + ext); e != nil && !os.IsNotExist(e) {
			err = e
		}
	}
	return
}
