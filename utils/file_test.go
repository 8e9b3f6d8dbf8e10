package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetUniqSubDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested")
	a, err := GetUniqSubDir(root)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GetUniqSubDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if a == b || !DirExists(a) || !DirExists(b) {
		t.Errorf("got %s and %s", a, b)
	}
	if !strings.HasPrefix(filepath.Base(a), "sarburn-") {
		t.Errorf("unexpected name %s", a)
	}
}

func TestRemoveShapefile(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		if err := os.WriteFile(filepath.Join(dir, "a"+ext), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	keep := filepath.Join(dir, "a.tif")
	if err := os.WriteFile(keep, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveShapefile(filepath.Join(dir, "a.shp")); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || !FileExists(keep) {
		t.Errorf("left %d entries", len(entries))
	}
}

func TestLowerExt(t *testing.T) {
	if got := LowerExt("/a/B.GeoJSON"); got != ".geojson" {
		t.Errorf("got %s", got)
	}
}
