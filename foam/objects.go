package foam

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ObjectList 一个时间目录下的全部对象，按文件名（去掉 .gz）索引
type ObjectList struct {
	objects map[string]*Header

	// 不是 FoamFile 或无法读取文件头而被忽略的文件
	Skipped []string
}

// ReadObjectList 读取时间目录下每个普通文件的文件头，子目录不递归
func ReadObjectList(caseDir string, inst Instant) (*ObjectList, error) {
	dir := filepath.Join(caseDir, inst.Name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read time directory %s: %w", inst.Name, err)
	}
	ol := &ObjectList{objects: make(map[string]*Header)}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := strings.TrimSuffix(e.Name(), gzExt)
		if _, ok := ol.objects[name]; ok && strings.HasSuffix(e.Name(), gzExt) {
			continue
		}
		h, err := ReadHeader(filepath.Join(dir, e.Name()))
		if err != nil {
			if errors.Is(err, ErrNotFoamFile) {
				ol.Skipped = append(ol.Skipped, e.Name())
				continue
			}
			return nil, fmt.Errorf("read header of %s: %w", e.Name(), err)
		}
		ol.objects[name] = h
	}
	return ol, nil
}

func (ol *ObjectList) Size() int {
	return len(ol.objects)
}

func (ol *ObjectList) Lookup(name string) (*Header, bool) {
	h, ok := ol.objects[name]
	return h, ok
}

// Names 指定类名的全部对象名，已排序
func (ol *ObjectList) Names(class string) []string {
	var names []string
	for name, h := range ol.objects {
		if h.Class == class {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
