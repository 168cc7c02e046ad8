package foam

import (
	"fmt"
	"path/filepath"
)

const systemDir = "system"

// Control system/controlDict 中与写文件有关的设置
type Control struct {
	// 有效位数，0 表示输出可精确回读的最短形式
	WritePrecision int
	// 是否以 .gz 压缩写出
	WriteCompression bool
}

// ReadControl controlDict 不存在时返回默认设置
func ReadControl(caseDir string) (Control, error) {
	var c Control
	path, ok := findFile(filepath.Join(caseDir, systemDir), "controlDict")
	if !ok {
		return c, nil
	}
	f, err := openFile(path)
	if err != nil {
		return c, err
	}
	defer f.Close()
	p := newParser(f)
	if _, err := readHeader(p); err != nil {
		return c, fmt.Errorf("read %s: %w", path, err)
	}
	d, err := p.parseDict(false)
	if err != nil {
		return c, fmt.Errorf("read %s: %w", path, err)
	}
	if n, ok := d.Int("writePrecision"); ok && n > 0 {
		c.WritePrecision = n
	}
	if w, ok := d.Word("writeCompression"); ok {
		on, valid := parseSwitch(w)
		if !valid {
			return c, fmt.Errorf("read %s: invalid writeCompression %q", path, w)
		}
		c.WriteCompression = on
	}
	return c, nil
}
