package foam

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrNotFoamFile  = errors.New("not a FoamFile")
	ErrBinaryFormat = errors.New("binary format is not supported")
	ErrCellCount    = errors.New("field size does not match mesh cell count")
)

// Header 文件头 FoamFile { ... }
type Header struct {
	Version  string
	Format   string
	Class    string
	Location string
	Object   string
	Note     string

	// 实际文件路径，可能带 .gz
	Path string
}

// readHeader 从文件开头读取 FoamFile 字典
func readHeader(p *parser) (*Header, error) {
	t, err := p.next()
	if err != nil {
		if err == io.EOF {
			return nil, ErrNotFoamFile
		}
		return nil, err
	}
	if t.Kind != Word || t.Text != "FoamFile" {
		return nil, ErrNotFoamFile
	}
	if err := p.expect("{"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFoamFile, err)
	}
	d, err := p.parseDict(true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFoamFile, err)
	}
	h := &Header{Format: "ascii"}
	h.Version, _ = d.Word("version")
	if format, ok := d.Word("format"); ok {
		h.Format = format
	}
	h.Class, _ = d.Word("class")
	h.Location, _ = d.Word("location")
	h.Object, _ = d.Word("object")
	h.Note, _ = d.Word("note")
	if h.Class == "" {
		return nil, fmt.Errorf("%w: missing class", ErrNotFoamFile)
	}
	return h, nil
}

// ReadHeader 只读取文件头，不解析数据部分
func ReadHeader(path string) (*Header, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h, err := readHeader(newParser(f))
	if err != nil {
		return nil, err
	}
	h.Path = path
	return h, nil
}

func (h *Header) checkASCII() error {
	if h.Format != "ascii" {
		return fmt.Errorf("%s: %w (format %s)", h.Path, ErrBinaryFormat, h.Format)
	}
	return nil
}
