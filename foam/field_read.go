package foam

import (
	"errors"
	"fmt"
	"io"

	"internal2vol/field"
)

// ReadInternal 读取一个仅含单元值的字段文件。
// uniform 值按网格单元数展开；nonuniform 列表长度必须等于 nCells。
func ReadInternal[T any](h *Header, typ *field.Type[T], nCells int) (*field.Internal[T], error) {
	if h.Class != typ.InternalClass {
		return nil, fmt.Errorf("%s: class %s, expected %s", h.Path, h.Class, typ.InternalClass)
	}
	if err := h.checkASCII(); err != nil {
		return nil, err
	}
	f, err := openFile(h.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := newParser(f)
	if _, err := readHeader(p); err != nil {
		return nil, fmt.Errorf("%s: %w", h.Path, err)
	}

	var (
		dims      field.Dimensions
		values    []T
		hasDims   bool
		hasValues bool
	)
	for {
		key, err := p.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", h.Path, err)
		}
		if key.Kind == Punct {
			return nil, fmt.Errorf("%s: line %d: unexpected %s", h.Path, key.Line, key)
		}
		switch key.Text {
		case "dimensions":
			if dims, err = parseDimensions(p); err != nil {
				return nil, fmt.Errorf("%s: dimensions: %w", h.Path, err)
			}
			hasDims = true
		case "value", "internalField":
			if values, err = parseFieldValues(p, typ, nCells); err != nil {
				if errors.Is(err, ErrCellCount) {
					return nil, fmt.Errorf("%s: %w", h.Path, err)
				}
				return nil, fmt.Errorf("%s: %s: %w", h.Path, key.Text, err)
			}
			hasValues = true
		default:
			if err := p.skipEntry(key); err != nil {
				return nil, fmt.Errorf("%s: %w", h.Path, err)
			}
		}
	}
	if !hasDims {
		return nil, fmt.Errorf("%s: missing dimensions", h.Path)
	}
	if !hasValues {
		return nil, fmt.Errorf("%s: missing value", h.Path)
	}
	return field.NewInternal(typ, objectName(h.Path), dims, values), nil
}

// parseDimensions [M L T Θ N I J;]，只给出前 5 个指数时其余为 0
func parseDimensions(p *parser) (field.Dimensions, error) {
	var d field.Dimensions
	if err := p.expect("["); err != nil {
		return d, err
	}
	n := 0
	for {
		t, err := p.peek()
		if err != nil {
			return d, unexpectedEOF(err)
		}
		if t.Is("]") {
			_, _ = p.next()
			break
		}
		if n == field.NDimensions {
			return d, fmt.Errorf("line %d: too many exponents", t.Line)
		}
		if d[n], err = p.number(); err != nil {
			return d, err
		}
		n++
	}
	if n != 5 && n != field.NDimensions {
		return d, fmt.Errorf("expected 5 or 7 exponents, got %d", n)
	}
	return d, p.expect(";")
}

// parseFieldValues 解析 uniform v; 或 nonuniform List<T> N (...); 或 nonuniform List<T> N{v};
func parseFieldValues[T any](p *parser, typ *field.Type[T], nCells int) ([]T, error) {
	kind, err := p.word()
	if err != nil {
		return nil, err
	}
	var values []T
	switch kind.Text {
	case "uniform":
		v, err := parseElement(p, typ)
		if err != nil {
			return nil, err
		}
		values = make([]T, nCells)
		for i := range values {
			values[i] = v
		}
	case "nonuniform":
		list, err := p.word()
		if err != nil {
			return nil, err
		}
		if want := "List<" + typ.Name + ">"; list.Text != want {
			return nil, fmt.Errorf("line %d: expected %s, got %s", list.Line, want, list)
		}
		n, err := p.label()
		if err != nil {
			return nil, err
		}
		if n != nCells {
			return nil, fmt.Errorf("%w: %d values, %d cells", ErrCellCount, n, nCells)
		}
		if values, err = parseList(p, typ, n); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("line %d: expected uniform or nonuniform, got %s", kind.Line, kind)
	}
	return values, p.expect(";")
}

// parseList 读取 ( v0 v1 ... ) 或 {v} 形式的列表内容
func parseList[T any](p *parser, typ *field.Type[T], n int) ([]T, error) {
	open, err := p.next()
	if err != nil {
		return nil, unexpectedEOF(err)
	}
	values := make([]T, n)
	switch {
	case open.Is("("):
		for i := range values {
			if values[i], err = parseElement(p, typ); err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
		}
		return values, p.expect(")")
	case open.Is("{"):
		v, err := parseElement(p, typ)
		if err != nil {
			return nil, err
		}
		for i := range values {
			values[i] = v
		}
		return values, p.expect("}")
	}
	return nil, fmt.Errorf("line %d: expected list, got %s", open.Line, open)
}

func parseElement[T any](p *parser, typ *field.Type[T]) (T, error) {
	var zero T
	c := make([]float64, typ.NComponents)
	if typ.NComponents == 1 {
		x, err := p.number()
		if err != nil {
			return zero, err
		}
		c[0] = x
		return typ.FromComponents(c), nil
	}
	if err := p.expect("("); err != nil {
		return zero, err
	}
	for i := range c {
		x, err := p.number()
		if err != nil {
			return zero, err
		}
		c[i] = x
	}
	if err := p.expect(")"); err != nil {
		return zero, err
	}
	return typ.FromComponents(c), nil
}
