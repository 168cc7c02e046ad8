package foam

import (
	"fmt"
	"io"
	"strings"
)

// ParseWordList 解析 (a b c) 或 3(a b c) 形式的单词列表，不支持正则
func ParseWordList(s string) ([]string, error) {
	p := newParser(strings.NewReader(s))
	t, err := p.next()
	if err == io.EOF {
		return nil, fmt.Errorf("empty list")
	}
	if err != nil {
		return nil, err
	}
	size := -1
	if t.Kind == Word {
		p.peeked = &t
		if size, err = p.label(); err != nil {
			return nil, fmt.Errorf("invalid list %q: expected '('", s)
		}
		if t, err = p.next(); err != nil {
			return nil, fmt.Errorf("invalid list %q: %w", s, unexpectedEOF(err))
		}
	}
	if !t.Is("(") {
		return nil, fmt.Errorf("invalid list %q: expected '('", s)
	}
	words := []string{}
	for {
		t, err := p.next()
		if err != nil {
			return nil, fmt.Errorf("invalid list %q: %w", s, unexpectedEOF(err))
		}
		if t.Is(")") {
			break
		}
		if t.Kind == Punct {
			return nil, fmt.Errorf("invalid list %q: unexpected %s", s, t)
		}
		words = append(words, t.Text)
	}
	if _, err := p.next(); err != io.EOF {
		return nil, fmt.Errorf("invalid list %q: trailing input", s)
	}
	if size >= 0 && size != len(words) {
		return nil, fmt.Errorf("invalid list %q: size %d but %d words", s, size, len(words))
	}
	return words, nil
}
