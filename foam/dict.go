package foam

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Entry 字典中的一项：要么是以 ; 结尾的 token 序列，要么是子字典
type Entry struct {
	Key    string
	Tokens []Token
	Dict   *Dict
}

type Dict struct {
	index map[string]*Entry
}

func newDict() *Dict {
	return &Dict{index: make(map[string]*Entry)}
}

// add 同名项后者覆盖前者
func (d *Dict) add(e *Entry) {
	d.index[e.Key] = e
}

func (d *Dict) Lookup(key string) (*Entry, bool) {
	e, ok := d.index[key]
	return e, ok
}

// Word 返回只含一个单词或字符串的项的值
func (d *Dict) Word(key string) (string, bool) {
	e, ok := d.index[key]
	if !ok || e.Dict != nil || len(e.Tokens) != 1 || e.Tokens[0].Kind == Punct {
		return "", false
	}
	return e.Tokens[0].Text, true
}

func (d *Dict) Int(key string) (int, bool) {
	w, ok := d.Word(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(w)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseSwitch 解析 on/off、yes/no、true/false 一类开关量
func parseSwitch(w string) (bool, bool) {
	switch w {
	case "on", "yes", "true", "y", "t", "compressed":
		return true, true
	case "off", "no", "false", "n", "f", "none", "uncompressed":
		return false, true
	}
	return false, false
}

type parser struct {
	lx     *lexer
	peeked *Token
}

func newParser(r io.Reader) *parser {
	return &parser{lx: newLexer(r)}
}

func (p *parser) next() (Token, error) {
	if p.peeked != nil {
		t := *p.peeked
		p.peeked = nil
		return t, nil
	}
	return p.lx.next()
}

func (p *parser) peek() (Token, error) {
	if p.peeked == nil {
		t, err := p.lx.next()
		if err != nil {
			return Token{}, err
		}
		p.peeked = &t
	}
	return *p.peeked, nil
}

// expect 读取下一个 token 并检查是否为指定标点
func (p *parser) expect(punct string) error {
	t, err := p.next()
	if err != nil {
		return unexpectedEOF(err)
	}
	if !t.Is(punct) {
		return fmt.Errorf("line %d: expected %q, got %s", t.Line, punct, t)
	}
	return nil
}

func (p *parser) word() (Token, error) {
	t, err := p.next()
	if err != nil {
		return Token{}, unexpectedEOF(err)
	}
	if t.Kind == Punct {
		return Token{}, fmt.Errorf("line %d: expected word, got %s", t.Line, t)
	}
	return t, nil
}

func (p *parser) number() (float64, error) {
	t, err := p.word()
	if err != nil {
		return 0, err
	}
	x, err := strconv.ParseFloat(t.Text, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: expected number, got %s", t.Line, t)
	}
	return x, nil
}

func (p *parser) label() (int, error) {
	t, err := p.word()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(t.Text)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("line %d: expected list size, got %s", t.Line, t)
	}
	return n, nil
}

// parseDict 读取字典各项，closed 为 true 时以 } 结束，否则读到文件末尾
func (p *parser) parseDict(closed bool) (*Dict, error) {
	d := newDict()
	for {
		t, err := p.next()
		if err == io.EOF {
			if closed {
				return nil, errors.New("unexpected end of file in dictionary")
			}
			return d, nil
		}
		if err != nil {
			return nil, err
		}
		if t.Is("}") && closed {
			return d, nil
		}
		if t.Kind == Punct {
			return nil, fmt.Errorf("line %d: unexpected %s", t.Line, t)
		}
		e, err := p.parseEntry(t)
		if err != nil {
			return nil, err
		}
		d.add(e)
	}
}

// parseEntry 读取 key 之后的内容
func (p *parser) parseEntry(key Token) (*Entry, error) {
	e := &Entry{Key: key.Text}
	if key.Kind == Word && strings.HasPrefix(key.Text, "#") {
		return e, p.parseDirective(e)
	}
	t, err := p.peek()
	if err != nil {
		return nil, unexpectedEOF(err)
	}
	if t.Is("{") {
		_, _ = p.next()
		d, err := p.parseDict(true)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key.Text, err)
		}
		e.Dict = d
		return e, nil
	}
	depth := 0
	for {
		t, err := p.next()
		if err == io.EOF && depth == 0 {
			return e, nil // 文件末尾的列表不以 ; 结尾
		}
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if t.Kind == Punct {
			switch t.Text {
			case ";":
				if depth == 0 {
					return e, nil
				}
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
				if depth < 0 {
					return nil, fmt.Errorf("line %d: unbalanced %s in entry %s", t.Line, t, key.Text)
				}
			}
		}
		e.Tokens = append(e.Tokens, t)
	}
}

// parseDirective 读取 #include、#includeEtc、#includeFunc 一类指令的参数。
// 指令不以 ; 结尾：参数是一个单词或字符串，后面可以紧跟一组 (...)。
func (p *parser) parseDirective(e *Entry) error {
	t, err := p.peek()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if t.Kind != Punct {
		_, _ = p.next()
		e.Tokens = append(e.Tokens, t)
		if t, err = p.peek(); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}
	if t.Is("(") {
		if err := p.group(e); err != nil {
			return fmt.Errorf("%s: %w", e.Key, err)
		}
		if t, err = p.peek(); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}
	// 旧写法 #inputMode merge; 允许多余的 ;
	if t.Is(";") {
		_, _ = p.next()
	}
	return nil
}

// group 读取一组配对的括号，token 追加到 e.Tokens
func (p *parser) group(e *Entry) error {
	depth := 0
	for {
		t, err := p.next()
		if err != nil {
			return unexpectedEOF(err)
		}
		e.Tokens = append(e.Tokens, t)
		if t.Kind != Punct {
			continue
		}
		switch t.Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth < 0 {
				return fmt.Errorf("line %d: unbalanced %s", t.Line, t)
			}
		}
		if depth == 0 {
			return nil
		}
	}
}

// skipEntry 跳过一项，不保留内容
func (p *parser) skipEntry(key Token) error {
	_, err := p.parseEntry(key)
	return err
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
