package foam

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type TokenKind int

const (
	Word TokenKind = iota
	String
	Punct
)

type Token struct {
	Kind TokenKind
	Text string
	Line int
}

func (t Token) Is(punct string) bool {
	return t.Kind == Punct && t.Text == punct
}

func (t Token) String() string {
	if t.Kind == String {
		return fmt.Sprintf("%q", t.Text)
	}
	return t.Text
}

const punctuation = "{}()[];"

// lexer 把 OpenFOAM ASCII 文件切分为单词、字符串和标点，跳过 // 与 /* */ 注释
type lexer struct {
	r    *bufio.Reader
	line int
}

func newLexer(r io.Reader) *lexer {
	return &lexer{r: bufio.NewReaderSize(r, 64*1024), line: 1}
}

func (l *lexer) read() (byte, error) {
	c, err := l.r.ReadByte()
	if err == nil && c == '\n' {
		l.line++
	}
	return c, err
}

func (l *lexer) unread(c byte) {
	_ = l.r.UnreadByte()
	if c == '\n' {
		l.line--
	}
}

// next 返回下一个 token，文件结束时返回 io.EOF
func (l *lexer) next() (Token, error) {
	for {
		c, err := l.read()
		if err != nil {
			return Token{}, err
		}
		switch {
		case isSpace(c):
			continue
		case c == '/':
			skipped, err := l.skipComment()
			if err != nil {
				return Token{}, err
			}
			if skipped {
				continue
			}
			return l.word(c)
		case c == '"':
			return l.quoted()
		case strings.IndexByte(punctuation, c) >= 0:
			return Token{Kind: Punct, Text: string(c), Line: l.line}, nil
		default:
			return l.word(c)
		}
	}
}

// skipComment 在读到 '/' 之后调用，是注释则跳过并返回 true
func (l *lexer) skipComment() (bool, error) {
	c, err := l.read()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch c {
	case '/':
		for {
			c, err = l.read()
			if err == io.EOF || c == '\n' {
				return true, nil
			}
			if err != nil {
				return false, err
			}
		}
	case '*':
		line := l.line
		prev := byte(0)
		for {
			c, err = l.read()
			if err == io.EOF {
				return false, fmt.Errorf("line %d: unterminated comment", line)
			}
			if err != nil {
				return false, err
			}
			if prev == '*' && c == '/' {
				return true, nil
			}
			prev = c
		}
	}
	l.unread(c)
	return false, nil
}

func (l *lexer) quoted() (Token, error) {
	line := l.line
	var sb strings.Builder
	for {
		c, err := l.read()
		if err == io.EOF {
			return Token{}, fmt.Errorf("line %d: unterminated string", line)
		}
		if err != nil {
			return Token{}, err
		}
		if c == '\\' {
			n, err := l.read()
			if err != nil {
				return Token{}, fmt.Errorf("line %d: unterminated string", line)
			}
			sb.WriteByte(n)
			continue
		}
		if c == '"' {
			return Token{Kind: String, Text: sb.String(), Line: line}, nil
		}
		sb.WriteByte(c)
	}
}

func (l *lexer) word(first byte) (Token, error) {
	line := l.line
	var sb strings.Builder
	sb.WriteByte(first)
	for {
		p, err := l.r.Peek(2)
		if len(p) == 0 {
			if err == io.EOF {
				break
			}
			return Token{}, err
		}
		c := p[0]
		if isSpace(c) || c == '"' || strings.IndexByte(punctuation, c) >= 0 {
			break
		}
		if c == '/' && len(p) == 2 && (p[1] == '/' || p[1] == '*') {
			break
		}
		_, _ = l.read()
		sb.WriteByte(c)
	}
	return Token{Kind: Word, Text: sb.String(), Line: line}, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
