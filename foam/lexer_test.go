package foam

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, s string) []string {
	t.Helper()
	lx := newLexer(strings.NewReader(s))
	var out []string
	for {
		tok, err := lx.next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, tok.String())
	}
}

func TestLexer(t *testing.T) {
	src := `/* block
comment */ FoamFile { class volScalarField::Internal; } // trailing
value nonuniform List<scalar> 2(1e-05 -3);
location "0.1"; path a/b;`
	assert.Equal(t, []string{
		"FoamFile", "{", "class", "volScalarField::Internal", ";", "}",
		"value", "nonuniform", "List<scalar>", "2", "(", "1e-05", "-3", ")", ";",
		"location", `"0.1"`, ";", "path", "a/b", ";",
	}, lexAll(t, src))
}

func TestLexerCommentGluedToWord(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, lexAll(t, "a// x\nb"))
	assert.Equal(t, []string{"a", "b"}, lexAll(t, "a/* x */b"))
}

func TestLexerLineNumbers(t *testing.T) {
	lx := newLexer(strings.NewReader("a\n\nb /*\n*/ c"))
	var lines []int
	for {
		tok, err := lx.next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		lines = append(lines, tok.Line)
	}
	assert.Equal(t, []int{1, 3, 4}, lines)
}

func TestLexerErrors(t *testing.T) {
	_, err := newLexer(strings.NewReader(`"open`)).next()
	assert.ErrorContains(t, err, "unterminated string")

	_, err = newLexer(strings.NewReader(`/* open`)).next()
	assert.ErrorContains(t, err, "unterminated comment")
}

func TestParseDictEntries(t *testing.T) {
	p := newParser(strings.NewReader(`
writePrecision 8;
writeCompression off;
functions { probe { type probes; } }
list (1 2 {3});
writePrecision 10;
`))
	d, err := p.parseDict(false)
	require.NoError(t, err)

	n, ok := d.Int("writePrecision")
	require.True(t, ok)
	assert.Equal(t, 10, n, "later entries override earlier ones")

	w, ok := d.Word("writeCompression")
	require.True(t, ok)
	assert.Equal(t, "off", w)

	e, ok := d.Lookup("functions")
	require.True(t, ok)
	require.NotNil(t, e.Dict)
	probe, ok := e.Dict.Lookup("probe")
	require.True(t, ok)
	typ, _ := probe.Dict.Word("type")
	assert.Equal(t, "probes", typ)

	e, ok = d.Lookup("list")
	require.True(t, ok)
	assert.Len(t, e.Tokens, 7)

	_, ok = d.Word("list")
	assert.False(t, ok)
}

func TestParseDictErrors(t *testing.T) {
	_, err := newParser(strings.NewReader(`a { b 1;`)).parseDict(false)
	assert.Error(t, err)

	_, err = newParser(strings.NewReader(`a (1));`)).parseDict(false)
	assert.ErrorContains(t, err, "unbalanced")

	_, err = newParser(strings.NewReader(`; a 1;`)).parseDict(false)
	assert.Error(t, err)
}

func TestParseWordList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"(A B)", []string{"A", "B"}},
		{"(sprayCloud:hsTrans)", []string{"sprayCloud:hsTrans"}},
		{"2(U V)", []string{"U", "V"}},
		{"( )", []string{}},
		{`("quoted name" x)`, []string{"quoted name", "x"}},
	}
	for _, tc := range cases {
		got, err := ParseWordList(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "A", "(A", "(A) B", "3(A B)", "(A (B))", "x(A)"} {
		_, err := ParseWordList(bad)
		assert.Error(t, err, bad)
	}
}
