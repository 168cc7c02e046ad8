package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internal2vol/foam"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestParseDefaults(t *testing.T) {
	caseDir := t.TempDir()
	var out bytes.Buffer

	opts, exit, err := Parse([]string{"-case", caseDir}, &out)
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, caseDir, opts.CaseDir)
	assert.Equal(t, foam.Selector{}, opts.Selector)
	assert.Empty(t, opts.Fields)
	assert.Empty(t, opts.VectorFields)
	assert.Equal(t, "_dummy", opts.Suffix)
	assert.Equal(t, "info", opts.LogLevel)
	assert.Equal(t, "text", opts.LogFormat)
	assert.Empty(t, opts.FeedAddr)
	assert.Empty(t, opts.ConfigFile)
	assert.Empty(t, out.String())
}

func TestParseFlags(t *testing.T) {
	opts, _, err := Parse([]string{
		"-case", t.TempDir(),
		"-time", "0.1:0.5,1",
		"-latestTime", "-constant", "--withZero",
		"-fields", "(alpha.particles theta)",
		"-vectorFields", "1(U.particles)",
		"-suffix", "Vol",
		"-log-level", "DEBUG",
		"-log-format", "json",
		"-feed", ":9000",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Len(t, opts.Selector.Ranges, 2)
	assert.True(t, opts.Selector.Latest)
	assert.True(t, opts.Selector.Constant)
	assert.True(t, opts.Selector.WithZero)
	assert.False(t, opts.Selector.NoZero)
	assert.Equal(t, []string{"alpha.particles", "theta"}, opts.Fields)
	assert.Equal(t, []string{"U.particles"}, opts.VectorFields)
	assert.Equal(t, "Vol", opts.Suffix)
	assert.Equal(t, "debug", opts.LogLevel)
	assert.Equal(t, "json", opts.LogFormat)
	assert.Equal(t, ":9000", opts.FeedAddr)
}

func TestParseDefaultConfigFile(t *testing.T) {
	caseDir := t.TempDir()
	writeFile(t, filepath.Join(caseDir, "system", "internal2vol.ini"), `
[promote]
fields       = (alpha)
vectorFields = (U)
suffix       = _ini
[log]
level = warn
`)
	opts, _, err := Parse([]string{"-case", caseDir, "-fields", "(beta)"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(caseDir, "system", "internal2vol.ini"), opts.ConfigFile)
	assert.Equal(t, []string{"beta"}, opts.Fields, "flag wins over ini")
	assert.Equal(t, []string{"U"}, opts.VectorFields)
	assert.Equal(t, "_ini", opts.Suffix)
	assert.Equal(t, "warn", opts.LogLevel)
	assert.Equal(t, "text", opts.LogFormat)
}

func TestParseExplicitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my.ini")
	writeFile(t, path, "[feed]\naddr = :9100\n")
	opts, _, err := Parse([]string{"-case", t.TempDir(), "-config", path}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, path, opts.ConfigFile)
	assert.Equal(t, ":9100", opts.FeedAddr)

	_, _, err = Parse([]string{"-config", filepath.Join(t.TempDir(), "missing.ini")}, &bytes.Buffer{})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseHelp(t *testing.T) {
	var out bytes.Buffer
	opts, exit, err := Parse([]string{"-help"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, opts)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "-vectorFields")
}

func TestParseUsageErrors(t *testing.T) {
	cases := map[string][]string{
		"unknown flag":    {"-bogus"},
		"positional":      {"extra"},
		"bad time":        {"-time", "a:b"},
		"bad fields":      {"-fields", "alpha"},
		"bad vector list": {"-vectorFields", "(U"},
		"empty suffix":    {"-suffix", ""},
		"bad level":       {"-log-level", "trace"},
		"bad format":      {"-log-format", "xml"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			args = append([]string{"-case", t.TempDir()}, args...)
			_, exit, err := Parse(args, &bytes.Buffer{})
			assert.False(t, exit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.NotEmpty(t, exitErr.Error())
		})
	}
}
