package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internal2vol/cli"
	"internal2vol/field"
	"internal2vol/foamtest"
)

var density = field.Dimensions{1, -3, 0, 0, 0, 0, 0}

func newCase(t *testing.T, times ...string) *foamtest.Case {
	c := foamtest.NewCase(t, 2, "inlet", "frontAndBack:empty")
	for _, time := range times {
		c.ScalarInternal(time, "alpha", density, 1, 2)
		c.VectorInternal(time, "U", field.Dimensions{0, 1, -1}, field.Vector{1, 2, 3}, field.Vector{4, 5, 6})
	}
	return c
}

func TestRunPromotesSelectedTimes(t *testing.T) {
	c := newCase(t, "0", "0.1", "0.2")
	var out bytes.Buffer

	err := run(&out, []string{"-case", c.Dir, "-fields", "(alpha)", "-vectorFields", "(U)"})
	require.NoError(t, err)

	assert.False(t, c.Exists("0/alpha_dummy"), "0 is not selected without -withZero")
	for _, time := range []string{"0.1", "0.2"} {
		assert.True(t, c.Exists(time+"/alpha_dummy"))
		assert.True(t, c.Exists(time+"/U_dummy"))
	}
	assert.Contains(t, out.String(), "Time = 0.1")
	assert.Contains(t, out.String(), "I am writing this field for you: U_dummy")
	assert.Contains(t, out.String(), "Finished!")
}

func TestRunLatestTimeWithMissingField(t *testing.T) {
	c := newCase(t, "0.1", "0.2")
	var out bytes.Buffer

	err := run(&out, []string{"-case", c.Dir, "-latestTime", "-fields", "(alpha beta)"})
	require.NoError(t, err, "a missing field skips the step but is not fatal")
	assert.False(t, c.Exists("0.2/alpha_dummy"))
	assert.False(t, c.Exists("0.1/alpha_dummy"))
	assert.Contains(t, out.String(), "beta not found")
	assert.Contains(t, out.String(), "At least one of the Eulerian Internal fields is missing")
	assert.Contains(t, out.String(), "Finished!")
}

func TestRunFallsBackToConstant(t *testing.T) {
	c := newCase(t, "0")
	var out bytes.Buffer

	err := run(&out, []string{"-case", c.Dir, "-fields", "(alpha)"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No time specified or available, selecting 'constant'")
	assert.Contains(t, out.String(), "Time = constant")
	assert.False(t, c.Exists("0/alpha_dummy"))
}

func TestRunJSONLogAndConfigFile(t *testing.T) {
	c := newCase(t, "1")
	c.WriteFile("system/internal2vol.ini", "[promote]\nvectorFields = (U)\nsuffix = Vol\n[log]\nformat = json\n")
	var out bytes.Buffer

	err := run(&out, []string{"-case", c.Dir})
	require.NoError(t, err)
	assert.True(t, c.Exists("1/UVol"))
	assert.Contains(t, out.String(), `"msg":"Finished!"`)
}

func TestRunWithFeed(t *testing.T) {
	c := newCase(t, "1")
	var out bytes.Buffer

	err := run(&out, []string{"-case", c.Dir, "-fields", "(alpha)", "-feed", "127.0.0.1:0"})
	require.NoError(t, err)
	assert.True(t, c.Exists("1/alpha_dummy"))
	assert.Contains(t, out.String(), "progress feed listening")
}

func TestRunFatalError(t *testing.T) {
	c := newCase(t, "1")
	// 3 个值，网格只有 2 个单元
	c.ScalarInternal("1", "alpha", density, 1, 2, 3)

	err := run(&bytes.Buffer{}, []string{"-case", c.Dir, "-fields", "(alpha)"})
	require.Error(t, err)
	var exitErr *cli.ExitError
	assert.False(t, errors.As(err, &exitErr), "collaborator failures exit with status 1")
	assert.False(t, c.Exists("1/alpha_dummy"))
}

func TestRunUsageErrorAndHelp(t *testing.T) {
	err := run(&bytes.Buffer{}, []string{"-fields", "alpha"})
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)

	var out bytes.Buffer
	require.NoError(t, run(&out, []string{"-h"}))
	assert.Contains(t, out.String(), "Usage:")
}

func TestRunMissingCase(t *testing.T) {
	err := run(&bytes.Buffer{}, []string{"-case", t.TempDir() + "/nope"})
	assert.Error(t, err)
}
