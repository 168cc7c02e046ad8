// Package foamtest 在临时目录中搭建测试用的 case
package foamtest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"internal2vol/field"
)

const banner = `/*--------------------------------*- C++ -*----------------------------------*\
  Test case generated by foamtest
\*---------------------------------------------------------------------------*/
`

// Case 一个位于 t.TempDir() 中的 case
type Case struct {
	t   testing.TB
	Dir string
}

// NewCase 创建带有 nCells 个单元网格的 case，patches 形如 "inlet:patch"、"frontAndBack:empty"
func NewCase(t testing.TB, nCells int, patches ...string) *Case {
	t.Helper()
	c := &Case{t: t, Dir: t.TempDir()}
	c.WriteOwner("constant", nCells, true)
	c.WriteBoundary("constant", patches...)
	return c
}

func (c *Case) path(elem ...string) string {
	return filepath.Join(append([]string{c.Dir}, elem...)...)
}

// WriteFile 写入原始文本，父目录不存在时自动创建
func (c *Case) WriteFile(rel string, content string) string {
	c.t.Helper()
	p := c.path(rel)
	require.NoError(c.t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(c.t, os.WriteFile(p, []byte(content), 0644))
	return p
}

// WriteGzipFile 写入 gzip 压缩后的文本
func (c *Case) WriteGzipFile(rel string, content string) string {
	c.t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(content))
	require.NoError(c.t, err)
	require.NoError(c.t, zw.Close())
	p := c.path(rel)
	require.NoError(c.t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(c.t, os.WriteFile(p, buf.Bytes(), 0644))
	return p
}

// Mkdir 创建一个空的时间目录
func (c *Case) Mkdir(time string) {
	c.t.Helper()
	require.NoError(c.t, os.MkdirAll(c.path(time), 0755))
}

func Header(class, location, object string) string {
	return banner + fmt.Sprintf(`FoamFile
{
    version     2.0;
    format      ascii;
    class       %s;
    location    "%s";
    object      %s;
}
// * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * //

`, class, location, object)
}

// WriteOwner 写 owner 文件，withNote 为 false 时不写 nCells 注释，只能从列表推断单元数
func (c *Case) WriteOwner(instance string, nCells int, withNote bool) {
	c.t.Helper()
	var sb strings.Builder
	sb.WriteString(banner)
	sb.WriteString("FoamFile\n{\n    version     2.0;\n    format      ascii;\n    class       labelList;\n")
	if withNote {
		fmt.Fprintf(&sb, "    note        \"nPoints:%d nCells:%d nFaces:%d nInternalFaces:0\";\n", 8*nCells, nCells, 6*nCells)
	}
	fmt.Fprintf(&sb, "    location    \"%s/polyMesh\";\n    object      owner;\n}\n\n", instance)
	fmt.Fprintf(&sb, "%d\n(\n", 6*nCells)
	for cell := 0; cell < nCells; cell++ {
		for f := 0; f < 6; f++ {
			fmt.Fprintf(&sb, "%d\n", cell)
		}
	}
	sb.WriteString(")\n\n// ***** //\n")
	c.WriteFile(filepath.Join(instance, "polyMesh", "owner"), sb.String())
}

func (c *Case) WriteBoundary(instance string, patches ...string) {
	c.t.Helper()
	var sb strings.Builder
	sb.WriteString(Header("polyBoundaryMesh", instance+"/polyMesh", "boundary"))
	fmt.Fprintf(&sb, "%d\n(\n", len(patches))
	for i, p := range patches {
		name, typ, ok := strings.Cut(p, ":")
		if !ok {
			typ = "patch"
		}
		fmt.Fprintf(&sb, "    %s\n    {\n        type            %s;\n        inGroups        List<word> 1(%s);\n        nFaces          1;\n        startFace       %d;\n    }\n", name, typ, typ, i)
	}
	sb.WriteString(")\n\n// ***** //\n")
	c.WriteFile(filepath.Join(instance, "polyMesh", "boundary"), sb.String())
}

// ControlDict 写 system/controlDict
func (c *Case) ControlDict(entries string) {
	c.t.Helper()
	c.WriteFile(filepath.Join("system", "controlDict"), Header("dictionary", "system", "controlDict")+entries+"\n")
}

func dims(d field.Dimensions) string {
	return d.String()
}

func ScalarInternalText(time, name string, d field.Dimensions, values []float64) string {
	var sb strings.Builder
	sb.WriteString(Header("volScalarField::Internal", time, name))
	fmt.Fprintf(&sb, "dimensions      %s;\n\n", dims(d))
	fmt.Fprintf(&sb, "value           nonuniform List<scalar> \n%d\n(\n", len(values))
	for _, v := range values {
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		sb.WriteByte('\n')
	}
	sb.WriteString(")\n;\n\n\n// ***** //\n")
	return sb.String()
}

func VectorInternalText(time, name string, d field.Dimensions, values []field.Vector) string {
	var sb strings.Builder
	sb.WriteString(Header("volVectorField::Internal", time, name))
	fmt.Fprintf(&sb, "dimensions      %s;\n\n", dims(d))
	fmt.Fprintf(&sb, "value           nonuniform List<vector> \n%d\n(\n", len(values))
	for _, v := range values {
		fmt.Fprintf(&sb, "(%s %s %s)\n",
			strconv.FormatFloat(v[0], 'g', -1, 64),
			strconv.FormatFloat(v[1], 'g', -1, 64),
			strconv.FormatFloat(v[2], 'g', -1, 64))
	}
	sb.WriteString(")\n;\n\n\n// ***** //\n")
	return sb.String()
}

func (c *Case) ScalarInternal(time, name string, d field.Dimensions, values ...float64) string {
	c.t.Helper()
	return c.WriteFile(filepath.Join(time, name), ScalarInternalText(time, name, d, values))
}

func (c *Case) VectorInternal(time, name string, d field.Dimensions, values ...field.Vector) string {
	c.t.Helper()
	return c.WriteFile(filepath.Join(time, name), VectorInternalText(time, name, d, values))
}

// Exists 判断 case 下的相对路径是否存在
func (c *Case) Exists(rel string) bool {
	_, err := os.Stat(c.path(rel))
	return err == nil
}
