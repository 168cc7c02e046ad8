package foam

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"internal2vol/field"
)

const separator = "// * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * //"
const footer = "// ************************************************************************* //"

// ZeroBoundary 按网格 patch 生成全零边界值
func ZeroBoundary[T any](m *Mesh, zero T) []field.PatchValue[T] {
	boundary := make([]field.PatchValue[T], len(m.Patches))
	for i, p := range m.Patches {
		boundary[i] = field.PatchValue[T]{
			Name:     p.Name,
			Type:     p.FieldPatchType(),
			Value:    zero,
			HasValue: p.HasValue(),
		}
	}
	return boundary
}

// WriteVol 把完整字段写到 case/<time>/<name>，ctrl.WriteCompression 为 true 时写 <name>.gz。
// 先写临时文件再重命名，中途失败不会留下半个文件。返回写出的路径。
func WriteVol[T any](caseDir string, inst Instant, f *field.Vol[T], ctrl Control) (string, error) {
	dir := filepath.Join(caseDir, inst.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, f.Name())
	if ctrl.WriteCompression {
		path += gzExt
	}

	tmp, err := os.CreateTemp(dir, "."+f.Name()+".tmp*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	// CreateTemp 建的文件是 0600，与其它场文件保持一致
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return "", err
	}

	var w io.Writer = tmp
	var zw *gzip.Writer
	if ctrl.WriteCompression {
		zw = gzip.NewWriter(tmp)
		w = zw
	}
	bw := bufio.NewWriterSize(w, 64*1024)
	if err := writeVol(bw, inst, f, ctrl.WritePrecision); err != nil {
		tmp.Close()
		return "", err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return "", err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			tmp.Close()
			return "", err
		}
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	// 去掉另一种压缩形式的旧文件
	stale := strings.TrimSuffix(path, gzExt)
	if !ctrl.WriteCompression {
		stale = path + gzExt
	}
	if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
		return "", err
	}
	return path, nil
}

func writeVol[T any](w *bufio.Writer, inst Instant, f *field.Vol[T], prec int) error {
	typ := f.Type()
	writeHeader(w, f.Class(), inst.Name, f.Name())
	fmt.Fprintf(w, "%-16s%s;\n\n", "dimensions", f.Dimensions)

	fmt.Fprintf(w, "%-16snonuniform List<%s> \n%d\n(\n", "internalField", typ.Name, len(f.Internal))
	for _, v := range f.Internal {
		w.WriteString(typ.Format(v, prec))
		w.WriteByte('\n')
	}
	w.WriteString(")\n;\n\n")

	w.WriteString("boundaryField\n{\n")
	for _, p := range f.Boundary {
		fmt.Fprintf(w, "    %s\n    {\n", p.Name)
		fmt.Fprintf(w, "        %-16s%s;\n", "type", p.Type)
		if p.HasValue {
			fmt.Fprintf(w, "        %-16suniform %s;\n", "value", typ.Format(p.Value, prec))
		}
		w.WriteString("    }\n")
	}
	w.WriteString("}\n\n\n")
	w.WriteString(footer)
	_, err := w.WriteString("\n")
	return err
}

func writeHeader(w *bufio.Writer, class, location, object string) {
	w.WriteString("FoamFile\n{\n")
	fmt.Fprintf(w, "    %-12s%s;\n", "version", "2.0")
	fmt.Fprintf(w, "    %-12s%s;\n", "format", "ascii")
	fmt.Fprintf(w, "    %-12s%s;\n", "class", class)
	fmt.Fprintf(w, "    %-12s%q;\n", "location", location)
	fmt.Fprintf(w, "    %-12s%s;\n", "object", object)
	w.WriteString("}\n")
	w.WriteString(separator)
	w.WriteString("\n\n")
}

func objectName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), gzExt)
}
