package foam

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
)

const polyMeshDir = "polyMesh"

// 几何约束类型的 patch 在完整字段中保持自身类型，其余 patch 用 calculated
var constraintPatchTypes = map[string]bool{
	"empty":         true,
	"wedge":         true,
	"symmetry":      true,
	"symmetryPlane": true,
	"cyclic":        true,
	"cyclicAMI":     true,
	"processor":     true,
}

type Patch struct {
	Name   string
	Type   string
	NFaces int
}

// FieldPatchType 该 patch 在新建完整字段中的边界类型
func (p Patch) FieldPatchType() string {
	if constraintPatchTypes[p.Type] {
		return p.Type
	}
	return "calculated"
}

// HasValue empty patch 不存储边界值
func (p Patch) HasValue() bool {
	return p.Type != "empty"
}

type Mesh struct {
	// 网格所在目录，例如 case/constant/polyMesh
	Dir     string
	NCells  int
	Patches []Patch
}

var nCellsNote = regexp.MustCompile(`nCells:\s*(\d+)`)

// ReadMesh 读取某个时间步对应的网格：时间目录下有 polyMesh 时用它，否则用 constant/polyMesh
func ReadMesh(caseDir string, inst Instant) (*Mesh, error) {
	dir := filepath.Join(caseDir, ConstantDir, polyMeshDir)
	if !inst.IsConstant() {
		timeMesh := filepath.Join(caseDir, inst.Name, polyMeshDir)
		if _, ok := findFile(timeMesh, "owner"); ok {
			dir = timeMesh
		}
	}
	m := &Mesh{Dir: dir}

	ownerPath, ok := findFile(dir, "owner")
	if !ok {
		return nil, fmt.Errorf("cannot find mesh owner file in %s", dir)
	}
	nCells, err := readCellCount(ownerPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ownerPath, err)
	}
	m.NCells = nCells

	if boundaryPath, ok := findFile(dir, "boundary"); ok {
		patches, err := readBoundary(boundaryPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", boundaryPath, err)
		}
		m.Patches = patches
	}
	return m, nil
}

// readCellCount 优先使用 owner 文件头 note 中的 nCells，没有时取 owner 列表最大值 + 1
func readCellCount(path string) (int, error) {
	f, err := openFile(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	p := newParser(f)
	h, err := readHeader(p)
	if err != nil {
		return 0, err
	}
	if m := nCellsNote.FindStringSubmatch(h.Note); m != nil {
		return strconv.Atoi(m[1])
	}
	h.Path = path
	if err := h.checkASCII(); err != nil {
		return 0, err
	}
	n, err := p.label()
	if err != nil {
		return 0, err
	}
	if err := p.expect("("); err != nil {
		return 0, err
	}
	maxOwner := -1
	for i := 0; i < n; i++ {
		x, err := p.label()
		if err != nil {
			return 0, err
		}
		if x > maxOwner {
			maxOwner = x
		}
	}
	if err := p.expect(")"); err != nil {
		return 0, err
	}
	return maxOwner + 1, nil
}

// readBoundary 解析 boundary 文件：N ( name { type ..; nFaces ..; } ... )
func readBoundary(path string) ([]Patch, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p := newParser(f)
	if _, err := readHeader(p); err != nil {
		return nil, err
	}
	n, err := p.label()
	if err != nil {
		return nil, err
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}
	patches := make([]Patch, 0, n)
	for i := 0; i < n; i++ {
		name, err := p.word()
		if err != nil {
			return nil, err
		}
		if err := p.expect("{"); err != nil {
			return nil, err
		}
		d, err := p.parseDict(true)
		if err != nil {
			return nil, fmt.Errorf("patch %s: %w", name.Text, err)
		}
		patch := Patch{Name: name.Text}
		patch.Type, _ = d.Word("type")
		patch.NFaces, _ = d.Int("nFaces")
		patches = append(patches, patch)
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return patches, nil
}
