package field

// Internal 仅包含单元值、不含边界面值的字段
type Internal[T any] struct {
	name       string
	typ        *Type[T]
	Dimensions Dimensions
	Values     []T
}

func NewInternal[T any](typ *Type[T], name string, dims Dimensions, values []T) *Internal[T] {
	return &Internal[T]{
		name:       name,
		typ:        typ,
		Dimensions: dims,
		Values:     values,
	}
}

func (f *Internal[T]) Name() string {
	return f.name
}

func (f *Internal[T]) Class() string {
	return f.typ.InternalClass
}

func (f *Internal[T]) Type() *Type[T] {
	return f.typ
}

func (f *Internal[T]) Size() int {
	return len(f.Values)
}

// PatchValue 一个边界 patch 上的取值，empty 类型的 patch 不写 value
type PatchValue[T any] struct {
	Name     string
	Type     string
	Value    T
	HasValue bool
}

// Vol 完整字段：单元值 + 各边界 patch 的值
type Vol[T any] struct {
	name       string
	typ        *Type[T]
	Dimensions Dimensions
	Internal   []T
	Boundary   []PatchValue[T]
}

// NewVol 创建一个所有单元都初始化为 init 的完整字段
func NewVol[T any](typ *Type[T], name string, dims Dimensions, nCells int, init T, boundary []PatchValue[T]) *Vol[T] {
	internal := make([]T, nCells)
	for i := range internal {
		internal[i] = init
	}
	return &Vol[T]{
		name:       name,
		typ:        typ,
		Dimensions: dims,
		Internal:   internal,
		Boundary:   boundary,
	}
}

func (f *Vol[T]) Name() string {
	return f.name
}

func (f *Vol[T]) Class() string {
	return f.typ.VolClass
}

func (f *Vol[T]) Type() *Type[T] {
	return f.typ
}

func (f *Vol[T]) Size() int {
	return len(f.Internal)
}
