package field

import (
	"strconv"
	"strings"

	"internal2vol/model"
)

// 元素类型
type Scalar = float64

type Vector [3]float64

// Type 描述一种单元元素类型：类名、分量个数以及分量与元素之间的转换。
// 标量和矢量共用同一套读写和提升逻辑，差别都收敛在这里。
type Type[T any] struct {
	Name          string // List<Name>
	InternalClass string
	VolClass      string
	NComponents   int
	Zero          T

	components     func(v T) []float64
	fromComponents func(c []float64) T
}

var ScalarType = &Type[Scalar]{
	Name:          "scalar",
	InternalClass: model.ScalarInternalClass,
	VolClass:      model.ScalarVolClass,
	NComponents:   1,
	components: func(v Scalar) []float64 {
		return []float64{v}
	},
	fromComponents: func(c []float64) Scalar {
		return c[0]
	},
}

var VectorType = &Type[Vector]{
	Name:          "vector",
	InternalClass: model.VectorInternalClass,
	VolClass:      model.VectorVolClass,
	NComponents:   3,
	components: func(v Vector) []float64 {
		return v[:]
	},
	fromComponents: func(c []float64) Vector {
		return Vector{c[0], c[1], c[2]}
	},
}

func (t *Type[T]) Components(v T) []float64 {
	return t.components(v)
}

// FromComponents 的参数长度必须等于 NComponents
func (t *Type[T]) FromComponents(c []float64) T {
	return t.fromComponents(c)
}

// Format 按给定有效位数输出一个元素，prec <= 0 时输出可精确回读的最短形式。
// 标量输出为 1.5，矢量输出为 (1 0 0)。
func (t *Type[T]) Format(v T, prec int) string {
	c := t.components(v)
	if t.NComponents == 1 {
		return formatFloat(c[0], prec)
	}
	var sb strings.Builder
	sb.WriteByte('(')
	for i, x := range c {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(formatFloat(x, prec))
	}
	sb.WriteByte(')')
	return sb.String()
}

func formatFloat(x float64, prec int) string {
	if prec <= 0 {
		prec = -1
	}
	return strconv.FormatFloat(x, 'g', prec, 64)
}
