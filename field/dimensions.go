package field

import (
	"strconv"
	"strings"
)

// 量纲指数顺序：质量、长度、时间、温度、物质的量、电流、发光强度
const NDimensions = 7

// Dimensions 物理量纲签名
type Dimensions [NDimensions]float64

func (d Dimensions) String() string {
	parts := make([]string, NDimensions)
	for i, e := range d {
		parts[i] = strconv.FormatFloat(e, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (d Dimensions) Dimensionless() bool {
	return d == Dimensions{}
}
