package foam

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
)

const ConstantDir = "constant"

// Instant 一个时间目录
type Instant struct {
	Value float64
	Name  string
}

func (i Instant) IsConstant() bool {
	return i.Name == ConstantDir
}

// ConstantInstant constant 目录，排在所有时间目录之前
func ConstantInstant() Instant {
	return Instant{Value: 0, Name: ConstantDir}
}

// ListTimes 列出 case 下的全部时间目录，按数值排序；constant 存在时排在第一位
func ListTimes(caseDir string) ([]Instant, error) {
	entries, err := os.ReadDir(caseDir)
	if err != nil {
		return nil, fmt.Errorf("read case directory: %w", err)
	}
	var times []Instant
	hasConstant := false
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if e.Name() == ConstantDir {
			hasConstant = true
			continue
		}
		v, ok := parseTimeName(e.Name())
		if !ok {
			continue
		}
		times = append(times, Instant{Value: v, Name: e.Name()})
	}
	sort.SliceStable(times, func(i, j int) bool {
		return times[i].Value < times[j].Value
	})
	if hasConstant {
		times = append([]Instant{ConstantInstant()}, times...)
	}
	return times, nil
}

func parseTimeName(name string) (float64, bool) {
	v, err := strconv.ParseFloat(name, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
