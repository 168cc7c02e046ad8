package foam

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TimeRange -time 中的一项：单值或闭区间，区间端点可省略
type TimeRange struct {
	exact    bool
	value    float64
	lower    float64
	upper    float64
	hasLower bool
	hasUpper bool
}

func (r TimeRange) selected(v float64) bool {
	if r.exact {
		return v == r.value
	}
	if r.hasLower && v < r.lower {
		return false
	}
	if r.hasUpper && v > r.upper {
		return false
	}
	return true
}

// ParseTimeRanges 解析 -time 参数，例如 "0:0.5,1 2:"，逗号或空白分隔
func ParseTimeRanges(s string) ([]TimeRange, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty time selection %q", s)
	}
	ranges := make([]TimeRange, 0, len(fields))
	for _, f := range fields {
		r, err := parseTimeRange(f)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func parseTimeRange(s string) (TimeRange, error) {
	lo, hi, isRange := strings.Cut(s, ":")
	if !isRange {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return TimeRange{}, fmt.Errorf("invalid time %q", s)
		}
		return TimeRange{exact: true, value: v}, nil
	}
	var r TimeRange
	if lo != "" {
		v, err := strconv.ParseFloat(lo, 64)
		if err != nil {
			return TimeRange{}, fmt.Errorf("invalid time range %q", s)
		}
		r.lower, r.hasLower = v, true
	}
	if hi != "" {
		v, err := strconv.ParseFloat(hi, 64)
		if err != nil {
			return TimeRange{}, fmt.Errorf("invalid time range %q", s)
		}
		r.upper, r.hasUpper = v, true
	}
	if r.hasLower && r.hasUpper && r.lower > r.upper {
		return TimeRange{}, fmt.Errorf("invalid time range %q: lower bound above upper bound", s)
	}
	return r, nil
}

// Selector 时间目录选择条件
type Selector struct {
	Ranges   []TimeRange // -time，为空表示不限
	Latest   bool        // -latestTime
	Constant bool        // -constant
	WithZero bool        // -withZero
	NoZero   bool        // -noZero
}

// Select 从 ListTimes 的结果中挑出要处理的时间目录，保持原有顺序。
//   - 默认选中全部时间目录，但 0 目录只有在 -withZero 时才选中
//   - -time、-latestTime 可以再选中 0 目录，-noZero 总是排除它
//   - constant 只有在 -constant 时才会选中
//   - -time 中的单值选中与其最接近的时间目录
func (s Selector) Select(times []Instant) []Instant {
	if len(times) == 0 {
		return nil
	}
	selected := make([]bool, len(times))
	constantIdx, zeroIdx, latestIdx := -1, -1, -1
	for i, t := range times {
		selected[i] = true
		if t.IsConstant() {
			constantIdx = i
		} else if t.Value == 0 && zeroIdx < 0 {
			zeroIdx = i
		}
	}
	if zeroIdx >= 0 {
		selected[zeroIdx] = s.WithZero
	}

	if s.Latest {
		for i := range selected {
			selected[i] = false
		}
		if last := len(times) - 1; last != constantIdx {
			latestIdx = last
		}
	}
	if len(s.Ranges) > 0 {
		selected = s.selectRanges(times)
	}
	if latestIdx >= 0 {
		selected[latestIdx] = true
	}
	if constantIdx >= 0 {
		selected[constantIdx] = s.Constant
	}
	if zeroIdx >= 0 && s.NoZero {
		selected[zeroIdx] = false
	}

	var out []Instant
	for i, t := range times {
		if selected[i] {
			out = append(out, t)
		}
	}
	return out
}

func (s Selector) selectRanges(times []Instant) []bool {
	selected := make([]bool, len(times))
	for i, t := range times {
		if t.IsConstant() {
			continue
		}
		for _, r := range s.Ranges {
			if r.selected(t.Value) {
				selected[i] = true
				break
			}
		}
	}
	for _, r := range s.Ranges {
		if !r.exact {
			continue
		}
		nearest, nearestDiff := -1, math.MaxFloat64
		for i, t := range times {
			if t.IsConstant() {
				continue
			}
			if diff := math.Abs(t.Value - r.value); diff < nearestDiff {
				nearest, nearestDiff = i, diff
			}
		}
		if nearest >= 0 {
			selected[nearest] = true
		}
	}
	return selected
}

// Select0 与 Select 相同，但选择结果为空时退回到 constant，fallback 标记是否发生了退回
func (s Selector) Select0(times []Instant) (selected []Instant, fallback bool) {
	selected = s.Select(times)
	if len(selected) == 0 {
		return []Instant{ConstantInstant()}, true
	}
	return selected, false
}
