package plot

import (
	"math"
	"strconv"
	"time"
)

// FormatTick renders an axis coordinate as a tick label.
func (a Axis) FormatTick(v float64) string {
	if !finite(v) {
		return ""
	}
	switch a.Kind {
	case AxisCategory:
		idx := int(math.Round(v))
		if math.Abs(v-float64(idx)) > 1e-9 || idx < 0 || idx >= len(a.Categories) {
			return ""
		}
		return a.Categories[idx]
	case AxisDate:
		t := Time(v)
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format("2006-01-02 15:04")
	default:
		return strconv.FormatFloat(v, 'g', 4, 64)
	}
}

// Time converts a date-axis coordinate back to a UTC time.
func Time(v float64) time.Time {
	return time.Unix(0, int64(math.Round(v*1e9))).UTC()
}
