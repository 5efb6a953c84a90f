package loader

import (
	"strconv"
	"strings"

	"github.com/verte-zerg/tuiplot/internal/model"
)

// inferKind picks the narrowest kind every non-empty cell satisfies.
// Empty cells count as missing; an integer column with gaps becomes float64.
func inferKind(values []string) model.Kind {
	if len(values) == 0 {
		return model.KindText
	}
	seen := false
	hasEmpty := false
	allInt, allFloat, allTime := true, true, true
	for _, v := range values {
		s := strings.TrimSpace(v)
		if s == "" {
			hasEmpty = true
			continue
		}
		seen = true
		if allInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, ok := model.ParseFloat(s); !ok {
				allFloat = false
			}
		}
		if allTime {
			if _, ok := model.ParseTime(s); !ok {
				allTime = false
			}
		}
		if !allInt && !allFloat && !allTime {
			return model.KindText
		}
	}
	switch {
	case !seen:
		return model.KindFloat64
	case allInt && !hasEmpty:
		return model.KindInt64
	case allFloat:
		return model.KindFloat64
	case allTime:
		return model.KindDatetime
	default:
		return model.KindText
	}
}

// dedupeNames makes header names unique the way analysts expect:
// repeated "a" becomes "a", "a.1", "a.2" and blank names become "Unnamed: i".
func dedupeNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]struct{}, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		used[h] = struct{}{}
		names[i] = h
	}
	counts := make(map[string]int, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, name := range names {
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			continue
		}
		for {
			counts[name]++
			candidate := name + "." + strconv.Itoa(counts[name])
			if _, taken := used[candidate]; taken {
				continue
			}
			used[candidate] = struct{}{}
			seen[candidate] = struct{}{}
			names[i] = candidate
			break
		}
	}
	return names
}
