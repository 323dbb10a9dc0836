package versioning

import (
	"slices"
	"sort"
)

// SortDescending orders ids newest first according to order and returns the
// same slice. Identifiers that fail to parse keep lexical order behind the
// parsable ones under SortSemver.
func SortDescending(ids []string, order SortOrder) []string {
	if order != SortSemver {
		sort.Sort(sort.Reverse(sort.StringSlice(ids)))
		return ids
	}
	slices.SortStableFunc(ids, func(a, b string) int {
		va, errA := Parse(Trim(a))
		vb, errB := Parse(Trim(b))
		switch {
		case errA != nil && errB != nil:
			return compareDesc(a, b)
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		}
		if c := vb.Compare(va); c != 0 {
			return c
		}
		return compareDesc(a, b)
	})
	return ids
}

func compareDesc(a, b string) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
