package dataset

import (
	"strings"

	"github.com/rkondla/chiller-dashboard/internal/common"
)

// Classification groups column names by what they appear to measure.
// The predicates are case-insensitive substring matches inherited from the
// site's naming conventions; they are not mutually exclusive, and a column
// may land in more than one group (see Overlap).
type Classification struct {
	Power  []string
	Supply []string
	Return []string
}

// ClassifyColumns recomputes the grouping from scratch on every call. Results
// are never cached: the dataset can be replaced between renders.
func ClassifyColumns(columns []string) Classification {
	var c Classification
	for _, col := range columns {
		lower := strings.ToLower(col)
		if strings.Contains(lower, "chiller") && strings.Contains(lower, "power") {
			c.Power = append(c.Power, col)
		}
		if common.HasAny(lower, "supply", "chws") && common.HasAny(lower, "temp", "t") {
			c.Supply = append(c.Supply, col)
		}
		if common.HasAny(lower, "return", "chwr", "ret") && common.HasAny(lower, "temp", "t") {
			c.Return = append(c.Return, col)
		}
	}
	return c
}

// Empty reports whether no column matched any group.
func (c Classification) Empty() bool {
	return len(c.Power) == 0 && len(c.Supply) == 0 && len(c.Return) == 0
}

// ByKind returns the group for a chart kind name, or nil.
func (c Classification) ByKind(kind string) []string {
	switch kind {
	case "power":
		return c.Power
	case "supply":
		return c.Supply
	case "return":
		return c.Return
	}
	return nil
}

// Overlap lists columns that matched more than one group. The heuristics give
// them no precedence, so the UI surfaces them instead of guessing.
func (c Classification) Overlap() []string {
	counts := make(map[string]int)
	for _, group := range [][]string{c.Power, c.Supply, c.Return} {
		for _, col := range group {
			counts[col]++
		}
	}
	var overlapping []string
	for _, col := range append(append(append([]string{}, c.Power...), c.Supply...), c.Return...) {
		if counts[col] > 1 {
			overlapping = append(overlapping, col)
			counts[col] = 0
		}
	}
	return overlapping
}
