package caretrail

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SortOrder selects timeline ordering.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// CategoryAll matches every category in a Query.
const CategoryAll = "all"

// SeverityBand is an inclusive severity range used to bucket incidents.
// The zero value matches everything.
type SeverityBand struct {
	Min int
	Max int
}

// The product's three bands.
var (
	BandAll    = SeverityBand{SeverityMin, SeverityMax}
	BandLow    = SeverityBand{1, 2}
	BandMedium = SeverityBand{3, 3}
	BandHigh   = SeverityBand{4, 5}
)

// ParseSeverityBand parses "all", a single value like "3", or an
// inclusive range like "4-5".
func ParseSeverityBand(s string) (SeverityBand, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == CategoryAll {
		return BandAll, nil
	}

	lo, hi, found := strings.Cut(s, "-")
	if !found {
		hi = lo
	}
	min, err := strconv.Atoi(lo)
	if err != nil {
		return SeverityBand{}, fmt.Errorf("invalid severity band %q", s)
	}
	max, err := strconv.Atoi(hi)
	if err != nil {
		return SeverityBand{}, fmt.Errorf("invalid severity band %q", s)
	}
	if min > max || min < SeverityMin || max > SeverityMax {
		return SeverityBand{}, fmt.Errorf("invalid severity band %q", s)
	}
	return SeverityBand{min, max}, nil
}

// Contains reports whether a severity falls in the band. The zero band
// matches everything.
func (b SeverityBand) Contains(severity int) bool {
	if b == (SeverityBand{}) {
		return true
	}
	return severity >= b.Min && severity <= b.Max
}

// Band returns the product band a severity falls in: Low is 2 and
// below, High is 4 and above.
func Band(severity int) SeverityBand {
	switch {
	case severity <= 2:
		return BandLow
	case severity == 3:
		return BandMedium
	default:
		return BandHigh
	}
}

// Query describes one filtered, ordered view over the incident set.
// All filters are conjunctive.
type Query struct {
	// Search matches case-insensitively against transcript or category.
	// Empty matches all.
	Search string

	// Category is CategoryAll (or empty) for no filter, otherwise an
	// exact category match.
	Category string

	// Band restricts severity; the zero value matches all.
	Band SeverityBand

	// Sort orders by timestamp; defaults to SortNewest.
	Sort SortOrder
}

// View derives a filtered, ordered sequence from the given incidents.
// It is a pure projection: the input slice is never mutated, and ties
// on timestamp keep their original store order.
func View(incidents []Incident, q Query) []Incident {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	matched := make([]Incident, 0, len(incidents))
	for _, inc := range incidents {
		if !matchesSearch(inc, search) {
			continue
		}
		if q.Category != "" && q.Category != CategoryAll && inc.Category != q.Category {
			continue
		}
		if !q.Band.Contains(inc.Severity) {
			continue
		}
		matched = append(matched, inc)
	}

	if q.Sort == SortOldest {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Timestamp.Before(matched[j].Timestamp)
		})
	} else {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		})
	}
	return matched
}

func matchesSearch(inc Incident, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(inc.Transcript), search) ||
		strings.Contains(strings.ToLower(inc.Category), search)
}
