package view

import (
	"sort"
	"strconv"
	"strings"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortState is the single active sort of a view.
type SortState struct {
	Key       string
	Direction Direction
}

// Toggle applies a click on a column header: the active key flips direction,
// a new key takes over and resets to descending (most urgent first).
func (s SortState) Toggle(key string) SortState {
	if s.Key == key {
		if s.Direction == Descending {
			return SortState{Key: key, Direction: Ascending}
		}
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Descending}
}

// Cell is one sortable value. Numeric cells compare numerically, text cells
// as case-sensitive strings. Null cells sort last under either direction, so
// unknown values never lead real data.
type Cell struct {
	num     float64
	str     string
	numeric bool
	null    bool
}

func NumberCell(v float64) Cell {
	return Cell{num: v, str: strconv.FormatFloat(v, 'f', -1, 64), numeric: true}
}

func TextCell(s string) Cell {
	return Cell{str: s}
}

func NullCell() Cell {
	return Cell{null: true}
}

// Schema describes how the engine reads a row type: named sortable fields,
// a filter predicate, and the row's product key.
type Schema[T any] struct {
	Fields map[string]func(T) Cell
	// Match reports whether a row passes the filter; needle is already
	// lowercased and never empty.
	Match func(row T, needle string) bool
	Key   func(T) string
}

// View filters then sorts without mutating the input slice. The filter is a
// case-insensitive substring match; an empty filter passes everything. The
// sort is stable, so ties keep their pre-sort relative order.
func (sc Schema[T]) View(rows []T, filterText string, state SortState) []T {
	out := make([]T, 0, len(rows))
	needle := strings.ToLower(strings.TrimSpace(filterText))
	for _, row := range rows {
		if needle == "" || sc.Match(row, needle) {
			out = append(out, row)
		}
	}

	field, ok := sc.Fields[state.Key]
	if !ok {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := field(out[i]), field(out[j])
		if a.null || b.null {
			// Nulls last regardless of direction.
			return !a.null && b.null
		}
		cmp := compareCells(a, b)
		if cmp == 0 {
			return false
		}
		if state.Direction == Descending {
			return cmp > 0
		}
		return cmp < 0
	})

	return out
}

// MatchText is the standard filter predicate: substring match against any of
// the given row fields.
func MatchText(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func compareCells(a, b Cell) int {
	if a.numeric && b.numeric {
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.str, b.str)
}
