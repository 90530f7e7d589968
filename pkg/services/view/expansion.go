package view

import (
	"sort"

	"github.com/bakeops/ovenboard/pkg/models/domain"
)

// ExpansionState tracks which product groups show their member records.
// It is keyed by product key only, so expansion survives any filter or sort
// change that temporarily hides and later restores a row.
type ExpansionState struct {
	expanded map[string]struct{}
}

func NewExpansionState() *ExpansionState {
	return &ExpansionState{expanded: make(map[string]struct{})}
}

// Toggle flips a key's expansion and reports the new state.
func (e *ExpansionState) Toggle(key string) bool {
	if _, ok := e.expanded[key]; ok {
		delete(e.expanded, key)
		return false
	}
	e.expanded[key] = struct{}{}
	return true
}

func (e *ExpansionState) IsExpanded(key string) bool {
	_, ok := e.expanded[key]
	return ok
}

// Collapse drops every expanded key.
func (e *ExpansionState) Collapse() {
	e.expanded = make(map[string]struct{})
}

// ChronologicalMembers returns a group's member records ordered oldest to
// newest by period, whatever the parent view's sort is. The summary's own
// member slice is left untouched.
func ChronologicalMembers(s domain.ProductSummary) []domain.CanonicalRecord {
	members := make([]domain.CanonicalRecord, len(s.Members))
	copy(members, s.Members)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Period < members[j].Period
	})
	return members
}
