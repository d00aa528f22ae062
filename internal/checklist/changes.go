package checklist

import "sort"

// Change types
const (
	ChangeAdded   = "added"
	ChangeUpdated = "updated"
	ChangeRemoved = "removed"
)

// FieldChange is a difference between two versions of a record
type FieldChange struct {
	Type  string // "added", "updated", "removed"
	Field string
	From  Value
	To    Value
}

// DetectChanges compares a stored record with its replacement and returns the
// changed fields sorted by name
func DetectChanges(previous, current Record) []FieldChange {
	changes := []FieldChange{}

	for field, cur := range current {
		prev, exists := previous[field]
		switch {
		case !exists:
			changes = append(changes, FieldChange{Type: ChangeAdded, Field: field, To: cur})
		case !prev.Equal(cur):
			changes = append(changes, FieldChange{Type: ChangeUpdated, Field: field, From: prev, To: cur})
		}
	}

	for field, prev := range previous {
		if _, exists := current[field]; !exists {
			changes = append(changes, FieldChange{Type: ChangeRemoved, Field: field, From: prev})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Field < changes[j].Field })
	return changes
}

// ChangedFields returns the names of the changed fields
func ChangedFields(changes []FieldChange) []string {
	names := make([]string, len(changes))
	for i, c := range changes {
		names[i] = c.Field
	}
	return names
}
