// Package audit builds the entity projections and structural diffs stored in
// the order history tables.
package audit

import (
	"encoding/json"
	"reflect"
)

// Volatile fields are stripped from projections before diffing so that a
// touch of updated_at alone never produces a history row.
var volatileFields = []string{"updated_at"}

// FieldChange is one entry of a structural diff.
type FieldChange struct {
	Before interface{} `json:"before"`
	After  interface{} `json:"after"`
}

// Projection flattens an entity into its field map through its JSON form,
// with volatile fields removed. Relation slices are expected to be tagged
// omitempty and nilled out by the caller before projecting.
func Projection(entity interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for _, name := range volatileFields {
		delete(fields, name)
	}
	return fields, nil
}

// Diff returns the field-level delta between two projections. An empty result
// means the update was a no-op and must not be audited.
func Diff(before, after map[string]interface{}) map[string]FieldChange {
	changes := map[string]FieldChange{}
	for name, prev := range before {
		next, ok := after[name]
		if !ok {
			changes[name] = FieldChange{Before: prev, After: nil}
			continue
		}
		if !reflect.DeepEqual(prev, next) {
			changes[name] = FieldChange{Before: prev, After: next}
		}
	}
	for name, next := range after {
		if _, ok := before[name]; !ok {
			changes[name] = FieldChange{Before: nil, After: next}
		}
	}
	return changes
}

// MarshalSnapshot serializes a projection for the snapshot column.
func MarshalSnapshot(projection map[string]interface{}) (json.RawMessage, error) {
	raw, err := json.Marshal(projection)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// MarshalDiff serializes a diff for the diff column; empty diffs map to nil
// so the column stays NULL for INSERT and DELETE rows.
func MarshalDiff(changes map[string]FieldChange) (json.RawMessage, error) {
	if len(changes) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(changes)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
