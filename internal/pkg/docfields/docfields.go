// Package docfields keeps the free-form keys of a JSON object next to the
// keys a struct decodes, so documents round-trip without losing fields.
package docfields

import (
	"encoding/json"
	"slices"
)

// Extra returns the top-level keys of the object in data that are not listed
// in known, decoded to plain Go values. It returns nil when nothing is left.
func Extra(data []byte, known ...string) (map[string]any, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	var out map[string]any
	for key, raw := range fields {
		if slices.Contains(known, key) {
			continue
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, err
		}
		if out == nil {
			out = make(map[string]any, len(fields))
		}
		out[key] = value
	}
	return out, nil
}

// Merge marshals typed and writes the entries of extra beside its fields.
// Keys listed in known, or already produced by typed, are never overwritten.
//
// Example:
//
//	func (i Item) MarshalJSON() ([]byte, error) {
//	    return docfields.Merge(itemJSON(i), i.Attributes, "_id", "quantity")
//	}
func Merge(typed any, extra map[string]any, known ...string) ([]byte, error) {
	data, err := json.Marshal(typed)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var fields map[string]json.RawMessage
	if err = json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for key, value := range extra {
		if _, taken := fields[key]; taken || slices.Contains(known, key) {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		fields[key] = raw
	}
	return json.Marshal(fields)
}
