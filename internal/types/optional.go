package types

import "encoding/json"

// OptionalID distinguishes an absent JSON field from an explicit null, so
// partial updates can tell "leave the assignee alone" apart from "clear it".
type OptionalID struct {
	Set   bool
	Value *uint
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true

	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var id uint

	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}

	o.Value = &id
	return nil
}
