package dto

import (
	"encoding/json"
	"fmt"
)

// Reference is an identifier that clients and the payment provider send either as a
// JSON string or as a JSON number.
type Reference string

func (r *Reference) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Reference(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("reference must be a string or a number: %w", err)
	}
	*r = Reference(n.String())
	return nil
}

func (r Reference) String() string {
	return string(r)
}
