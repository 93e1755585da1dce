package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

var jsonNull = []byte("null")

// OptionalUUID distinguishes three JSON states for a UUID field:
// absent (Set=false), explicit null (Set=true, Valid=false), and a
// value (Set=true, Valid=true). Absent leaves the stored value alone;
// null clears it.
type OptionalUUID struct {
	Set   bool
	Valid bool
	Value uuid.UUID
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalUUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// OptionalTime is the time.Time analogue of OptionalUUID.
type OptionalTime struct {
	Set   bool
	Valid bool
	Value time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
