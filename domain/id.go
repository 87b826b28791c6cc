package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID is an opaque identifier assigned by the marketplace backend.
// The backend may send it as a JSON string or number; both decode to the same ID.
type ID string

func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the ID is empty.
func (id ID) IsZero() bool {
	return id == ""
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// IDFromInt64 formats a numeric backend identifier.
func IDFromInt64(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}
