package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Time is the timestamp type used by every entity and every serialized
// document. Its JSON form is a tagged object:
//
//	{"__type": "Date", "value": "2024-03-01T10:00:00Z"}
//
// so that dates survive a JSON round trip without being mistaken for plain
// strings. A zero Time serializes as null.
type Time struct {
	time.Time
}

// taggedDate is the wire form of a Time value.
type taggedDate struct {
	Type  string `json:"__type"`
	Value string `json:"value"`
}

// dateTag is the discriminator value in the tagged wire form.
const dateTag = "Date"

// NewTime wraps a time.Time, normalized to UTC.
func NewTime(t time.Time) Time {
	return Time{t.UTC()}
}

// Now returns the current instant as a Time.
func Now() Time {
	return NewTime(time.Now())
}

// MarshalJSON writes the tagged date object, or null for the zero value.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(taggedDate{
		Type:  dateTag,
		Value: t.UTC().Format(time.RFC3339Nano),
	})
}

// UnmarshalJSON accepts the tagged object form, a bare RFC 3339 string
// (tolerated for hand-edited files), or null.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	var tagged taggedDate
	if err := json.Unmarshal(data, &tagged); err == nil && tagged.Type == dateTag {
		parsed, err := time.Parse(time.RFC3339Nano, tagged.Value)
		if err != nil {
			return fmt.Errorf("parsing tagged date %q: %w", tagged.Value, err)
		}
		t.Time = parsed.UTC()
		return nil
	}

	var plain string
	if err := json.Unmarshal(data, &plain); err != nil {
		return fmt.Errorf("unmarshaling date: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, plain)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", plain, err)
	}
	t.Time = parsed.UTC()
	return nil
}

// ParseDate parses a user-supplied date, accepting a calendar date
// (2006-01-02) or a full RFC 3339 timestamp.
func ParseDate(s string) (Time, error) {
	if parsed, err := time.Parse("2006-01-02", s); err == nil {
		return NewTime(parsed), nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return NewTime(parsed), nil
}

// Equal compares two Times at millisecond granularity, which is the
// precision guaranteed to survive every supported serialization.
func (t Time) Equal(other Time) bool {
	return t.UnixMilli() == other.UnixMilli()
}
