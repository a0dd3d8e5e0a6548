package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimeMarshalTaggedObject(t *testing.T) {
	ts := NewTime(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"__type":"Date","value":"2024-03-01T10:00:00Z"}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	original := NewTime(time.Date(2023, 7, 14, 16, 30, 45, 123456789, time.UTC))

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Time
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if !decoded.Time.Equal(original.Time) {
		t.Fatalf("round trip changed value: %v != %v", decoded, original)
	}

	// A second round trip must produce identical bytes; export checksums
	// depend on it.
	data2, err := json.Marshal(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(data2) {
		t.Fatalf("serialization not stable: %s != %s", data, data2)
	}
}

func TestTimeZeroIsNull(t *testing.T) {
	var zero Time
	data, err := json.Marshal(zero)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "null" {
		t.Fatalf("expected null, got %s", data)
	}

	var decoded Time
	if err := json.Unmarshal([]byte("null"), &decoded); err != nil {
		t.Fatal(err)
	}
	if !decoded.IsZero() {
		t.Fatalf("expected zero time, got %v", decoded)
	}
}

func TestTimeUnmarshalPlainString(t *testing.T) {
	var ts Time
	if err := json.Unmarshal([]byte(`"2022-01-02T03:04:05Z"`), &ts); err != nil {
		t.Fatal(err)
	}
	if ts.Year() != 2022 || ts.Month() != time.January {
		t.Fatalf("unexpected parse result: %v", ts)
	}
}

func TestTimeUnmarshalRejectsGarbage(t *testing.T) {
	var ts Time
	if err := json.Unmarshal([]byte(`{"__type":"Date","value":"not-a-date"}`), &ts); err == nil {
		t.Fatal("expected error for malformed tagged date")
	}
	if err := json.Unmarshal([]byte(`42`), &ts); err == nil {
		t.Fatal("expected error for numeric date")
	}
}

func TestParseDate(t *testing.T) {
	t.Run("calendar date", func(t *testing.T) {
		ts, err := ParseDate("2018-06-15")
		if err != nil {
			t.Fatal(err)
		}
		if ts.Year() != 2018 || ts.Month() != time.June || ts.Day() != 15 {
			t.Fatalf("unexpected parse result: %v", ts)
		}
	})

	t.Run("rfc3339", func(t *testing.T) {
		ts, err := ParseDate("2020-12-31T23:59:59Z")
		if err != nil {
			t.Fatal(err)
		}
		if ts.Year() != 2020 {
			t.Fatalf("unexpected parse result: %v", ts)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := ParseDate("yesterday"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestTimeEqualMillisecondGranularity(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewTime(base.Add(100 * time.Microsecond))
	b := NewTime(base.Add(900 * time.Microsecond))
	if !a.Equal(b) {
		t.Fatal("sub-millisecond difference should compare equal")
	}
	c := NewTime(base.Add(2 * time.Millisecond))
	if a.Equal(c) {
		t.Fatal("millisecond difference should not compare equal")
	}
}
