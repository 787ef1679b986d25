package ticket

import (
	"encoding/json"
	"testing"
)

func TestResolutionNormalizedAtDecode(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{`{"id":1,"resolution":true}`, true},
		{`{"id":2,"resolution":"true"}`, true},
		{`{"id":3,"resolution":false}`, false},
		{`{"id":4,"resolution":"false"}`, false},
		{`{"id":5,"resolution":"yes"}`, false},
		{`{"id":6}`, false},
		{`{"id":7,"resolution":null}`, false},
	}
	for _, c := range cases {
		var tk Ticket
		if err := json.Unmarshal([]byte(c.raw), &tk); err != nil {
			t.Fatalf("decode %s: %v", c.raw, err)
		}
		if tk.Resolution.OK() != c.want {
			t.Fatalf("resolution for %s: got %v want %v", c.raw, tk.Resolution.OK(), c.want)
		}
	}
}

func TestUpdatedAtLayouts(t *testing.T) {
	for _, raw := range []string{
		"2024-05-01T23:59:00",
		"2024-05-01T23:59",
		"2024-05-01 23:59:00",
		"2024-05-01",
	} {
		tk := Ticket{LastUpdated: raw}
		ts, ok := tk.UpdatedAt()
		if !ok {
			t.Fatalf("expected %q to parse", raw)
		}
		if d := DayOf(ts); d.Key() != "2024-05-01" {
			t.Fatalf("day for %q: got %s", raw, d.Key())
		}
	}

	if _, ok := (Ticket{}).UpdatedAt(); ok {
		t.Fatalf("empty lastUpdated must not parse")
	}
	if (Ticket{LastUpdated: "  "}).UpdatedTime() != "" {
		t.Fatalf("blank lastUpdated must render empty time")
	}
}
