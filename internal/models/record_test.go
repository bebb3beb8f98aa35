package models

import (
	"encoding/json"
	"testing"
)

func TestRecordJSONRoundTrip(t *testing.T) {
	t.Parallel()

	in := Record{ID: "42", Credits: 5, LastTransaction: 1700000000}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// the wire field list is fixed
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal into map: %v", err)
	}
	for _, k := range []string{"id", "credits", "last_transaction"} {
		if _, ok := fields[k]; !ok {
			t.Fatalf("field %q missing from %s", k, raw)
		}
	}
	if len(fields) != 3 {
		t.Fatalf("unexpected extra fields: %s", raw)
	}

	var out Record
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip changed the record: %+v != %+v", out, in)
	}
}
