package auction

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseFieldKinds(t *testing.T) {
	n, err := ParseField(FieldNumber, " 42.5 ")
	if err != nil || n.Number != 42.5 {
		t.Fatalf("number: %v %+v", err, n)
	}
	u, err := ParseField(FieldURL, "https://example.com/p/1")
	if err != nil || u.URL.Host != "example.com" {
		t.Fatalf("url: %v %+v", err, u)
	}
	d, err := ParseField(FieldDate, "2001-04-15")
	if err != nil || d.Date.Year() != 2001 || d.String() != "2001-04-15" {
		t.Fatalf("date: %v %+v", err, d)
	}
	for _, bad := range []struct {
		kind FieldKind
		raw  string
	}{
		{FieldNumber, "abc"},
		{FieldURL, "not a url"},
		{FieldDate, "15/04/2001"},
		{"colour", "red"},
	} {
		if _, err := ParseField(bad.kind, bad.raw); !errors.Is(err, ErrInvalidField) {
			t.Fatalf("%s %q: expected invalid field, got %v", bad.kind, bad.raw, err)
		}
	}
}

func TestCustomFieldJSONKeepsKind(t *testing.T) {
	in := map[string]CustomField{
		"runs":    NumberField(1200),
		"club":    TextField("Riverside"),
		"profile": mustField(t, FieldURL, "https://example.com/x"),
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]CustomField
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["runs"].Kind != FieldNumber || out["runs"].Number != 1200 {
		t.Fatalf("number lost: %+v", out["runs"])
	}
	if out["profile"].Kind != FieldURL || out["profile"].String() != "https://example.com/x" {
		t.Fatalf("url lost: %+v", out["profile"])
	}
}

func mustField(t *testing.T, kind FieldKind, raw string) CustomField {
	t.Helper()
	f, err := ParseField(kind, raw)
	if err != nil {
		t.Fatalf("parse %s: %v", kind, err)
	}
	return f
}
