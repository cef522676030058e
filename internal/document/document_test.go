package document

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(`{
		"name": "Counter_Counter",
		"compiler": {"name": "tact", "version": "1.5.3", "parameters": {"debug": true}},
		"code": "te6cck"
	}`))
	if err != nil {
		t.Fatal(err)
	}
	want := Document{
		"name":                      "Counter_Counter",
		"compiler.name":             "tact",
		"compiler.version":          "1.5.3",
		"compiler.parameters.debug": true,
		"code":                      "te6cck",
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("unexpected document (-want +got):\n%s", diff)
	}
	if got, ok := doc.GetString("compiler.version"); !ok || got != "1.5.3" {
		t.Errorf("got %q, %v, want %q, true", got, ok, "1.5.3")
	}
	if _, ok := doc.GetString("compiler.parameters.debug"); ok {
		t.Error("got a string for a boolean value")
	}
	if _, ok := doc.GetString("missing"); ok {
		t.Error("got a value for a missing key")
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte(`["not", "an", "object"]`)); err == nil {
		t.Error("got nil error for a JSON array")
	}
	if _, err := Parse([]byte(`{`)); err == nil {
		t.Error("got nil error for truncated JSON")
	}
}
