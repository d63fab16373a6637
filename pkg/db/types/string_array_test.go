package dbtypes

import (
	"reflect"
	"testing"
)

func TestStringArrayRoundTrip(t *testing.T) {
	in := StringArray{"Hive 1", `Queen "Ana"`, "A,B", `back\slash`}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var out StringArray
	if err := out.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: %#v vs %#v", in, out)
	}
}

func TestStringArrayScansPostgresLiterals(t *testing.T) {
	cases := map[string]StringArray{
		"{}":                 {},
		"":                   {},
		"{h1,h2}":            {"h1", "h2"},
		`{"hive 3",h4}`:      {"hive 3", "h4"},
		`{"with \"quote\""}`: {`with "quote"`},
	}
	for literal, want := range cases {
		var got StringArray
		if err := got.Scan([]byte(literal)); err != nil {
			t.Fatalf("scan %q: %v", literal, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("scan %q: got %#v want %#v", literal, got, want)
		}
	}
}

func TestStringArrayRejectsMalformed(t *testing.T) {
	var got StringArray
	if err := got.Scan("h1,h2"); err == nil {
		t.Fatal("expected error for literal without braces")
	}
	if err := got.Scan(`{"open}`); err == nil {
		t.Fatal("expected error for unterminated quote")
	}
	if err := got.Scan(42); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestStringArrayEmptyValue(t *testing.T) {
	v, err := StringArray(nil).Value()
	if err != nil || v != "{}" {
		t.Fatalf("expected {} got %v (%v)", v, err)
	}
}
