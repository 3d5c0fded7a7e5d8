package jparse_test

import (
	"strings"
	"testing"

	"github.com/lattice-substrate/jtree/jparse"
	"github.com/lattice-substrate/jtree/jvalue"
)

func mustParse(t *testing.T, s string) *jvalue.Value {
	t.Helper()
	v, err := jparse.Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return v
}

func TestParseScalars(t *testing.T) {
	cases := map[string]jvalue.Kind{
		"null":  jvalue.Null,
		"true":  jvalue.True,
		"false": jvalue.False,
		"0":     jvalue.Number,
		"-12.5": jvalue.Number,
		"1e10":  jvalue.Number,
		`"hi"`:  jvalue.String,
	}
	for in, want := range cases {
		v := mustParse(t, in)
		if v.Kind() != want {
			t.Errorf("Parse(%q).Kind() = %v, want %v", in, v.Kind(), want)
		}
	}
}

func TestParseObjectAndArray(t *testing.T) {
	v := mustParse(t, `{"name":"John","age":30,"cars":["Ford","BMW"]}`)
	if v.Kind() != jvalue.Object {
		t.Fatalf("Kind() = %v", v.Kind())
	}
	if got := v.Get("name").StringValue(); got != "John" {
		t.Errorf("name = %q", got)
	}
	if got := v.Get("age").IntValue(); got != 30 {
		t.Errorf("age = %d", got)
	}
	cars := v.Get("cars")
	if cars.Kind() != jvalue.Array || cars.Len() != 2 {
		t.Fatalf("cars = %v len %d", cars.Kind(), cars.Len())
	}
	if cars.ArrayItem(0).StringValue() != "Ford" || cars.ArrayItem(1).StringValue() != "BMW" {
		t.Errorf("cars elements wrong")
	}
}

func TestParseDuplicateKeysAllowedFirstWins(t *testing.T) {
	v := mustParse(t, `{"a":1,"a":2}`)
	if got := v.Get("a").NumberValue(); got != 1 {
		t.Errorf("Get(\"a\") = %v, want 1 (first match)", got)
	}
}

func TestParseSkipsLeadingBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("42")...)
	v, err := jparse.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if v.NumberValue() != 42 {
		t.Errorf("got %v", v.NumberValue())
	}
}

func TestParseStringEscapesAndSurrogatePair(t *testing.T) {
	v := mustParse(t, `"a\n\té\uD83D\uDE00"`)
	want := "a\n\té\U0001F600"
	if v.StringValue() != want {
		t.Errorf("got %q, want %q", v.StringValue(), want)
	}
}

func TestParseRequireNullTerminated(t *testing.T) {
	data := append([]byte("42"), 0x00)
	_, err := jparse.ParseWithOptions(data, jparse.Options{RequireNullTerminated: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := jparse.ParseWithOptions([]byte("42"), jparse.Options{RequireNullTerminated: true}); err == nil {
		t.Fatal("expected failure without trailing NUL")
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"",
		"{",
		`{"a":}`,
		"[1,2,",
		"01",
		"1.",
		"1e",
		`"unterminated`,
		`"\ud800"`,          // lone high surrogate
		"truee",
		"nul",
		"{,}",
	}
	for _, in := range bad {
		if _, err := jparse.Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}

func TestParseMaxDepth(t *testing.T) {
	deep := strings.Repeat("[", 5) + strings.Repeat("]", 5)
	if _, err := jparse.ParseWithOptions([]byte(deep), jparse.Options{MaxDepth: 3}); err == nil {
		t.Fatal("expected depth-exceeded error")
	}
	if _, err := jparse.ParseWithOptions([]byte(deep), jparse.Options{MaxDepth: 10}); err != nil {
		t.Fatalf("unexpected error within depth budget: %v", err)
	}
}

func TestParseRejectsOverflowNumber(t *testing.T) {
	if _, err := jparse.Parse([]byte("1e400")); err == nil {
		t.Fatal("expected overflow error for 1e400")
	}
}

func TestParseEmptyContainers(t *testing.T) {
	v := mustParse(t, "{}")
	if v.Kind() != jvalue.Object || v.Len() != 0 {
		t.Fatal("empty object mismatch")
	}
	v = mustParse(t, "[]")
	if v.Kind() != jvalue.Array || v.Len() != 0 {
		t.Fatal("empty array mismatch")
	}
}
