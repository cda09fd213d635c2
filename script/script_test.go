package script

import (
	"slices"
	"testing"
)

func TestParse_NotAScript(t *testing.T) {
	for _, raw := range []string{
		"John Doe",
		"",
		"tag: 1 + 1",
		" tagscript: 1 + 1", // leading space defeats the prefix
	} {
		if _, ok := Parse(raw); ok {
			t.Errorf("Parse(%q) recognized a script, want literal", raw)
		}
	}
}

func TestParse_BareBody(t *testing.T) {
	s, ok := Parse("tagscript: 1 + 1")
	if !ok {
		t.Fatal("expected script to be recognized")
	}

	if s.Body != "1 + 1" {
		t.Errorf("body = %q, want %q", s.Body, "1 + 1")
	}

	if len(s.Params) != 0 {
		t.Errorf("params = %v, want none", s.Params)
	}
}

func TestParse_Parameterized(t *testing.T) {
	s, ok := Parse("tagscript: (a, b) => a + b")
	if !ok {
		t.Fatal("expected script to be recognized")
	}

	if !slices.Equal(s.Params, []string{"a", "b"}) {
		t.Errorf("params = %v, want [a b]", s.Params)
	}

	if s.Body != "a + b" {
		t.Errorf("body = %q, want %q", s.Body, "a + b")
	}
}

func TestParse_ParamWhitespaceTrimmed(t *testing.T) {
	s, ok := Parse("tagscript: ( a ,  b ,c ) => a")
	if !ok {
		t.Fatal("expected script to be recognized")
	}

	if !slices.Equal(s.Params, []string{"a", "b", "c"}) {
		t.Errorf("params = %v, want [a b c]", s.Params)
	}
}

func TestParse_EmptyParamList(t *testing.T) {
	s, ok := Parse("tagscript: () => 42")
	if !ok {
		t.Fatal("expected script to be recognized")
	}

	if len(s.Params) != 0 {
		t.Errorf("params = %v, want zero parameters", s.Params)
	}

	if s.Body != "42" {
		t.Errorf("body = %q, want %q", s.Body, "42")
	}
}

func TestParse_ArrowWhitespace(t *testing.T) {
	s, ok := Parse("tagscript: (x)=>x * 2")
	if !ok {
		t.Fatal("expected script to be recognized")
	}

	if !slices.Equal(s.Params, []string{"x"}) || s.Body != "x * 2" {
		t.Errorf("got params=%v body=%q", s.Params, s.Body)
	}
}

// A stray parenthesis or arrow that does not fit the parameterized
// grammar falls through to the bare-body shape.
func TestParse_MalformedParamsFallThrough(t *testing.T) {
	cases := map[string]string{
		"tagscript: (a, b => a + b": "(a, b => a + b",
		"tagscript: f(1) + 1":       "f(1) + 1",
		"tagscript: => x":           "=> x",
	}

	for raw, wantBody := range cases {
		s, ok := Parse(raw)
		if !ok {
			t.Errorf("Parse(%q) not recognized as script", raw)

			continue
		}

		if s.Body != wantBody || s.Params != nil {
			t.Errorf("Parse(%q) = (%v, %q), want bare body %q",
				raw, s.Params, s.Body, wantBody)
		}
	}
}

// The parameter list is maximal: the last parenthesis still followed
// by an arrow closes the list.
func TestParse_GreedyParamList(t *testing.T) {
	s, ok := Parse("tagscript: (a, b) => (x) => y")
	if !ok {
		t.Fatal("expected script to be recognized")
	}

	if !slices.Equal(s.Params, []string{"a", "b) => (x"}) {
		t.Errorf("params = %v", s.Params)
	}

	if s.Body != "y" {
		t.Errorf("body = %q, want %q", s.Body, "y")
	}
}

func TestIsScript(t *testing.T) {
	if !IsScript("tagscript: 1") {
		t.Error("expected marker to be recognized")
	}

	// Marker without trailing space is still flagged so the failure
	// is reported at parse time instead of silently substituting.
	if !IsScript("tagscript:1") {
		t.Error("expected bare marker to be recognized")
	}

	if IsScript("value") {
		t.Error("literal value recognized as script")
	}
}

func TestParse_MarkerWithoutSpace(t *testing.T) {
	if _, ok := Parse("tagscript:1 + 1"); ok {
		t.Error("marker without trailing space must not parse")
	}
}
