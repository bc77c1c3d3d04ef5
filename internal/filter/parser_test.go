package filter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFilters_ThreePartToken(t *testing.T) {
	tokens, err := ParseFilters([]string{"magnitude:gte:5.0"})
	if err != nil {
		t.Fatalf("ParseFilters: %v", err)
	}
	want := []Token{{Field: "magnitude", Op: OpGte, RawValue: "5.0", HasValue: true}}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFilters_ValueKeepsColons(t *testing.T) {
	tokens, err := ParseFilters([]string{"occurred_at:gte:2024-01-02T15:04:05Z"})
	if err != nil {
		t.Fatalf("ParseFilters: %v", err)
	}
	if tokens[0].RawValue != "2024-01-02T15:04:05Z" {
		t.Fatalf("value split too far: %q", tokens[0].RawValue)
	}
}

func TestParseFilters_UnaryTwoPartForm(t *testing.T) {
	tokens, err := ParseFilters([]string{"ciim_geo_image_url:isnull"})
	if err != nil {
		t.Fatalf("ParseFilters: %v", err)
	}
	tok := tokens[0]
	if tok.Op != OpIsNull || tok.HasValue {
		t.Fatalf("unary token parsed wrong: %#v", tok)
	}
}

func TestParseFilters_UnaryWithValueRejected(t *testing.T) {
	_, err := ParseFilters([]string{"ciim_geo_image_url:isnull:x"})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestParseFilters_MissingValueRejected(t *testing.T) {
	_, err := ParseFilters([]string{"title:eq"})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestParseFilters_EmptyValueAllowed(t *testing.T) {
	tokens, err := ParseFilters([]string{"title:eq:"})
	if err != nil {
		t.Fatalf("ParseFilters: %v", err)
	}
	if !tokens[0].HasValue || tokens[0].RawValue != "" {
		t.Fatalf("empty value parsed wrong: %#v", tokens[0])
	}
}

func TestParseFilters_UnknownOperator(t *testing.T) {
	for _, s := range []string{"magnitude:between:1:5", "magnitude:GTE:5", "magnitude:notin:a,b"} {
		if _, err := ParseFilters([]string{s}); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: expected ErrMalformed, got %v", s, err)
		}
	}
}

func TestParseFilters_NoDelimiter(t *testing.T) {
	_, err := ParseFilters([]string{"magnitude"})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestParseFilters_EmptyField(t *testing.T) {
	_, err := ParseFilters([]string{":eq:5"})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestParseFilters_BadStringAbortsAll(t *testing.T) {
	tokens, err := ParseFilters([]string{"magnitude:gte:5.0", "broken"})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if tokens != nil {
		t.Fatalf("partial tokens returned: %#v", tokens)
	}
}

func TestParseSorts_Directions(t *testing.T) {
	sorts, err := ParseSorts([]string{"magnitude:desc", "occurred_at:asc", "id"})
	if err != nil {
		t.Fatalf("ParseSorts: %v", err)
	}
	want := []Sort{{Field: "magnitude", Desc: true}, {Field: "occurred_at"}, {Field: "id"}}
	if diff := cmp.Diff(want, sorts); diff != "" {
		t.Fatalf("sorts mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSorts_BadDirection(t *testing.T) {
	for _, s := range []string{"magnitude:down", "magnitude:", ":desc"} {
		if _, err := ParseSorts([]string{s}); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: expected ErrMalformed, got %v", s, err)
		}
	}
}

func TestSplitListValue_EscapedComma(t *testing.T) {
	got := SplitListValue(`reviewed,auto\,matic,a\\b`)
	want := []string{"reviewed", "auto,matic", `a\b`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("list split mismatch (-want +got):\n%s", diff)
	}
}

func TestOperatorClasses(t *testing.T) {
	if !OpIsNull.IsUnary() || OpEq.IsUnary() {
		t.Fatal("unary classification wrong")
	}
	if !OpNotIn.IsList() || OpLike.IsList() {
		t.Fatal("list classification wrong")
	}
	if !OpNotILike.IsPattern() || OpGte.IsPattern() {
		t.Fatal("pattern classification wrong")
	}
	if !OpLte.IsOrdering() || OpIn.IsOrdering() {
		t.Fatal("ordering classification wrong")
	}
}
