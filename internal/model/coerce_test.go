package model

import (
	"errors"
	"testing"
	"time"
)

func TestCoerce_Scalars(t *testing.T) {
	intF := &FieldSpec{Name: "significance", Type: KindInt}
	if v, err := intF.Coerce("600"); err != nil || v.(int64) != 600 {
		t.Fatalf("int coerce: %v %v", v, err)
	}
	if _, err := intF.Coerce("6.5"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}

	floatF := &FieldSpec{Name: "magnitude", Type: KindFloat}
	if v, err := floatF.Coerce("5.0"); err != nil || v.(float64) != 5.0 {
		t.Fatalf("float coerce: %v %v", v, err)
	}
	if _, err := floatF.Coerce("strong"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}

	strF := &FieldSpec{Name: "title", Type: KindString}
	if v, err := strF.Coerce("M 5.0 - Japan"); err != nil || v.(string) != "M 5.0 - Japan" {
		t.Fatalf("string coerce: %v %v", v, err)
	}
}

func TestCoerce_BoolSpellings(t *testing.T) {
	f := &FieldSpec{Name: "tsunami", Type: KindBool}
	for _, raw := range []string{"true", "True", "YES", "y", "1"} {
		v, err := f.Coerce(raw)
		if err != nil || v.(bool) != true {
			t.Fatalf("%q: %v %v", raw, v, err)
		}
	}
	for _, raw := range []string{"false", "no", "N", "0"} {
		v, err := f.Coerce(raw)
		if err != nil || v.(bool) != false {
			t.Fatalf("%q: %v %v", raw, v, err)
		}
	}
	if _, err := f.Coerce("да"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestCoerce_DateTimeFormats(t *testing.T) {
	f := &FieldSpec{Name: "occurred_at", Type: KindDateTime}
	want := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	cases := []string{
		"2024-01-02T15:04:05Z",
		"2024-01-02 15:04:05",
		"1704207845",     // epoch seconds
		"1704207845000",  // epoch millis
	}
	for _, raw := range cases {
		v, err := f.Coerce(raw)
		if err != nil {
			t.Fatalf("%q: %v", raw, err)
		}
		if !v.(time.Time).Equal(want) {
			t.Fatalf("%q: got %v, want %v", raw, v, want)
		}
	}

	if v, err := f.Coerce("2024-01-02"); err != nil || !v.(time.Time).Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date-only coerce: %v %v", v, err)
	}
	if _, err := f.Coerce("вчера"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestCoerce_Enum(t *testing.T) {
	f := &FieldSpec{Name: "alert", Type: KindEnum, Enum: StringList{"green", "yellow", "orange", "red"}}
	if v, err := f.Coerce("red"); err != nil || v.(string) != "red" {
		t.Fatalf("enum coerce: %v %v", v, err)
	}
	if _, err := f.Coerce("purple"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
	// регистр значим
	if _, err := f.Coerce("Red"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}
