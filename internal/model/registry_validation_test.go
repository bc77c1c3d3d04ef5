package model

import (
	"strings"
	"testing"

	"QrestAPI/internal/filter"
)

func TestValidate_DefaultOpsPerType(t *testing.T) {
	r := &Resource{
		Name:  "quakes",
		Table: "earthquakes",
		Fields: map[string]*FieldSpec{
			"id":          {Type: KindInt},
			"title":       {Type: KindString},
			"tsunami":     {Type: KindBool},
			"occurred_at": {Type: KindDateTime},
			"alert":       {Type: KindEnum, Enum: StringList{"green", "red"}},
		},
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	title, _ := r.Field("title")
	if !title.Allows(filter.OpILike) || !title.Allows(filter.OpNotLike) {
		t.Fatal("string field must allow pattern ops by default")
	}
	if title.Allows(filter.OpGt) {
		t.Fatal("string field must not allow ordering ops by default")
	}

	tsunami, _ := r.Field("tsunami")
	if tsunami.Allows(filter.OpLt) || tsunami.Allows(filter.OpLike) {
		t.Fatal("bool field allows only common ops")
	}
	if !tsunami.Allows(filter.OpIsNull) {
		t.Fatal("bool field must allow null checks")
	}

	occurred, _ := r.Field("occurred_at")
	if !occurred.Allows(filter.OpGte) || occurred.Allows(filter.OpILike) {
		t.Fatal("datetime default ops wrong")
	}

	alert, _ := r.Field("alert")
	if alert.Allows(filter.OpGt) || !alert.Allows(filter.OpIn) {
		t.Fatal("enum default ops wrong")
	}
}

func TestValidate_ExplicitOrderingOnStringAllowed(t *testing.T) {
	r := &Resource{
		Name:  "quakes",
		Table: "earthquakes",
		Fields: map[string]*FieldSpec{
			"id":    {Type: KindInt},
			"title": {Type: KindString, Ops: StringList{"eq", "gt", "lt"}},
		},
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	title, _ := r.Field("title")
	if !title.Allows(filter.OpGt) {
		t.Fatal("explicitly declared ordering op must be allowed")
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name string
		res  *Resource
		want string
	}{
		{
			name: "pattern op on float",
			res: &Resource{Table: "t", Fields: map[string]*FieldSpec{
				"id":        {Type: KindInt},
				"magnitude": {Type: KindFloat, Ops: StringList{"ilike"}},
			}},
			want: "valid only for string",
		},
		{
			name: "ordering op on bool",
			res: &Resource{Table: "t", Fields: map[string]*FieldSpec{
				"id":      {Type: KindInt},
				"tsunami": {Type: KindBool, Ops: StringList{"gt"}},
			}},
			want: "not valid for bool",
		},
		{
			name: "unknown operator",
			res: &Resource{Table: "t", Fields: map[string]*FieldSpec{
				"id": {Type: KindInt, Ops: StringList{"between"}},
			}},
			want: "unknown operator",
		},
		{
			name: "enum without values",
			res: &Resource{Table: "t", Fields: map[string]*FieldSpec{
				"id":    {Type: KindInt},
				"alert": {Type: KindEnum},
			}},
			want: "enum type requires",
		},
		{
			name: "enum values on plain string",
			res: &Resource{Table: "t", Fields: map[string]*FieldSpec{
				"id":    {Type: KindInt},
				"title": {Type: KindString, Enum: StringList{"a"}},
			}},
			want: "allowed only for enum",
		},
		{
			name: "undeclared tenant column",
			res: &Resource{Table: "t", TenantColumn: "organization_id", Fields: map[string]*FieldSpec{
				"id": {Type: KindInt},
			}},
			want: "tenant column",
		},
		{
			name: "undeclared id column",
			res: &Resource{Table: "t", Fields: map[string]*FieldSpec{
				"uid": {Type: KindInt},
			}},
			want: "id column",
		},
		{
			name: "non-int id column",
			res: &Resource{Table: "t", Fields: map[string]*FieldSpec{
				"id": {Type: KindString},
			}},
			want: "must be int",
		},
		{
			name: "missing table",
			res:  &Resource{Fields: map[string]*FieldSpec{"id": {Type: KindInt}}},
			want: "missing table",
		},
	}

	for _, tc := range cases {
		err := tc.res.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}
