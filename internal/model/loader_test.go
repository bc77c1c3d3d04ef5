package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"QrestAPI/internal/filter"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	full := filepath.Join(dir, name)
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", full, err)
	}
	return full
}

// Хелпер: получить ресурс из Registry
func getResource(t *testing.T, name string) *Resource {
	t.Helper()
	r, ok := Registry[name]
	if !ok || r == nil {
		t.Fatalf("resource %q not found in Registry", name)
	}
	return r
}

func TestLoadResourcesFromDir_ShorthandAndFullForm(t *testing.T) {
	dir := t.TempDir()

	yaml := `
table: earthquakes
fields:
  id: int
  magnitude: float
  title: string
  tsunami: bool
  occurred_at: datetime
  alert:
    type: enum
    enum: [green, yellow, orange, red]
  status:
    type: string
    ops: eq, neq, isnull, isnotnull
`
	write(t, dir, "earthquakes.yml", yaml)
	Registry = map[string]*Resource{}

	if err := InitRegistry(dir); err != nil {
		t.Fatalf("InitRegistry: %v", err)
	}
	r := getResource(t, "earthquakes")

	if r.Table != "earthquakes" || r.TenantColumn != "" {
		t.Fatalf("resource parsed wrong: %#v", r)
	}
	if f, _ := r.Field("magnitude"); f == nil || f.Type != KindFloat {
		t.Fatalf("shorthand field parsed wrong: %#v", f)
	}
	if f, _ := r.Field("alert"); f == nil || f.Type != KindEnum || len(f.Enum) != 4 {
		t.Fatalf("enum field parsed wrong: %#v", f)
	}

	// Явный список операторов сужает набор
	status, _ := r.Field("status")
	if status.Allows(filter.OpILike) || !status.Allows(filter.OpNeq) {
		t.Fatalf("explicit ops not applied: %#v", status.Ops)
	}

	// Набор по умолчанию для float включает сравнения, но не шаблоны
	mag, _ := r.Field("magnitude")
	if !mag.Allows(filter.OpGte) || mag.Allows(filter.OpILike) {
		t.Fatal("default ops for float applied wrong")
	}
}

func TestLoadResourcesFromDir_TenantResource(t *testing.T) {
	dir := t.TempDir()

	yaml := `
table: users
tenant_column: organization_id
fields:
  id: int
  organization_id: int
  email: string
`
	write(t, dir, "users.yml", yaml)
	Registry = map[string]*Resource{}

	if err := InitRegistry(dir); err != nil {
		t.Fatalf("InitRegistry: %v", err)
	}
	r := getResource(t, "users")
	if !r.HasTenant() || r.TenantColumn != "organization_id" {
		t.Fatalf("tenant column parsed wrong: %#v", r)
	}
	if r.GetIDColumn() != "id" {
		t.Fatalf("id column default wrong: %q", r.GetIDColumn())
	}
}

func TestLoadResourcesFromDir_UnknownKeyRejected(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "bad.yml", "table: x\nrelations: {}\nfields:\n  id: int\n")
	Registry = map[string]*Resource{}

	err := LoadResourcesFromDir(dir)
	if err == nil || !strings.Contains(err.Error(), "unknown key 'relations'") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadResourcesFromDir_UnknownTypeRejected(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "bad.yml", "table: x\nfields:\n  id: int\n  payload: jsonb\n")
	Registry = map[string]*Resource{}

	err := LoadResourcesFromDir(dir)
	if err == nil || !strings.Contains(err.Error(), "unknown type value 'jsonb'") {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestLoadResourcesFromDir_EmptyDirRejected(t *testing.T) {
	Registry = map[string]*Resource{}
	if err := LoadResourcesFromDir(t.TempDir()); err == nil {
		t.Fatal("expected error for dir without declarations")
	}
}

func TestLookup_UnknownResource(t *testing.T) {
	Registry = map[string]*Resource{}
	_, err := Lookup("meteorites")
	if !errors.Is(err, ErrUnknownResource) {
		t.Fatalf("expected ErrUnknownResource, got %v", err)
	}
}
