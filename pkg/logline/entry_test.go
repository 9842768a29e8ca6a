package logline

import (
	"testing"
	"time"
)

func TestNew_CopiesFieldMap(t *testing.T) {
	fields := map[string]any{"method": "GET", "status": int64(200)}
	e := New("access", fields, 7, `GET /index 200`)

	// Mutating the source map must not leak into the entry.
	fields["method"] = "POST"
	fields["injected"] = true

	if v, _ := e.Field("method"); v != "GET" {
		t.Errorf("Field(method) = %v, want GET", v)
	}
	if e.Has("injected") {
		t.Error("entry picked up a field added after construction")
	}
}

func TestEntry_Accessors(t *testing.T) {
	e := New("completed", map[string]any{
		"duration": 150 * time.Millisecond,
		"status":   int64(200),
	}, 42, "Completed in 150ms | 200 OK")

	if e.Type() != "completed" {
		t.Errorf("Type() = %q, want completed", e.Type())
	}
	if e.LineNo() != 42 {
		t.Errorf("LineNo() = %d, want 42", e.LineNo())
	}
	if e.Raw() != "Completed in 150ms | 200 OK" {
		t.Errorf("Raw() = %q", e.Raw())
	}
	if e.Len() != 2 {
		t.Errorf("Len() = %d, want 2", e.Len())
	}

	d, ok := e.Field("duration")
	if !ok || d != 150*time.Millisecond {
		t.Errorf("Field(duration) = %v, %v", d, ok)
	}
	if _, ok := e.Field("absent"); ok {
		t.Error("Field(absent) reported present")
	}
}

func TestEntry_FieldsReturnsCopy(t *testing.T) {
	e := New("access", map[string]any{"path": "/a"}, 1, "")

	m := e.Fields()
	m["path"] = "/b"

	if v, _ := e.Field("path"); v != "/a" {
		t.Errorf("entry mutated through Fields() copy: path = %v", v)
	}
}

func TestEntry_FieldNamesSorted(t *testing.T) {
	e := New("access", map[string]any{"z": 1, "a": 2, "m": 3}, 1, "")

	names := e.FieldNames()
	want := []string{"a", "m", "z"}
	if len(names) != len(want) {
		t.Fatalf("FieldNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("FieldNames() = %v, want %v", names, want)
		}
	}
}
