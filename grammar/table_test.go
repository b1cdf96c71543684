package grammar

import (
	"slices"
	"testing"
)

func TestTableKeepsInsertionOrder(t *testing.T) {
	table := NewTable[int]()
	for i, name := range []string{"zeta", "alpha", "mid"} {
		if _, ok := table.Add(name, i); !ok {
			t.Fatalf("Add(%q) rejected", name)
		}
	}

	want := []string{"zeta", "alpha", "mid"}
	if got := table.Names(); !slices.Equal(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}

	var seen []string
	for name := range table.All() {
		seen = append(seen, name)
	}
	if !slices.Equal(seen, want) {
		t.Errorf("All = %v, want %v", seen, want)
	}
}

func TestTableAddKeepsFirstEntry(t *testing.T) {
	table := NewTable[string]()
	table.Add("A", "first")

	old, ok := table.Add("A", "second")
	if ok {
		t.Fatalf("second Add succeeded")
	}
	if old != "first" {
		t.Errorf("Add returned %q, want the first entry", old)
	}
	if v, _ := table.Get("A"); v != "first" {
		t.Errorf("Get = %q, want first", v)
	}
}

func TestLocations(t *testing.T) {
	if got := ManyLocations(nil).Kind(); got != LocationNone {
		t.Errorf("ManyLocations(nil).Kind = %v, want none", got)
	}
	one := ManyLocations([]Range{{1, 2}})
	if one.Kind() != LocationOne {
		t.Errorf("single range Kind = %v, want one", one.Kind())
	}
	many := ManyLocations([]Range{{1, 2}, {5, 9}})
	if many.Kind() != LocationMany || len(many.All()) != 2 {
		t.Errorf("many = %+v", many)
	}
	if r, ok := many.First(); !ok || r != (Range{1, 2}) {
		t.Errorf("First = %v, %v", r, ok)
	}
}
