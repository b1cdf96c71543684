package grammar

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Table is a name-keyed symbol table that remembers insertion order, so
// passes over it (and the problems they report) are deterministic.
//
// Tables are filled by the parsers. Documents hand them out read-only.
type Table[V any] struct {
	entries *orderedmap.OrderedMap[string, V]
}

func NewTable[V any]() *Table[V] {
	return &Table[V]{entries: orderedmap.New[string, V]()}
}

func (t *Table[V]) Get(name string) (V, bool) {
	return t.entries.Get(name)
}

func (t *Table[V]) Has(name string) bool {
	_, ok := t.entries.Get(name)
	return ok
}

// Add inserts v under name unless the name is taken. It returns the entry
// already present and false in that case.
func (t *Table[V]) Add(name string, v V) (V, bool) {
	if old, ok := t.entries.Get(name); ok {
		return old, false
	}
	t.entries.Set(name, v)
	return v, true
}

func (t *Table[V]) Delete(name string) {
	t.entries.Delete(name)
}

func (t *Table[V]) Len() int {
	return t.entries.Len()
}

func (t *Table[V]) Names() []string {
	names := make([]string, 0, t.entries.Len())
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// All iterates the table in insertion order.
func (t *Table[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

func (t *Table[V]) MarshalJSON() ([]byte, error) {
	return t.entries.MarshalJSON()
}
