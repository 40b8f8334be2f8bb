package records

import "iter"

// Table is an id-keyed collection that iterates in insertion order.
// A nil *Table behaves as an empty one.
type Table[T any] struct {
	rows  map[int]T
	order []int
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{rows: make(map[int]T)}
}

// Add stores v under id. Re-adding an id replaces the value and keeps its original position.
func (t *Table[T]) Add(id int, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *Table[T]) Get(id int) (T, bool) {
	if t == nil {
		var zero T
		return zero, false
	}
	v, ok := t.rows[id]
	return v, ok
}

func (t *Table[T]) Has(id int) bool {
	_, ok := t.Get(id)
	return ok
}

func (t *Table[T]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

func (t *Table[T]) IDs() []int {
	if t == nil {
		return nil
	}
	return append([]int(nil), t.order...)
}

func (t *Table[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if t == nil {
			return
		}
		for _, id := range t.order {
			if !yield(id, t.rows[id]) {
				return
			}
		}
	}
}
