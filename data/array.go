package data

import (
	"math"
	"strconv"
)

const LengthKey = "length"

// MaxLength bounds how far an index or length write may grow an array.
// Larger indices are not array keys and writes to them are dropped.
const MaxLength = 1 << 24

// Array is an index-addressed list. Keys are canonical decimal indices plus
// the virtual "length" key. Deleting an index leaves a hole.
type Array struct {
	items []*property
}

func NewArray(values ...any) *Array {
	a := &Array{}
	a.Push(values...)
	return a
}

func (a *Array) IsArray() bool { return true }

func (a *Array) Len() int { return len(a.items) }

func (a *Array) Index(i int) any {
	if i < 0 || i >= len(a.items) || a.items[i] == nil {
		return nil
	}
	return a.items[i].get()
}

func (a *Array) SetIndex(i int, value any) {
	if i < 0 || i >= MaxLength {
		return
	}
	a.grow(i + 1)
	if a.items[i] == nil {
		a.items[i] = &property{value: value}
		return
	}
	a.items[i].set(value)
}

// Push appends plain values. Appended slots are never accessors.
func (a *Array) Push(values ...any) int {
	for _, v := range values {
		a.items = append(a.items, &property{value: v})
	}
	return len(a.items)
}

func (a *Array) Get(key string) any {
	if key == LengthKey {
		return len(a.items)
	}
	i, ok := ParseIndex(key)
	if !ok {
		return nil
	}
	return a.Index(i)
}

func (a *Array) Set(key string, value any) {
	if key == LengthKey {
		if n, ok := toLength(value); ok {
			a.truncate(n)
		}
		return
	}
	if i, ok := ParseIndex(key); ok {
		a.SetIndex(i, value)
	}
}

func (a *Array) Has(key string) bool {
	if key == LengthKey {
		return true
	}
	i, ok := ParseIndex(key)
	return ok && i < len(a.items) && a.items[i] != nil
}

func (a *Array) Delete(key string) {
	i, ok := ParseIndex(key)
	if !ok || i >= len(a.items) {
		return
	}
	a.items[i] = nil
}

// Keys lists the indices that are not holes. "length" is not enumerable.
func (a *Array) Keys() []string {
	keys := make([]string, 0, len(a.items))
	for i, p := range a.items {
		if p != nil {
			keys = append(keys, strconv.Itoa(i))
		}
	}
	return keys
}

func (a *Array) DefineProperty(key string, acc Accessor) bool {
	i, ok := ParseIndex(key)
	if !ok {
		return false
	}
	a.grow(i + 1)
	a.items[i] = &property{accessor: acc}
	return true
}

func (a *Array) grow(n int) {
	if n > len(a.items) {
		a.items = append(a.items, make([]*property, n-len(a.items))...)
	}
}

func (a *Array) truncate(n int) {
	if n < len(a.items) {
		clear(a.items[n:])
		a.items = a.items[:n]
		return
	}
	a.grow(n)
}

// ParseIndex accepts only canonical decimal indices below MaxLength.
func ParseIndex(key string) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= MaxLength || strconv.Itoa(i) != key {
		return 0, false
	}
	return i, true
}

func toLength(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, n >= 0 && n <= MaxLength
	case int64:
		if n < 0 || n > MaxLength {
			return 0, false
		}
		return int(n), true
	case uint:
		if n > MaxLength {
			return 0, false
		}
		return int(n), true
	case float64:
		if n < 0 || n > MaxLength || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
