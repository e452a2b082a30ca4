package data

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// FromValue converts decoded documents (map[string]any, []any) into Objects
// and Arrays. Map keys are sorted since Go maps carry no order.
func FromValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		o := NewObject()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			o.Set(k, FromValue(t[k]))
		}
		return o
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = val
		}
		return FromValue(m)
	case []any:
		a := NewArray()
		for _, item := range t {
			a.Push(FromValue(item))
		}
		return a
	}
	return v
}

// ToNative is the inverse of FromValue. It reads through Get, so any
// interception layer on the way sees the reads.
func ToNative(v any) any {
	c, ok := AsContainer(v)
	if !ok {
		return v
	}
	if IsArray(c) {
		n, _ := c.Get(LengthKey).(int)
		out := make([]any, n)
		for i := range out {
			out[i] = ToNative(c.Get(strconv.Itoa(i)))
		}
		return out
	}
	out := map[string]any{}
	for _, k := range c.Keys() {
		out[k] = ToNative(c.Get(k))
	}
	return out
}

// Format renders a value compactly, keeping object key order.
func Format(v any) string {
	var sb strings.Builder
	format(&sb, v)
	return sb.String()
}

func format(sb *strings.Builder, v any) {
	if c, ok := v.(Container); ok {
		if t, ok := AsContainer(c); ok {
			formatContainer(sb, t)
		} else {
			sb.WriteString("undefined")
		}
		return
	}
	switch t := v.(type) {
	case nil:
		sb.WriteString("undefined")
	case string:
		sb.WriteString(strconv.Quote(t))
	default:
		fmt.Fprint(sb, t)
	}
}

func formatContainer(sb *strings.Builder, t Container) {
	if IsArray(t) {
		n, _ := t.Get(LengthKey).(int)
		sb.WriteByte('[')
		for i := 0; i < n; i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			format(sb, t.Get(strconv.Itoa(i)))
		}
		sb.WriteByte(']')
		return
	}
	sb.WriteByte('{')
	for i, k := range t.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		format(sb, t.Get(k))
	}
	sb.WriteByte('}')
}
