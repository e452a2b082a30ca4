package observe_test

import (
	"testing"

	"github.com/delaneyj/reactiveparty/data"
	"github.com/delaneyj/reactiveparty/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuntime(t *testing.T) *observe.Runtime {
	return observe.NewRuntime(func(w *observe.Watcher, err error) {
		assert.FailNow(t, err.Error())
	})
}

func object(kv map[string]any) *data.Object {
	return data.FromValue(kv).(*data.Object)
}

func TestWatcher(t *testing.T) {
	t.Run("re-runs on change", func(t *testing.T) {
		rt := newRuntime(t)
		obj := object(map[string]any{"n": 1})
		observe.Observe(rt, obj)

		var seen []any
		w, err := observe.NewWatcher(rt, obj, "n", func(v any) {
			seen = append(seen, v)
		})
		require.NoError(t, err)
		assert.Equal(t, 1, w.Value())
		assert.Equal(t, 1, w.Deps())

		obj.Set("n", 1)
		obj.Set("n", 2)
		obj.Set("n", 3)
		assert.Equal(t, []any{2, 3}, seen)
		assert.Equal(t, 3, w.Value())
	})

	t.Run("reading twice subscribes once", func(t *testing.T) {
		rt := newRuntime(t)
		obj := object(map[string]any{"n": 1})
		m := observe.NewModel(rt, observe.Options{
			Data: obj,
			Computed: map[string]observe.Computed{
				"double": observe.ComputedFunc(func(m *observe.Model) any {
					return m.Get("n").(int) + m.Get("n").(int)
				}),
			},
		})

		runs := 0
		_, err := m.Watch("double", func(any) { runs++ })
		require.NoError(t, err)

		m.Set("n", 2)
		assert.Equal(t, 1, runs)
	})

	t.Run("silent reads register nothing", func(t *testing.T) {
		rt := newRuntime(t)
		obj := object(map[string]any{"a": 1, "b": 1})
		observe.Observe(rt, obj)

		subs := map[string]int{}
		rt.OnNotify(func(key string, n int) { subs[key] = n })

		runs := 0
		_, err := observe.NewWatcher(rt, obj, "a", func(any) { runs++ })
		require.NoError(t, err)

		obj.Get("b")
		obj.Set("b", 2)
		assert.Equal(t, 0, runs)
		assert.Equal(t, 0, subs["b"])
	})

	t.Run("nested paths", func(t *testing.T) {
		rt := newRuntime(t)
		obj := object(map[string]any{
			"a": map[string]any{"b": 1},
		})
		observe.Observe(rt, obj)

		var seen []any
		_, err := observe.NewWatcher(rt, obj, "a.b", func(v any) { seen = append(seen, v) })
		require.NoError(t, err)

		obj.Get("a").(data.Container).Set("b", 2)
		assert.Equal(t, []any{2}, seen)

		replacement := object(map[string]any{"b": 10})
		obj.Set("a", replacement)
		assert.Equal(t, []any{2, 10}, seen)
		_, ok := replacement.Lookup("b")
		assert.True(t, ok, "assigned objects are observed")

		// subscriptions are collected once, at construction
		replacement.Set("b", 11)
		assert.Equal(t, []any{2, 10}, seen)
	})

	t.Run("missing path segment", func(t *testing.T) {
		rt := newRuntime(t)
		obj := object(map[string]any{"a": 1})
		observe.Observe(rt, obj)

		_, err := observe.NewWatcher(rt, obj, "x.y", nil)
		assert.ErrorIs(t, err, data.ErrNotContainer)
		assert.Nil(t, rt.Active())
	})

	t.Run("update errors reach the handler", func(t *testing.T) {
		var got []error
		rt := observe.NewRuntime(func(w *observe.Watcher, err error) {
			got = append(got, err)
		})
		obj := object(map[string]any{
			"a": map[string]any{"b": 1},
		})
		observe.Observe(rt, obj)
		_, err := observe.NewWatcher(rt, obj, "a.b", nil)
		require.NoError(t, err)

		obj.Set("a", 5)
		require.Len(t, got, 1)
		assert.ErrorIs(t, got[0], data.ErrNotContainer)
	})

	t.Run("watchers re-run in subscription order", func(t *testing.T) {
		rt := newRuntime(t)
		obj := object(map[string]any{"n": 1})
		observe.Observe(rt, obj)

		var order []string
		watchers := map[string]*observe.Watcher{}
		for _, name := range []string{"A", "B", "C"} {
			w, err := observe.NewWatcher(rt, obj, "n", func(any) { order = append(order, name) })
			require.NoError(t, err)
			watchers[name] = w
		}

		obj.Set("n", 2)
		assert.Equal(t, []string{"A", "B", "C"}, order)

		order = nil
		watchers["B"].Teardown()
		obj.Set("n", 3)
		assert.Equal(t, []string{"A", "C"}, order)
	})

	t.Run("teardown", func(t *testing.T) {
		rt := newRuntime(t)
		obj := object(map[string]any{"n": 1})
		observe.Observe(rt, obj)

		runs := 0
		w, err := observe.NewWatcher(rt, obj, "n", func(any) { runs++ })
		require.NoError(t, err)

		w.Teardown()
		obj.Set("n", 2)
		assert.Equal(t, 0, runs)
		assert.Equal(t, 0, w.Deps())
	})

	t.Run("stack survives a panicking read", func(t *testing.T) {
		rt := newRuntime(t)
		m := observe.NewModel(rt, observe.Options{
			Data: object(map[string]any{"n": 1}),
			Computed: map[string]observe.Computed{
				"boom": observe.ComputedFunc(func(*observe.Model) any { panic("boom") }),
			},
		})

		assert.PanicsWithValue(t, "boom", func() {
			m.Watch("boom", nil)
		})
		assert.Nil(t, rt.Active())

		runs := 0
		m.Get("n")
		_, err := m.Watch("n", func(any) { runs++ })
		require.NoError(t, err)
		m.Set("n", 2)
		assert.Equal(t, 1, runs)
	})

	t.Run("nested construction restores the outer watcher", func(t *testing.T) {
		rt := newRuntime(t)
		var m *observe.Model
		m = observe.NewModel(rt, observe.Options{
			Data: object(map[string]any{"a": 1, "b": 1}),
			Computed: map[string]observe.Computed{
				"inner": observe.ComputedAccessor{Get: func(m *observe.Model) any {
					_, err := m.Watch("b", nil)
					require.NoError(t, err)
					return m.Get("a")
				}},
			},
		})

		runs := 0
		_, err := m.Watch("inner", func(any) { runs++ })
		require.NoError(t, err)

		m.Set("a", 2)
		assert.Equal(t, 1, runs)
	})

	t.Run("runaway re-entry is cut off", func(t *testing.T) {
		var got []error
		rt := observe.NewRuntime(func(w *observe.Watcher, err error) {
			got = append(got, err)
		})
		rt.SetMaxNotifyDepth(5)
		obj := object(map[string]any{"n": 0})
		observe.Observe(rt, obj)

		runs := 0
		_, err := observe.NewWatcher(rt, obj, "n", func(v any) {
			runs++
			obj.Set("n", v.(int)+1)
		})
		require.NoError(t, err)

		obj.Set("n", 1)
		assert.Equal(t, 5, runs)
		assert.Equal(t, 6, obj.Get("n"))
		require.Len(t, got, 1)
		assert.ErrorIs(t, got[0], observe.ErrMaxDepth)
	})
}

type record struct {
	*data.Object
}

func TestObserve(t *testing.T) {
	t.Run("nil containers are ignored", func(t *testing.T) {
		rt := newRuntime(t)
		assert.NotPanics(t, func() {
			observe.Observe(rt, (*data.Object)(nil))
			observe.Observe(rt, (*data.Array)(nil))
			observe.Observe(rt, (*record)(nil))
		})

		obj := object(map[string]any{"a": 1})
		observe.Observe(rt, obj)
		var seen []any
		_, err := observe.NewWatcher(rt, obj, "a", func(v any) { seen = append(seen, v) })
		require.NoError(t, err)

		assert.NotPanics(t, func() {
			obj.Set("a", (*data.Array)(nil))
		})
		obj.Set("a", data.NewArray(1))
		require.Len(t, seen, 2)
		assert.Nil(t, seen[0])
		assert.True(t, rt.IsObserved(seen[1].(*data.Array)))
	})

	t.Run("any definer is observed", func(t *testing.T) {
		rt := newRuntime(t)
		rec := &record{Object: object(map[string]any{"a": 1})}
		observe.Observe(rt, rec)
		assert.True(t, rt.IsObserved(rec))

		runs := 0
		_, err := observe.NewWatcher(rt, rec, "a", func(any) { runs++ })
		require.NoError(t, err)
		rec.Set("a", 2)
		assert.Equal(t, 1, runs)
	})

	t.Run("models are not walked", func(t *testing.T) {
		rt := newRuntime(t)
		m := observe.NewModel(rt, observe.Options{Data: object(map[string]any{"a": 1})})
		observe.Observe(rt, m)
		assert.False(t, rt.IsObserved(m))
		assert.True(t, rt.IsObserved(m.Data()))
	})

	t.Run("non objects are ignored", func(t *testing.T) {
		rt := newRuntime(t)
		assert.NotPanics(t, func() {
			observe.Observe(rt, nil)
			observe.Observe(rt, 42)
			observe.Observe(rt, "str")
			observe.Observe(rt, map[string]any{"a": 1})
		})
	})

	t.Run("properties added later are not intercepted", func(t *testing.T) {
		rt := newRuntime(t)
		obj := object(map[string]any{"a": 1})
		observe.Observe(rt, obj)

		notified := 0
		rt.OnNotify(func(string, int) { notified++ })

		obj.Set("late", 1)
		runs := 0
		_, err := observe.NewWatcher(rt, obj, "late", func(any) { runs++ })
		require.NoError(t, err)

		obj.Set("late", 2)
		assert.Equal(t, 0, runs)
		assert.Equal(t, 0, notified)
		_, ok := obj.Lookup("late")
		assert.False(t, ok)
	})

	t.Run("cycles terminate", func(t *testing.T) {
		rt := newRuntime(t)
		obj := object(map[string]any{"x": 1})
		obj.Set("self", obj)

		observe.Observe(rt, obj)
		assert.True(t, rt.IsObserved(obj))

		runs := 0
		_, err := observe.NewWatcher(rt, obj, "self.self.x", func(any) { runs++ })
		require.NoError(t, err)
		obj.Set("x", 2)
		assert.Equal(t, 1, runs)
	})

	t.Run("observing twice keeps subscriptions", func(t *testing.T) {
		rt := newRuntime(t)
		obj := object(map[string]any{"n": 1})
		observe.Observe(rt, obj)

		runs := 0
		_, err := observe.NewWatcher(rt, obj, "n", func(any) { runs++ })
		require.NoError(t, err)

		observe.Observe(rt, obj)
		obj.Set("n", 2)
		assert.Equal(t, 1, runs)
	})

	t.Run("arrays track indices but not length", func(t *testing.T) {
		rt := newRuntime(t)
		obj := object(map[string]any{"list": []any{1, 2}})
		observe.Observe(rt, obj)
		list := obj.Get("list").(*data.Array)

		var items, lengths []any
		_, err := observe.NewWatcher(rt, obj, "list.1", func(v any) { items = append(items, v) })
		require.NoError(t, err)
		_, err = observe.NewWatcher(rt, obj, "list.length", func(v any) { lengths = append(lengths, v) })
		require.NoError(t, err)

		list.Set("1", 20)
		list.Push(3)
		list.Set("length", 1)
		assert.Equal(t, []any{20}, items)
		assert.Empty(t, lengths)
		assert.Equal(t, 1, list.Len())
	})
}

func TestModel(t *testing.T) {
	t.Run("forwards to the same reactive slot", func(t *testing.T) {
		rt := newRuntime(t)
		backing := object(map[string]any{"a": 1})
		m := observe.NewModel(rt, observe.Options{Data: backing})

		var seen []any
		_, err := m.Watch("a", func(v any) { seen = append(seen, v) })
		require.NoError(t, err)

		m.Set("a", 2)
		backing.Set("a", 3)
		assert.Equal(t, []any{2, 3}, seen)
		assert.Equal(t, m.Get("a"), m.Data().Get("a"))
		assert.Same(t, rt, m.Runtime())
	})

	t.Run("keys added to data later are not proxied", func(t *testing.T) {
		rt := newRuntime(t)
		m := observe.NewModel(rt, observe.Options{Data: object(map[string]any{"a": 1})})
		m.Data().Set("b", 2)
		assert.False(t, m.Has("b"))
		assert.Nil(t, m.Get("b"))
	})

	t.Run("computed keys free-ride on their reads", func(t *testing.T) {
		rt := newRuntime(t)
		m := observe.NewModel(rt, observe.Options{
			Data: object(map[string]any{"a": 1, "b": 2}),
			Computed: map[string]observe.Computed{
				"sum": observe.ComputedFunc(func(m *observe.Model) any {
					return m.Get("a").(int) + m.Get("b").(int)
				}),
				"label": observe.ComputedAccessor{Get: func(m *observe.Model) any {
					return "a is " + data.Format(m.Get("a"))
				}},
			},
		})
		assert.Equal(t, 3, m.Get("sum"))

		var sums, labels []any
		_, err := m.Watch("sum", func(v any) { sums = append(sums, v) })
		require.NoError(t, err)
		_, err = m.Watch("label", func(v any) { labels = append(labels, v) })
		require.NoError(t, err)

		m.Set("a", 10)
		m.Set("b", 5)
		m.Set("sum", 100)
		assert.Equal(t, []any{12, 15}, sums)
		assert.Equal(t, []any{"a is 10"}, labels)
		assert.Equal(t, 15, m.Get("sum"))
	})

	t.Run("mounted runs after setup", func(t *testing.T) {
		rt := newRuntime(t)
		var mountedWith any
		observe.NewModel(rt, observe.Options{
			Data: object(map[string]any{"a": 1}),
			Mounted: func(m *observe.Model) {
				mountedWith = m.Get("a")
			},
		})
		assert.Equal(t, 1, mountedWith)
	})
}
