package observe

import (
	"slices"

	"github.com/delaneyj/reactiveparty/data"
)

// Computed declares a derived model key. Its getter runs on every read and
// creates no watcher of its own: the reads it performs are attributed to
// whatever computation is active.
type Computed interface {
	getter() func(m *Model) any
}

type ComputedFunc func(m *Model) any

func (f ComputedFunc) getter() func(m *Model) any { return f }

// ComputedAccessor is the object-shaped declaration; only Get is used.
type ComputedAccessor struct {
	Get func(m *Model) any
}

func (c ComputedAccessor) getter() func(m *Model) any { return c.Get }

type Options struct {
	Data     *data.Object
	Computed map[string]Computed
	Mounted  func(m *Model)
}

// Model exposes every top-level data key directly, forwarding to the
// observed backing object, so m.Get(k) and m.Data().Get(k) hit the same
// reactive slot.
type Model struct {
	*data.Object

	rt   *Runtime
	data *data.Object
}

func NewModel(rt *Runtime, opts Options) *Model {
	backing := opts.Data
	if backing == nil {
		backing = data.NewObject()
	}
	m := &Model{
		Object: data.NewObject(),
		rt:     rt,
		data:   backing,
	}

	Observe(rt, backing)
	for _, key := range backing.Keys() {
		m.DefineProperty(key, &forward{target: backing, key: key})
	}

	keys := make([]string, 0, len(opts.Computed))
	for k := range opts.Computed {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		m.DefineProperty(key, &computedProperty{m: m, get: opts.Computed[key].getter()})
	}

	if opts.Mounted != nil {
		opts.Mounted(m)
	}
	return m
}

func (m *Model) Data() *data.Object { return m.data }

func (m *Model) Runtime() *Runtime { return m.rt }

// Watch creates a watcher rooted at the model.
func (m *Model) Watch(path string, fn func(value any)) (*Watcher, error) {
	return NewWatcher(m.rt, m, path, fn)
}

type forward struct {
	target data.Container
	key    string
}

func (f *forward) Get() any  { return f.target.Get(f.key) }
func (f *forward) Set(v any) { f.target.Set(f.key, v) }

type computedProperty struct {
	m   *Model
	get func(m *Model) any
}

func (c *computedProperty) Get() any {
	if c.get == nil {
		return nil
	}
	return c.get(c.m)
}

// writes to computed keys are dropped
func (c *computedProperty) Set(any) {}
