package observe

import "github.com/delaneyj/reactiveparty/data"

// Observe walks value depth-first and replaces every own property of any
// data.Definer with an accessor pair backed by a Dep. Everything else is
// ignored: scalars, nil containers, containers without DefineProperty,
// containers whose type cannot be compared, and Models, whose keys already
// forward to observed data. A container is walked at most once per runtime,
// which also makes cyclic graphs safe.
//
// Only what exists now is intercepted: keys added later, array pushes and
// length writes stay plain.
func Observe(rt *Runtime, value any) {
	c, ok := value.(data.Definer)
	if !ok || !data.IsObject(c) || !data.HasIdentity(c) {
		return
	}
	if _, isModel := c.(*Model); isModel {
		return
	}
	if rt.observed.Contains(c) {
		return
	}
	rt.observed.Add(c)

	for _, key := range c.Keys() {
		defineReactive(rt, c, key)
	}
}

func defineReactive(rt *Runtime, c data.Definer, key string) {
	val := c.Get(key)
	Observe(rt, val)
	c.DefineProperty(key, &reactiveProperty{
		rt:  rt,
		dep: newDep(rt, key),
		val: val,
	})
}

type reactiveProperty struct {
	rt  *Runtime
	dep *Dep
	val any
}

func (p *reactiveProperty) Get() any {
	p.dep.depend()
	return p.val
}

func (p *reactiveProperty) Set(v any) {
	if data.Same(v, p.val) {
		return
	}
	p.val = v
	Observe(p.rt, v)
	p.dep.notify()
}
