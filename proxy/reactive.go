package proxy

import (
	"strconv"

	"github.com/delaneyj/reactiveparty/data"
)

// Reactive returns the wrapper for target. Non-containers, nil containers
// and containers whose type cannot key a map come back unchanged, as do
// wrappers this runtime created. A raw container is wrapped at most once.
func Reactive(rt *Runtime, target any) any {
	c, ok := data.AsContainer(target)
	if !ok || !data.HasIdentity(c) {
		return target
	}
	if p, ok := rt.toProxy[c]; ok {
		return p
	}
	if p, ok := c.(*Proxy); ok {
		if _, known := rt.toRaw[p]; known {
			return p
		}
	}

	p := &Proxy{rt: rt, raw: c}
	rt.toProxy[c] = p
	rt.toRaw[p] = c
	return p
}

// Wrap is Reactive for callers that already hold a container. It returns nil
// when c cannot be wrapped.
func Wrap(rt *Runtime, c data.Container) *Proxy {
	p, _ := Reactive(rt, c).(*Proxy)
	return p
}

// ToRaw unwraps v if it is a wrapper of this runtime.
func ToRaw(rt *Runtime, v any) any {
	if p, ok := v.(*Proxy); ok {
		if raw, known := rt.toRaw[p]; known {
			return raw
		}
	}
	return v
}

// Proxy intercepts reads and writes on a raw container. Nested containers
// are wrapped the first time they are read.
type Proxy struct {
	rt  *Runtime
	raw data.Container
}

func (p *Proxy) Raw() data.Container { return p.raw }

func (p *Proxy) IsArray() bool { return data.IsArray(p.raw) }

func (p *Proxy) Get(key string) any {
	v := p.raw.Get(key)
	p.rt.Track(p.raw, key)
	if data.IsObject(v) {
		return Reactive(p.rt, v)
	}
	return v
}

// Set stores value and triggers OpAdd for a new key or OpEdit for a changed
// one. Wrappers are unwrapped before they reach the raw container. A write
// the container drops (a non-index key on an array) triggers nothing.
func (p *Proxy) Set(key string, value any) {
	value = ToRaw(p.rt, value)
	had := p.raw.Has(key)
	old := p.raw.Get(key)
	p.raw.Set(key, value)

	switch {
	case !p.raw.Has(key):
	case !had:
		p.rt.Trigger(p.raw, OpAdd, key)
	case !data.Same(old, value):
		p.rt.Trigger(p.raw, OpEdit, key)
	}
}

// Delete removes key without triggering anything; deletions are not
// observable.
func (p *Proxy) Delete(key string) {
	p.raw.Delete(key)
}

func (p *Proxy) Has(key string) bool { return p.raw.Has(key) }

func (p *Proxy) Keys() []string { return p.raw.Keys() }

// Push appends through the interception layer: it reads length, writes each
// new index and then writes length. On arrays the length write is a no-op
// because the index writes already grew the array. Push on a non-array does
// nothing.
func (p *Proxy) Push(values ...any) int {
	if !p.IsArray() {
		return 0
	}
	n, _ := p.Get(data.LengthKey).(int)
	for i, v := range values {
		p.Set(strconv.Itoa(n+i), v)
	}
	p.Set(data.LengthKey, n+len(values))
	return n + len(values)
}
