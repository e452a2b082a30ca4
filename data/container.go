package data

import "reflect"

// Container is anything that stores values under string keys. Reads and
// writes always go through these methods, which is what lets an engine
// intercept them.
type Container interface {
	Get(key string) any
	Set(key string, value any)
	Has(key string) bool
	Delete(key string)
	Keys() []string
}

// Accessor is a get/set pair installed in place of a plain value.
type Accessor interface {
	Get() any
	Set(value any)
}

// Definer is a container whose slots can be replaced by accessors.
type Definer interface {
	Container
	DefineProperty(key string, a Accessor) bool
}

// ArrayLike marks containers with array semantics (index keys plus length).
type ArrayLike interface {
	IsArray() bool
}

// AsContainer returns v as a Container. A nil pointer, map or slice behind
// the interface counts as null, not as a container.
func AsContainer(v any) (Container, bool) {
	c, ok := v.(Container)
	if !ok || c == nil {
		return nil, false
	}
	switch rv := reflect.ValueOf(c); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}
	}
	return c, true
}

func IsObject(v any) bool {
	_, ok := AsContainer(v)
	return ok
}

// HasIdentity reports whether c can key an identity map. Containers whose
// dynamic type is not comparable (map or slice based ones) cannot.
func HasIdentity(c Container) bool {
	return c != nil && reflect.TypeOf(c).Comparable()
}

func IsArray(v any) bool {
	a, ok := v.(ArrayLike)
	return ok && a.IsArray()
}

type property struct {
	value    any
	accessor Accessor
}

func (p *property) get() any {
	if p.accessor != nil {
		return p.accessor.Get()
	}
	return p.value
}

func (p *property) set(v any) {
	if p.accessor != nil {
		p.accessor.Set(v)
		return
	}
	p.value = v
}
