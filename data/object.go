package data

import "slices"

// Object is an ordered string-keyed record, the plain object both engines
// make reactive. Key enumeration follows insertion order.
type Object struct {
	keys  []string
	props map[string]*property
}

func NewObject() *Object {
	return &Object{props: map[string]*property{}}
}

func (o *Object) Get(key string) any {
	p, ok := o.props[key]
	if !ok {
		return nil
	}
	return p.get()
}

func (o *Object) Set(key string, value any) {
	p, ok := o.props[key]
	if !ok {
		o.keys = append(o.keys, key)
		o.props[key] = &property{value: value}
		return
	}
	p.set(value)
}

func (o *Object) Has(key string) bool {
	_, ok := o.props[key]
	return ok
}

func (o *Object) Delete(key string) {
	if _, ok := o.props[key]; !ok {
		return
	}
	delete(o.props, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

func (o *Object) Len() int {
	return len(o.keys)
}

// DefineProperty installs an accessor for key, replacing whatever slot was
// there. A new key is appended to the enumeration order.
func (o *Object) DefineProperty(key string, a Accessor) bool {
	p, ok := o.props[key]
	if !ok {
		o.keys = append(o.keys, key)
		o.props[key] = &property{accessor: a}
		return true
	}
	p.value = nil
	p.accessor = a
	return true
}

// Lookup returns the accessor installed for key, if any.
func (o *Object) Lookup(key string) (Accessor, bool) {
	p, ok := o.props[key]
	if !ok || p.accessor == nil {
		return nil, false
	}
	return p.accessor, true
}
