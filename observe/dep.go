package observe

import (
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Dep is the dependency list of a single property.
type Dep struct {
	rt      *Runtime
	key     string
	members mapset.Set[*Watcher]
	subs    []*Watcher
}

func newDep(rt *Runtime, key string) *Dep {
	return &Dep{
		rt:      rt,
		key:     key,
		members: mapset.NewThreadUnsafeSet[*Watcher](),
	}
}

func (d *Dep) Key() string { return d.key }

func (d *Dep) Len() int { return len(d.subs) }

func (d *Dep) depend() {
	if w := d.rt.Active(); w != nil {
		d.addSub(w)
	}
}

func (d *Dep) addSub(w *Watcher) {
	if !d.members.Add(w) {
		return
	}
	d.subs = append(d.subs, w)
	w.deps = append(w.deps, d)
}

func (d *Dep) removeSub(w *Watcher) {
	if !d.members.Contains(w) {
		return
	}
	d.members.Remove(w)
	d.subs = slices.DeleteFunc(d.subs, func(s *Watcher) bool { return s == w })
}

func (d *Dep) notify() {
	rt := d.rt
	if rt.onNotify != nil {
		rt.onNotify(d.key, len(d.subs))
	}
	if len(d.subs) == 0 {
		return
	}
	if rt.depth >= rt.maxDepth {
		rt.reportError(nil, fmt.Errorf("notifying %q: %w", d.key, ErrMaxDepth))
		return
	}
	rt.depth++
	defer func() { rt.depth-- }()

	// watchers may subscribe or tear down while we iterate
	for _, w := range slices.Clone(d.subs) {
		if err := w.Update(); err != nil {
			rt.reportError(w, err)
		}
	}
}
