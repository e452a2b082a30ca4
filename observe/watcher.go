package observe

import (
	"fmt"

	"github.com/delaneyj/reactiveparty/data"
)

// Watcher is a tracked computation over a dotted property path. It
// subscribes to every property read while resolving the path at
// construction and calls fn with the re-resolved value whenever one of them
// changes. Dependencies are collected once; later re-resolutions do not
// subscribe to anything new.
type Watcher struct {
	rt    *Runtime
	vm    data.Container
	path  string
	fn    func(value any)
	value any
	deps  []*Dep
	done  bool
}

func NewWatcher(rt *Runtime, vm data.Container, path string, fn func(value any)) (*Watcher, error) {
	w := &Watcher{
		rt:   rt,
		vm:   vm,
		path: path,
		fn:   fn,
	}

	value, err := w.collect()
	if err != nil {
		w.Teardown()
		return nil, fmt.Errorf("watching %q: %w", path, err)
	}
	w.value = value
	return w, nil
}

func (w *Watcher) collect() (any, error) {
	w.rt.push(w)
	defer w.rt.pop()
	return data.Resolve(w.vm, w.path)
}

// Update re-resolves the path without tracking and hands the value to fn.
func (w *Watcher) Update() error {
	if w.done {
		return nil
	}
	value, err := w.resolveSilently()
	if err != nil {
		return fmt.Errorf("updating %q: %w", w.path, err)
	}
	w.value = value
	if w.fn != nil {
		w.fn(value)
	}
	return nil
}

func (w *Watcher) resolveSilently() (any, error) {
	w.rt.PauseTracking()
	defer w.rt.ResumeTracking()
	return data.Resolve(w.vm, w.path)
}

func (w *Watcher) Path() string { return w.path }

// Value is the last resolved value.
func (w *Watcher) Value() any { return w.value }

// Deps reports how many properties this watcher is subscribed to.
func (w *Watcher) Deps() int { return len(w.deps) }

// Teardown unsubscribes the watcher everywhere. It never runs again.
func (w *Watcher) Teardown() {
	w.done = true
	for _, d := range w.deps {
		d.removeSub(w)
	}
	w.deps = nil
}
