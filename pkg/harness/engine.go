package harness

import (
	"fmt"

	"github.com/delaneyj/reactiveparty/data"
	"github.com/delaneyj/reactiveparty/observe"
	"github.com/delaneyj/reactiveparty/proxy"
)

const (
	EngineEager = "eager"
	EngineLazy  = "lazy"
)

// Engine adapts one reactive architecture to the scenario runner. onRun is
// called once when a watch is installed and again on every re-run.
type Engine interface {
	Name() string
	Load(doc *data.Object, trace *Trace) error
	Watch(name, path string, onRun func(value any)) error
	Set(path string, value any) error
	Delete(path string) error
	Push(path string, value any) error
}

func NewEngine(name string) (Engine, error) {
	switch name {
	case EngineEager:
		return NewEagerEngine(), nil
	case EngineLazy:
		return NewLazyEngine(), nil
	}
	return nil, fmt.Errorf("unknown engine %q", name)
}

func Engines() []string {
	return []string{EngineEager, EngineLazy}
}

type eagerEngine struct {
	rt    *observe.Runtime
	model *observe.Model
	names map[*observe.Watcher]string
}

// NewEagerEngine runs scenarios on an observe.Model with one Watcher per
// watched path.
func NewEagerEngine() Engine {
	return &eagerEngine{names: map[*observe.Watcher]string{}}
}

func (e *eagerEngine) Name() string { return EngineEager }

func (e *eagerEngine) Load(doc *data.Object, trace *Trace) error {
	e.rt = observe.NewRuntime(func(w *observe.Watcher, err error) {
		trace.add(Event{Kind: EventError, Watcher: e.names[w], Value: err.Error()})
	})
	e.rt.OnNotify(func(key string, subscribers int) {
		trace.add(Event{Kind: EventNotify, Path: key, Value: fmt.Sprint(subscribers)})
	})
	e.model = observe.NewModel(e.rt, observe.Options{Data: doc})
	return nil
}

func (e *eagerEngine) Watch(name, path string, onRun func(value any)) error {
	w, err := e.model.Watch(path, onRun)
	if err != nil {
		return err
	}
	e.names[w] = name
	onRun(w.Value())
	return nil
}

func (e *eagerEngine) Set(path string, value any) error {
	parent, key, err := data.ResolveParent(e.model, path)
	if err != nil {
		return err
	}
	parent.Set(key, value)
	return nil
}

func (e *eagerEngine) Delete(path string) error {
	parent, key, err := data.ResolveParent(e.model, path)
	if err != nil {
		return err
	}
	parent.Delete(key)
	return nil
}

func (e *eagerEngine) Push(path string, value any) error {
	target, err := data.Resolve(e.model, path)
	if err != nil {
		return err
	}
	arr, ok := target.(*data.Array)
	if !ok || arr == nil {
		return fmt.Errorf("push to %q: not an array", path)
	}
	arr.Push(value)
	return nil
}

type lazyEngine struct {
	rt    *proxy.Runtime
	root  *proxy.Proxy
	names map[*proxy.EffectRunner]string
}

// NewLazyEngine runs scenarios on a proxy.Reactive root with one Effect per
// watched path.
func NewLazyEngine() Engine {
	return &lazyEngine{names: map[*proxy.EffectRunner]string{}}
}

func (e *lazyEngine) Name() string { return EngineLazy }

func (e *lazyEngine) Load(doc *data.Object, trace *Trace) error {
	e.rt = proxy.NewRuntime(func(r *proxy.EffectRunner, err error) {
		trace.add(Event{Kind: EventError, Watcher: e.names[r], Value: err.Error()})
	})
	e.rt.OnTrigger(func(_ data.Container, op proxy.TriggerOp, key string) {
		trace.add(Event{Kind: EventTrigger, Op: op.String(), Path: key})
	})
	e.root = proxy.Wrap(e.rt, doc)
	return nil
}

// Watch installs an effect that resolves path and reports the value with
// tracking paused, so formatting the value subscribes to nothing.
func (e *lazyEngine) Watch(name, path string, onRun func(value any)) error {
	var installErr error
	installing := true
	runner := proxy.Effect(e.rt, func() error {
		v, err := data.Resolve(e.root, path)
		if err != nil {
			if installing {
				installErr = err
				return nil
			}
			return fmt.Errorf("updating %q: %w", path, err)
		}

		e.rt.PauseTracking()
		defer e.rt.ResumeTracking()
		onRun(v)
		return nil
	})
	installing = false

	if installErr != nil {
		runner.Stop()
		return fmt.Errorf("watching %q: %w", path, installErr)
	}
	e.names[runner] = name
	return nil
}

func (e *lazyEngine) Set(path string, value any) error {
	parent, key, err := data.ResolveParent(e.root, path)
	if err != nil {
		return err
	}
	parent.Set(key, value)
	return nil
}

func (e *lazyEngine) Delete(path string) error {
	parent, key, err := data.ResolveParent(e.root, path)
	if err != nil {
		return err
	}
	parent.Delete(key)
	return nil
}

func (e *lazyEngine) Push(path string, value any) error {
	target, err := data.Resolve(e.root, path)
	if err != nil {
		return err
	}
	list, ok := target.(*proxy.Proxy)
	if !ok || !list.IsArray() {
		return fmt.Errorf("push to %q: not an array", path)
	}
	list.Push(value)
	return nil
}
