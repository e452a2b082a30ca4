package proxy

import (
	"errors"

	"github.com/delaneyj/reactiveparty/data"
)

const DefaultMaxNotifyDepth = 100

var ErrMaxDepth = errors.New("max notify depth exceeded")

// OnErrorFunc receives errors returned by effect bodies. e is nil when the
// error does not belong to a single effect.
type OnErrorFunc func(e *EffectRunner, err error)

// OnTriggerFunc observes every trigger, whether or not anything depends on
// the key.
type OnTriggerFunc func(target data.Container, op TriggerOp, key string)

// Runtime owns the wrapper identity maps, the dependency map and the active
// effect stack. Nothing is shared between runtimes. The maps are keyed by
// container identity, so only containers with a comparable dynamic type
// (pointers, in practice) can be wrapped or tracked.
type Runtime struct {
	toProxy map[data.Container]*Proxy
	toRaw   map[*Proxy]data.Container
	targets map[data.Container]map[string]*depSet

	effectStack []*EffectRunner

	onError   OnErrorFunc
	onTrigger OnTriggerFunc

	depth    int
	maxDepth int
}

func NewRuntime(onError OnErrorFunc) *Runtime {
	return &Runtime{
		toProxy:  map[data.Container]*Proxy{},
		toRaw:    map[*Proxy]data.Container{},
		targets:  map[data.Container]map[string]*depSet{},
		onError:  onError,
		maxDepth: DefaultMaxNotifyDepth,
	}
}

func (rt *Runtime) OnTrigger(fn OnTriggerFunc) {
	rt.onTrigger = fn
}

func (rt *Runtime) SetMaxNotifyDepth(n int) {
	if n > 0 {
		rt.maxDepth = n
	}
}

// PauseTracking makes subsequent reads silent until ResumeTracking.
func (rt *Runtime) PauseTracking() {
	rt.effectStack = append(rt.effectStack, nil)
}

func (rt *Runtime) ResumeTracking() {
	rt.popEffect()
}

// Active returns the effect reads are currently attributed to, if any.
func (rt *Runtime) Active() *EffectRunner {
	if len(rt.effectStack) == 0 {
		return nil
	}
	return rt.effectStack[len(rt.effectStack)-1]
}

// Reset drops every dependency set and stops the effects registered in
// them. Wrappers stay valid.
func (rt *Runtime) Reset() {
	for _, keys := range rt.targets {
		for _, deps := range keys {
			for _, e := range deps.effects {
				e.stopped = true
				e.deps = nil
			}
		}
	}
	clear(rt.targets)
	rt.effectStack = rt.effectStack[:0]
}

func (rt *Runtime) popEffect() {
	if len(rt.effectStack) == 0 {
		return
	}
	rt.effectStack[len(rt.effectStack)-1] = nil
	rt.effectStack = rt.effectStack[:len(rt.effectStack)-1]
}

func (rt *Runtime) reportError(e *EffectRunner, err error) {
	if rt.onError != nil {
		rt.onError(e, err)
	}
}
