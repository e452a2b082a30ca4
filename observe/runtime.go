package observe

import (
	"errors"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/reactiveparty/data"
)

const DefaultMaxNotifyDepth = 100

var ErrMaxDepth = errors.New("max notify depth exceeded")

// OnErrorFunc receives errors raised while re-running a watcher. w is nil
// when the error is not attributable to a single watcher.
type OnErrorFunc func(w *Watcher, err error)

// OnNotifyFunc is called every time a property's value changes, before its
// watchers re-run.
type OnNotifyFunc func(key string, subscribers int)

// Runtime owns everything the eager engine would otherwise keep in globals:
// the active watcher stack and the set of containers already walked.
type Runtime struct {
	activeStack []*Watcher
	observed    mapset.Set[data.Container]

	onError  OnErrorFunc
	onNotify OnNotifyFunc

	depth    int
	maxDepth int
}

func NewRuntime(onError OnErrorFunc) *Runtime {
	return &Runtime{
		observed: mapset.NewThreadUnsafeSet[data.Container](),
		onError:  onError,
		maxDepth: DefaultMaxNotifyDepth,
	}
}

func (rt *Runtime) OnNotify(fn OnNotifyFunc) {
	rt.onNotify = fn
}

func (rt *Runtime) SetMaxNotifyDepth(n int) {
	if n > 0 {
		rt.maxDepth = n
	}
}

// Active returns the watcher reads are currently attributed to, if any.
func (rt *Runtime) Active() *Watcher {
	if len(rt.activeStack) == 0 {
		return nil
	}
	return rt.activeStack[len(rt.activeStack)-1]
}

// PauseTracking makes subsequent reads silent until ResumeTracking.
func (rt *Runtime) PauseTracking() {
	rt.push(nil)
}

func (rt *Runtime) ResumeTracking() {
	rt.pop()
}

// IsObserved reports whether c has already been walked by Observe.
func (rt *Runtime) IsObserved(c data.Container) bool {
	return rt.observed.Contains(c)
}

func (rt *Runtime) push(w *Watcher) {
	rt.activeStack = append(rt.activeStack, w)
}

func (rt *Runtime) pop() {
	if len(rt.activeStack) == 0 {
		return
	}
	rt.activeStack[len(rt.activeStack)-1] = nil
	rt.activeStack = rt.activeStack[:len(rt.activeStack)-1]
}

func (rt *Runtime) reportError(w *Watcher, err error) {
	if rt.onError != nil {
		rt.onError(w, err)
	}
}
