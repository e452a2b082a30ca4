package proxy

type ErrFn func() error

// EffectRunner re-runs fn whenever something fn read changes.
type EffectRunner struct {
	rt      *Runtime
	fn      ErrFn
	deps    []*depSet
	runs    int
	stopped bool
}

// Effect wraps fn and runs it once immediately.
func Effect(rt *Runtime, fn ErrFn) *EffectRunner {
	e := &EffectRunner{rt: rt, fn: fn}
	e.Run()
	return e
}

// Run executes fn with e on top of the active stack. The stack is popped
// even if fn panics. Errors go to the runtime's error handler.
func (e *EffectRunner) Run() {
	if e.stopped {
		return
	}
	rt := e.rt
	rt.effectStack = append(rt.effectStack, e)
	defer rt.popEffect()

	e.runs++
	if err := e.fn(); err != nil {
		rt.reportError(e, err)
	}
}

func (e *EffectRunner) Runs() int { return e.runs }

func (e *EffectRunner) Stopped() bool { return e.stopped }

// Stop unsubscribes e everywhere. A stopped effect never runs again.
func (e *EffectRunner) Stop() {
	e.stopped = true
	for _, d := range e.deps {
		d.remove(e)
	}
	e.deps = nil
}
