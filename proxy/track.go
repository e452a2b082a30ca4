package proxy

import (
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/reactiveparty/data"
)

type TriggerOp uint8

const (
	OpAdd TriggerOp = iota + 1
	OpEdit
)

func (op TriggerOp) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpEdit:
		return "edit"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// depSet keeps effects in subscription order without duplicates.
type depSet struct {
	members mapset.Set[*EffectRunner]
	effects []*EffectRunner
}

func newDepSet() *depSet {
	return &depSet{members: mapset.NewThreadUnsafeSet[*EffectRunner]()}
}

func (d *depSet) add(e *EffectRunner) bool {
	if !d.members.Add(e) {
		return false
	}
	d.effects = append(d.effects, e)
	return true
}

func (d *depSet) remove(e *EffectRunner) {
	if !d.members.Contains(e) {
		return
	}
	d.members.Remove(e)
	d.effects = slices.DeleteFunc(d.effects, func(x *EffectRunner) bool { return x == e })
}

// Track records that the active effect depends on (target, key).
func (rt *Runtime) Track(target data.Container, key string) {
	e := rt.Active()
	if e == nil || !data.HasIdentity(target) {
		return
	}
	keys, ok := rt.targets[target]
	if !ok {
		keys = map[string]*depSet{}
		rt.targets[target] = keys
	}
	deps, ok := keys[key]
	if !ok {
		deps = newDepSet()
		keys[key] = deps
	}
	if deps.add(e) {
		e.deps = append(e.deps, deps)
	}
}

// Trigger re-runs every effect that depends on (target, key). op does not
// change dispatch.
func (rt *Runtime) Trigger(target data.Container, op TriggerOp, key string) {
	if rt.onTrigger != nil {
		rt.onTrigger(target, op, key)
	}
	if !data.HasIdentity(target) {
		return
	}
	deps, ok := rt.targets[target][key]
	if !ok || len(deps.effects) == 0 {
		return
	}
	if rt.depth >= rt.maxDepth {
		rt.reportError(nil, fmt.Errorf("triggering %s %q: %w", op, key, ErrMaxDepth))
		return
	}
	rt.depth++
	defer func() { rt.depth-- }()

	for _, e := range slices.Clone(deps.effects) {
		e.Run()
	}
}

// Dependents reports how many effects depend on (target, key).
func (rt *Runtime) Dependents(target data.Container, key string) int {
	if !data.HasIdentity(target) {
		return 0
	}
	deps, ok := rt.targets[target][key]
	if !ok {
		return 0
	}
	return len(deps.effects)
}
