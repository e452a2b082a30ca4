package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/delaneyj/reactiveparty/data"
)

// Run applies sc to engine and returns the trace. The trace is returned even
// when a step fails so callers can see how far it got.
func Run(ctx context.Context, sc *Scenario, engine Engine, logger *slog.Logger) (*Trace, error) {
	if logger == nil {
		logger = slog.Default()
	}
	trace := &Trace{Scenario: sc.Name, Engine: engine.Name()}

	doc, err := sc.Document()
	if err != nil {
		return trace, err
	}
	if err := engine.Load(doc, trace); err != nil {
		return trace, fmt.Errorf("loading %s engine: %w", engine.Name(), err)
	}

	for _, w := range sc.Watch {
		name, path := w.Name, w.Path
		err := engine.Watch(name, path, func(v any) {
			trace.add(Event{Kind: EventRun, Watcher: name, Path: path, Value: data.Format(v)})
		})
		if err != nil {
			return trace, fmt.Errorf("watch %q: %w", name, err)
		}
	}

	for i := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return trace, err
		}
		st := &sc.Steps[i]
		value, err := st.ValueOf()
		if err != nil {
			return trace, fmt.Errorf("step %d: %w", i, err)
		}

		op, path := st.Op(), st.Path()
		logger.Debug("applying step",
			"scenario", sc.Name,
			"engine", engine.Name(),
			"step", i,
			"op", op,
			"path", path,
		)
		trace.add(Event{Kind: EventStep, Op: string(op), Path: path, Value: data.Format(value)})

		switch op {
		case OpSet:
			err = engine.Set(path, value)
		case OpDelete:
			err = engine.Delete(path)
		case OpPush:
			err = engine.Push(path, value)
		}
		if err != nil {
			return trace, fmt.Errorf("step %d (%s %s): %w", i, op, path, err)
		}
	}
	return trace, nil
}

// RunAll runs sc once per named engine, each on its own copy of the document.
func RunAll(ctx context.Context, sc *Scenario, engines []string, logger *slog.Logger) ([]*Trace, error) {
	traces := make([]*Trace, 0, len(engines))
	for _, name := range engines {
		engine, err := NewEngine(name)
		if err != nil {
			return traces, err
		}
		trace, err := Run(ctx, sc, engine, logger)
		if err != nil {
			return append(traces, trace), err
		}
		traces = append(traces, trace)
	}
	return traces, nil
}
