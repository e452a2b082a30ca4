package harness

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

type EventKind string

const (
	EventStep    EventKind = "step"
	EventRun     EventKind = "run"
	EventNotify  EventKind = "notify"
	EventTrigger EventKind = "trigger"
	EventError   EventKind = "error"
)

type Event struct {
	Seq     int
	Kind    EventKind
	Watcher string
	Op      string
	Path    string
	Value   string
}

func (e Event) String() string {
	return fmt.Sprintf("#%d %s", e.Seq, e.Detail())
}

// Detail is the event without its sequence number.
func (e Event) Detail() string {
	switch e.Kind {
	case EventStep:
		if e.Op == string(OpDelete) {
			return fmt.Sprintf("step %s %s", e.Op, e.Path)
		}
		return fmt.Sprintf("step %s %s = %s", e.Op, e.Path, e.Value)
	case EventRun:
		return fmt.Sprintf("run %s %s = %s", e.Watcher, e.Path, e.Value)
	case EventNotify:
		return fmt.Sprintf("notify %s subs=%s", e.Path, e.Value)
	case EventTrigger:
		return fmt.Sprintf("trigger %s %s", e.Op, e.Path)
	case EventError:
		return fmt.Sprintf("error %s: %s", e.Watcher, e.Value)
	}
	return string(e.Kind)
}

type Trace struct {
	Scenario string
	Engine   string
	Events   []Event
}

func (t *Trace) add(e Event) {
	e.Seq = len(t.Events) + 1
	t.Events = append(t.Events, e)
}

func (t *Trace) Lines() []string {
	lines := make([]string, len(t.Events))
	for i, e := range t.Events {
		lines[i] = e.String()
	}
	return lines
}

// String is the golden-file form of the trace.
func (t *Trace) String() string {
	if len(t.Events) == 0 {
		return ""
	}
	return strings.Join(t.Lines(), "\n") + "\n"
}

func (t *Trace) Count(kind EventKind) int {
	n := 0
	for _, e := range t.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Runs lists the re-runs of one watcher in order.
func (t *Trace) Runs(watcher string) []string {
	var values []string
	for _, e := range t.Events {
		if e.Kind == EventRun && e.Watcher == watcher {
			values = append(values, e.Value)
		}
	}
	return values
}

// Digest fingerprints the run events only. Notifications and triggers are
// engine specific, so two engines that re-ran the same watchers with the
// same values share a digest.
func (t *Trace) Digest() string {
	d := xxhash.New()
	for _, e := range t.Events {
		if e.Kind != EventRun {
			continue
		}
		d.WriteString(e.Detail())
		d.WriteString("\n")
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
