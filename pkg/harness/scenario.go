package harness

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/delaneyj/reactiveparty/data"
)

var ErrInvalidScenario = errors.New("invalid scenario")

type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// Engine is the default engine for the command line runner.
	Engine string `yaml:"engine,omitempty"`

	// Data is kept as a node so object key order survives decoding.
	Data yaml.Node `yaml:"data"`

	Watch []WatchSpec `yaml:"watch"`
	Steps []Step      `yaml:"steps"`
}

type WatchSpec struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Step is one write. Exactly one of Set, Delete or Push names the target
// path.
type Step struct {
	Set    string    `yaml:"set,omitempty"`
	Delete string    `yaml:"delete,omitempty"`
	Push   string    `yaml:"push,omitempty"`
	Value  yaml.Node `yaml:"value,omitempty"`
}

type StepOp string

const (
	OpSet    StepOp = "set"
	OpDelete StepOp = "delete"
	OpPush   StepOp = "push"
)

func (s *Step) Op() StepOp {
	switch {
	case s.Set != "":
		return OpSet
	case s.Delete != "":
		return OpDelete
	case s.Push != "":
		return OpPush
	}
	return ""
}

func (s *Step) Path() string {
	switch s.Op() {
	case OpSet:
		return s.Set
	case OpDelete:
		return s.Delete
	case OpPush:
		return s.Push
	}
	return ""
}

// ValueOf converts the step's value to engine data. A missing value is nil.
func (s *Step) ValueOf() (any, error) {
	return nodeValue(&s.Value)
}

func LoadScenario(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	sc, err := ParseScenario(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func ParseScenario(b []byte) (*Scenario, error) {
	sc := &Scenario{}
	if err := yaml.Unmarshal(b, sc); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *Scenario) Validate() error {
	if strings.TrimSpace(sc.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidScenario)
	}
	if sc.Data.Kind != 0 && sc.Data.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: data must be a mapping", ErrInvalidScenario)
	}
	seen := map[string]bool{}
	for i, w := range sc.Watch {
		if w.Name == "" || w.Path == "" {
			return fmt.Errorf("%w: watch %d needs a name and a path", ErrInvalidScenario, i)
		}
		if seen[w.Name] {
			return fmt.Errorf("%w: duplicate watch %q", ErrInvalidScenario, w.Name)
		}
		seen[w.Name] = true
	}
	for i, st := range sc.Steps {
		set := 0
		for _, p := range []string{st.Set, st.Delete, st.Push} {
			if p != "" {
				set++
			}
		}
		if set != 1 {
			return fmt.Errorf("%w: step %d needs exactly one of set, delete or push", ErrInvalidScenario, i)
		}
	}
	return nil
}

// Document builds a fresh data object from the scenario's data. Each call
// returns a new, unshared document.
func (sc *Scenario) Document() (*data.Object, error) {
	v, err := nodeValue(&sc.Data)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return data.NewObject(), nil
	}
	obj, ok := v.(*data.Object)
	if !ok {
		return nil, fmt.Errorf("%w: data must be a mapping", ErrInvalidScenario)
	}
	return obj, nil
}

func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		obj := data.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := data.NewArray()
		for _, item := range n.Content {
			v, err := nodeValue(item)
			if err != nil {
				return nil, err
			}
			arr.Push(v)
		}
		return arr, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
}
