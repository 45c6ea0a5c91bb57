package xdsm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Workflow - Execution Order
// =============================================================================

// StepKind discriminates the three shapes a workflow element can take on
// the wire: a plain node reference, a parallel group, or a nested
// sub-sequence.
type StepKind int

const (
	// StepRef references a single node id executed at this position.
	StepRef StepKind = iota
	// StepParallel groups steps executed concurrently with no ordering
	// guarantee among them. Serialized as {"parallel": [...]}.
	StepParallel
	// StepNested is a sub-sequence executed in order at this position.
	// Serialized as a nested array.
	StepNested
)

// String returns the kind name for logs and error messages.
func (k StepKind) String() string {
	switch k {
	case StepRef:
		return "ref"
	case StepParallel:
		return "parallel"
	case StepNested:
		return "nested"
	default:
		return fmt.Sprintf("StepKind(%d)", int(k))
	}
}

// Step is one element of a workflow sequence, a tagged variant over the
// mixed wire shape. Exactly one of Ref (for StepRef) or Steps (for
// StepParallel and StepNested) is meaningful.
//
// The parallel marker is descriptive metadata about the modeled process;
// nothing in this package executes anything.
type Step struct {
	Kind  StepKind
	Ref   string // node id, or UserID (StepRef only)
	Steps []Step // members (StepParallel) or sub-sequence (StepNested)
}

// Workflow is the execution-order description of a diagram. The first
// element of a non-empty workflow is always a reference to UserID.
type Workflow []Step

// Ref creates a node-reference step.
func Ref(id string) Step { return Step{Kind: StepRef, Ref: id} }

// Parallel creates a parallel group step.
func Parallel(steps ...Step) Step { return Step{Kind: StepParallel, Steps: steps} }

// Nested creates a nested sub-sequence step.
func Nested(steps ...Step) Step { return Step{Kind: StepNested, Steps: steps} }

// Refs returns every node id referenced by the workflow in depth-first
// order, including UserID and duplicates.
func (w Workflow) Refs() []string {
	var ids []string
	var walk func(steps []Step)
	walk = func(steps []Step) {
		for _, s := range steps {
			if s.Kind == StepRef {
				ids = append(ids, s.Ref)
				continue
			}
			walk(s.Steps)
		}
	}
	walk(w)
	return ids
}

// LeadsWithUser reports whether the workflow starts with the reserved
// UserID token, as required for a valid diagram.
func (w Workflow) LeadsWithUser() bool {
	return len(w) > 0 && w[0].Kind == StepRef && w[0].Ref == UserID
}

// =============================================================================
// JSON Codec
// =============================================================================

// parallelGroup is the wire form of a StepParallel element.
type parallelGroup struct {
	Parallel []Step `json:"parallel"`
}

// MarshalJSON encodes the step in its wire shape: a string for StepRef,
// {"parallel": [...]} for StepParallel, and a nested array for StepNested.
func (s Step) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case StepRef:
		return json.Marshal(s.Ref)
	case StepParallel:
		return json.Marshal(parallelGroup{Parallel: s.Steps})
	case StepNested:
		return json.Marshal(s.Steps)
	default:
		return nil, fmt.Errorf("marshal workflow step: unknown kind %v", s.Kind)
	}
}

// UnmarshalJSON decodes a workflow element by its wire shape rather than
// by shape-sniffing decoded values: strings become references, objects
// must carry a "parallel" key, and arrays become nested sub-sequences.
func (s *Step) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return fmt.Errorf("unmarshal workflow step: empty element")
	}

	switch trimmed[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("unmarshal workflow step: %w", err)
		}
		*s = Ref(id)
		return nil

	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("unmarshal workflow step: %w", err)
		}
		members, ok := raw["parallel"]
		if !ok || len(raw) != 1 {
			return fmt.Errorf("unmarshal workflow step: object must have a single %q key", "parallel")
		}
		var steps []Step
		if err := json.Unmarshal(members, &steps); err != nil {
			return fmt.Errorf("unmarshal parallel group: %w", err)
		}
		*s = Step{Kind: StepParallel, Steps: steps}
		return nil

	case '[':
		var steps []Step
		if err := json.Unmarshal(data, &steps); err != nil {
			return fmt.Errorf("unmarshal nested workflow: %w", err)
		}
		*s = Step{Kind: StepNested, Steps: steps}
		return nil

	default:
		return fmt.Errorf("unmarshal workflow step: unexpected element %s", trimmed)
	}
}

// =============================================================================
// YAML Codec
// =============================================================================

// UnmarshalYAML decodes the same wire shapes from YAML documents:
// scalars, single-key "parallel" mappings, and sequences.
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var id string
		if err := value.Decode(&id); err != nil {
			return fmt.Errorf("unmarshal workflow step: %w", err)
		}
		*s = Ref(id)
		return nil

	case yaml.MappingNode:
		var group struct {
			Parallel []Step `yaml:"parallel"`
		}
		if err := value.Decode(&group); err != nil {
			return fmt.Errorf("unmarshal parallel group: %w", err)
		}
		if len(value.Content) != 2 || value.Content[0].Value != "parallel" {
			return fmt.Errorf("unmarshal workflow step: mapping must have a single %q key", "parallel")
		}
		*s = Step{Kind: StepParallel, Steps: group.Parallel}
		return nil

	case yaml.SequenceNode:
		var steps []Step
		if err := value.Decode(&steps); err != nil {
			return fmt.Errorf("unmarshal nested workflow: %w", err)
		}
		*s = Step{Kind: StepNested, Steps: steps}
		return nil

	default:
		return fmt.Errorf("unmarshal workflow step: unexpected node kind %d", value.Kind)
	}
}

// MarshalYAML encodes the step in its wire shape.
func (s Step) MarshalYAML() (any, error) {
	switch s.Kind {
	case StepRef:
		return s.Ref, nil
	case StepParallel:
		return map[string][]Step{"parallel": s.Steps}, nil
	case StepNested:
		return s.Steps, nil
	default:
		return nil, fmt.Errorf("marshal workflow step: unknown kind %v", s.Kind)
	}
}
