package layout

import (
	"fmt"

	"github.com/gogpu/shaderset/shader"
)

// ConflictError reports a binding declared incompatibly by two stages:
// with different kinds, or with the same kind and different array sizes.
type ConflictError struct {
	Set     uint32
	Binding uint32

	// The existing declaration, accumulated from earlier stages.
	Kind   shader.ResourceKind
	Stages shader.Stage
	Count  uint32

	// The declaration that clashed with it.
	OtherKind  shader.ResourceKind
	OtherStage shader.Stage
	OtherCount uint32
}

func (e *ConflictError) Error() string {
	if e.Kind != e.OtherKind {
		return fmt.Sprintf("layout: set %d binding %d declared as %s in %s and as %s in %s",
			e.Set, e.Binding, e.Kind, e.Stages, e.OtherKind, e.OtherStage)
	}
	return fmt.Sprintf("layout: set %d binding %d declared with array size %d in %s and %d in %s",
		e.Set, e.Binding, e.Count, e.Stages, e.OtherCount, e.OtherStage)
}

// MaxIndex is the largest descriptor set or binding index Merge accepts.
// Every index up to the largest one in use gets an entry, so the bound
// also caps the size of a layout.
const MaxIndex = 1<<16 - 1

// LimitError reports a resource whose set or binding exceeds MaxIndex.
type LimitError struct {
	Set     uint32
	Binding uint32
	Stage   shader.Stage
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("layout: set %d binding %d in %s exceeds the index limit %d",
		e.Set, e.Binding, e.Stage, MaxIndex)
}

// Merger builds layouts. The zero value uses DefaultNamer.
type Merger struct {
	Namer Namer
}

// Merge merges per-stage resources with DefaultNamer.
func Merge(stages map[shader.Stage][]shader.Resource) (*Layout, error) {
	var m Merger
	return m.Merge(stages)
}

type slot struct {
	set, binding uint32
}

// Merge merges the resources declared by each stage of a shader set.
//
// Every key of stages must be a single stage. A resource whose Stage is
// zero takes the stage of its key. Stages are visited in ascending
// order, so a conflict always names the lower stage as the existing
// declaration.
func (m *Merger) Merge(stages map[shader.Stage][]shader.Resource) (*Layout, error) {
	namer := m.Namer
	if namer == nil {
		namer = DefaultNamer
	}

	for st := range stages {
		if err := shader.CheckSingle(st); err != nil {
			return nil, err
		}
	}

	acc := make(map[slot]*Entry)
	maxBinding := make(map[uint32]uint32)
	var maxSet uint32
	for _, st := range shader.Stages {
		for _, r := range stages[st] {
			if r.Stage != shader.StageNone && r.Stage != st {
				return nil, fmt.Errorf("layout: resource %s listed under stage %s", r, st)
			}
			if r.Set > MaxIndex || r.Binding > MaxIndex {
				return nil, &LimitError{Set: r.Set, Binding: r.Binding, Stage: st}
			}
			key := slot{r.Set, r.Binding}
			e, ok := acc[key]
			if !ok {
				acc[key] = &Entry{
					Set:     r.Set,
					Binding: r.Binding,
					Kind:    r.Kind,
					Stages:  st,
					Count:   r.Count,
				}
				if r.Set > maxSet {
					maxSet = r.Set
				}
				if b, seen := maxBinding[r.Set]; !seen || r.Binding > b {
					maxBinding[r.Set] = r.Binding
				}
				continue
			}
			if e.Kind != r.Kind || e.Count != r.Count {
				return nil, &ConflictError{
					Set:        r.Set,
					Binding:    r.Binding,
					Kind:       e.Kind,
					Stages:     e.Stages,
					Count:      e.Count,
					OtherKind:  r.Kind,
					OtherStage: st,
					OtherCount: r.Count,
				}
			}
			e.Stages |= st
		}
	}

	l := &Layout{}
	if len(acc) == 0 {
		return l, nil
	}
	l.Sets = make([]Set, int(maxSet)+1)
	for set := range l.Sets {
		l.Sets[set].Index = uint32(set)
		top, ok := maxBinding[uint32(set)]
		if !ok {
			continue
		}
		entries := make([]Entry, int(top)+1)
		for b := range entries {
			key := slot{uint32(set), uint32(b)}
			if e, ok := acc[key]; ok {
				e.Name = namer.Name(key.set, key.binding)
				entries[b] = *e
				continue
			}
			entries[b] = Entry{Set: key.set, Binding: key.binding, Placeholder: true}
		}
		l.Sets[set].Entries = entries
	}
	return l, nil
}
