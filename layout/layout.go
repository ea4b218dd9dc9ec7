// Package layout merges the resources reflected from each stage of a
// shader set into one descriptor layout.
//
// The layout is positional: Sets[i] describes descriptor set i and
// Sets[i].Entries[j] describes binding j of that set. Consumers build
// their native layout objects in exactly this order.
package layout

import (
	"fmt"

	"github.com/gogpu/shaderset/shader"
)

// Entry is one binding slot of a unified layout.
type Entry struct {
	// Name is the canonical resource name. Placeholders have none.
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Set     uint32 `json:"set" yaml:"set"`
	Binding uint32 `json:"binding" yaml:"binding"`

	// Kind is meaningless for placeholders.
	Kind shader.ResourceKind `json:"kind" yaml:"kind"`

	// Stages is the union of the stages declaring this binding.
	// It is empty for placeholders.
	Stages shader.Stage `json:"stages" yaml:"stages"`

	// Count is the array size shared by every declaring stage:
	// 1 for a plain resource, 0 for a runtime-sized array.
	Count uint32 `json:"count" yaml:"count"`

	// Placeholder marks a slot that no stage declares. It keeps
	// later bindings at their native positions.
	Placeholder bool `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

func (e Entry) String() string {
	if e.Placeholder {
		return fmt.Sprintf("%d:%d <placeholder>", e.Set, e.Binding)
	}
	return fmt.Sprintf("%d:%d %s %s (%s)", e.Set, e.Binding, e.Name, e.Kind, e.Stages)
}

// Set is one descriptor set of a layout.
type Set struct {
	Index   uint32  `json:"index" yaml:"index"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Layout is the unified resource layout of a shader set.
type Layout struct {
	Sets []Set `json:"sets" yaml:"sets"`
}

// Lookup returns the entry at (set, binding).
func (l *Layout) Lookup(set, binding uint32) (Entry, bool) {
	if l == nil || int(set) >= len(l.Sets) {
		return Entry{}, false
	}
	entries := l.Sets[set].Entries
	if int(binding) >= len(entries) {
		return Entry{}, false
	}
	return entries[binding], true
}

// Stages returns the union of every entry's stages.
func (l *Layout) Stages() shader.Stage {
	var s shader.Stage
	for _, set := range l.Sets {
		for _, e := range set.Entries {
			s |= e.Stages
		}
	}
	return s
}

// ResourceCount returns the number of non-placeholder entries.
func (l *Layout) ResourceCount() int {
	n := 0
	for _, set := range l.Sets {
		for _, e := range set.Entries {
			if !e.Placeholder {
				n++
			}
		}
	}
	return n
}

// Namer assigns canonical resource names.
// Implementations must be pure: the same pair always yields the same name.
type Namer interface {
	Name(set, binding uint32) string
}

// PrefixNamer names resources "<prefix>_<set>_<binding>".
type PrefixNamer string

// DefaultPrefix is the prefix of DefaultNamer.
const DefaultPrefix = "vdspv"

// DefaultNamer produces names such as "vdspv_1_1".
var DefaultNamer Namer = PrefixNamer(DefaultPrefix)

// Name implements Namer.
func (p PrefixNamer) Name(set, binding uint32) string {
	return fmt.Sprintf("%s_%d_%d", string(p), set, binding)
}

// NamerFunc adapts a function to Namer.
type NamerFunc func(set, binding uint32) string

// Name implements Namer.
func (f NamerFunc) Name(set, binding uint32) string { return f(set, binding) }
