// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cross

import (
	"fmt"
	"sort"

	"github.com/gogpu/shaderset/layout"
	"github.com/gogpu/shaderset/shader"
)

// ResourceBinding identifies a resource in the source SPIR-V.
type ResourceBinding struct {
	// Set corresponds to the SPIR-V DescriptorSet decoration.
	Set uint32

	// Binding corresponds to the SPIR-V Binding decoration.
	Binding uint32
}

// RegisterType is the slot class a resource occupies on the target.
// HLSL has four register classes; Metal folds them into three argument
// tables (b and u share [[buffer]] when the resource is a buffer).
type RegisterType uint8

const (
	// RegisterTypeB is for constant buffers (cbuffer).
	RegisterTypeB RegisterType = iota

	// RegisterTypeT is for textures and read-only structured buffers.
	RegisterTypeT

	// RegisterTypeS is for samplers.
	RegisterTypeS

	// RegisterTypeU is for unordered access views (UAV).
	RegisterTypeU
)

// String returns the single-character register prefix.
func (rt RegisterType) String() string {
	switch rt {
	case RegisterTypeB:
		return "b"
	case RegisterTypeT:
		return "t"
	case RegisterTypeS:
		return "s"
	case RegisterTypeU:
		return "u"
	default:
		return fmt.Sprintf("RegisterType(%d)", uint8(rt))
	}
}

// BindTarget is the slot a layout entry is bound to on the target.
type BindTarget struct {
	// Name is the canonical layout name the resource is renamed to.
	Name string

	// Register is the slot class.
	Register RegisterType

	// Slot is the first index within the class. An array of Count
	// elements occupies [Slot, Slot+Count).
	Slot uint32

	// Count is the number of slots reserved; runtime-sized arrays
	// reserve one.
	Count uint32
}

// String formats the target as class and slot, e.g. "t3".
func (bt BindTarget) String() string {
	return fmt.Sprintf("%s%d", bt.Register, bt.Slot)
}

// BindingMap assigns a target slot to every non-placeholder layout entry.
type BindingMap struct {
	Target   Target
	Bindings map[ResourceBinding]BindTarget
}

// Lookup returns the bind target of (set, binding).
func (m *BindingMap) Lookup(set, binding uint32) (BindTarget, bool) {
	if m == nil {
		return BindTarget{}, false
	}
	bt, ok := m.Bindings[ResourceBinding{Set: set, Binding: binding}]
	return bt, ok
}

// Sorted returns the bindings ordered by set, then binding.
func (m *BindingMap) Sorted() []ResourceBinding {
	keys := make([]ResourceBinding, 0, len(m.Bindings))
	for k := range m.Bindings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Set != keys[j].Set {
			return keys[i].Set < keys[j].Set
		}
		return keys[i].Binding < keys[j].Binding
	})
	return keys
}

// registerType returns the slot class of kind on target.
func registerType(kind shader.ResourceKind, target Target) RegisterType {
	if target == MSL {
		switch {
		case kind.IsBuffer():
			return RegisterTypeB
		case kind == shader.Sampler:
			return RegisterTypeS
		default:
			return RegisterTypeT
		}
	}
	switch kind {
	case shader.UniformBuffer:
		return RegisterTypeB
	case shader.Sampler:
		return RegisterTypeS
	case shader.StructuredBufferReadWrite, shader.TextureReadWrite:
		return RegisterTypeU
	default:
		return RegisterTypeT
	}
}

// BuildBindingMap assigns slots to the entries of l in layout order.
// Each register class has its own counter starting at zero, so the
// result only depends on the layout. Placeholders take no slot.
func BuildBindingMap(l *layout.Layout, target Target) (*BindingMap, error) {
	if !target.valid() {
		return nil, NewError(ErrUnsupportedTarget, "unknown target %d", uint8(target))
	}
	m := &BindingMap{Target: target, Bindings: make(map[ResourceBinding]BindTarget)}
	if l == nil {
		return m, nil
	}
	var next [4]uint32
	for _, set := range l.Sets {
		for _, e := range set.Entries {
			if e.Placeholder {
				continue
			}
			rt := registerType(e.Kind, target)
			n := max(e.Count, 1)
			m.Bindings[ResourceBinding{Set: e.Set, Binding: e.Binding}] = BindTarget{
				Name:     e.Name,
				Register: rt,
				Slot:     next[rt],
				Count:    n,
			}
			next[rt] += n
		}
	}
	return m, nil
}
