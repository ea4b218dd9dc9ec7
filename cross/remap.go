// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cross

import (
	"github.com/gogpu/shaderset/layout"
	"github.com/gogpu/shaderset/shader"
	"github.com/gogpu/shaderset/spirv"
)

// BlockSuffix is appended to a buffer's canonical name to name its
// block type.
const BlockSuffix = "_block"

// Remap rewrites bytecode so each of resources carries its canonical
// layout name and the slot bm assigns to it. Descriptor sets collapse
// to 0 since every target addresses resources by class and slot only.
//
// resources must come from reflecting bytecode: their ID and TypeID
// fields select the instructions to patch. The input is not modified.
//
// A block type shared by several buffers is named after the first of
// them in resources order.
func Remap(bytecode []byte, resources []shader.Resource, l *layout.Layout, bm *BindingMap) ([]byte, error) {
	m, err := spirv.Parse(bytecode)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidModule, Message: err.Error(), Err: err}
	}
	blocks := make(map[uint32]bool)
	for _, r := range resources {
		if r.ID == 0 {
			return nil, NewError(ErrInvalidModule, "resource %d:%d has no variable id", r.Set, r.Binding)
		}
		entry, ok := l.Lookup(r.Set, r.Binding)
		if !ok || entry.Placeholder {
			return nil, NewError(ErrMissingBinding, "resource %d:%d is not in the layout", r.Set, r.Binding)
		}
		bt, ok := bm.Lookup(r.Set, r.Binding)
		if !ok {
			return nil, NewError(ErrMissingBinding, "resource %d:%d (%s) has no %s slot", r.Set, r.Binding, entry.Name, bm.Target)
		}
		if IsReserved(bm.Target, entry.Name) {
			return nil, NewError(ErrReservedName, "resource %d:%d name %q is reserved in %s", r.Set, r.Binding, entry.Name, bm.Target)
		}

		m.SetName(r.ID, entry.Name)
		if r.Kind.IsBuffer() && r.TypeID != 0 && !blocks[r.TypeID] {
			m.SetName(r.TypeID, entry.Name+BlockSuffix)
			blocks[r.TypeID] = true
		}
		m.SetDecoration(r.ID, spirv.DecorationDescriptorSet, 0)
		m.SetDecoration(r.ID, spirv.DecorationBinding, bt.Slot)
	}
	return m.Bytes(), nil
}
