package spirv

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gogpu/shaderset/shader"
)

// ErrNoEntryPoint is returned by Reflect when the module declares no
// entry point or none with the requested name.
var ErrNoEntryPoint = errors.New("spirv: no matching entry point")

// ReflectOptions controls resource reflection.
type ReflectOptions struct {
	// EntryPoint selects the entry point by name.
	// Empty selects the first one declared.
	EntryPoint string

	// IncludeInactive reports every descriptor variable of the module
	// instead of only those reachable from the entry point.
	IncludeInactive bool
}

// Reflection is the resource interface of one entry point.
type Reflection struct {
	Stage      shader.Stage
	EntryPoint string
	// Resources is sorted by set, then binding.
	Resources []shader.Resource
}

// UnsupportedResourceError reports a descriptor variable whose type
// has no resource kind, such as a combined image sampler.
type UnsupportedResourceError struct {
	Name    string
	Set     uint32
	Binding uint32
	Reason  string
}

func (e *UnsupportedResourceError) Error() string {
	name := e.Name
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("spirv: resource %s at set %d binding %d: %s", name, e.Set, e.Binding, e.Reason)
}

// Reflect parses data and reflects the resources of one entry point.
func Reflect(data []byte, opts ReflectOptions) (*Reflection, error) {
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return m.Reflect(opts)
}

// Reflect reports the descriptor resources of one entry point.
func (m *Module) Reflect(opts ReflectOptions) (*Reflection, error) {
	ep, err := m.selectEntryPoint(opts.EntryPoint)
	if err != nil {
		return nil, err
	}
	stage, err := ep.Model.Stage()
	if err != nil {
		return nil, err
	}

	ix := m.index()
	var active map[uint32]bool
	if !opts.IncludeInactive {
		active = ix.usedVariables(ep.Function)
	}

	out := &Reflection{Stage: stage, EntryPoint: ep.Name}
	for _, v := range ix.variables {
		sc := StorageClass(v.Words[2])
		if sc != StorageClassUniformConstant && sc != StorageClassUniform && sc != StorageClassStorageBuffer {
			continue
		}
		id := v.Words[1]
		if active != nil && !active[id] {
			continue
		}
		res, err := ix.resource(id, v.Words[0], sc)
		if err != nil {
			return nil, err
		}
		res.Stage = stage
		out.Resources = append(out.Resources, res)
	}
	sort.SliceStable(out.Resources, func(i, j int) bool {
		a, b := out.Resources[i], out.Resources[j]
		if a.Set != b.Set {
			return a.Set < b.Set
		}
		return a.Binding < b.Binding
	})
	return out, nil
}

func (m *Module) selectEntryPoint(name string) (EntryPoint, error) {
	eps := m.EntryPoints()
	if len(eps) == 0 {
		return EntryPoint{}, ErrNoEntryPoint
	}
	if name == "" {
		return eps[0], nil
	}
	for _, ep := range eps {
		if ep.Name == name {
			return ep, nil
		}
	}
	return EntryPoint{}, fmt.Errorf("%w: %q", ErrNoEntryPoint, name)
}

// moduleIndex holds the lookups reflection needs.
type moduleIndex struct {
	names       map[uint32]string
	decorations map[uint32]map[Decoration]uint32
	members     map[uint32]map[uint32]map[Decoration]bool
	types       map[uint32]Instruction
	constants   map[uint32]uint32
	variables   []Instruction
	globals     map[uint32]bool
	functions   map[uint32][]Instruction
}

func (m *Module) index() *moduleIndex {
	ix := &moduleIndex{
		names:       make(map[uint32]string),
		decorations: make(map[uint32]map[Decoration]uint32),
		members:     make(map[uint32]map[uint32]map[Decoration]bool),
		types:       make(map[uint32]Instruction),
		constants:   make(map[uint32]uint32),
		globals:     make(map[uint32]bool),
		functions:   make(map[uint32][]Instruction),
	}
	var fn uint32
	var groups []Instruction
	for _, inst := range m.Instructions {
		w := inst.Words
		if fn != 0 {
			if inst.Opcode == OpFunctionEnd {
				fn = 0
				continue
			}
			ix.functions[fn] = append(ix.functions[fn], inst)
			continue
		}
		switch op := inst.Opcode; {
		case op == OpName && len(w) >= 1:
			ix.names[w[0]], _ = DecodeString(w, 1)
		case op == OpDecorate && len(w) >= 2:
			decs := ix.decorations[w[0]]
			if decs == nil {
				decs = make(map[Decoration]uint32)
				ix.decorations[w[0]] = decs
			}
			var value uint32
			if len(w) > 2 {
				value = w[2]
			}
			decs[Decoration(w[1])] = value
		case op == OpMemberDecorate && len(w) >= 3:
			ix.decorateMember(w[0], w[1], Decoration(w[2]))
		case (op == OpGroupDecorate || op == OpGroupMemberDecorate) && len(w) >= 1:
			groups = append(groups, inst)
		case op >= OpTypeVoid && op <= OpTypeFunction && len(w) >= 1:
			ix.types[w[0]] = inst
		case (op == OpConstant || op == OpSpecConstant) && len(w) >= 3:
			ix.constants[w[1]] = w[2]
		case op == OpVariable && len(w) >= 3:
			ix.variables = append(ix.variables, inst)
			ix.globals[w[1]] = true
		case op == OpFunction && len(w) >= 2:
			fn = w[1]
		}
	}

	// Group decorations apply after every OpDecorate on the group is known.
	for _, inst := range groups {
		w := inst.Words
		decs := ix.decorations[w[0]]
		if inst.Opcode == OpGroupDecorate {
			for _, target := range w[1:] {
				ix.decorate(target, decs)
			}
			continue
		}
		for i := 1; i+1 < len(w); i += 2 {
			for dec := range decs {
				ix.decorateMember(w[i], w[i+1], dec)
			}
		}
	}
	return ix
}

func (ix *moduleIndex) decorate(id uint32, decs map[Decoration]uint32) {
	if len(decs) == 0 {
		return
	}
	dst := ix.decorations[id]
	if dst == nil {
		dst = make(map[Decoration]uint32, len(decs))
		ix.decorations[id] = dst
	}
	for dec, value := range decs {
		if _, ok := dst[dec]; !ok {
			dst[dec] = value
		}
	}
}

func (ix *moduleIndex) decorateMember(structID, member uint32, dec Decoration) {
	byMember := ix.members[structID]
	if byMember == nil {
		byMember = make(map[uint32]map[Decoration]bool)
		ix.members[structID] = byMember
	}
	if byMember[member] == nil {
		byMember[member] = make(map[Decoration]bool)
	}
	byMember[member][dec] = true
}

// pointerOperands returns the operands of inst that may name a
// module-scope variable, and the callee for OpFunctionCall.
func pointerOperands(inst Instruction) (ptrs []uint32, callee uint32) {
	w := inst.Words
	at := func(i ...int) []uint32 {
		var out []uint32
		for _, n := range i {
			if n < len(w) {
				out = append(out, w[n])
			}
		}
		return out
	}
	switch op := inst.Opcode; {
	case op == OpLoad, op == OpCopyObject, op == OpArrayLength, op == OpImageTexelPointer,
		op == OpAccessChain, op == OpInBoundsAccessChain,
		op == OpPtrAccessChain, op == OpInBoundsPtrAccessChain:
		return at(2), 0
	case op == OpStore, op == OpAtomicStore:
		return at(0, 1), 0
	case op == OpCopyMemory, op == OpCopyMemorySized:
		return at(0, 1), 0
	case op >= OpAtomicLoad && op <= OpAtomicXor:
		return at(2), 0
	case op == OpFunctionCall && len(w) >= 3:
		return w[3:], w[2]
	}
	return nil, 0
}

// usedVariables walks the call tree rooted at entry and collects the
// module-scope variables it touches.
func (ix *moduleIndex) usedVariables(entry uint32) map[uint32]bool {
	used := make(map[uint32]bool)
	visited := make(map[uint32]bool)
	stack := []uint32{entry}
	for len(stack) > 0 {
		fn := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[fn] {
			continue
		}
		visited[fn] = true
		for _, inst := range ix.functions[fn] {
			ptrs, callee := pointerOperands(inst)
			for _, id := range ptrs {
				if ix.globals[id] {
					used[id] = true
				}
			}
			if callee != 0 {
				stack = append(stack, callee)
			}
		}
	}
	return used
}

// resource classifies the variable id of pointer type ptrType.
func (ix *moduleIndex) resource(id, ptrType uint32, sc StorageClass) (shader.Resource, error) {
	decs := ix.decorations[id]
	res := shader.Resource{
		Name:    ix.names[id],
		Set:     decs[DecorationDescriptorSet],
		Binding: decs[DecorationBinding],
		Count:   1,
		ID:      id,
	}
	unsupported := func(reason string) error {
		return &UnsupportedResourceError{Name: res.Name, Set: res.Set, Binding: res.Binding, Reason: reason}
	}

	ptr, ok := ix.types[ptrType]
	if !ok || ptr.Opcode != OpTypePointer || len(ptr.Words) < 3 {
		return res, unsupported("variable type is not a pointer")
	}
	typeID := ptr.Words[2]
	t := ix.types[typeID]
	seen := make(map[uint32]bool)
	for t.Opcode == OpTypeArray || t.Opcode == OpTypeRuntimeArray {
		if seen[typeID] || len(t.Words) < 2 || (t.Opcode == OpTypeArray && len(t.Words) < 3) {
			return res, unsupported("malformed array type")
		}
		seen[typeID] = true
		if t.Opcode == OpTypeRuntimeArray {
			res.Count = 0
		} else if res.Count != 0 {
			res.Count *= ix.constants[t.Words[2]]
		}
		typeID = t.Words[1]
		t = ix.types[typeID]
	}
	res.TypeID = typeID

	switch t.Opcode {
	case OpTypeStruct:
		_, block := ix.decorations[typeID][DecorationBlock]
		_, bufferBlock := ix.decorations[typeID][DecorationBufferBlock]
		switch {
		case sc == StorageClassUniform && block:
			res.Kind = shader.UniformBuffer
		case sc == StorageClassUniform && bufferBlock, sc == StorageClassStorageBuffer:
			res.Kind = shader.StructuredBufferReadWrite
			if ix.readOnly(id, typeID, len(t.Words)-1) {
				res.Kind = shader.StructuredBufferReadOnly
			}
		default:
			return res, unsupported("struct is not a buffer block")
		}
		if res.Name == "" {
			res.Name = ix.names[typeID]
		}
	case OpTypeImage:
		if len(t.Words) < 7 {
			return res, unsupported("truncated image type")
		}
		if Dim(t.Words[2]) == DimSubpassData {
			return res, unsupported("subpass inputs are not supported")
		}
		res.Kind = shader.TextureReadOnly
		if t.Words[6] == 2 {
			res.Kind = shader.TextureReadWrite
		}
	case OpTypeSampler:
		res.Kind = shader.Sampler
	case OpTypeSampledImage:
		return res, unsupported("combined image samplers are not supported; use separate texture and sampler")
	default:
		return res, unsupported(fmt.Sprintf("type %s has no resource kind", t.Opcode))
	}
	return res, nil
}

func (ix *moduleIndex) readOnly(varID, structID uint32, memberCount int) bool {
	if _, ok := ix.decorations[varID][DecorationNonWritable]; ok {
		return true
	}
	if memberCount == 0 {
		return false
	}
	for i := 0; i < memberCount; i++ {
		if !ix.members[structID][uint32(i)][DecorationNonWritable] {
			return false
		}
	}
	return true
}
