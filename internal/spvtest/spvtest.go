// Package spvtest builds small SPIR-V modules for tests.
//
// The modules are structurally valid enough for reflection and
// patching. They are not meant to pass spirv-val.
package spvtest

import (
	"github.com/gogpu/shaderset/shader"
	"github.com/gogpu/shaderset/spirv"
)

// Binding describes one descriptor variable of a fixture.
type Binding struct {
	Name    string
	Set     uint32
	Binding uint32
	Kind    shader.ResourceKind

	// Array makes the variable a fixed-size array of that length.
	Array uint32
	// RuntimeArray makes the variable a runtime-sized array.
	RuntimeArray bool

	// Unused declares the variable without touching it from the
	// entry point.
	Unused bool
	// Indirect touches the variable from a helper function that the
	// entry point calls.
	Indirect bool
	// NoSet omits the DescriptorSet decoration.
	NoSet bool
}

// Module returns the bytecode of a module whose "main" entry point
// has the given stage and uses the given bindings.
func Module(stage shader.Stage, bindings ...Binding) []byte {
	return Builder(stage, bindings...).Build()
}

// Builder returns the assembled module builder so callers can append
// extra instructions before building.
func Builder(stage shader.Stage, bindings ...Binding) *spirv.ModuleBuilder {
	model, err := spirv.ExecutionModelOf(stage)
	if err != nil {
		panic(err)
	}

	b := spirv.NewModuleBuilder(spirv.Version1_0)
	b.AddCapability(spirv.CapabilityShader)
	b.AddExtInstImport("GLSL.std.450")
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	f := &fixture{b: b}
	f.void = b.AddTypeVoid()
	f.fnType = b.AddTypeFunction(f.void)
	f.float = b.AddTypeFloat(32)
	f.uint = b.AddTypeInt(32, false)
	f.vec4 = b.AddTypeVector(f.float, 4)
	f.zero = b.AddConstant(f.uint, 0)

	for _, bd := range bindings {
		f.declare(bd)
	}

	var helper uint32
	if f.hasIndirect() {
		helper = b.AddFunction(f.fnType, f.void, spirv.FunctionControlNone)
		b.AddName(helper, "helper")
		b.AddLabel()
		for _, v := range f.vars {
			if !v.Unused && v.Indirect {
				f.use(v)
			}
		}
		b.AddReturn()
		b.AddFunctionEnd()
	}

	main := b.AddFunction(f.fnType, f.void, spirv.FunctionControlNone)
	b.AddName(main, "main")
	b.AddLabel()
	for _, v := range f.vars {
		if !v.Unused && !v.Indirect {
			f.use(v)
		}
	}
	if helper != 0 {
		b.AddFunctionCall(f.void, helper)
	}
	b.AddReturn()
	b.AddFunctionEnd()

	b.AddEntryPoint(model, main, "main")
	switch stage {
	case shader.StageFragment:
		b.AddExecutionMode(main, spirv.ExecutionModeOriginUpperLeft)
	case shader.StageCompute:
		b.AddExecutionMode(main, spirv.ExecutionModeLocalSize, 1, 1, 1)
	}
	return b
}

type variable struct {
	Binding
	id       uint32
	storage  spirv.StorageClass
	elemType uint32 // type loaded after indexing
	elemPtr  uint32 // pointer to elemType
	indices  int    // constant indices needed to reach elemType
}

type fixture struct {
	b      *spirv.ModuleBuilder
	void   uint32
	fnType uint32
	float  uint32
	uint   uint32
	vec4   uint32
	zero   uint32
	vars   []variable
}

func (f *fixture) hasIndirect() bool {
	for _, v := range f.vars {
		if v.Indirect && !v.Unused {
			return true
		}
	}
	return false
}

func (f *fixture) declare(bd Binding) {
	b := f.b
	v := variable{Binding: bd}

	var base uint32
	switch bd.Kind {
	case shader.UniformBuffer:
		base = b.AddTypeStruct(f.vec4)
		b.AddDecorate(base, spirv.DecorationBlock)
		b.AddMemberDecorate(base, 0, spirv.DecorationOffset, 0)
		v.storage = spirv.StorageClassUniform
		v.elemType = f.vec4
		v.indices = 1
	case shader.StructuredBufferReadOnly, shader.StructuredBufferReadWrite:
		rt := b.AddTypeRuntimeArray(f.vec4)
		b.AddDecorate(rt, spirv.DecorationArrayStride, 16)
		base = b.AddTypeStruct(rt)
		b.AddDecorate(base, spirv.DecorationBlock)
		b.AddMemberDecorate(base, 0, spirv.DecorationOffset, 0)
		if bd.Kind == shader.StructuredBufferReadOnly {
			b.AddMemberDecorate(base, 0, spirv.DecorationNonWritable)
		}
		v.storage = spirv.StorageClassStorageBuffer
		v.elemType = f.vec4
		v.indices = 2
	case shader.TextureReadOnly:
		base = b.AddTypeImage(spirv.ImageType{SampledType: f.float, Dim: spirv.Dim2D, Sampled: 1})
		v.storage = spirv.StorageClassUniformConstant
		v.elemType = base
	case shader.TextureReadWrite:
		// Format 1 is Rgba32f.
		base = b.AddTypeImage(spirv.ImageType{SampledType: f.float, Dim: spirv.Dim2D, Sampled: 2, Format: 1})
		v.storage = spirv.StorageClassUniformConstant
		v.elemType = base
	case shader.Sampler:
		base = b.AddTypeSampler()
		v.storage = spirv.StorageClassUniformConstant
		v.elemType = base
	default:
		panic("spvtest: unknown resource kind " + bd.Kind.String())
	}
	if bd.Name != "" && bd.Kind.IsBuffer() {
		b.AddName(base, bd.Name+"Block")
	}

	varType := base
	switch {
	case bd.RuntimeArray:
		varType = b.AddTypeRuntimeArray(base)
		v.indices++
	case bd.Array > 0:
		varType = b.AddTypeArray(base, b.AddConstant(f.uint, bd.Array))
		v.indices++
	}

	ptr := b.AddTypePointer(v.storage, varType)
	if v.indices > 0 {
		v.elemPtr = b.AddTypePointer(v.storage, v.elemType)
	}
	v.id = b.AddVariable(ptr, v.storage)
	if bd.Name != "" {
		b.AddName(v.id, bd.Name)
	}
	if !bd.NoSet {
		b.AddDecorate(v.id, spirv.DecorationDescriptorSet, bd.Set)
	}
	b.AddDecorate(v.id, spirv.DecorationBinding, bd.Binding)
	f.vars = append(f.vars, v)
}

// use emits a load through v, and a store back for writable buffers.
func (f *fixture) use(v variable) {
	b := f.b
	ptr := v.id
	if v.indices > 0 {
		idx := make([]uint32, v.indices)
		for i := range idx {
			idx[i] = f.zero
		}
		ptr = b.AddAccessChain(v.elemPtr, v.id, idx...)
	}
	value := b.AddLoad(v.elemType, ptr)
	if v.Kind == shader.StructuredBufferReadWrite {
		b.AddStore(ptr, value)
	}
}
