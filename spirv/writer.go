package spirv

import (
	"encoding/binary"
)

// Instruction is one decoded or pending SPIR-V instruction.
// Words holds every operand after the opcode word, so for
// instructions with a result type Words[0] is the type and
// Words[1] the result id.
type Instruction struct {
	Opcode OpCode
	Words  []uint32
}

// WordCount returns the encoded length of i, including the opcode word.
func (i Instruction) WordCount() int { return len(i.Words) + 1 }

// Encode encodes the instruction to words.
func (i Instruction) Encode() []uint32 {
	wordCount := uint32(i.WordCount())
	result := make([]uint32, 0, wordCount)
	result = append(result, (wordCount<<16)|uint32(i.Opcode))
	return append(result, i.Words...)
}

// appendString appends s as a null-terminated literal padded to a
// word boundary.
func appendString(words []uint32, s string) []uint32 {
	b := make([]byte, len(s)+1, (len(s)+4)&^3)
	copy(b, s)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	for i := 0; i < len(b); i += 4 {
		words = append(words, binary.LittleEndian.Uint32(b[i:]))
	}
	return words
}

// section indexes the logical layout of a module. Instructions are
// collected per section and concatenated in this order by Build.
type section int

const (
	secCapabilities section = iota
	secExtensions
	secExtInstImports
	secMemoryModel
	secEntryPoints
	secExecutionModes
	secDebugStrings
	secDebugNames
	secAnnotations
	secTypes
	secFunctions
	sectionCount
)

// ModuleBuilder assembles SPIR-V modules. It allocates ids and keeps
// instructions in their required logical order, but performs no
// validation; it exists to produce test fixtures and small patched
// modules.
type ModuleBuilder struct {
	version   Version
	generator uint32
	sections  [sectionCount][]Instruction
	nextID    uint32
}

// NewModuleBuilder creates a new SPIR-V module builder.
func NewModuleBuilder(version Version) *ModuleBuilder {
	return &ModuleBuilder{
		version:   version,
		generator: GeneratorID,
		nextID:    1,
	}
}

// AllocID allocates a new SPIR-V ID.
func (b *ModuleBuilder) AllocID() uint32 {
	id := b.nextID
	b.nextID++
	return id
}

func (b *ModuleBuilder) emit(s section, op OpCode, words ...uint32) {
	b.sections[s] = append(b.sections[s], Instruction{Opcode: op, Words: words})
}

// emitResult allocates a result id and emits op with the id as the
// first operand.
func (b *ModuleBuilder) emitResult(s section, op OpCode, operands ...uint32) uint32 {
	id := b.AllocID()
	b.emit(s, op, append([]uint32{id}, operands...)...)
	return id
}

// emitTyped allocates a result id and emits op as
// "resultType id operands...".
func (b *ModuleBuilder) emitTyped(s section, op OpCode, resultType uint32, operands ...uint32) uint32 {
	id := b.AllocID()
	b.emit(s, op, append([]uint32{resultType, id}, operands...)...)
	return id
}

// AddCapability adds a capability.
func (b *ModuleBuilder) AddCapability(capability Capability) {
	b.emit(secCapabilities, OpCapability, uint32(capability))
}

// AddExtension adds an extension.
func (b *ModuleBuilder) AddExtension(name string) {
	b.emit(secExtensions, OpExtension, appendString(nil, name)...)
}

// AddExtInstImport imports an extended instruction set.
func (b *ModuleBuilder) AddExtInstImport(name string) uint32 {
	return b.emitResult(secExtInstImports, OpExtInstImport, appendString(nil, name)...)
}

// SetMemoryModel sets the memory model, replacing any previous one.
func (b *ModuleBuilder) SetMemoryModel(addressing AddressingModel, memory MemoryModel) {
	b.sections[secMemoryModel] = nil
	b.emit(secMemoryModel, OpMemoryModel, uint32(addressing), uint32(memory))
}

// AddEntryPoint adds an entry point.
func (b *ModuleBuilder) AddEntryPoint(model ExecutionModel, funcID uint32, name string, interfaces ...uint32) {
	words := appendString([]uint32{uint32(model), funcID}, name)
	b.emit(secEntryPoints, OpEntryPoint, append(words, interfaces...)...)
}

// AddExecutionMode adds an execution mode.
func (b *ModuleBuilder) AddExecutionMode(entryPoint uint32, mode ExecutionMode, params ...uint32) {
	b.emit(secExecutionModes, OpExecutionMode, append([]uint32{entryPoint, uint32(mode)}, params...)...)
}

// AddString adds a debug string.
func (b *ModuleBuilder) AddString(text string) uint32 {
	return b.emitResult(secDebugStrings, OpString, appendString(nil, text)...)
}

// AddName adds a debug name.
func (b *ModuleBuilder) AddName(id uint32, name string) {
	b.emit(secDebugNames, OpName, appendString([]uint32{id}, name)...)
}

// AddMemberName adds a debug member name.
func (b *ModuleBuilder) AddMemberName(structID, member uint32, name string) {
	b.emit(secDebugNames, OpMemberName, appendString([]uint32{structID, member}, name)...)
}

// AddDecorate adds a decoration.
func (b *ModuleBuilder) AddDecorate(id uint32, decoration Decoration, params ...uint32) {
	b.emit(secAnnotations, OpDecorate, append([]uint32{id, uint32(decoration)}, params...)...)
}

// AddMemberDecorate adds a member decoration.
func (b *ModuleBuilder) AddMemberDecorate(structID, member uint32, decoration Decoration, params ...uint32) {
	b.emit(secAnnotations, OpMemberDecorate, append([]uint32{structID, member, uint32(decoration)}, params...)...)
}

// AddDecorationGroup adds an OpDecorationGroup. Decorate the returned
// id with AddDecorate before applying it with AddGroupDecorate.
func (b *ModuleBuilder) AddDecorationGroup() uint32 {
	return b.emitResult(secAnnotations, OpDecorationGroup)
}

// AddGroupDecorate applies the decorations of group to targets.
func (b *ModuleBuilder) AddGroupDecorate(group uint32, targets ...uint32) {
	b.emit(secAnnotations, OpGroupDecorate, append([]uint32{group}, targets...)...)
}

// AddTypeVoid adds OpTypeVoid.
func (b *ModuleBuilder) AddTypeVoid() uint32 { return b.emitResult(secTypes, OpTypeVoid) }

// AddTypeBool adds OpTypeBool.
func (b *ModuleBuilder) AddTypeBool() uint32 { return b.emitResult(secTypes, OpTypeBool) }

// AddTypeFloat adds OpTypeFloat.
func (b *ModuleBuilder) AddTypeFloat(width uint32) uint32 {
	return b.emitResult(secTypes, OpTypeFloat, width)
}

// AddTypeInt adds OpTypeInt.
func (b *ModuleBuilder) AddTypeInt(width uint32, signed bool) uint32 {
	var signedness uint32
	if signed {
		signedness = 1
	}
	return b.emitResult(secTypes, OpTypeInt, width, signedness)
}

// AddTypeVector adds OpTypeVector.
func (b *ModuleBuilder) AddTypeVector(componentType, count uint32) uint32 {
	return b.emitResult(secTypes, OpTypeVector, componentType, count)
}

// AddTypeMatrix adds OpTypeMatrix.
func (b *ModuleBuilder) AddTypeMatrix(columnType, columnCount uint32) uint32 {
	return b.emitResult(secTypes, OpTypeMatrix, columnType, columnCount)
}

// ImageType describes the operands of OpTypeImage.
type ImageType struct {
	SampledType uint32
	Dim         Dim
	Depth       uint32
	Arrayed     bool
	Multisample bool
	// Sampled is 1 for images used with a sampler and 2 for
	// storage images.
	Sampled uint32
	Format  uint32
}

// AddTypeImage adds OpTypeImage.
func (b *ModuleBuilder) AddTypeImage(img ImageType) uint32 {
	return b.emitResult(secTypes, OpTypeImage,
		img.SampledType, uint32(img.Dim), img.Depth,
		boolWord(img.Arrayed), boolWord(img.Multisample),
		img.Sampled, img.Format)
}

// AddTypeSampler adds OpTypeSampler.
func (b *ModuleBuilder) AddTypeSampler() uint32 { return b.emitResult(secTypes, OpTypeSampler) }

// AddTypeSampledImage adds OpTypeSampledImage.
func (b *ModuleBuilder) AddTypeSampledImage(imageType uint32) uint32 {
	return b.emitResult(secTypes, OpTypeSampledImage, imageType)
}

// AddTypeArray adds OpTypeArray. length is the id of a constant.
func (b *ModuleBuilder) AddTypeArray(elementType, length uint32) uint32 {
	return b.emitResult(secTypes, OpTypeArray, elementType, length)
}

// AddTypeRuntimeArray adds OpTypeRuntimeArray.
func (b *ModuleBuilder) AddTypeRuntimeArray(elementType uint32) uint32 {
	return b.emitResult(secTypes, OpTypeRuntimeArray, elementType)
}

// AddTypeStruct adds OpTypeStruct.
func (b *ModuleBuilder) AddTypeStruct(memberTypes ...uint32) uint32 {
	return b.emitResult(secTypes, OpTypeStruct, memberTypes...)
}

// AddTypePointer adds OpTypePointer.
func (b *ModuleBuilder) AddTypePointer(storageClass StorageClass, baseType uint32) uint32 {
	return b.emitResult(secTypes, OpTypePointer, uint32(storageClass), baseType)
}

// AddTypeFunction adds OpTypeFunction.
func (b *ModuleBuilder) AddTypeFunction(returnType uint32, paramTypes ...uint32) uint32 {
	return b.emitResult(secTypes, OpTypeFunction, append([]uint32{returnType}, paramTypes...)...)
}

// AddConstant adds OpConstant.
func (b *ModuleBuilder) AddConstant(typeID uint32, values ...uint32) uint32 {
	return b.emitTyped(secTypes, OpConstant, typeID, values...)
}

// AddConstantComposite adds OpConstantComposite.
func (b *ModuleBuilder) AddConstantComposite(typeID uint32, constituents ...uint32) uint32 {
	return b.emitTyped(secTypes, OpConstantComposite, typeID, constituents...)
}

// AddVariable adds a module-scope OpVariable.
func (b *ModuleBuilder) AddVariable(pointerType uint32, storageClass StorageClass) uint32 {
	return b.emitTyped(secTypes, OpVariable, pointerType, uint32(storageClass))
}

// AddFunction opens a function definition.
func (b *ModuleBuilder) AddFunction(funcType, returnType uint32, control FunctionControl) uint32 {
	return b.emitTyped(secFunctions, OpFunction, returnType, uint32(control), funcType)
}

// AddFunctionParameter adds a function parameter.
func (b *ModuleBuilder) AddFunctionParameter(typeID uint32) uint32 {
	return b.emitTyped(secFunctions, OpFunctionParameter, typeID)
}

// AddLabel adds a label.
func (b *ModuleBuilder) AddLabel() uint32 { return b.emitResult(secFunctions, OpLabel) }

// AddLoad adds OpLoad.
func (b *ModuleBuilder) AddLoad(resultType, pointer uint32) uint32 {
	return b.emitTyped(secFunctions, OpLoad, resultType, pointer)
}

// AddStore adds OpStore.
func (b *ModuleBuilder) AddStore(pointer, value uint32) {
	b.emit(secFunctions, OpStore, pointer, value)
}

// AddAccessChain adds OpAccessChain.
func (b *ModuleBuilder) AddAccessChain(resultType, base uint32, indices ...uint32) uint32 {
	return b.emitTyped(secFunctions, OpAccessChain, resultType, append([]uint32{base}, indices...)...)
}

// AddArrayLength adds OpArrayLength.
func (b *ModuleBuilder) AddArrayLength(resultType, structPointer, member uint32) uint32 {
	return b.emitTyped(secFunctions, OpArrayLength, resultType, structPointer, member)
}

// AddSampledImage adds OpSampledImage.
func (b *ModuleBuilder) AddSampledImage(resultType, image, sampler uint32) uint32 {
	return b.emitTyped(secFunctions, OpSampledImage, resultType, image, sampler)
}

// AddFunctionCall adds OpFunctionCall.
func (b *ModuleBuilder) AddFunctionCall(resultType, function uint32, args ...uint32) uint32 {
	return b.emitTyped(secFunctions, OpFunctionCall, resultType, append([]uint32{function}, args...)...)
}

// AddReturn adds OpReturn.
func (b *ModuleBuilder) AddReturn() { b.emit(secFunctions, OpReturn) }

// AddReturnValue adds OpReturnValue.
func (b *ModuleBuilder) AddReturnValue(valueID uint32) {
	b.emit(secFunctions, OpReturnValue, valueID)
}

// AddFunctionEnd adds OpFunctionEnd.
func (b *ModuleBuilder) AddFunctionEnd() { b.emit(secFunctions, OpFunctionEnd) }

// Module returns the assembled module without encoding it.
func (b *ModuleBuilder) Module() *Module {
	m := &Module{
		Header: Header{
			Version:   b.version,
			Generator: b.generator,
			Bound:     b.nextID,
		},
	}
	for _, insts := range b.sections {
		m.Instructions = append(m.Instructions, insts...)
	}
	return m
}

// Build generates the final SPIR-V binary.
func (b *ModuleBuilder) Build() []byte {
	return b.Module().Bytes()
}

func boolWord(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
