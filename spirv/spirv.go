package spirv

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/shaderset/shader"
)

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// word returns the header encoding of v.
func (v Version) word() uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}

func versionFromWord(w uint32) Version {
	return Version{Major: uint8(w >> 16), Minor: uint8(w >> 8)}
}

// SPIR-V magic number and constants
const (
	MagicNumber = 0x07230203
	GeneratorID = 0x00000000 // Unregistered generator

	// headerWords is the size of the module header.
	headerWords = 5
)

// HasHeader reports whether data starts with the SPIR-V magic
// number in little-endian byte order. Any other payload is
// treated as shader source text.
func HasHeader(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == MagicNumber
}

// Capability represents a SPIR-V capability.
type Capability uint32

// Common capabilities
const (
	CapabilityMatrix   Capability = 0
	CapabilityShader   Capability = 1
	CapabilityGeometry Capability = 2
	CapabilityTess     Capability = 3
)

// AddressingModel is the operand of OpMemoryModel.
type AddressingModel uint32

// MemoryModel is the operand of OpMemoryModel.
type MemoryModel uint32

// Addressing and memory models.
const (
	AddressingModelLogical AddressingModel = 0
	MemoryModelGLSL450     MemoryModel     = 1
)

// ExecutionModel identifies the stage of an entry point.
type ExecutionModel uint32

// Execution models.
const (
	ExecutionModelVertex                 ExecutionModel = 0
	ExecutionModelTessellationControl    ExecutionModel = 1
	ExecutionModelTessellationEvaluation ExecutionModel = 2
	ExecutionModelGeometry               ExecutionModel = 3
	ExecutionModelFragment               ExecutionModel = 4
	ExecutionModelGLCompute              ExecutionModel = 5
	ExecutionModelKernel                 ExecutionModel = 6
)

// Stage maps m to its shader stage.
// Kernel and unknown models have no graphics stage.
func (m ExecutionModel) Stage() (shader.Stage, error) {
	switch m {
	case ExecutionModelVertex:
		return shader.StageVertex, nil
	case ExecutionModelTessellationControl:
		return shader.StageTessellationControl, nil
	case ExecutionModelTessellationEvaluation:
		return shader.StageTessellationEvaluation, nil
	case ExecutionModelGeometry:
		return shader.StageGeometry, nil
	case ExecutionModelFragment:
		return shader.StageFragment, nil
	case ExecutionModelGLCompute:
		return shader.StageCompute, nil
	}
	return shader.StageNone, fmt.Errorf("spirv: execution model %d has no shader stage", uint32(m))
}

// ExecutionModelOf is the inverse of ExecutionModel.Stage.
func ExecutionModelOf(s shader.Stage) (ExecutionModel, error) {
	switch s {
	case shader.StageVertex:
		return ExecutionModelVertex, nil
	case shader.StageTessellationControl:
		return ExecutionModelTessellationControl, nil
	case shader.StageTessellationEvaluation:
		return ExecutionModelTessellationEvaluation, nil
	case shader.StageGeometry:
		return ExecutionModelGeometry, nil
	case shader.StageFragment:
		return ExecutionModelFragment, nil
	case shader.StageCompute:
		return ExecutionModelGLCompute, nil
	}
	return 0, &shader.UnsupportedStageError{Stage: s}
}

// ExecutionMode is the mode operand of OpExecutionMode.
type ExecutionMode uint32

// Execution modes used by this package.
const (
	ExecutionModeOriginUpperLeft ExecutionMode = 7
	ExecutionModeLocalSize       ExecutionMode = 17
)

// FunctionControl is the control mask of OpFunction.
type FunctionControl uint32

// FunctionControlNone is the empty control mask.
const FunctionControlNone FunctionControl = 0

// StorageClass is the storage class of a pointer or variable.
type StorageClass uint32

// Storage classes
const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassPushConstant    StorageClass = 9
	StorageClassStorageBuffer   StorageClass = 12
)

// Dim is the dimensionality operand of OpTypeImage.
type Dim uint32

// Image dimensionalities.
const (
	Dim1D          Dim = 0
	Dim2D          Dim = 1
	Dim3D          Dim = 2
	DimCube        Dim = 3
	DimRect        Dim = 4
	DimBuffer      Dim = 5
	DimSubpassData Dim = 6
)

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Opcodes
const (
	OpNop                    OpCode = 0
	OpSource                 OpCode = 3
	OpName                   OpCode = 5
	OpMemberName             OpCode = 6
	OpString                 OpCode = 7
	OpExtension              OpCode = 10
	OpExtInstImport          OpCode = 11
	OpExtInst                OpCode = 12
	OpMemoryModel            OpCode = 14
	OpEntryPoint             OpCode = 15
	OpExecutionMode          OpCode = 16
	OpCapability             OpCode = 17
	OpTypeVoid               OpCode = 19
	OpTypeBool               OpCode = 20
	OpTypeInt                OpCode = 21
	OpTypeFloat              OpCode = 22
	OpTypeVector             OpCode = 23
	OpTypeMatrix             OpCode = 24
	OpTypeImage              OpCode = 25
	OpTypeSampler            OpCode = 26
	OpTypeSampledImage       OpCode = 27
	OpTypeArray              OpCode = 28
	OpTypeRuntimeArray       OpCode = 29
	OpTypeStruct             OpCode = 30
	OpTypePointer            OpCode = 32
	OpTypeFunction           OpCode = 33
	OpConstantTrue           OpCode = 41
	OpConstantFalse          OpCode = 42
	OpConstant               OpCode = 43
	OpConstantComposite      OpCode = 44
	OpSpecConstant           OpCode = 50
	OpFunction               OpCode = 54
	OpFunctionParameter      OpCode = 55
	OpFunctionEnd            OpCode = 56
	OpFunctionCall           OpCode = 57
	OpVariable               OpCode = 59
	OpImageTexelPointer      OpCode = 60
	OpLoad                   OpCode = 61
	OpStore                  OpCode = 62
	OpCopyMemory             OpCode = 63
	OpCopyMemorySized        OpCode = 64
	OpAccessChain            OpCode = 65
	OpInBoundsAccessChain    OpCode = 66
	OpPtrAccessChain         OpCode = 67
	OpArrayLength            OpCode = 68
	OpInBoundsPtrAccessChain OpCode = 70
	OpDecorate               OpCode = 71
	OpMemberDecorate         OpCode = 72
	OpDecorationGroup        OpCode = 73
	OpGroupDecorate          OpCode = 74
	OpGroupMemberDecorate    OpCode = 75
	OpCompositeConstruct     OpCode = 80
	OpCompositeExtract       OpCode = 81
	OpCopyObject             OpCode = 83
	OpSampledImage           OpCode = 86
	OpImageSampleImplicitLod OpCode = 87
	OpImageFetch             OpCode = 95
	OpImageRead              OpCode = 98
	OpImageWrite             OpCode = 99
	OpAtomicLoad             OpCode = 227
	OpAtomicStore            OpCode = 228
	OpAtomicXor              OpCode = 242
	OpLabel                  OpCode = 248
	OpBranch                 OpCode = 249
	OpReturn                 OpCode = 253
	OpReturnValue            OpCode = 254
)

// Decoration represents a SPIR-V decoration.
type Decoration uint32

// Common decorations
const (
	DecorationBlock         Decoration = 2
	DecorationBufferBlock   Decoration = 3
	DecorationRowMajor      Decoration = 4
	DecorationColMajor      Decoration = 5
	DecorationArrayStride   Decoration = 6
	DecorationMatrixStride  Decoration = 7
	DecorationBuiltIn       Decoration = 11
	DecorationNonWritable   Decoration = 24
	DecorationNonReadable   Decoration = 25
	DecorationLocation      Decoration = 30
	DecorationBinding       Decoration = 33
	DecorationDescriptorSet Decoration = 34
	DecorationOffset        Decoration = 35
)
