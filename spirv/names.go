package spirv

import "fmt"

var opcodeNames = map[OpCode]string{
	0: "OpNop", 1: "OpUndef", 2: "OpSourceContinued", 3: "OpSource",
	4: "OpSourceExtension", 5: "OpName", 6: "OpMemberName", 7: "OpString",
	8: "OpLine", 10: "OpExtension", 11: "OpExtInstImport", 12: "OpExtInst",
	14: "OpMemoryModel", 15: "OpEntryPoint", 16: "OpExecutionMode",
	17: "OpCapability", 19: "OpTypeVoid", 20: "OpTypeBool",
	21: "OpTypeInt", 22: "OpTypeFloat", 23: "OpTypeVector",
	24: "OpTypeMatrix", 25: "OpTypeImage", 26: "OpTypeSampler",
	27: "OpTypeSampledImage", 28: "OpTypeArray", 29: "OpTypeRuntimeArray",
	30: "OpTypeStruct", 31: "OpTypeOpaque", 32: "OpTypePointer",
	33: "OpTypeFunction", 41: "OpConstantTrue", 42: "OpConstantFalse",
	43: "OpConstant", 44: "OpConstantComposite", 45: "OpConstantSampler",
	46: "OpConstantNull", 48: "OpSpecConstantTrue", 49: "OpSpecConstantFalse",
	50: "OpSpecConstant", 51: "OpSpecConstantComposite", 52: "OpSpecConstantOp",
	54: "OpFunction", 55: "OpFunctionParameter", 56: "OpFunctionEnd",
	57: "OpFunctionCall", 59: "OpVariable", 60: "OpImageTexelPointer",
	61: "OpLoad", 62: "OpStore", 63: "OpCopyMemory", 64: "OpCopyMemorySized",
	65: "OpAccessChain", 66: "OpInBoundsAccessChain", 67: "OpPtrAccessChain",
	68: "OpArrayLength", 70: "OpInBoundsPtrAccessChain", 71: "OpDecorate",
	72: "OpMemberDecorate", 73: "OpDecorationGroup", 74: "OpGroupDecorate",
	75: "OpGroupMemberDecorate", 77: "OpVectorExtractDynamic",
	78: "OpVectorInsertDynamic", 79: "OpVectorShuffle", 80: "OpCompositeConstruct",
	81: "OpCompositeExtract", 82: "OpCompositeInsert", 83: "OpCopyObject",
	84: "OpTranspose", 86: "OpSampledImage", 87: "OpImageSampleImplicitLod",
	88: "OpImageSampleExplicitLod", 89: "OpImageSampleDrefImplicitLod",
	90: "OpImageSampleDrefExplicitLod", 95: "OpImageFetch",
	96: "OpImageGather", 97: "OpImageDrefGather", 98: "OpImageRead",
	99: "OpImageWrite", 100: "OpImage", 103: "OpImageQuerySizeLod",
	104: "OpImageQuerySize", 106: "OpImageQueryLevels", 107: "OpImageQuerySamples",
	109: "OpConvertFToU", 110: "OpConvertFToS", 111: "OpConvertSToF",
	112: "OpConvertUToF", 124: "OpBitcast", 126: "OpSNegate", 127: "OpFNegate",
	128: "OpIAdd", 129: "OpFAdd", 130: "OpISub", 131: "OpFSub", 132: "OpIMul",
	133: "OpFMul", 134: "OpUDiv", 135: "OpSDiv", 136: "OpFDiv",
	142: "OpVectorTimesScalar", 143: "OpMatrixTimesScalar",
	144: "OpVectorTimesMatrix", 145: "OpMatrixTimesVector",
	146: "OpMatrixTimesMatrix", 148: "OpDot", 179: "OpSelect",
	180: "OpIEqual", 181: "OpINotEqual", 186: "OpULessThan", 187: "OpSLessThan",
	190: "OpFOrdEqual", 197: "OpBitwiseOr", 198: "OpBitwiseXor", 199: "OpBitwiseAnd",
	224: "OpControlBarrier", 225: "OpMemoryBarrier",
	227: "OpAtomicLoad", 228: "OpAtomicStore", 229: "OpAtomicExchange",
	230: "OpAtomicCompareExchange", 232: "OpAtomicIIncrement",
	233: "OpAtomicIDecrement", 234: "OpAtomicIAdd", 235: "OpAtomicISub",
	236: "OpAtomicSMin", 237: "OpAtomicUMin", 238: "OpAtomicSMax",
	239: "OpAtomicUMax", 240: "OpAtomicAnd", 241: "OpAtomicOr", 242: "OpAtomicXor",
	245: "OpPhi", 246: "OpLoopMerge", 247: "OpSelectionMerge",
	248: "OpLabel", 249: "OpBranch", 250: "OpBranchConditional",
	251: "OpSwitch", 252: "OpKill", 253: "OpReturn", 254: "OpReturnValue",
	255: "OpUnreachable",
}

func (op OpCode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Op%d", uint16(op))
}

var decorationNames = map[Decoration]string{
	0: "RelaxedPrecision", 1: "SpecId", 2: "Block", 3: "BufferBlock",
	4: "RowMajor", 5: "ColMajor", 6: "ArrayStride", 7: "MatrixStride",
	11: "BuiltIn", 14: "Flat", 18: "Invariant", 19: "Restrict",
	20: "Aliased", 23: "Coherent", 24: "NonWritable", 25: "NonReadable",
	30: "Location", 31: "Component", 33: "Binding", 34: "DescriptorSet",
	35: "Offset",
}

func (d Decoration) String() string {
	if s, ok := decorationNames[d]; ok {
		return s
	}
	return fmt.Sprintf("Decoration(%d)", uint32(d))
}

var storageClassNames = map[StorageClass]string{
	0: "UniformConstant", 1: "Input", 2: "Uniform", 3: "Output",
	4: "Workgroup", 5: "CrossWorkgroup", 6: "Private", 7: "Function",
	8: "Generic", 9: "PushConstant", 10: "AtomicCounter", 11: "Image",
	12: "StorageBuffer",
}

func (sc StorageClass) String() string {
	if s, ok := storageClassNames[sc]; ok {
		return s
	}
	return fmt.Sprintf("StorageClass(%d)", uint32(sc))
}

var executionModelNames = map[ExecutionModel]string{
	0: "Vertex", 1: "TessellationControl", 2: "TessellationEvaluation",
	3: "Geometry", 4: "Fragment", 5: "GLCompute", 6: "Kernel",
}

func (m ExecutionModel) String() string {
	if s, ok := executionModelNames[m]; ok {
		return s
	}
	return fmt.Sprintf("ExecutionModel(%d)", uint32(m))
}

var dimNames = map[Dim]string{
	0: "1D", 1: "2D", 2: "3D", 3: "Cube", 4: "Rect", 5: "Buffer", 6: "SubpassData",
}

func (d Dim) String() string {
	if s, ok := dimNames[d]; ok {
		return s
	}
	return fmt.Sprintf("Dim(%d)", uint32(d))
}
