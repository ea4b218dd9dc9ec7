// Command spvdis prints SPIR-V modules as text.
//
// Usage:
//
//	spvdis [-resources] [-entry name] <file.spv>
//
// With -resources the descriptor resources reflected from the entry
// point are appended as a table.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/gogpu/shaderset/spirv"
)

var capabilities = map[uint32]string{
	0: "Matrix", 1: "Shader", 2: "Geometry", 3: "Tessellation",
	4: "Addresses", 5: "Linkage", 6: "Kernel", 9: "Float16", 10: "Float64",
	11: "Int64", 12: "Int64Atomics", 14: "ImageReadWrite", 15: "ImageMipmap",
	22: "Int16", 25: "ImageGatherExtended", 27: "UniformBufferArrayDynamicIndexing",
	28: "SampledImageArrayDynamicIndexing", 29: "StorageBufferArrayDynamicIndexing",
	30: "StorageImageArrayDynamicIndexing", 31: "ClipDistance", 32: "CullDistance",
	33: "ImageCubeArray", 34: "SampleRateShading", 39: "InputAttachment",
	41: "MinLod", 42: "Sampled1D", 43: "Image1D", 44: "SampledCubeArray",
	45: "SampledBuffer", 46: "ImageBuffer", 49: "ImageQuery", 50: "DerivativeControl",
	54: "StorageImageReadWithoutFormat", 55: "StorageImageWriteWithoutFormat",
	56: "MultiViewport", 4427: "DrawParameters", 5015: "RuntimeDescriptorArray",
}

var builtins = map[uint32]string{
	0: "Position", 1: "PointSize", 3: "CullDistance", 14: "FragCoord",
	15: "PointCoord", 16: "FrontFacing", 22: "FragDepth", 24: "NumWorkgroups",
	26: "WorkgroupId", 27: "LocalInvocationId", 28: "GlobalInvocationId",
	29: "LocalInvocationIndex", 42: "VertexIndex", 43: "InstanceIndex",
}

var executionModes = map[uint32]string{
	7: "OriginUpperLeft", 8: "OriginLowerLeft", 9: "EarlyFragmentTests",
	12: "DepthReplacing", 17: "LocalSize", 22: "Triangles", 26: "OutputVertices",
}

// noResult lists the opcodes above OpTypeFunction that produce no id.
var noResult = map[spirv.OpCode]bool{
	spirv.OpFunctionEnd: true, spirv.OpStore: true, spirv.OpCopyMemory: true,
	spirv.OpCopyMemorySized: true, spirv.OpDecorate: true, spirv.OpMemberDecorate: true,
	spirv.OpGroupDecorate: true, spirv.OpGroupMemberDecorate: true, spirv.OpImageWrite: true,
	218: true, 219: true, 220: true, 221: true, 224: true, 225: true,
	spirv.OpAtomicStore: true, 246: true, 247: true, spirv.OpBranch: true,
	250: true, 251: true, 252: true, spirv.OpReturn: true, spirv.OpReturnValue: true,
	255: true, 256: true, 257: true,
}

func main() {
	resources := flag.Bool("resources", false, "append the reflected resource table")
	entry := flag.String("entry", "", "entry point for -resources (default: the first)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: spvdis [options] <file.spv>\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	w := bufio.NewWriter(os.Stdout)
	err = disassemble(w, data, *resources, *entry)
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func disassemble(w io.Writer, data []byte, resources bool, entry string) error {
	m, err := spirv.Parse(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "; SPIR-V\n")
	fmt.Fprintf(w, "; Version: %s\n", m.Header.Version)
	fmt.Fprintf(w, "; Generator: 0x%08X\n", m.Header.Generator)
	fmt.Fprintf(w, "; Bound: %d\n", m.Header.Bound)
	fmt.Fprintf(w, "; Schema: %d\n", m.Header.Schema)
	fmt.Fprintln(w)

	for _, inst := range m.Instructions {
		fmt.Fprintln(w, format(inst))
	}

	if !resources {
		return nil
	}
	refl, err := m.Reflect(spirv.ReflectOptions{EntryPoint: entry, IncludeInactive: true})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n; Resources of %q (%s)\n", refl.EntryPoint, refl.Stage)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, ";\tSET\tBINDING\tKIND\tCOUNT\tNAME")
	for _, r := range refl.Resources {
		fmt.Fprintf(tw, ";\t%d\t%d\t%s\t%d\t%s\n", r.Set, r.Binding, r.Kind, r.Count, r.Name)
	}
	return tw.Flush()
}

func id(n uint32) string {
	return fmt.Sprintf("%%%d", n)
}

func lookup(m map[uint32]string, v uint32) string {
	if s, ok := m[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", v)
}

func ids(words []uint32) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = id(w)
	}
	return strings.Join(parts, " ")
}

func literals(words []uint32) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprint(w)
	}
	return strings.Join(parts, " ")
}

func join(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String()
}

// format renders one instruction in the assembler's column layout:
// results are right-aligned in front of the opcode.
//
//nolint:gocyclo,cyclop,funlen // dev tool: switch cases for SPIR-V opcodes
func format(inst spirv.Instruction) string {
	const indent = "               "
	name := inst.Opcode.String()
	ops := inst.Words
	result := func(resultID uint32, rest string) string {
		lhs := id(resultID) + " = "
		if pad := len(indent) - len(lhs); pad > 0 {
			lhs = indent[:pad] + lhs
		}
		return lhs + join(name, rest)
	}
	plain := func(rest string) string {
		return indent + join(name, rest)
	}
	quoted := func(start int) (string, int) {
		s, next := spirv.DecodeString(ops, start)
		return fmt.Sprintf("%q", s), next
	}

	switch op := inst.Opcode; {
	case len(ops) == 0:
		return plain("")

	case op == spirv.OpCapability:
		return plain(lookup(capabilities, ops[0]))

	case op == spirv.OpExtension:
		s, _ := quoted(0)
		return plain(s)

	case op == spirv.OpExtInstImport, op == spirv.OpString:
		s, _ := quoted(1)
		return result(ops[0], s)

	case op == spirv.OpMemoryModel && len(ops) >= 2:
		addr := map[uint32]string{0: "Logical", 1: "Physical32", 2: "Physical64", 5348: "PhysicalStorageBuffer64"}
		mem := map[uint32]string{0: "Simple", 1: "GLSL450", 2: "OpenCL", 3: "Vulkan"}
		return plain(join(lookup(addr, ops[0]), lookup(mem, ops[1])))

	case op == spirv.OpEntryPoint && len(ops) >= 3:
		s, next := quoted(2)
		return plain(join(spirv.ExecutionModel(ops[0]).String(), id(ops[1]), s, ids(ops[next:])))

	case op == spirv.OpExecutionMode && len(ops) >= 2:
		return plain(join(id(ops[0]), lookup(executionModes, ops[1]), literals(ops[2:])))

	case op == spirv.OpSource && len(ops) >= 2:
		langs := map[uint32]string{0: "Unknown", 1: "ESSL", 2: "GLSL", 3: "OpenCL_C", 4: "OpenCL_CPP", 5: "HLSL"}
		return plain(join(lookup(langs, ops[0]), literals(ops[1:2]), ids(ops[2:min(3, len(ops))])))

	case op == spirv.OpName && len(ops) >= 1:
		s, _ := quoted(1)
		return plain(join(id(ops[0]), s))

	case op == spirv.OpMemberName && len(ops) >= 2:
		s, _ := quoted(2)
		return plain(join(id(ops[0]), fmt.Sprint(ops[1]), s))

	case op == spirv.OpDecorate && len(ops) >= 2:
		dec := spirv.Decoration(ops[1])
		if dec == spirv.DecorationBuiltIn && len(ops) > 2 {
			return plain(join(id(ops[0]), dec.String(), lookup(builtins, ops[2])))
		}
		return plain(join(id(ops[0]), dec.String(), literals(ops[2:])))

	case op == spirv.OpMemberDecorate && len(ops) >= 3:
		dec := spirv.Decoration(ops[2])
		if dec == spirv.DecorationBuiltIn && len(ops) > 3 {
			return plain(join(id(ops[0]), fmt.Sprint(ops[1]), dec.String(), lookup(builtins, ops[3])))
		}
		return plain(join(id(ops[0]), fmt.Sprint(ops[1]), dec.String(), literals(ops[3:])))

	case op == spirv.OpTypeInt, op == spirv.OpTypeFloat:
		return result(ops[0], literals(ops[1:]))

	case (op == spirv.OpTypeVector || op == spirv.OpTypeMatrix) && len(ops) >= 3:
		return result(ops[0], join(id(ops[1]), fmt.Sprint(ops[2])))

	case op == spirv.OpTypeImage && len(ops) >= 8:
		return result(ops[0], join(id(ops[1]), spirv.Dim(ops[2]).String(), literals(ops[3:7]), lookup(map[uint32]string{0: "Unknown"}, ops[7]), literals(ops[8:])))

	case op == spirv.OpTypeArray && len(ops) >= 3:
		return result(ops[0], ids(ops[1:3]))

	case op == spirv.OpTypePointer && len(ops) >= 3:
		return result(ops[0], join(spirv.StorageClass(ops[1]).String(), id(ops[2])))

	case op >= spirv.OpTypeVoid && op <= spirv.OpTypeFunction:
		return result(ops[0], ids(ops[1:]))

	case (op == spirv.OpConstant || op == spirv.OpSpecConstant) && len(ops) >= 2:
		return result(ops[1], join(id(ops[0]), literals(ops[2:])))

	case op == spirv.OpFunction && len(ops) >= 4:
		control := "None"
		if ops[2] != 0 {
			control = fmt.Sprintf("0x%x", ops[2])
		}
		return result(ops[1], join(id(ops[0]), control, id(ops[3])))

	case op == spirv.OpVariable && len(ops) >= 3:
		return result(ops[1], join(id(ops[0]), spirv.StorageClass(ops[2]).String(), ids(ops[3:])))

	case op == spirv.OpDecorationGroup, op == spirv.OpLabel:
		return result(ops[0], "")

	case op == spirv.OpCompositeExtract && len(ops) >= 3:
		return result(ops[1], join(id(ops[0]), id(ops[2]), literals(ops[3:])))

	case noResult[op] || op < spirv.OpTypeVoid:
		return plain(ids(ops))

	case len(ops) >= 2:
		// Everything else is <result type> <result id> <operands...>.
		return result(ops[1], join(id(ops[0]), ids(ops[2:])))

	default:
		return plain(ids(ops))
	}
}
