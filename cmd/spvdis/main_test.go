package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/shaderset/internal/spvtest"
	"github.com/gogpu/shaderset/shader"
	"github.com/gogpu/shaderset/spirv"
)

func fixture() []byte {
	return spvtest.Module(shader.StageFragment,
		spvtest.Binding{Name: "globals", Set: 0, Binding: 0, Kind: shader.UniformBuffer},
		spvtest.Binding{Name: "albedo", Set: 1, Binding: 0, Kind: shader.TextureReadOnly},
		spvtest.Binding{Name: "shadow", Set: 1, Binding: 1, Kind: shader.Sampler, Unused: true},
	)
}

func TestDisassemble(t *testing.T) {
	var out strings.Builder
	require.NoError(t, disassemble(&out, fixture(), false, ""))
	text := out.String()

	require.True(t, strings.HasPrefix(text, "; SPIR-V\n; Version: 1.0\n"), text)
	for _, want := range []string{
		"OpCapability Shader",
		`OpExtInstImport "GLSL.std.450"`,
		"OpMemoryModel Logical GLSL450",
		`OpEntryPoint Fragment`,
		`"main"`,
		"OpExecutionMode",
		"OriginUpperLeft",
		`OpName`,
		`"albedo"`,
		"DescriptorSet 1",
		"Binding 0",
		"OpTypePointer UniformConstant",
		"OpTypeImage",
		"OpFunctionEnd",
	} {
		require.Contains(t, text, want)
	}
	require.NotContains(t, text, "; Resources")
}

func TestDisassemble_ResultColumn(t *testing.T) {
	var out strings.Builder
	require.NoError(t, disassemble(&out, fixture(), false, ""))
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.Contains(line, "OpLabel") {
			require.Regexp(t, `^ +%\d+ = OpLabel$`, line)
		}
		if strings.Contains(line, "OpReturn") {
			require.Equal(t, "               OpReturn", line)
		}
	}
}

func TestDisassemble_Resources(t *testing.T) {
	var out strings.Builder
	require.NoError(t, disassemble(&out, fixture(), true, ""))
	text := out.String()

	require.Contains(t, text, `; Resources of "main" (fragment)`)
	_, table, ok := strings.Cut(text, "; Resources")
	require.True(t, ok)
	rows := strings.Split(strings.TrimSpace(table), "\n")[1:]
	require.Len(t, rows, 4, table) // header and three resources
	require.Regexp(t, `albedo$`, rows[2])
	require.Contains(t, rows[3], "sampler")
}

func TestDisassemble_Invalid(t *testing.T) {
	var out strings.Builder
	err := disassemble(&out, []byte("not spirv"), false, "")
	var perr *spirv.ParseError
	require.ErrorAs(t, err, &perr)
}
