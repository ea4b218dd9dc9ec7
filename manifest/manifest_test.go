package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/shaderset/cross"
	"github.com/gogpu/shaderset/glslc"
	"github.com/gogpu/shaderset/shader"
)

const planet = `
shader_set "planet" {
  debug = var.debug
  macro "Name0" { value = "Value0" }
  macro "Name1" { value = "Value1" }
  macro "Name2" {}
  stage "vertex"   { file = "planet.vert" }
  stage "fragment" { file = "shaders/planet.frag" }
  cross "hlsl" { version = "51" }
  cross "es" {
    fix_clip_space_z       = false
    invert_vertex_output_y = true
  }
}

shader_set "blur" {
  stage "compute" { file = "/abs/blur.comp" }
}
`

func TestParse(t *testing.T) {
	m, err := Parse(context.Background(), []byte(planet), "assets/sets.hcl", map[string]string{"debug": "true"})
	require.NoError(t, err)
	require.Len(t, m.Sets, 2)

	set, ok := m.Set("planet")
	require.True(t, ok)
	require.True(t, set.Options.Debug())
	require.Equal(t, []glslc.MacroDefinition{
		{Name: "Name0", Value: "Value0"},
		{Name: "Name1", Value: "Value1"},
		{Name: "Name2"},
	}, set.Options.Macros())
	require.Equal(t, []Stage{
		{Stage: shader.StageVertex, Path: filepath.Join("assets", "planet.vert")},
		{Stage: shader.StageFragment, Path: filepath.Join("assets", "shaders", "planet.frag")},
	}, set.Stages)
	require.Equal(t, []cross.Options{
		{Target: cross.HLSL, Version: "51"},
		{Target: cross.ESSL, Version: "310", InvertVertexOutputY: true},
	}, set.Cross)

	blur, ok := m.Set("blur")
	require.True(t, ok)
	require.False(t, blur.Options.Debug())
	require.Equal(t, "/abs/blur.comp", blur.Stages[0].Path)

	_, ok = m.Set("missing")
	require.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"syntax":           `shader_set "a" {`,
		"unknown stage":    "shader_set \"a\" {\n  stage \"pixel\" {\n    file = \"a.ps\"\n  }\n}\n",
		"unknown target":   "shader_set \"a\" {\n  cross \"wgsl\" {}\n}\n",
		"bad shader model": "shader_set \"a\" {\n  cross \"hlsl\" {\n    version = \"42\"\n  }\n}\n",
		"duplicate stage":  "shader_set \"a\" {\n  stage \"vertex\" {\n    file = \"a.vert\"\n  }\n  stage \"vert\" {\n    file = \"b.vert\"\n  }\n}\n",
		"duplicate set":    "shader_set \"a\" {}\nshader_set \"a\" {}\n",
		"unknown block":    `pipeline "a" {}`,
		"missing file":     "shader_set \"a\" {\n  stage \"vertex\" {}\n}\n",
		"undefined var":    `shader_set "a" { debug = var.nope }`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(context.Background(), []byte(src), "bad.hcl", nil)
			require.Error(t, err)
			require.Contains(t, err.Error(), "bad.hcl")
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sets.hcl")
	require.NoError(t, os.WriteFile(path, []byte(planet), 0o644))

	m, err := Load(context.Background(), path, map[string]string{"debug": "false"})
	require.NoError(t, err)
	require.Equal(t, path, m.Path)
	require.Equal(t, filepath.Join(dir, "planet.vert"), m.Sets[0].Stages[0].Path)
	require.False(t, m.Sets[0].Options.Debug())

	_, err = Load(context.Background(), filepath.Join(dir, "missing.hcl"), nil)
	require.ErrorIs(t, err, os.ErrNotExist)
}
