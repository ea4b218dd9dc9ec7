package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/shaderset/internal/spvtest"
	"github.com/gogpu/shaderset/shader"
)

// writePlanet writes precompiled planet stages to dir, so no compiler
// is needed.
func writePlanet(t *testing.T, dir string) (vert, frag string) {
	t.Helper()
	vert = filepath.Join(dir, "planet.vert.spv")
	frag = filepath.Join(dir, "planet.frag.spv")
	require.NoError(t, os.WriteFile(vert, spvtest.Module(shader.StageVertex,
		spvtest.Binding{Name: "Globals", Set: 0, Binding: 0, Kind: shader.UniformBuffer},
	), 0o644))
	require.NoError(t, os.WriteFile(frag, spvtest.Module(shader.StageFragment,
		spvtest.Binding{Name: "Globals", Set: 0, Binding: 0, Kind: shader.UniformBuffer},
		spvtest.Binding{Name: "Material", Set: 0, Binding: 2, Kind: shader.UniformBuffer},
		spvtest.Binding{Name: "surface", Set: 1, Binding: 0, Kind: shader.TextureReadOnly},
		spvtest.Binding{Name: "surfaceSampler", Set: 1, Binding: 1, Kind: shader.Sampler},
	), 0o644))
	return vert, frag
}

func TestRun_JSON(t *testing.T) {
	dir := t.TempDir()
	vert, frag := writePlanet(t, dir)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"-format", "json", vert, frag}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	var out []struct {
		Name   string `json:"name"`
		Stages []struct {
			Stage    string `json:"stage"`
			Compiled bool   `json:"compiled"`
		} `json:"stages"`
		Layout struct {
			Sets []struct {
				Index   int `json:"index"`
				Entries []struct {
					Name        string `json:"name"`
					Kind        string `json:"kind"`
					Stages      string `json:"stages"`
					Placeholder bool   `json:"placeholder"`
				} `json:"entries"`
			} `json:"sets"`
		} `json:"layout"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	require.Len(t, out, 1)
	require.Equal(t, "planet", out[0].Name)
	require.Equal(t, "vertex", out[0].Stages[0].Stage)
	require.False(t, out[0].Stages[0].Compiled)

	sets := out[0].Layout.Sets
	require.Len(t, sets, 2)
	require.Equal(t, "vdspv_0_0", sets[0].Entries[0].Name)
	require.Equal(t, "vertex|fragment", sets[0].Entries[0].Stages)
	require.True(t, sets[0].Entries[1].Placeholder)
	require.Equal(t, "sampler", sets[1].Entries[1].Kind)
}

func TestRun_YAMLAndOutputDir(t *testing.T) {
	dir := t.TempDir()
	vert, frag := writePlanet(t, dir)
	outDir := filepath.Join(dir, "out")
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"-o", outDir, "-name", "world", vert, frag}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	var out []map[string]any
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &out))
	require.Equal(t, "world", out[0]["name"])

	written, err := os.ReadFile(filepath.Join(outDir, "world.frag.spv"))
	require.NoError(t, err)
	original, err := os.ReadFile(frag)
	require.NoError(t, err)
	require.Equal(t, original, written)
	require.FileExists(t, filepath.Join(outDir, "world.vert.spv"))
}

func TestRun_Manifest(t *testing.T) {
	dir := t.TempDir()
	writePlanet(t, dir)
	manifestPath := filepath.Join(dir, "sets.hcl")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`
shader_set "planet" {
  stage "vertex"   { file = "planet.vert.spv" }
  stage "fragment" { file = var.frag }
}
`), 0o644))
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"-manifest", manifestPath, "-var", "frag=planet.frag.spv", "-format", "json"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	require.Contains(t, stdout.String(), `"vdspv_1_1"`)
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-h"}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "Usage:")
	require.Empty(t, stdout.String())
}

func TestRun_UsageErrors(t *testing.T) {
	dir := t.TempDir()
	vert, _ := writePlanet(t, dir)
	tests := map[string][]string{
		"no input":          {},
		"unknown flag":      {"-nope", vert},
		"bad format":        {"-format", "toml", vert},
		"bad log level":     {"-log-level", "loud", vert},
		"bad cross":         {"-cross", "wgsl", "-o", dir, vert},
		"cross without -o":  {"-cross", "hlsl", vert},
		"manifest and file": {"-manifest", "x.hcl", vert},
		"unknown extension": {filepath.Join(dir, "shader.txt")},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), args, &stdout, &stderr)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			require.Equal(t, 2, exitErr.Code)
		})
	}
}

func TestRun_Conflict(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "a.vert.spv")
	frag := filepath.Join(dir, "a.frag.spv")
	require.NoError(t, os.WriteFile(vert, spvtest.Module(shader.StageVertex,
		spvtest.Binding{Name: "a", Kind: shader.UniformBuffer}), 0o644))
	require.NoError(t, os.WriteFile(frag, spvtest.Module(shader.StageFragment,
		spvtest.Binding{Name: "b", Kind: shader.Sampler}), 0o644))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{vert, frag}, &stdout, &stderr)
	require.ErrorContains(t, err, "set 0 binding 0 declared as uniform_buffer in vertex and as sampler in fragment")
}

func TestStageOf(t *testing.T) {
	for path, want := range map[string]shader.Stage{
		"a.vert":          shader.StageVertex,
		"dir/b.frag":      shader.StageFragment,
		"c.comp.spv":      shader.StageCompute,
		"d.tesc":          shader.StageTessellationControl,
		"e.tese.SPV":      shader.StageTessellationEvaluation,
		"f.v2.geom":       shader.StageGeometry,
		"planet.frag.spv": shader.StageFragment,
	} {
		got, err := stageOf(path)
		require.NoError(t, err, path)
		require.Equal(t, want, got, path)
	}
	for _, path := range []string{"noext", "a.spv", "a.glsl"} {
		_, err := stageOf(path)
		require.Error(t, err, path)
	}
	require.Equal(t, "planet", setName("dir/planet.vert.spv"))
}
