// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cross

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shaderset/layout"
	"github.com/gogpu/shaderset/shader"
)

const (
	vs = shader.StageVertex
	fs = shader.StageFragment
)

// planetLayout is the layout of a vertex/fragment pair with a hole at
// set 0 binding 1.
func planetLayout(t *testing.T) *layout.Layout {
	t.Helper()
	l, err := layout.Merge(map[shader.Stage][]shader.Resource{
		vs: {{Set: 0, Binding: 0, Kind: shader.UniformBuffer, Count: 1}},
		fs: {
			{Set: 0, Binding: 0, Kind: shader.UniformBuffer, Count: 1},
			{Set: 0, Binding: 2, Kind: shader.UniformBuffer, Count: 1},
			{Set: 1, Binding: 0, Kind: shader.TextureReadOnly, Count: 1},
			{Set: 1, Binding: 1, Kind: shader.Sampler, Count: 1},
			{Set: 1, Binding: 2, Kind: shader.StructuredBufferReadWrite, Count: 1},
			{Set: 1, Binding: 3, Kind: shader.TextureReadOnly, Count: 4},
			{Set: 1, Binding: 4, Kind: shader.TextureReadOnly, Count: 1},
		},
	})
	require.NoError(t, err)
	return l
}

func TestBuildBindingMap_HLSL(t *testing.T) {
	bm, err := BuildBindingMap(planetLayout(t), HLSL)
	require.NoError(t, err)

	want := map[ResourceBinding]BindTarget{
		{0, 0}: {Name: "vdspv_0_0", Register: RegisterTypeB, Slot: 0, Count: 1},
		{0, 2}: {Name: "vdspv_0_2", Register: RegisterTypeB, Slot: 1, Count: 1},
		{1, 0}: {Name: "vdspv_1_0", Register: RegisterTypeT, Slot: 0, Count: 1},
		{1, 1}: {Name: "vdspv_1_1", Register: RegisterTypeS, Slot: 0, Count: 1},
		{1, 2}: {Name: "vdspv_1_2", Register: RegisterTypeU, Slot: 0, Count: 1},
		{1, 3}: {Name: "vdspv_1_3", Register: RegisterTypeT, Slot: 1, Count: 4},
		{1, 4}: {Name: "vdspv_1_4", Register: RegisterTypeT, Slot: 5, Count: 1},
	}
	if diff := cmp.Diff(want, bm.Bindings); diff != "" {
		t.Errorf("binding map mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, HLSL, bm.Target)

	_, ok := bm.Lookup(0, 1)
	require.False(t, ok, "placeholders take no slot")
}

func TestBuildBindingMap_MSL(t *testing.T) {
	bm, err := BuildBindingMap(planetLayout(t), MSL)
	require.NoError(t, err)

	// Uniform and storage buffers share the buffer table.
	storage, ok := bm.Lookup(1, 2)
	require.True(t, ok)
	require.Equal(t, RegisterTypeB, storage.Register)
	require.EqualValues(t, 2, storage.Slot)

	tex, _ := bm.Lookup(1, 4)
	require.Equal(t, "t5", tex.String())
}

func TestBuildBindingMap_Deterministic(t *testing.T) {
	l := planetLayout(t)
	first, err := BuildBindingMap(l, GLSL)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := BuildBindingMap(l, GLSL)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
	require.Equal(t, []ResourceBinding{{0, 0}, {0, 2}, {1, 0}, {1, 1}, {1, 2}, {1, 3}, {1, 4}}, first.Sorted())
}

func TestBuildBindingMap_UnknownTarget(t *testing.T) {
	_, err := BuildBindingMap(&layout.Layout{}, Target(9))
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, ErrUnsupportedTarget, cerr.Kind)
}

func TestBuildBindingMap_NilLayout(t *testing.T) {
	bm, err := BuildBindingMap(nil, HLSL)
	require.NoError(t, err)
	require.Empty(t, bm.Bindings)
}

func TestParseTarget(t *testing.T) {
	for in, want := range map[string]Target{
		"hlsl":  HLSL,
		"HLSL":  HLSL,
		"msl":   MSL,
		"metal": MSL,
		"glsl":  GLSL,
		"essl":  ESSL,
		"es":    ESSL,
	} {
		got, err := ParseTarget(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseTarget("wgsl")
	require.Error(t, err)

	var target Target
	require.NoError(t, target.UnmarshalText([]byte("msl")))
	require.Equal(t, MSL, target)
	require.Equal(t, "Target(7)", Target(7).String())
}

func TestDefaultOptions(t *testing.T) {
	require.Equal(t, Options{Target: HLSL, Version: "50"}, DefaultOptions(HLSL))
	require.True(t, DefaultOptions(ESSL).FixClipSpaceZ)
	require.Equal(t, "450", Options{Target: GLSL}.version())
}
