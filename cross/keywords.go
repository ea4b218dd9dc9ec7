// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cross

import "strings"

// Reserved identifiers of each target. The cross compiler escapes
// reserved names on its own, which silently breaks the agreement on
// resource names between stages, so Remap rejects them up front.
var (
	commonKeywords = words(`
		break case const continue default discard do else false for if in
		inout out return struct switch true uniform void while
		bool int uint float double half
		sampler texture buffer`)

	hlslKeywords = words(`
		AppendStructuredBuffer Buffer ByteAddressBuffer ConsumeStructuredBuffer
		RWBuffer RWByteAddressBuffer RWStructuredBuffer RWTexture1D
		RWTexture1DArray RWTexture2D RWTexture2DArray RWTexture3D
		SamplerState SamplerComparisonState StructuredBuffer Texture1D
		Texture1DArray Texture2D Texture2DArray Texture2DMS Texture2DMSArray
		Texture3D TextureCube TextureCubeArray
		cbuffer tbuffer register packoffset groupshared static extern
		nointerpolation noperspective centroid linear precise shared
		row_major column_major snorm unorm typedef namespace class
		interface technique pass compile asm
		float2 float3 float4 float4x4 int2 int3 int4 uint2 uint3 uint4
		matrix vector min16float min16int min16uint`)

	mslKeywords = words(`
		kernel vertex fragment device constant thread threadgroup
		threadgroup_imageblock ray_data object_data using namespace
		template typename class public private protected virtual
		operator new delete this sizeof static_assert alignas alignof
		auto char short long signed unsigned
		float2 float3 float4 half2 half3 half4 int2 int3 int4
		uint2 uint3 uint4 float4x4 packed_float3
		texture1d texture2d texture3d texturecube texture2d_array
		depth2d depth2d_array sampler access metal main`)

	glslKeywords = words(`
		attribute varying layout centroid flat smooth noperspective patch
		sample subroutine invariant precise highp mediump lowp precision
		coherent volatile restrict readonly writeonly shared
		vec2 vec3 vec4 ivec2 ivec3 ivec4 uvec2 uvec3 uvec4 bvec2 bvec3 bvec4
		mat2 mat3 mat4 sampler1D sampler2D sampler3D samplerCube
		sampler2DArray sampler2DShadow image1D image2D image3D imageCube
		image2DArray texture1D texture2D texture3D textureCube
		atomic_uint main input output common partition active`)
)

func words(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

// IsReserved reports whether name cannot be used as an identifier in
// sources generated for t.
func IsReserved(t Target, name string) bool {
	if _, ok := commonKeywords[name]; ok {
		return true
	}
	switch t {
	case HLSL:
		_, ok := hlslKeywords[name]
		return ok || strings.HasPrefix(name, "SV_")
	case MSL:
		_, ok := mslKeywords[name]
		return ok || strings.HasPrefix(name, "__")
	case GLSL, ESSL:
		_, ok := glslKeywords[name]
		return ok || strings.HasPrefix(name, "gl_") || strings.Contains(name, "__")
	}
	return false
}
