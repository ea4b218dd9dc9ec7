// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package cross translates compiled SPIR-V stages to HLSL, MSL or GLSL
// through an external cross compiler.
//
// Before translation the bytecode is remapped to the unified layout of
// its shader set: resources get their canonical layout names and the
// slot assigned by BuildBindingMap, so every stage of a set agrees on
// where each resource lives on the target API.
package cross

import (
	"fmt"
	"strings"
)

// Target is an output language of the cross compiler.
type Target uint8

const (
	// HLSL is Direct3D's shading language.
	HLSL Target = iota
	// MSL is the Metal Shading Language.
	MSL
	// GLSL is desktop OpenGL GLSL.
	GLSL
	// ESSL is OpenGL ES GLSL.
	ESSL
)

var targetNames = [...]string{
	HLSL: "hlsl",
	MSL:  "msl",
	GLSL: "glsl",
	ESSL: "essl",
}

func (t Target) valid() bool { return int(t) < len(targetNames) }

func (t Target) String() string {
	if t.valid() {
		return targetNames[t]
	}
	return fmt.Sprintf("Target(%d)", uint8(t))
}

// Extension returns the conventional file extension of target sources.
func (t Target) Extension() string {
	switch t {
	case HLSL:
		return "hlsl"
	case MSL:
		return "metal"
	default:
		return "glsl"
	}
}

// ParseTarget parses a target name. "es" is accepted for ESSL.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(s) {
	case "es":
		return ESSL, nil
	case "metal":
		return MSL, nil
	}
	for t, name := range targetNames {
		if strings.EqualFold(s, name) {
			return Target(t), nil
		}
	}
	return 0, NewError(ErrUnsupportedTarget, "unknown target %q", s)
}

func (t Target) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, NewError(ErrUnsupportedTarget, "unknown target %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *Target) UnmarshalText(text []byte) error {
	v, err := ParseTarget(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Options configures one cross-compilation.
type Options struct {
	// Target is the output language.
	Target Target

	// Version is the target version in the cross compiler's notation:
	// a shader model for HLSL ("50", "51"), an MSL version ("20100")
	// or a GLSL version ("450", "300"). Empty selects the default of
	// the target.
	Version string

	// FixClipSpaceZ maps Vulkan's [0, 1] clip-space depth to [-1, 1].
	FixClipSpaceZ bool

	// InvertVertexOutputY flips the Y coordinate of vertex positions.
	InvertVertexOutputY bool
}

// DefaultOptions returns the options used when a target is named
// without further configuration.
func DefaultOptions(target Target) Options {
	opts := Options{Target: target, Version: defaultVersion(target)}
	if target == GLSL || target == ESSL {
		opts.FixClipSpaceZ = true
	}
	return opts
}

func defaultVersion(t Target) string {
	switch t {
	case HLSL:
		return "50"
	case MSL:
		return "20100"
	case GLSL:
		return "450"
	case ESSL:
		return "310"
	default:
		return ""
	}
}

// version returns the effective version of o.
func (o Options) version() string {
	if o.Version != "" {
		return o.Version
	}
	return defaultVersion(o.Target)
}
