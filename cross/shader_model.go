// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cross

import (
	"fmt"
	"strings"
)

// ShaderModel is a Direct3D shader model accepted by the HLSL target.
type ShaderModel uint8

// Supported shader models.
const (
	// ShaderModel3_0 is Direct3D 9.
	ShaderModel3_0 ShaderModel = iota
	// ShaderModel4_0 is Direct3D 10.
	ShaderModel4_0
	ShaderModel4_1
	// ShaderModel5_0 is Direct3D 11 and the default.
	ShaderModel5_0
	// ShaderModel5_1 adds resource arrays with dynamic indexing.
	ShaderModel5_1
	// ShaderModel6_0 and later compile to DXIL.
	ShaderModel6_0
	ShaderModel6_1
	ShaderModel6_2
	ShaderModel6_3
	ShaderModel6_4
	ShaderModel6_5
	ShaderModel6_6
	ShaderModel6_7
)

var shaderModelVersions = [...][2]uint8{
	ShaderModel3_0: {3, 0},
	ShaderModel4_0: {4, 0},
	ShaderModel4_1: {4, 1},
	ShaderModel5_0: {5, 0},
	ShaderModel5_1: {5, 1},
	ShaderModel6_0: {6, 0},
	ShaderModel6_1: {6, 1},
	ShaderModel6_2: {6, 2},
	ShaderModel6_3: {6, 3},
	ShaderModel6_4: {6, 4},
	ShaderModel6_5: {6, 5},
	ShaderModel6_6: {6, 6},
	ShaderModel6_7: {6, 7},
}

// ParseShaderModel accepts "50", "5_0" and "5.0".
func ParseShaderModel(s string) (ShaderModel, error) {
	v := strings.NewReplacer("_", "", ".", "").Replace(s)
	for sm, mm := range shaderModelVersions {
		if v == fmt.Sprintf("%d%d", mm[0], mm[1]) {
			return ShaderModel(sm), nil
		}
	}
	return 0, NewError(ErrUnsupportedTarget, "unsupported shader model %q", s)
}

// String returns e.g. "SM 5.1".
func (sm ShaderModel) String() string {
	major, minor := sm.version()
	return fmt.Sprintf("SM %d.%d", major, minor)
}

// Flag returns the model in --shader-model notation, e.g. "51".
func (sm ShaderModel) Flag() string {
	major, minor := sm.version()
	return fmt.Sprintf("%d%d", major, minor)
}

// ProfileSuffix returns the suffix of compiler profiles such as "ps_5_1".
func (sm ShaderModel) ProfileSuffix() string {
	major, minor := sm.version()
	return fmt.Sprintf("%d_%d", major, minor)
}

func (sm ShaderModel) version() (major, minor uint8) {
	if int(sm) < len(shaderModelVersions) {
		v := shaderModelVersions[sm]
		return v[0], v[1]
	}
	return 5, 0
}

// SupportsDXIL reports whether the model compiles to DXIL rather than DXBC.
func (sm ShaderModel) SupportsDXIL() bool {
	return sm >= ShaderModel6_0
}

// SupportsResourceArrays reports whether descriptor arrays may be
// indexed dynamically, which the layout's array entries rely on.
func (sm ShaderModel) SupportsResourceArrays() bool {
	return sm >= ShaderModel5_1
}
