// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cross

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseShaderModel(t *testing.T) {
	tests := map[string]ShaderModel{
		"50":  ShaderModel5_0,
		"5_1": ShaderModel5_1,
		"6.0": ShaderModel6_0,
		"30":  ShaderModel3_0,
		"67":  ShaderModel6_7,
	}
	for in, want := range tests {
		sm, err := ParseShaderModel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, sm, in)
	}

	for _, in := range []string{"", "52", "7_0", "sm50"} {
		_, err := ParseShaderModel(in)
		require.Error(t, err, in)
	}
}

func TestShaderModel_Notation(t *testing.T) {
	require.Equal(t, "SM 5.1", ShaderModel5_1.String())
	require.Equal(t, "51", ShaderModel5_1.Flag())
	require.Equal(t, "6_0", ShaderModel6_0.ProfileSuffix())

	require.False(t, ShaderModel5_1.SupportsDXIL())
	require.True(t, ShaderModel6_0.SupportsDXIL())
	require.False(t, ShaderModel5_0.SupportsResourceArrays())
	require.True(t, ShaderModel5_1.SupportsResourceArrays())
}
