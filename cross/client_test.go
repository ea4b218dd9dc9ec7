// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cross

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/shaderset/glslc"
	"github.com/gogpu/shaderset/internal/spvtest"
)

func TestClient_Compile(t *testing.T) {
	var seen *Request
	svc := ServiceFunc(func(_ context.Context, req *Request) (*glslc.Response, error) {
		seen = req
		return glslc.NewResponse(true, nil, []byte("float4 main() : SV_Target { return 0; }\n")), nil
	})
	req := &Request{Bytecode: spvtest.Module(fs), Stage: fs, EntryPoint: "main", Options: DefaultOptions(HLSL)}

	res, err := NewClient(svc).Compile(context.Background(), req)
	require.NoError(t, err)
	require.Same(t, req, seen)
	require.Equal(t, fs, res.Stage)
	require.Equal(t, HLSL, res.Target)
	require.Contains(t, res.Source, "SV_Target")
}

func TestClient_ToolFailed(t *testing.T) {
	var released int
	svc := ServiceFunc(func(context.Context, *Request) (*glslc.Response, error) {
		return glslc.NewResponse(false, func() { released++ }, []byte("SPIRV-Cross threw an exception: boom\n")), nil
	})
	_, err := NewClient(svc).Compile(context.Background(), &Request{Bytecode: spvtest.Module(fs), Options: DefaultOptions(MSL)})

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	require.True(t, cerr.IsToolFailed())
	require.Equal(t, "SPIRV-Cross threw an exception: boom\n", cerr.Message)
	require.Equal(t, 1, released)
}

func TestClient_Errors(t *testing.T) {
	boom := errors.New("boom")
	ok := ServiceFunc(func(context.Context, *Request) (*glslc.Response, error) {
		return glslc.NewResponse(true, nil, []byte("x")), nil
	})
	tests := []struct {
		name string
		svc  Service
		req  *Request
		kind ErrorKind
	}{
		{"unknown target", ok, &Request{Bytecode: spvtest.Module(fs), Options: Options{Target: 42}}, ErrUnsupportedTarget},
		{"bad shader model", ok, &Request{Bytecode: spvtest.Module(fs), Options: Options{Target: HLSL, Version: "7_0"}}, ErrUnsupportedTarget},
		{"not spirv", ok, &Request{Bytecode: []byte("#version 450"), Options: DefaultOptions(GLSL)}, ErrInvalidModule},
		{"service error", ServiceFunc(func(context.Context, *Request) (*glslc.Response, error) {
			return nil, boom
		}), &Request{Bytecode: spvtest.Module(fs)}, ErrToolFailed},
		{"no response", ServiceFunc(func(context.Context, *Request) (*glslc.Response, error) {
			return nil, nil
		}), &Request{Bytecode: spvtest.Module(fs)}, ErrToolFailed},
		{"empty output", ServiceFunc(func(context.Context, *Request) (*glslc.Response, error) {
			return glslc.NewResponse(true, nil), nil
		}), &Request{Bytecode: spvtest.Module(fs)}, ErrToolFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.svc).Compile(context.Background(), tt.req)
			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			require.Equal(t, tt.kind, cerr.Kind, cerr.Error())
		})
	}
}
