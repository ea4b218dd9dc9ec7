// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cross

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/gogpu/shaderset/glslc"
	"github.com/gogpu/shaderset/internal/ctxlog"
	"github.com/gogpu/shaderset/shader"
)

// Request is one stage to translate.
type Request struct {
	// Bytecode is the remapped SPIR-V module.
	Bytecode []byte

	// Stage and EntryPoint select the entry point to translate.
	// An empty EntryPoint lets the cross compiler pick the first.
	Stage      shader.Stage
	EntryPoint string

	Options Options
}

// Service is the external cross compiler. On success buffer 0 of the
// response holds the generated source; on failure the diagnostic.
type Service interface {
	Compile(ctx context.Context, req *Request) (*glslc.Response, error)
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context, req *Request) (*glslc.Response, error)

// Compile implements Service.
func (f ServiceFunc) Compile(ctx context.Context, req *Request) (*glslc.Response, error) {
	return f(ctx, req)
}

// ExecService runs the spirv-cross executable, feeding the module on
// standard input.
type ExecService struct {
	// Bin is the executable name or path.
	Bin string
	// Args are extra arguments placed before the input.
	Args []string
}

// NewExecService returns a service running "spirv-cross".
func NewExecService() *ExecService {
	return &ExecService{Bin: "spirv-cross"}
}

func (s *ExecService) args(req *Request) ([]string, error) {
	opts := req.Options
	var args []string
	switch opts.Target {
	case HLSL:
		sm, err := ParseShaderModel(opts.version())
		if err != nil {
			return nil, err
		}
		args = []string{"--hlsl", "--shader-model", sm.Flag()}
	case MSL:
		args = []string{"--msl", "--msl-version", opts.version(), "--msl-decoration-binding"}
	case GLSL:
		args = []string{"--no-es", "--version", opts.version()}
	case ESSL:
		args = []string{"--es", "--version", opts.version()}
	default:
		return nil, NewError(ErrUnsupportedTarget, "unknown target %d", uint8(opts.Target))
	}
	args = append(args, "--remove-unused-variables")
	if opts.FixClipSpaceZ {
		args = append(args, "--fixup-clipspace")
	}
	if opts.InvertVertexOutputY {
		args = append(args, "--flip-vert-y")
	}
	if req.EntryPoint != "" {
		args = append(args, "--entry", req.EntryPoint)
		if req.Stage.IsSingle() {
			args = append(args, "--stage", req.Stage.Extension())
		}
	}
	args = append(args, s.Args...)
	return append(args, "-"), nil
}

// Compile implements Service. A non-zero exit yields a failed response
// carrying the tool's standard error.
func (s *ExecService) Compile(ctx context.Context, req *Request) (*glslc.Response, error) {
	args, err := s.args(req)
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, s.Bin, args...)
	cmd.Stdin = bytes.NewReader(req.Bytecode)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	ctxlog.FromContext(ctx).Debug("Running cross compiler.", "args", cmd.Args)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			return nil, fmt.Errorf("failed to run %v: %w", cmd.Args, err)
		}
		return glslc.NewResponse(false, nil, stderr.Bytes()), nil
	}
	return glslc.NewResponse(true, nil, stdout.Bytes()), nil
}
