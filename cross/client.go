// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cross

import (
	"context"

	"github.com/gogpu/shaderset/internal/ctxlog"
	"github.com/gogpu/shaderset/shader"
	"github.com/gogpu/shaderset/spirv"
)

// Result is the translated source of one stage.
type Result struct {
	Stage  shader.Stage
	Target Target
	Source string
}

// Client drives a cross-compiler Service.
type Client struct {
	svc Service
}

// NewClient returns a client calling svc.
func NewClient(svc Service) *Client {
	return &Client{svc: svc}
}

// Compile translates one stage. Tool failures are reported as an
// *Error of kind ErrToolFailed whose Message is the tool's output.
func (c *Client) Compile(ctx context.Context, req *Request) (*Result, error) {
	if !req.Options.Target.valid() {
		return nil, NewError(ErrUnsupportedTarget, "unknown target %d", uint8(req.Options.Target))
	}
	if len(req.Bytecode)%4 != 0 || !spirv.HasHeader(req.Bytecode) {
		return nil, NewError(ErrInvalidModule, "%d bytes are not a SPIR-V module", len(req.Bytecode))
	}
	if req.Options.Target == HLSL {
		if _, err := ParseShaderModel(req.Options.version()); err != nil {
			return nil, err
		}
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Cross-compiling shader.", "stage", req.Stage, "target", req.Options.Target, "version", req.Options.version())

	resp, err := c.svc.Compile(ctx, req)
	if err != nil {
		if resp != nil {
			resp.Release()
		}
		return nil, &Error{Kind: ErrToolFailed, Message: err.Error(), Err: err}
	}
	if resp == nil {
		return nil, NewError(ErrToolFailed, "cross compiler returned no response")
	}
	defer resp.Release()

	data, _ := resp.Data(0)
	if !resp.Succeeded {
		return nil, NewError(ErrToolFailed, "%s", data)
	}
	if len(data) == 0 {
		return nil, NewError(ErrToolFailed, "cross compiler produced no output for %s", req.Stage)
	}
	logger.Debug("Cross-compiled shader.", "stage", req.Stage, "bytes", len(data))
	return &Result{Stage: req.Stage, Target: req.Options.Target, Source: string(data)}, nil
}
