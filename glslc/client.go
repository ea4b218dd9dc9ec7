package glslc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/shaderset/internal/ctxlog"
	"github.com/gogpu/shaderset/shader"
	"github.com/gogpu/shaderset/spirv"
)

// ErrCompilationFailed matches every error meaning the compiler did not
// produce usable bytecode.
var ErrCompilationFailed = errors.New("glslc: compilation failed")

// CompilationError carries the compiler's diagnostic text verbatim.
type CompilationError struct {
	FileName   string
	Stage      shader.Stage
	Diagnostic string
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("glslc: compiling %s (%s) failed:\n%s", e.FileName, e.Stage, e.Diagnostic)
}

// Is reports whether target is ErrCompilationFailed.
func (e *CompilationError) Is(target error) bool { return target == ErrCompilationFailed }

// ResourceExhaustionError reports that the compiler's result buffer
// could not be obtained or copied.
type ResourceExhaustionError struct {
	Op  string
	Err error
}

func (e *ResourceExhaustionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("glslc: %s: %v", e.Op, e.Err)
	}
	return "glslc: " + e.Op
}

func (e *ResourceExhaustionError) Unwrap() error { return e.Err }

// Is reports whether target is ErrCompilationFailed.
func (e *ResourceExhaustionError) Is(target error) bool { return target == ErrCompilationFailed }

// Result is the outcome of one compilation. Exactly one of Bytecode
// and Diagnostic is set.
type Result struct {
	Succeeded  bool
	Bytecode   []byte
	Diagnostic string
}

// Compiler is anything that turns a request into a result.
// *Client and the cache wrapper implement it.
type Compiler interface {
	Compile(ctx context.Context, req *Request) (*Result, error)
}

// Client drives a Service and owns the lifetime of its responses.
type Client struct {
	svc Service
	mu  *sync.Mutex
}

// NewClient returns a client that calls svc concurrently.
func NewClient(svc Service) *Client {
	return &Client{svc: svc}
}

// NewSerializedClient returns a client that never has more than one
// call into svc in flight.
func NewSerializedClient(svc Service) *Client {
	return &Client{svc: svc, mu: new(sync.Mutex)}
}

// Compile runs one compilation. It is not retried.
//
// When the compiler reports a failure, Compile returns both a Result
// holding the diagnostic and a *CompilationError.
func (c *Client) Compile(ctx context.Context, req *Request) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	fileName := string(req.FileName)
	logger.Debug("Compiling shader.", "file", fileName, "stage", req.Stage(), "macros", len(req.Macros), "debug", req.Debug)

	if c.mu != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	resp, err := c.svc.Compile(ctx, req)
	if err != nil {
		if resp != nil {
			resp.Release()
		}
		return nil, fmt.Errorf("glslc: compiling %s: %w", fileName, err)
	}
	if resp == nil {
		return nil, &ResourceExhaustionError{Op: "compiler returned no response"}
	}
	defer resp.Release()

	data, ok := resp.Data(0)
	if !ok {
		return nil, &ResourceExhaustionError{Op: fmt.Sprintf("reading result buffer of %s", fileName)}
	}

	if !resp.Succeeded {
		diag := string(data)
		logger.Debug("Shader compilation failed.", "file", fileName, "diagnostic", diag)
		return &Result{Diagnostic: diag}, &CompilationError{
			FileName:   fileName,
			Stage:      req.Stage(),
			Diagnostic: diag,
		}
	}

	if len(data) == 0 || len(data)%4 != 0 || !spirv.HasHeader(data) {
		return nil, fmt.Errorf("%w: %s: compiler returned %d bytes that are not SPIR-V",
			ErrCompilationFailed, fileName, len(data))
	}
	bytecode := make([]byte, len(data))
	copy(bytecode, data)
	logger.Debug("Compiled shader.", "file", fileName, "bytes", len(bytecode))
	return &Result{Succeeded: true, Bytecode: bytecode}, nil
}

// CompileGLSL builds an ASCII request and compiles it. Encoding errors
// are returned before the service is called.
func (c *Client) CompileGLSL(ctx context.Context, source, fileName string, stage shader.Stage, opts CompileOptions) (*Result, error) {
	req, err := NewRequest(source, fileName, stage, opts)
	if err != nil {
		return nil, err
	}
	return c.Compile(ctx, req)
}
