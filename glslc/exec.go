package glslc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gogpu/shaderset/internal/ctxlog"
)

// ExecService compiles by running the glslc executable from shaderc.
// Each call works in its own temporary directory, which the returned
// Response removes on Release.
type ExecService struct {
	// Bin is the executable name or path.
	Bin string
	// TargetEnv is passed as --target-env.
	TargetEnv string
	// Args are extra arguments placed before the input file.
	Args []string
}

// NewExecService returns a service running "glslc" for Vulkan 1.0.
func NewExecService() *ExecService {
	return &ExecService{Bin: "glslc", TargetEnv: "vulkan1.0"}
}

func (s *ExecService) args(req *Request, src, out string) []string {
	args := []string{"-fshader-stage=" + req.Kind.String()}
	if s.TargetEnv != "" {
		args = append(args, "--target-env="+s.TargetEnv)
	}
	if req.Debug {
		args = append(args, "-g")
	} else {
		args = append(args, "-O")
	}
	for _, m := range req.Macros {
		def := "-D" + string(m.Name)
		if len(m.Value) > 0 {
			def += "=" + string(m.Value)
		}
		args = append(args, def)
	}
	args = append(args, s.Args...)
	return append(args, "-o", out, src)
}

// Compile implements Service. A non-zero exit of the compiler yields a
// failed Response carrying its output; failing to start it is an error.
func (s *ExecService) Compile(ctx context.Context, req *Request) (*Response, error) {
	dir, err := os.MkdirTemp("", "shaderset-glslc-*")
	if err != nil {
		return nil, err
	}
	release := func() { os.RemoveAll(dir) }

	src := filepath.Join(dir, "input."+req.Kind.String())
	out := filepath.Join(dir, "output.spv")
	if err := os.WriteFile(src, req.Source, 0o600); err != nil {
		release()
		return nil, err
	}

	cmd := exec.CommandContext(ctx, s.Bin, s.args(req, src, out)...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	ctxlog.FromContext(ctx).Debug("Running shader compiler.", "args", cmd.Args)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			release()
			return nil, fmt.Errorf("failed to run %v: %w", cmd.Args, err)
		}
		diag := strings.ReplaceAll(output.String(), src, string(req.FileName))
		return NewResponse(false, release, []byte(diag)), nil
	}

	bytecode, err := os.ReadFile(out)
	if err != nil {
		// Reported by the client as a missing result buffer.
		return NewResponse(true, release), nil
	}
	return NewResponse(true, release, bytecode), nil
}
