// Package shaderset compiles the stages of a shader set and derives one
// descriptor layout they all agree on.
//
// A shader set is the group of stages that form one pipeline: a vertex
// and fragment pair, a full graphics pipeline, or a lone compute stage.
// Each stage is given either as GLSL source or as SPIR-V bytecode:
//
//	f := shaderset.New(glslc.NewClient(glslc.NewExecService()), shaderset.Options{})
//	set, err := f.CreateVertexFragment(ctx,
//	    shaderset.StageDescription{Stage: shader.StageVertex, Payload: vs, FileName: "planet.vert"},
//	    shaderset.StageDescription{Stage: shader.StageFragment, Payload: fs, FileName: "planet.frag"},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range set.Layout.Sets {
//	    // Build the backend's descriptor set layout from s.Entries, in order.
//	}
//
// The pipeline is:
//  1. Compile every GLSL stage through the glslc client (concurrently).
//  2. Reflect each stage's SPIR-V (spirv.Reflect).
//  3. Merge the reflected resources (layout.Merge).
//
// Compilation is all or nothing: when a stage fails, no stage is
// reflected and no partial set is returned.
package shaderset

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/shaderset/glslc"
	"github.com/gogpu/shaderset/internal/ctxlog"
	"github.com/gogpu/shaderset/layout"
	"github.com/gogpu/shaderset/shader"
	"github.com/gogpu/shaderset/spirv"
)

// Options configures a Factory.
type Options struct {
	// Namer names layout entries. Nil selects layout.DefaultNamer.
	Namer layout.Namer

	// Parallelism bounds the number of stages compiled at once.
	// Zero or less means runtime.GOMAXPROCS(0).
	Parallelism int

	// Reflect is passed to spirv.Reflect for every stage.
	Reflect spirv.ReflectOptions

	// Cross translates compiled sets in CrossCompile. It may be nil
	// when cross-compilation is not needed.
	Cross CrossCompiler
}

// DefaultOptions returns the options New uses for a zero Options.
func DefaultOptions() Options {
	return Options{
		Namer:       layout.DefaultNamer,
		Parallelism: runtime.GOMAXPROCS(0),
	}
}

// StageDescription is one stage handed to the factory.
type StageDescription struct {
	Stage shader.Stage

	// Payload is GLSL source, or SPIR-V bytecode when it starts with
	// the SPIR-V magic number.
	Payload []byte

	// FileName appears in compiler diagnostics.
	FileName string

	// Options holds the debug flag and macros for GLSL payloads.
	Options glslc.CompileOptions
}

// CompiledStage is one stage of a ShaderSet.
type CompiledStage struct {
	Stage      shader.Stage
	Bytecode   []byte
	EntryPoint string
	// Resources are the stage's reflected resources, ordered by set
	// and binding, with their original names.
	Resources []shader.Resource
	// Compiled is false when the payload was already SPIR-V.
	Compiled bool
}

// ShaderSet is the result of a factory call.
type ShaderSet struct {
	// Stages are in the order they were described.
	Stages []CompiledStage
	Layout *layout.Layout
}

// Stage returns the compiled stage st.
func (s *ShaderSet) Stage(st shader.Stage) (*CompiledStage, bool) {
	for i := range s.Stages {
		if s.Stages[i].Stage == st {
			return &s.Stages[i], true
		}
	}
	return nil, false
}

// InvalidSetError reports a list of stage descriptions that cannot form
// a pipeline.
type InvalidSetError struct {
	Reason string
}

func (e *InvalidSetError) Error() string {
	return "shaderset: invalid shader set: " + e.Reason
}

// StageError wraps the failure of one stage.
type StageError struct {
	Stage    shader.Stage
	FileName string
	Err      error
}

func (e *StageError) Error() string {
	if e.FileName != "" {
		return fmt.Sprintf("shaderset: %s stage (%s): %v", e.Stage, e.FileName, e.Err)
	}
	return fmt.Sprintf("shaderset: %s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Factory creates shader sets. It is safe for concurrent use as long
// as its compiler is.
type Factory struct {
	compiler glslc.Compiler
	opts     Options
	merger   layout.Merger
}

// New returns a factory compiling GLSL stages with compiler.
func New(compiler glslc.Compiler, opts Options) *Factory {
	if opts.Namer == nil {
		opts.Namer = layout.DefaultNamer
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.GOMAXPROCS(0)
	}
	return &Factory{
		compiler: compiler,
		opts:     opts,
		merger:   layout.Merger{Namer: opts.Namer},
	}
}

// CreateVertexFragment creates a two-stage graphics set.
func (f *Factory) CreateVertexFragment(ctx context.Context, vs, fs StageDescription) (*ShaderSet, error) {
	if vs.Stage != shader.StageVertex || fs.Stage != shader.StageFragment {
		return nil, &InvalidSetError{Reason: fmt.Sprintf("want vertex and fragment stages, got %s and %s", vs.Stage, fs.Stage)}
	}
	return f.CreateShaderSet(ctx, vs, fs)
}

// CreateCompute creates a single-stage compute set.
func (f *Factory) CreateCompute(ctx context.Context, cs StageDescription) (*ShaderSet, error) {
	if cs.Stage != shader.StageCompute {
		return nil, &InvalidSetError{Reason: fmt.Sprintf("want a compute stage, got %s", cs.Stage)}
	}
	return f.CreateShaderSet(ctx, cs)
}

// CreateShaderSet compiles, reflects and merges descs.
//
// Stages compile concurrently. If any fails, the error of the first
// failing stage in description order is returned and nothing is
// reflected.
func (f *Factory) CreateShaderSet(ctx context.Context, descs ...StageDescription) (*ShaderSet, error) {
	if err := validate(descs); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Creating shader set.", "stages", len(descs))

	// Every stage runs to completion so the reported failure does not
	// depend on scheduling.
	stages := make([]CompiledStage, len(descs))
	errs := make([]error, len(descs))
	var g errgroup.Group
	g.SetLimit(f.opts.Parallelism)
	for i, d := range descs {
		i, d := i, d
		g.Go(func() error {
			stages[i], errs[i] = f.compile(ctx, d)
			return errs[i]
		})
	}
	if g.Wait() != nil {
		for i, err := range errs {
			if err != nil {
				return nil, &StageError{Stage: descs[i].Stage, FileName: descs[i].FileName, Err: err}
			}
		}
	}

	byStage := make(map[shader.Stage][]shader.Resource, len(stages))
	for i := range stages {
		s := &stages[i]
		refl, err := spirv.Reflect(s.Bytecode, f.opts.Reflect)
		if err != nil {
			return nil, &StageError{Stage: s.Stage, FileName: descs[i].FileName, Err: err}
		}
		if refl.Stage != s.Stage {
			return nil, &StageError{Stage: s.Stage, FileName: descs[i].FileName,
				Err: fmt.Errorf("bytecode entry point %q is a %s shader", refl.EntryPoint, refl.Stage)}
		}
		s.EntryPoint = refl.EntryPoint
		s.Resources = refl.Resources
		byStage[s.Stage] = refl.Resources
	}

	l, err := f.merger.Merge(byStage)
	if err != nil {
		return nil, err
	}
	logger.Debug("Created shader set.", "stages", len(stages), "sets", len(l.Sets), "resources", l.ResourceCount())
	return &ShaderSet{Stages: stages, Layout: l}, nil
}

// compile turns one description into SPIR-V, passing bytecode through.
func (f *Factory) compile(ctx context.Context, d StageDescription) (CompiledStage, error) {
	cs := CompiledStage{Stage: d.Stage}
	if spirv.HasHeader(d.Payload) {
		ctxlog.FromContext(ctx).Debug("Using precompiled stage.", "stage", d.Stage, "file", d.FileName)
		cs.Bytecode = append([]byte(nil), d.Payload...)
		return cs, nil
	}
	if f.compiler == nil {
		return cs, fmt.Errorf("stage is GLSL source but the factory has no compiler")
	}
	req, err := glslc.NewRequestBytes(d.Payload, d.FileName, d.Stage, d.Options)
	if err != nil {
		return cs, err
	}
	res, err := f.compiler.Compile(ctx, req)
	if err != nil {
		return cs, err
	}
	if !res.Succeeded {
		return cs, &glslc.CompilationError{FileName: d.FileName, Stage: d.Stage, Diagnostic: res.Diagnostic}
	}
	cs.Bytecode = res.Bytecode
	cs.Compiled = true
	return cs, nil
}

func validate(descs []StageDescription) error {
	if len(descs) == 0 {
		return &InvalidSetError{Reason: "no stages"}
	}
	var seen shader.Stage
	for _, d := range descs {
		if err := shader.CheckSingle(d.Stage); err != nil {
			return err
		}
		if seen.Has(d.Stage) {
			return &InvalidSetError{Reason: fmt.Sprintf("duplicate %s stage", d.Stage)}
		}
		seen |= d.Stage
	}
	if seen.Has(shader.StageCompute) && seen != shader.StageCompute {
		return &InvalidSetError{Reason: fmt.Sprintf("compute cannot be combined with other stages (%s)", seen)}
	}
	return nil
}
