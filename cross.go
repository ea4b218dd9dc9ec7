package shaderset

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/shaderset/cross"
	"github.com/gogpu/shaderset/internal/ctxlog"
	"github.com/gogpu/shaderset/layout"
)

// ErrNoCrossCompiler is returned by CrossCompile when Options.Cross is nil.
var ErrNoCrossCompiler = errors.New("shaderset: no cross compiler configured")

// CrossCompiler translates one remapped stage. *cross.Client implements it.
type CrossCompiler interface {
	Compile(ctx context.Context, req *cross.Request) (*cross.Result, error)
}

// CrossCompiledSet is a shader set translated to a target language.
type CrossCompiledSet struct {
	Target cross.Target
	// Stages are in the order of the source set.
	Stages   []cross.Result
	Bindings *cross.BindingMap
	Layout   *layout.Layout
}

// CrossCompile translates every stage of set. Each stage is first
// remapped to the set's layout so all stages agree on resource names
// and target slots.
func (f *Factory) CrossCompile(ctx context.Context, set *ShaderSet, opts cross.Options) (*CrossCompiledSet, error) {
	if f.opts.Cross == nil {
		return nil, ErrNoCrossCompiler
	}
	if set == nil {
		return nil, &InvalidSetError{Reason: "no shader set to cross-compile"}
	}
	bm, err := cross.BuildBindingMap(set.Layout, opts.Target)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Cross-compiling shader set.", "target", opts.Target, "stages", len(set.Stages), "bindings", len(bm.Bindings))

	results := make([]cross.Result, len(set.Stages))
	errs := make([]error, len(set.Stages))
	var g errgroup.Group
	g.SetLimit(f.opts.Parallelism)
	for i := range set.Stages {
		i := i
		s := &set.Stages[i]
		g.Go(func() error {
			errs[i] = func() error {
				remapped, err := cross.Remap(s.Bytecode, s.Resources, set.Layout, bm)
				if err != nil {
					return err
				}
				res, err := f.opts.Cross.Compile(ctx, &cross.Request{
					Bytecode:   remapped,
					Stage:      s.Stage,
					EntryPoint: s.EntryPoint,
					Options:    opts,
				})
				if err != nil {
					return err
				}
				results[i] = *res
				return nil
			}()
			return errs[i]
		})
	}
	if g.Wait() != nil {
		for i, err := range errs {
			if err != nil {
				return nil, &StageError{Stage: set.Stages[i].Stage, Err: err}
			}
		}
	}
	return &CrossCompiledSet{Target: opts.Target, Stages: results, Bindings: bm, Layout: set.Layout}, nil
}
