// Command shadersetc compiles shader sets and prints their unified
// resource layout.
//
// Usage:
//
//	shadersetc [options] <stage files...>
//	shadersetc [options] -manifest sets.hcl
//
// Examples:
//
//	shadersetc planet.vert planet.frag              # Print the layout as YAML
//	shadersetc -format json -o out planet.vert planet.frag
//	shadersetc -D USE_FOG -debug sky.vert sky.frag  # Macros and debug info
//	shadersetc -manifest sets.hcl -cross hlsl -o out
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/shaderset"
	"github.com/gogpu/shaderset/cache"
	"github.com/gogpu/shaderset/cross"
	"github.com/gogpu/shaderset/glslc"
	"github.com/gogpu/shaderset/internal/ctxlog"
	"github.com/gogpu/shaderset/layout"
	"github.com/gogpu/shaderset/manifest"
	"github.com/gogpu/shaderset/shader"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// stageOutput summarizes one compiled stage.
type stageOutput struct {
	Stage      shader.Stage `json:"stage" yaml:"stage"`
	EntryPoint string       `json:"entry_point" yaml:"entry_point"`
	Bytes      int          `json:"bytes" yaml:"bytes"`
	Compiled   bool         `json:"compiled" yaml:"compiled"`
	File       string       `json:"file,omitempty" yaml:"file,omitempty"`
}

// setOutput is what shadersetc prints for each set.
type setOutput struct {
	Name   string         `json:"name" yaml:"name"`
	Stages []stageOutput  `json:"stages" yaml:"stages"`
	Layout *layout.Layout `json:"layout" yaml:"layout"`
}

// job is one set to build.
type job struct {
	name    string
	options glslc.CompileOptions
	stages  []manifest.Stage
	cross   []cross.Options
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil || cfg == nil {
		return err
	}
	logger := ctxlog.New(cfg.logLevel, cfg.logFormat, stderr)
	ctx = ctxlog.WithLogger(ctx, logger)

	jobs, err := loadJobs(ctx, cfg)
	if err != nil {
		return err
	}

	var compiler glslc.Compiler = glslc.NewClient(&glslc.ExecService{Bin: cfg.glslc, TargetEnv: cfg.targetEnv})
	var cached *cache.Compiler
	if cfg.cacheDir != "" {
		cached = cache.New(compiler, cfg.cacheDir)
		compiler = cached
	}
	factory := shaderset.New(compiler, shaderset.Options{
		Cross: cross.NewClient(&cross.ExecService{Bin: cfg.spirvCross}),
	})

	outputs := make([]setOutput, 0, len(jobs))
	for _, j := range jobs {
		out, err := build(ctx, factory, cfg, j)
		if err != nil {
			return fmt.Errorf("shader set %q: %w", j.name, err)
		}
		outputs = append(outputs, out)
	}
	if cached != nil {
		s := cached.Stats()
		logger.Info("Shader cache.", "hits", s.Hits, "misses", s.Misses)
	}
	return writeOutputs(stdout, cfg.format, outputs)
}

func loadJobs(ctx context.Context, cfg *config) ([]job, error) {
	var crossOverride []cross.Options
	if cfg.cross != "" {
		target, _ := cross.ParseTarget(cfg.cross)
		crossOverride = []cross.Options{cross.DefaultOptions(target)}
	}

	if cfg.manifest != "" {
		m, err := manifest.Load(ctx, cfg.manifest, cfg.vars)
		if err != nil {
			return nil, err
		}
		jobs := make([]job, 0, len(m.Sets))
		for _, s := range m.Sets {
			j := job{name: s.Name, options: s.Options, stages: s.Stages, cross: s.Cross}
			if len(cfg.macros) > 0 {
				j.options = j.options.WithMacros(cfg.macros...)
			}
			if cfg.debug {
				j.options = j.options.WithDebug(true)
			}
			if crossOverride != nil {
				j.cross = crossOverride
			}
			jobs = append(jobs, j)
		}
		return jobs, nil
	}

	j := job{
		name:    cfg.name,
		options: glslc.NewCompileOptions(cfg.debug, cfg.macros...),
		cross:   crossOverride,
	}
	if j.name == "" {
		j.name = setName(cfg.files[0])
	}
	for _, path := range cfg.files {
		st, err := stageOf(path)
		if err != nil {
			return nil, usageError("%v", err)
		}
		j.stages = append(j.stages, manifest.Stage{Stage: st, Path: path})
	}
	return []job{j}, nil
}

func build(ctx context.Context, f *shaderset.Factory, cfg *config, j job) (setOutput, error) {
	logger := ctxlog.FromContext(ctx)
	descs := make([]shaderset.StageDescription, 0, len(j.stages))
	for _, s := range j.stages {
		payload, err := os.ReadFile(s.Path)
		if err != nil {
			return setOutput{}, err
		}
		descs = append(descs, shaderset.StageDescription{
			Stage:    s.Stage,
			Payload:  payload,
			FileName: s.Path,
			Options:  j.options,
		})
	}

	set, err := f.CreateShaderSet(ctx, descs...)
	if err != nil {
		return setOutput{}, err
	}
	logger.Info("Built shader set.", "name", j.name, "stages", len(set.Stages), "resources", set.Layout.ResourceCount())

	out := setOutput{Name: j.name, Layout: set.Layout}
	for _, s := range set.Stages {
		so := stageOutput{Stage: s.Stage, EntryPoint: s.EntryPoint, Bytes: len(s.Bytecode), Compiled: s.Compiled}
		if cfg.outDir != "" {
			so.File = filepath.Join(cfg.outDir, fmt.Sprintf("%s.%s.spv", j.name, s.Stage.Extension()))
			if err := writeFile(so.File, s.Bytecode); err != nil {
				return setOutput{}, err
			}
		}
		out.Stages = append(out.Stages, so)
	}

	if cfg.outDir == "" {
		if len(j.cross) > 0 {
			logger.Warn("Skipping cross-compilation without an output directory.", "name", j.name)
		}
		return out, nil
	}
	for _, opts := range j.cross {
		cs, err := f.CrossCompile(ctx, set, opts)
		if err != nil {
			return setOutput{}, err
		}
		for _, r := range cs.Stages {
			path := filepath.Join(cfg.outDir, fmt.Sprintf("%s.%s.%s", j.name, r.Stage.Extension(), r.Target.Extension()))
			if err := writeFile(path, []byte(r.Source)); err != nil {
				return setOutput{}, err
			}
			logger.Debug("Wrote cross-compiled stage.", "path", path)
		}
	}
	return out, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeOutputs(w io.Writer, format string, outputs []setOutput) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outputs)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(outputs); err != nil {
		return err
	}
	return enc.Close()
}

