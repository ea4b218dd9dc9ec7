// Package manifest loads HCL files describing shader sets.
//
//	shader_set "planet" {
//	  debug = var.debug
//	  macro "Name0" { value = "Value0" }
//	  macro "Name2" {}
//	  stage "vertex"   { file = "planet.vert" }
//	  stage "fragment" { file = "planet.frag" }
//	  cross "hlsl" { version = "50" }
//	}
//
// Attributes may reference caller-supplied variables as var.<name>.
// Stage files are resolved relative to the manifest's directory.
package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/gogpu/shaderset/cross"
	"github.com/gogpu/shaderset/glslc"
	"github.com/gogpu/shaderset/internal/ctxlog"
	"github.com/gogpu/shaderset/shader"
)

// fileRoot is the top level of a manifest file.
type fileRoot struct {
	Sets []*setBlock `hcl:"shader_set,block"`
}

type setBlock struct {
	Name   string        `hcl:"name,label"`
	Debug  bool          `hcl:"debug,optional"`
	Macros []*macroBlock `hcl:"macro,block"`
	Stages []*stageBlock `hcl:"stage,block"`
	Cross  []*crossBlock `hcl:"cross,block"`
}

type macroBlock struct {
	Name  string `hcl:"name,label"`
	Value string `hcl:"value,optional"`
}

type stageBlock struct {
	Stage string `hcl:"stage,label"`
	File  string `hcl:"file"`
}

type crossBlock struct {
	Target              string `hcl:"target,label"`
	Version             string `hcl:"version,optional"`
	FixClipSpaceZ       *bool  `hcl:"fix_clip_space_z,optional"`
	InvertVertexOutputY bool   `hcl:"invert_vertex_output_y,optional"`
}

// Manifest is a decoded manifest file.
type Manifest struct {
	// Path is the file the manifest was read from.
	Path string
	Sets []ShaderSet
}

// ShaderSet is one shader_set block.
type ShaderSet struct {
	Name    string
	Options glslc.CompileOptions
	Stages  []Stage
	Cross   []cross.Options
}

// Stage is one stage block of a shader set.
type Stage struct {
	Stage shader.Stage
	// Path is the stage source, resolved against the manifest directory.
	Path string
}

// Set returns the shader set called name.
func (m *Manifest) Set(name string) (*ShaderSet, bool) {
	for i := range m.Sets {
		if m.Sets[i].Name == name {
			return &m.Sets[i], true
		}
	}
	return nil, false
}

// Load reads and decodes the manifest at path.
func Load(ctx context.Context, path string, vars map[string]string) (*Manifest, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(ctx, src, path, vars)
}

// Parse decodes manifest source. filename is used for diagnostics and
// to resolve stage files.
func Parse(ctx context.Context, src []byte, filename string, vars map[string]string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing shader manifest.", "file", filename, "vars", len(vars))

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalContext(vars), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", filename, diags)
	}

	m := &Manifest{Path: filename}
	dir := filepath.Dir(filename)
	seen := make(map[string]bool)
	for _, b := range root.Sets {
		if seen[b.Name] {
			return nil, fmt.Errorf("failed to decode manifest %s: %w", filename, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Duplicate shader_set block",
				Detail:   fmt.Sprintf("A shader set named %q is already defined.", b.Name),
			}})
		}
		seen[b.Name] = true

		set, diags := translateSet(b, dir)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest %s: %w", filename, diags)
		}
		m.Sets = append(m.Sets, set)
	}
	logger.Debug("Parsed shader manifest.", "file", filename, "sets", len(m.Sets))
	return m, nil
}

func evalContext(vars map[string]string) *hcl.EvalContext {
	values := make(map[string]cty.Value, len(vars))
	for k, v := range vars {
		values[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{Variables: map[string]cty.Value{
		"var": cty.ObjectVal(values),
	}}
}

func translateSet(b *setBlock, dir string) (ShaderSet, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	set := ShaderSet{Name: b.Name}

	macros := make([]glslc.MacroDefinition, 0, len(b.Macros))
	for _, mb := range b.Macros {
		macros = append(macros, glslc.MacroDefinition{Name: mb.Name, Value: mb.Value})
	}
	set.Options = glslc.NewCompileOptions(b.Debug, macros...)

	var declared shader.Stage
	for _, sb := range b.Stages {
		st, err := shader.ParseStage(sb.Stage)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown stage",
				Detail:   fmt.Sprintf("Shader set %q: %v.", b.Name, err),
			})
			continue
		}
		if declared.Has(st) {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate stage block",
				Detail:   fmt.Sprintf("Shader set %q declares the %s stage twice.", b.Name, st),
			})
			continue
		}
		declared |= st
		path := sb.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		set.Stages = append(set.Stages, Stage{Stage: st, Path: path})
	}

	for _, cb := range b.Cross {
		target, err := cross.ParseTarget(cb.Target)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown cross target",
				Detail:   fmt.Sprintf("Shader set %q: %v.", b.Name, err),
			})
			continue
		}
		opts := cross.DefaultOptions(target)
		if cb.Version != "" {
			opts.Version = cb.Version
		}
		if target == cross.HLSL {
			if _, err := cross.ParseShaderModel(opts.Version); err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unsupported shader model",
					Detail:   fmt.Sprintf("Shader set %q: %v.", b.Name, err),
				})
				continue
			}
		}
		if cb.FixClipSpaceZ != nil {
			opts.FixClipSpaceZ = *cb.FixClipSpaceZ
		}
		opts.InvertVertexOutputY = cb.InvertVertexOutputY
		set.Cross = append(set.Cross, opts)
	}
	return set, diags
}
