package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gogpu/shaderset/cross"
	"github.com/gogpu/shaderset/glslc"
	"github.com/gogpu/shaderset/shader"
)

// ExitError carries a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// macroList collects repeated -D flags in order.
type macroList []glslc.MacroDefinition

func (m *macroList) String() string {
	parts := make([]string, len(*m))
	for i, d := range *m {
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}

func (m *macroList) Set(v string) error {
	d := glslc.ParseMacro(v)
	if d.Name == "" {
		return fmt.Errorf("empty macro name in %q", v)
	}
	*m = append(*m, d)
	return nil
}

// varMap collects repeated -var key=value flags.
type varMap map[string]string

func (v varMap) String() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k+"="+v[k])
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

func (v varMap) Set(s string) error {
	k, val, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("want key=value, got %q", s)
	}
	v[k] = val
	return nil
}

type config struct {
	manifest   string
	name       string
	outDir     string
	format     string
	macros     macroList
	vars       varMap
	debug      bool
	glslc      string
	targetEnv  string
	spirvCross string
	cacheDir   string
	cross      string
	logLevel   string
	logFormat  string
	files      []string
}

// parseFlags returns the configuration, or nil when the program should
// exit cleanly (help was requested).
func parseFlags(args []string, output io.Writer) (*config, error) {
	fs := flag.NewFlagSet("shadersetc", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, `shadersetc - compile shader sets and print their unified resource layout.

Usage:
  shadersetc [options] <stage files...>
  shadersetc [options] -manifest sets.hcl

Stage files are GLSL (.vert .tesc .tese .geom .frag .comp) or SPIR-V
(.<stage>.spv). All files given on the command line form one set.

Options:
`)
		fs.PrintDefaults()
	}

	cfg := &config{vars: varMap{}}
	fs.StringVar(&cfg.manifest, "manifest", "", "HCL manifest describing shader sets")
	fs.StringVar(&cfg.name, "name", "", "set name for command-line stages (default: first file name)")
	fs.StringVar(&cfg.outDir, "o", "", "write <set>.<stage>.spv (and cross-compiled sources) to this directory")
	fs.StringVar(&cfg.format, "format", "yaml", "layout output format: yaml or json")
	fs.Var(&cfg.macros, "D", "define a macro NAME[=VALUE] (repeatable)")
	fs.Var(cfg.vars, "var", "set a manifest variable key=value (repeatable)")
	fs.BoolVar(&cfg.debug, "debug", false, "compile with debug info")
	fs.StringVar(&cfg.glslc, "glslc", "glslc", "glslc executable")
	fs.StringVar(&cfg.targetEnv, "target-env", "vulkan1.0", "glslc target environment")
	fs.StringVar(&cfg.spirvCross, "spirv-cross", "spirv-cross", "spirv-cross executable")
	fs.StringVar(&cfg.cacheDir, "cache", "", "persist compiled stages in this directory")
	fs.StringVar(&cfg.cross, "cross", "", "cross-compile to hlsl, msl, glsl or essl")
	fs.StringVar(&cfg.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	fs.StringVar(&cfg.logFormat, "log-format", "text", "log format: text or json")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, nil
		}
		return nil, usageError("%v", err)
	}
	cfg.files = fs.Args()

	switch {
	case cfg.manifest == "" && len(cfg.files) == 0:
		fs.Usage()
		return nil, usageError("no input files")
	case cfg.manifest != "" && len(cfg.files) > 0:
		return nil, usageError("-manifest cannot be combined with stage files")
	}
	cfg.format = strings.ToLower(cfg.format)
	if cfg.format != "yaml" && cfg.format != "json" {
		return nil, usageError("invalid -format %q: must be yaml or json", cfg.format)
	}
	cfg.logFormat = strings.ToLower(cfg.logFormat)
	if cfg.logFormat != "text" && cfg.logFormat != "json" {
		return nil, usageError("invalid -log-format %q: must be text or json", cfg.logFormat)
	}
	cfg.logLevel = strings.ToLower(cfg.logLevel)
	switch cfg.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, usageError("invalid -log-level %q", cfg.logLevel)
	}
	if cfg.cross != "" {
		if _, err := cross.ParseTarget(cfg.cross); err != nil {
			return nil, usageError("invalid -cross: %v", err)
		}
		if cfg.outDir == "" {
			return nil, usageError("-cross requires -o")
		}
	}
	return cfg, nil
}

// stageOf infers the stage of a file from its extension. SPIR-V files
// carry the stage in the extension before .spv.
func stageOf(path string) (shader.Stage, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if strings.EqualFold(ext, ".spv") {
		base = strings.TrimSuffix(base, ext)
		ext = filepath.Ext(base)
	}
	if ext == "" {
		return shader.StageNone, fmt.Errorf("%s: cannot infer the stage without an extension", path)
	}
	st, err := shader.ParseStage(ext[1:])
	if err != nil {
		return shader.StageNone, fmt.Errorf("%s: %w", path, err)
	}
	return st, nil
}

// setName derives a set name from a stage file: "planet.vert.spv" is
// "planet".
func setName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}
