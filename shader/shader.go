// Package shader defines the vocabulary shared by the compiler client,
// the SPIR-V reflector and the layout merger: programmable stages,
// resource kinds and the resources a single stage declares.
package shader

import (
	"fmt"
	"math/bits"
	"strings"
)

// Stage is a mask of programmable stages.
// A compiled module has exactly one stage set; a shader set
// combines several.
type Stage uint8

// Stages.
const (
	StageVertex Stage = 1 << iota
	StageTessellationControl
	StageTessellationEvaluation
	StageGeometry
	StageFragment
	StageCompute

	// StageNone is the empty mask.
	StageNone Stage = 0

	stageAll = StageVertex | StageTessellationControl | StageTessellationEvaluation |
		StageGeometry | StageFragment | StageCompute
)

var stageNames = [...]string{
	"vertex",
	"tessellation_control",
	"tessellation_evaluation",
	"geometry",
	"fragment",
	"compute",
}

// Stages lists every stage in ascending flag order.
var Stages = []Stage{
	StageVertex,
	StageTessellationControl,
	StageTessellationEvaluation,
	StageGeometry,
	StageFragment,
	StageCompute,
}

// IsSingle reports whether s names exactly one known stage.
func (s Stage) IsSingle() bool {
	return s != 0 && s&^stageAll == 0 && bits.OnesCount8(uint8(s)) == 1
}

// Has reports whether every stage in o is also in s.
func (s Stage) Has(o Stage) bool { return o != 0 && s&o == o }

// Split returns the single stages contained in s, in ascending order.
func (s Stage) Split() []Stage {
	var out []Stage
	for _, st := range Stages {
		if s&st != 0 {
			out = append(out, st)
		}
	}
	return out
}

// String returns the stage names joined by "|".
func (s Stage) String() string {
	if s == StageNone {
		return "none"
	}
	var parts []string
	for i, st := range Stages {
		if s&st != 0 {
			parts = append(parts, stageNames[i])
		}
	}
	if rest := s &^ stageAll; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%02x", uint8(rest)))
	}
	return strings.Join(parts, "|")
}

// MarshalText implements encoding.TextMarshaler.
func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stage) UnmarshalText(text []byte) error {
	st, err := ParseStages(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// ParseStage parses a single stage name.
// Besides the canonical names it accepts the usual file
// extension spellings (vert, tesc, tese, geom, frag, comp).
func ParseStage(name string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "vertex", "vert", "vs":
		return StageVertex, nil
	case "tessellation_control", "tesc", "hs":
		return StageTessellationControl, nil
	case "tessellation_evaluation", "tese", "ds":
		return StageTessellationEvaluation, nil
	case "geometry", "geom", "gs":
		return StageGeometry, nil
	case "fragment", "frag", "ps", "fs":
		return StageFragment, nil
	case "compute", "comp", "cs":
		return StageCompute, nil
	}
	return StageNone, fmt.Errorf("shader: unknown stage %q", name)
}

// ParseStages parses a "|"-separated list of stage names.
func ParseStages(text string) (Stage, error) {
	if text == "" || text == "none" {
		return StageNone, nil
	}
	var s Stage
	for _, part := range strings.Split(text, "|") {
		st, err := ParseStage(part)
		if err != nil {
			return StageNone, err
		}
		s |= st
	}
	return s, nil
}

// Extension returns the conventional GLSL file extension
// for a single stage, without the dot.
func (s Stage) Extension() string {
	switch s {
	case StageVertex:
		return "vert"
	case StageTessellationControl:
		return "tesc"
	case StageTessellationEvaluation:
		return "tese"
	case StageGeometry:
		return "geom"
	case StageFragment:
		return "frag"
	case StageCompute:
		return "comp"
	}
	return ""
}

// UnsupportedStageError means that a stage value outside the
// known set reached code that maps stages to something else.
// It signals a programming error by the caller.
type UnsupportedStageError struct {
	Stage Stage
}

func (e *UnsupportedStageError) Error() string {
	return fmt.Sprintf("shader: unsupported stage %s", e.Stage)
}

// CheckSingle returns an *UnsupportedStageError unless s is a single stage.
func CheckSingle(s Stage) error {
	if !s.IsSingle() {
		return &UnsupportedStageError{Stage: s}
	}
	return nil
}
