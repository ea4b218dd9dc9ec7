package glslc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/shaderset/shader"
)

func TestCompileOptions_Immutable(t *testing.T) {
	macros := []MacroDefinition{{Name: "A", Value: "1"}, {Name: "B"}}
	opts := NewCompileOptions(true, macros...)

	macros[0].Name = "CHANGED"
	got := opts.Macros()
	require.Equal(t, "A", got[0].Name)

	got[1].Name = "ALSO_CHANGED"
	require.Equal(t, "B", opts.Macros()[1].Name)

	more := opts.WithMacros(MacroDefinition{Name: "C"})
	require.Equal(t, 2, opts.MacroCount())
	require.Equal(t, 3, more.MacroCount())
	require.True(t, more.Debug())
	require.False(t, opts.WithDebug(false).Debug())
	require.True(t, opts.Debug())
}

func TestParseMacro(t *testing.T) {
	tests := map[string]MacroDefinition{
		"NAME":     {Name: "NAME"},
		"NAME=1":   {Name: "NAME", Value: "1"},
		"EXPR=a=b": {Name: "EXPR", Value: "a=b"},
		"EMPTY=":   {Name: "EMPTY"},
	}
	for in, want := range tests {
		require.Equal(t, want, ParseMacro(in), in)
	}
	require.Equal(t, "NAME=1", MacroDefinition{Name: "NAME", Value: "1"}.String())
	require.Equal(t, "NAME", MacroDefinition{Name: "NAME"}.String())
}

func TestNewRequest(t *testing.T) {
	opts := NewCompileOptions(true,
		MacroDefinition{Name: "Name0", Value: "Value0"},
		MacroDefinition{Name: "Name1", Value: "Value1"},
		MacroDefinition{Name: "Name2"},
	)
	req, err := NewRequest("#version 450\nvoid main() {}\n", "", shader.StageFragment, opts)
	require.NoError(t, err)

	require.Equal(t, KindFragment, req.Kind)
	require.Equal(t, shader.StageFragment, req.Stage())
	require.True(t, req.Debug)
	require.Equal(t, DefaultFileName, string(req.FileName))
	require.Len(t, req.Macros, 3)
	for i, want := range []string{"Name0", "Name1", "Name2"} {
		require.Equal(t, want, string(req.Macros[i].Name))
	}
	require.Equal(t, "Value1", string(req.Macros[1].Value))
	require.Empty(t, req.Macros[2].Value)
}

func TestNewRequest_EncodingErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		file   string
		macro  MacroDefinition
		field  string
		offset int
	}{
		{"source", "void main() { /* é */ }", "a.frag", MacroDefinition{Name: "X"}, "source", 17},
		{"file name", "void main() {}", "shäder.frag", MacroDefinition{Name: "X"}, "file name", 2},
		{"macro name", "void main() {}", "a.frag", MacroDefinition{Name: "NÄME"}, "macro 0 name", 1},
		{"macro value", "void main() {}", "a.frag", MacroDefinition{Name: "X", Value: "→"}, "macro X value", 0},
		{"invalid utf8", "void \xff main", "a.frag", MacroDefinition{Name: "X"}, "source", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRequest(tt.source, tt.file, shader.StageVertex, NewCompileOptions(false, tt.macro))
			var encErr *EncodingError
			require.ErrorAs(t, err, &encErr)
			require.Equal(t, tt.field, encErr.Field)
			require.Equal(t, tt.offset, encErr.Offset)
		})
	}
}

func TestNewRequest_Latin1(t *testing.T) {
	req, err := Latin1.NewRequest("// café\nvoid main() {}", "é.comp", shader.StageCompute, CompileOptions{})
	require.NoError(t, err)
	require.Equal(t, []byte{0xe9, '.', 'c', 'o', 'm', 'p'}, req.FileName)
	require.Equal(t, len("// cafe\nvoid main() {}"), len(req.Source))

	_, err = Latin1.NewRequest("// €", "a.comp", shader.StageCompute, CompileOptions{})
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	require.Equal(t, '€', encErr.Rune)
}

func TestNewRequest_UnsupportedStage(t *testing.T) {
	for _, st := range []shader.Stage{shader.StageNone, shader.StageVertex | shader.StageFragment, shader.Stage(1 << 7)} {
		_, err := NewRequestBytes([]byte("void main() {}"), "x", st, CompileOptions{})
		var stageErr *shader.UnsupportedStageError
		require.True(t, errors.As(err, &stageErr), "stage %v: %v", st, err)
	}
}

func TestKind_RoundTrip(t *testing.T) {
	for _, st := range shader.Stages {
		k, err := KindOf(st)
		require.NoError(t, err)
		require.Equal(t, st, k.Stage())
		require.Equal(t, st.Extension(), k.String())
	}
	require.Equal(t, "Kind(42)", Kind(42).String())
}
