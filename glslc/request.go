package glslc

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/gogpu/shaderset/shader"
)

// DefaultFileName names requests built without a file name.
const DefaultFileName = "<shaderset-input>"

// Kind is the compiler's shader kind. The values follow shaderc's
// shaderc_shader_kind numbering.
type Kind uint32

// Shader kinds
const (
	KindVertex         Kind = 0
	KindFragment       Kind = 1
	KindCompute        Kind = 2
	KindGeometry       Kind = 3
	KindTessControl    Kind = 4
	KindTessEvaluation Kind = 5
)

// KindOf maps a single stage to its shader kind.
func KindOf(s shader.Stage) (Kind, error) {
	switch s {
	case shader.StageVertex:
		return KindVertex, nil
	case shader.StageFragment:
		return KindFragment, nil
	case shader.StageCompute:
		return KindCompute, nil
	case shader.StageGeometry:
		return KindGeometry, nil
	case shader.StageTessellationControl:
		return KindTessControl, nil
	case shader.StageTessellationEvaluation:
		return KindTessEvaluation, nil
	}
	return 0, &shader.UnsupportedStageError{Stage: s}
}

// Stage is the inverse of KindOf. Unknown kinds map to StageNone.
func (k Kind) Stage() shader.Stage {
	switch k {
	case KindVertex:
		return shader.StageVertex
	case KindFragment:
		return shader.StageFragment
	case KindCompute:
		return shader.StageCompute
	case KindGeometry:
		return shader.StageGeometry
	case KindTessControl:
		return shader.StageTessellationControl
	case KindTessEvaluation:
		return shader.StageTessellationEvaluation
	}
	return shader.StageNone
}

// String returns the glslc -fshader-stage spelling of k.
func (k Kind) String() string {
	if ext := k.Stage().Extension(); ext != "" {
		return ext
	}
	return fmt.Sprintf("Kind(%d)", uint32(k))
}

// Charset is the single-byte encoding applied to every text field of a
// request.
type Charset int

// Charsets
const (
	ASCII Charset = iota
	Latin1
)

func (c Charset) String() string {
	switch c {
	case ASCII:
		return "ASCII"
	case Latin1:
		return "Latin-1"
	}
	return fmt.Sprintf("Charset(%d)", int(c))
}

// EncodingError reports a character that the request charset cannot
// represent. Offset is the byte offset of the character in the field.
type EncodingError struct {
	Field   string
	Offset  int
	Rune    rune
	Charset Charset
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("glslc: %s: character %U at offset %d is not representable in %s",
		e.Field, e.Rune, e.Offset, e.Charset)
}

// Encode converts s to one byte per character. It never truncates:
// the first unrepresentable character fails the whole field.
func (c Charset) Encode(field, s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		b, ok := c.encodeRune(r, size)
		if !ok {
			return nil, &EncodingError{Field: field, Offset: i, Rune: r, Charset: c}
		}
		out = append(out, b)
		i += size
	}
	return out, nil
}

func (c Charset) encodeRune(r rune, size int) (byte, bool) {
	if r == utf8.RuneError && size == 1 {
		return 0, false
	}
	switch c {
	case ASCII:
		return byte(r), r < utf8.RuneSelf
	case Latin1:
		return charmap.ISO8859_1.EncodeRune(r)
	}
	return 0, false
}

// Macro is an encoded macro definition. An empty Value defines the
// name without a value.
type Macro struct {
	Name  []byte
	Value []byte
}

// Request is a normalized compile request. Every text field is already
// encoded to single bytes.
type Request struct {
	Source   []byte
	FileName []byte
	Kind     Kind
	Debug    bool
	Macros   []Macro
}

// NewRequest builds an ASCII-encoded request.
func NewRequest(source, fileName string, stage shader.Stage, opts CompileOptions) (*Request, error) {
	return ASCII.NewRequest(source, fileName, stage, opts)
}

// NewRequestBytes is NewRequest for UTF-8 source held in a byte slice.
func NewRequestBytes(source []byte, fileName string, stage shader.Stage, opts CompileOptions) (*Request, error) {
	return ASCII.NewRequest(string(source), fileName, stage, opts)
}

// NewRequest builds a request encoded with c. An empty fileName is
// replaced with DefaultFileName. The stage must be a single stage.
func (c Charset) NewRequest(source, fileName string, stage shader.Stage, opts CompileOptions) (*Request, error) {
	kind, err := KindOf(stage)
	if err != nil {
		return nil, err
	}
	if fileName == "" {
		fileName = DefaultFileName
	}

	req := &Request{Kind: kind, Debug: opts.Debug()}
	if req.Source, err = c.Encode("source", source); err != nil {
		return nil, err
	}
	if req.FileName, err = c.Encode("file name", fileName); err != nil {
		return nil, err
	}
	for i, m := range opts.macros {
		var enc Macro
		if enc.Name, err = c.Encode(fmt.Sprintf("macro %d name", i), m.Name); err != nil {
			return nil, err
		}
		if enc.Value, err = c.Encode(fmt.Sprintf("macro %s value", m.Name), m.Value); err != nil {
			return nil, err
		}
		req.Macros = append(req.Macros, enc)
	}
	return req, nil
}

// Stage returns the stage of the request's kind.
func (r *Request) Stage() shader.Stage { return r.Kind.Stage() }
