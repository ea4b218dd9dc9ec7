package shader

import (
	"fmt"
	"strings"
)

// ResourceKind is the kind of a bound resource.
type ResourceKind uint8

// Resource kinds.
const (
	UniformBuffer ResourceKind = iota
	StructuredBufferReadOnly
	StructuredBufferReadWrite
	TextureReadOnly
	TextureReadWrite
	Sampler
)

var kindNames = [...]string{
	UniformBuffer:             "uniform_buffer",
	StructuredBufferReadOnly:  "structured_buffer_read_only",
	StructuredBufferReadWrite: "structured_buffer_read_write",
	TextureReadOnly:           "texture_read_only",
	TextureReadWrite:          "texture_read_write",
	Sampler:                   "sampler",
}

// String returns the snake_case name of the kind.
func (k ResourceKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ResourceKind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k ResourceKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ResourceKind) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	for i, name := range kindNames {
		if name == s {
			*k = ResourceKind(i)
			return nil
		}
	}
	return fmt.Errorf("shader: unknown resource kind %q", text)
}

// IsBuffer reports whether k is backed by buffer memory.
func (k ResourceKind) IsBuffer() bool {
	return k == UniformBuffer || k == StructuredBufferReadOnly || k == StructuredBufferReadWrite
}

// IsWritable reports whether shaders may write through k.
func (k ResourceKind) IsWritable() bool {
	return k == StructuredBufferReadWrite || k == TextureReadWrite
}

// Resource is one binding declared by a single compiled stage.
type Resource struct {
	// Name is the variable name found in the module's debug
	// information. It is informational only and may be empty.
	Name string

	Set     uint32
	Binding uint32
	Kind    ResourceKind
	Stage   Stage

	// Count is the array size: 1 for a plain resource,
	// 0 for a runtime-sized array.
	Count uint32

	// ID is the result id of the SPIR-V variable and TypeID
	// the id of the type it points to (after stripping arrays).
	// Both are zero for resources not produced by reflection.
	ID     uint32
	TypeID uint32
}

// String formats r as "set:binding kind (stage)".
func (r Resource) String() string {
	return fmt.Sprintf("%d:%d %s (%s)", r.Set, r.Binding, r.Kind, r.Stage)
}
