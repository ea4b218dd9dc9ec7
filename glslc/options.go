package glslc

import (
	"strings"
)

// MacroDefinition is one preprocessor definition. An empty Value
// defines the name without a value, as a bare "#define NAME".
type MacroDefinition struct {
	Name  string
	Value string
}

// String formats m the way a -D flag spells it: NAME or NAME=VALUE.
func (m MacroDefinition) String() string {
	if m.Value == "" {
		return m.Name
	}
	return m.Name + "=" + m.Value
}

// ParseMacro parses NAME or NAME=VALUE.
func ParseMacro(s string) MacroDefinition {
	name, value, _ := strings.Cut(s, "=")
	return MacroDefinition{Name: name, Value: value}
}

// CompileOptions are the per-compile flags. The value is immutable:
// the constructor copies its macros and accessors return copies.
// The zero value compiles without debug info and without macros.
type CompileOptions struct {
	debug  bool
	macros []MacroDefinition
}

// NewCompileOptions returns options with debug info switched by debug
// and the given macros, which are emitted in order.
func NewCompileOptions(debug bool, macros ...MacroDefinition) CompileOptions {
	return CompileOptions{debug: debug, macros: append([]MacroDefinition(nil), macros...)}
}

// Debug reports whether debug information is requested.
func (o CompileOptions) Debug() bool { return o.debug }

// Macros returns a copy of the macro list.
func (o CompileOptions) Macros() []MacroDefinition {
	return append([]MacroDefinition(nil), o.macros...)
}

// MacroCount returns the number of macros.
func (o CompileOptions) MacroCount() int { return len(o.macros) }

// WithMacros returns options with macros appended after the existing ones.
func (o CompileOptions) WithMacros(macros ...MacroDefinition) CompileOptions {
	all := make([]MacroDefinition, 0, len(o.macros)+len(macros))
	all = append(all, o.macros...)
	return CompileOptions{debug: o.debug, macros: append(all, macros...)}
}

// WithDebug returns options with the debug flag replaced.
func (o CompileOptions) WithDebug(debug bool) CompileOptions {
	return CompileOptions{debug: debug, macros: o.macros}
}
