// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cross

import "fmt"

// ErrorKind categorizes cross-compilation errors.
type ErrorKind uint8

const (
	// ErrUnsupportedTarget indicates a target language or version the
	// cross compiler cannot emit.
	ErrUnsupportedTarget ErrorKind = iota

	// ErrMissingBinding indicates a resource with no slot in the BindingMap
	// or no entry in the layout.
	ErrMissingBinding

	// ErrToolFailed indicates the cross compiler could not be run or
	// rejected its input.
	ErrToolFailed

	// ErrInvalidModule indicates the input is not a SPIR-V module.
	ErrInvalidModule

	// ErrReservedName indicates a layout name that is a keyword of the
	// target language.
	ErrReservedName
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnsupportedTarget:
		return "UnsupportedTarget"
	case ErrMissingBinding:
		return "MissingBinding"
	case ErrToolFailed:
		return "ToolFailed"
	case ErrInvalidModule:
		return "InvalidModule"
	case ErrReservedName:
		return "ReservedName"
	default:
		return "Unknown"
	}
}

// Error represents a cross-compilation error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error. For ErrToolFailed it
	// holds the tool's output verbatim.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("cross %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError creates a new cross-compilation error.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsMissingBinding returns true if the error is ErrMissingBinding.
func (e *Error) IsMissingBinding() bool {
	return e.Kind == ErrMissingBinding
}

// IsToolFailed returns true if the error is ErrToolFailed.
func (e *Error) IsToolFailed() bool {
	return e.Kind == ErrToolFailed
}
