package fac

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidConfig indicates an application configuration error.
	ErrInvalidConfig = errors.New("fac: invalid configuration")
	// ErrInvalidModule indicates a module definition error.
	ErrInvalidModule = errors.New("fac: invalid module definition")
	// ErrDanglingReference indicates a reference to a module that is not declared.
	ErrDanglingReference = errors.New("fac: dangling reference")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("fac: code generation failed")
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("fac: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("fac: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// ModuleError represents a module definition error.
type ModuleError struct {
	Module  string // Module name (empty for unnamed modules)
	Index   int    // Position of the module in the configuration
	Field   string // Field name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ModuleError) Error() string {
	var b strings.Builder
	b.WriteString("fac: module error")
	if e.Module != "" {
		b.WriteString(" on module ")
		b.WriteString(e.Module)
	} else {
		fmt.Fprintf(&b, " on module #%d", e.Index)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ModuleError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ModuleError.
func (e *ModuleError) Is(target error) bool {
	return target == ErrInvalidModule
}

// NewModuleError creates a new ModuleError.
func NewModuleError(module string, index int, field, message string, cause error) *ModuleError {
	return &ModuleError{
		Module:  module,
		Index:   index,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// ReferenceError represents a reference field pointing at an undeclared module.
type ReferenceError struct {
	From  string
	Field string
	To    string
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	return fmt.Sprintf("fac: reference %s.%s points to undeclared module %q", e.From, e.Field, e.To)
}

// Is reports whether the target matches the sentinel error for ReferenceError.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrDanglingReference
}

// NewReferenceError creates a new ReferenceError.
func NewReferenceError(from, field, to string) *ReferenceError {
	return &ReferenceError{From: from, Field: field, To: to}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "analyze", "module", "migration", etc.
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("fac: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsModuleError reports whether the error is a ModuleError.
func IsModuleError(err error) bool {
	var moduleErr *ModuleError
	return errors.As(err, &moduleErr)
}

// IsReferenceError reports whether the error is a ReferenceError.
func IsReferenceError(err error) bool {
	var refErr *ReferenceError
	return errors.As(err, &refErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
