package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCyclicHierarchy      = errors.New("cyclic hierarchy")
	ErrTemplateNotFound     = errors.New("no active comparison template")
	ErrAmbiguousTemplate    = errors.New("more than one active comparison template")
	ErrRowConversion        = errors.New("row conversion failed")
	ErrDuplicateTariff      = errors.New("duplicate tariff key")
	ErrClosureNotIdempotent = errors.New("closure is not idempotent")
)

// CyclicHierarchyError names one unit code on a parent cycle.
type CyclicHierarchyError struct {
	Code string
}

func (e *CyclicHierarchyError) Error() string {
	return fmt.Sprintf("cyclic hierarchy at unit %q", e.Code)
}

func (e *CyclicHierarchyError) Is(target error) bool { return target == ErrCyclicHierarchy }

type TemplateNotFoundError struct{}

func (e *TemplateNotFoundError) Error() string { return ErrTemplateNotFound.Error() }

func (e *TemplateNotFoundError) Is(target error) bool { return target == ErrTemplateNotFound }

type AmbiguousTemplateError struct {
	IDs []string
}

func (e *AmbiguousTemplateError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAmbiguousTemplate, strings.Join(e.IDs, ", "))
}

func (e *AmbiguousTemplateError) Is(target error) bool { return target == ErrAmbiguousTemplate }

// RowConversionError is collected per skipped row during an export; it never aborts the export.
type RowConversionError struct {
	Structure Structure
	Line      int
	Field     string
	Value     string
	Err       error
}

func (e *RowConversionError) Error() string {
	return fmt.Sprintf("%s line %d: %s=%q: %v", e.Structure, e.Line, e.Field, e.Value, e.Err)
}

func (e *RowConversionError) Unwrap() error { return e.Err }

func (e *RowConversionError) Is(target error) bool { return target == ErrRowConversion }

// ServiceError carries a caller-facing code for failures of the StaffingService facade.
type ServiceError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func newServiceError(code, message string, cause error) *ServiceError {
	return &ServiceError{Code: code, Message: message, Cause: cause}
}
