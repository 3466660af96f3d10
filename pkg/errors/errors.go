package errors

import (
	"errors"
	"fmt"
)

var (
	ErrScanNotFound         = errors.New("scan not found")
	ErrUnknownModule        = errors.New("unknown intelligence module")
	ErrInvalidTarget        = errors.New("invalid scan target")
	ErrAnalysisUnavailable  = errors.New("analysis provider unavailable")
	ErrDiscordNotConfigured = errors.New("discord client not configured")
)

// ResolutionError reports a hostname that could not be resolved. It is
// terminal for the module that needed the address, not for the scan.
type ResolutionError struct {
	Host string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve host %s: %v", e.Host, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

func NewResolutionError(host string, err error) *ResolutionError {
	return &ResolutionError{
		Host: host,
		Err:  err,
	}
}

// ModuleError tags a failure with the intelligence module that produced it.
type ModuleError struct {
	Module string
	Err    error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module %s failed: %v", e.Module, e.Err)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}

func NewModuleError(module string, err error) *ModuleError {
	return &ModuleError{
		Module: module,
		Err:    err,
	}
}

// PersistenceError wraps a failed store operation. It is the only error
// class that fails a scan request outright.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{
		Op:  op,
		Err: err,
	}
}
