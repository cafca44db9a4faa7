// Package store is the domain engine sitting between a UI shell and a
// pass(1)-compatible password store: a tree of GPG-encrypted files managed
// by the external pass tool. The engine validates the toolchain, mediates
// all CRUD/move/search operations through the external tool, parses and
// serializes entry content, builds the folder hierarchy from flat listings,
// and caches decrypted lookups with bounded memory and freshness.
//
// The engine never encrypts or decrypts anything itself; gpg does, via pass.
package store

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrInvalidPath      = errors.New("store: invalid entry path")
	ErrEmptyInput       = errors.New("store: empty input")
	ErrNotFound         = errors.New("store: entry not found")
	ErrAlreadyExists    = errors.New("store: entry already exists")
	ErrToolNotFound     = errors.New("store: pass executable not found")
	ErrTimeout          = errors.New("store: external tool timed out")
	ErrValidationFailed = errors.New("store: store setup is not valid")
)

// ToolError carries the diagnostic text of a failed external tool
// invocation. Message is the captured stderr, falling back to stdout
// when stderr is empty.
type ToolError struct {
	Op       string
	ExitCode int
	Message  string
}

func (e *ToolError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("store: pass %s failed with exit status %d", e.Op, e.ExitCode)
	}
	return fmt.Sprintf("store: pass %s failed: %s", e.Op, e.Message)
}

// ValidationError reports the first setup stage that failed, with a
// suggested remediation the caller can surface to the user.
type ValidationError struct {
	Stage       Stage
	Remediation string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("store: setup check failed at %s: %s", e.Stage, e.Remediation)
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
