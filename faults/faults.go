package faults

import (
	"errors"
	"fmt"
)

/**
 * Separate package exists mainly in order to avoid cyclic imports:
 * the mmu and alloc packages both raise faults, and callers match on
 * the codes through Is.
 */

// Code identifies the class of a fault.
type Code int

// fault classes:

// Segment - segment absent or segment number beyond the table range
const Segment Code = 1

// Bounds - page and offset land beyond the segment size
const Bounds Code = 2

// PoolExhausted - no free frame left and nothing eligible for eviction
const PoolExhausted Code = 3

// InvalidFree - free or realloc on an address no allocation starts at
const InvalidFree Code = 4

// AllocationFailed - malloc could not build a contiguous frame run
// within its retry budget
const AllocationFailed Code = 5

// Fault type - a recoverable outcome of a translation or allocation.
// Faults surface as the -1 sentinel at the batch boundary and never
// terminate the simulation.
type Fault struct {
	Code Code
	Msg  string
}

func (f *Fault) Error() string {
	return f.Msg
}

// New builds a fault of the given class.
func New(code Code, format string, args ...interface{}) *Fault {
	return &Fault{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is (or wraps) a fault of the given class.
func Is(err error, code Code) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Code == code
	}
	return false
}
