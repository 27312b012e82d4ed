package topology

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName is matched (via errors.Is) by every [*DuplicateNameError].
	ErrDuplicateName = errors.New("duplicate node name")

	// ErrUnknownEndpoint is matched by every [*UnknownEndpointError].
	ErrUnknownEndpoint = errors.New("unknown link endpoint")

	// ErrInvalidAttribute is returned when a numeric attribute is out of range
	// (negative node capacity, non-positive link bandwidth).
	ErrInvalidAttribute = errors.New("invalid attribute")
)

// DuplicateNameError is returned by [Store.AddNode] when the name is empty or
// already taken. An empty name is reported through the same type because an
// empty string can never be a usable join key.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	if e.Name == "" {
		return "node name is required"
	}
	return fmt.Sprintf("node %q already exists", e.Name)
}

// Is reports true for [ErrDuplicateName].
func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }

// UnknownEndpointError is returned by [Store.AddLink] when either endpoint is
// empty or does not name an existing node.
type UnknownEndpointError struct {
	Source  string
	Target  string
	Missing []string // endpoint names that failed to resolve, empty string for a blank field
}

func (e *UnknownEndpointError) Error() string {
	if e.Source == "" || e.Target == "" {
		return "link source and target are required"
	}
	return fmt.Sprintf("link %s -> %s: both nodes must exist (missing %q)", e.Source, e.Target, e.Missing)
}

// Is reports true for [ErrUnknownEndpoint].
func (e *UnknownEndpointError) Is(target error) bool { return target == ErrUnknownEndpoint }
