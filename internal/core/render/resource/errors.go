package resource

import (
	"errors"
	"fmt"
)

var (
	ErrStaleHandle   = errors.New("stale or unknown resource handle")
	ErrScopeInactive = errors.New("resource scope is not initialized")
	ErrScopeActive   = errors.New("resource scope is already initialized")
	ErrInvalidParams = errors.New("invalid asset parameters")
	ErrWrongKind     = errors.New("handle refers to a different asset kind")
)

// ResourceCreationError reports that an asset factory call failed. The caller
// decides whether to substitute a placeholder or give up.
type ResourceCreationError struct {
	Scope Scope
	Kind  Kind
	Label string
	Err   error
}

func (e *ResourceCreationError) Error() string {
	return fmt.Sprintf("create %s %q in %s scope: %v", e.Kind, e.Label, e.Scope, e.Err)
}

func (e *ResourceCreationError) Unwrap() error { return e.Err }

// ScopeMismatchError means a handle was used under a scope it was not
// allocated in. This is a contract violation by the caller, not a runtime
// condition to recover from.
type ScopeMismatchError struct {
	Handle    Handle
	Requested Scope
}

func (e *ScopeMismatchError) Error() string {
	return fmt.Sprintf("handle %s belongs to %s scope, used under %s", e.Handle, e.Handle.Scope, e.Requested)
}
