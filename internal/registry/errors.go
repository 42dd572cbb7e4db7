package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrRegistryLoad means the manifest could not be read or decoded, or
	// it yielded no usable kind. There is no drawing tool without one.
	ErrRegistryLoad = errors.New("registry load failed")
	// ErrKindResolution means a declared implementation ref is unknown.
	ErrKindResolution = errors.New("kind implementation not resolvable")
	// ErrContractViolation means a resolved factory does not honour the
	// Shape contract.
	ErrContractViolation = errors.New("kind violates shape contract")
	// ErrDuplicateKind means the kind id was already declared earlier.
	ErrDuplicateKind = errors.New("duplicate kind")
	// ErrUnknownKind is returned for runtime requests of unregistered kinds.
	ErrUnknownKind = errors.New("unknown kind")
)

// KindError describes one manifest entry that was skipped during load.
type KindError struct {
	Kind string
	Impl string
	Err  error
}

func (e *KindError) Error() string {
	return fmt.Sprintf("kind %q (%s): %v", e.Kind, e.Impl, e.Err)
}

func (e *KindError) Unwrap() error { return e.Err }
