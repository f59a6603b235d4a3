package vdag

import "github.com/pkg/errors"

var (
	// ErrConfig reports bad construction input: too few or too many levels, an
	// empty level or a tree that is not fully branched.
	ErrConfig = errors.New("vdag: invalid configuration")

	// ErrInconsistent reports a broken invariant between the octree and the
	// compactor, such as a child reference with no canonical replacement. It means
	// a programming defect, never a data condition.
	ErrInconsistent = errors.New("vdag: internal inconsistency")

	// ErrCorrupt reports a .vdag container that fails validation.
	ErrCorrupt = errors.New("vdag: corrupt container")
)
