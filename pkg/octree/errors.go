package octree

import "errors"

// ErrInvalidArgument reports a caller error: a malformed bounding
// box, a non-positive cell size, an out-of-range depth, and similar.
var ErrInvalidArgument = errors.New("octree: invalid argument")

// ErrDegenerateInput reports geometry that cannot be represented, such
// as sampling a solid whose bounding box has zero volume.
var ErrDegenerateInput = errors.New("octree: degenerate input")

// ErrOutOfMemory reports that an operation could not complete within
// the tree's memory bounds. Nothing in this package imposes such a
// bound or returns this error; it exists so callers can already
// handle it.
var ErrOutOfMemory = errors.New("octree: out of memory")

// ErrUnsupported reports a documented gap rather than a bug: resizing
// an existing tree is not implemented, matching the source
// implementation this package is modeled on, which never finished it
// either.
var ErrUnsupported = errors.New("octree: unsupported operation")
