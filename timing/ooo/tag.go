// Package ooo implements a single-issue out-of-order execution engine
// using Tomasulo's algorithm with a reorder buffer.
//
// The engine dispatches decoded instructions speculatively ahead of their
// dependencies, executes them as soon as operands are available, and
// retires them strictly in program order. Results travel on a single
// broadcast bus identified by reorder-buffer tags.
package ooo

import "fmt"

// Tag identifies a reorder-buffer slot assigned to an in-flight
// instruction. It is the unit of identity for operand tracking and
// result broadcast.
type Tag uint8

// NewTag converts a raw value into a Tag bounded by the reorder-buffer
// size. It is the only way to build a Tag from untrusted input; tags on
// the engine's hot path come from ReorderBuffer.Allocate and are in
// range by construction.
func NewTag(v uint32, robSize int) (Tag, error) {
	if int(v) >= robSize {
		return 0, fmt.Errorf("tag %d out of range for reorder buffer of size %d", v, robSize)
	}
	return Tag(v), nil
}

// next returns the tag after t, wrapping modulo the buffer size.
func (t Tag) next(size int) Tag {
	return Tag((int(t) + 1) % size)
}
