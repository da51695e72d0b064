// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package handle provides a fixed-capacity table of resource slots addressed
// by small integer handles.
//
// Slots are allocated first-fit: Allocate always returns the lowest-numbered
// free slot, so a given sequence of Allocate/Release calls yields the same
// handle values on every run. vg keeps one table for textures and one for
// compiled shapes.
//
//	textures := handle.New[surface.Texture](1024)
//	h, err := textures.Insert(tex)
//	...
//	tex, err = textures.Release(h)
//
// An Allocator is NOT safe for concurrent use. It is meant to be owned by a
// single render goroutine.
package handle

import (
	"errors"
	"fmt"
	"math"
)

// MaxCapacity is the largest table an Allocator can manage.
// Every slot must be addressable by a Handle.
const MaxCapacity = math.MaxUint16 + 1

// Handle names a slot in an Allocator.
type Handle uint16

// Allocator errors.
var (
	// ErrResourceExhausted is returned by Allocate when every slot is live.
	ErrResourceExhausted = errors.New("handle: no free slot")

	// ErrInvalidHandle is returned when a handle is out of range or names an
	// empty slot.
	ErrInvalidHandle = errors.New("handle: invalid handle")

	// ErrInvalidCapacity is returned by NewChecked for capacities outside
	// [1, MaxCapacity].
	ErrInvalidCapacity = errors.New("handle: invalid capacity")
)

type slot[T any] struct {
	live  bool
	value T
}

// Allocator is a fixed-capacity slot table with first-fit allocation.
type Allocator[T any] struct {
	slots []slot[T]
	live  int
}

// NewChecked creates an Allocator with the given number of slots.
func NewChecked[T any](capacity int) (*Allocator[T], error) {
	if capacity < 1 || capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &Allocator[T]{slots: make([]slot[T], capacity)}, nil
}

// New is like NewChecked but panics on an invalid capacity.
// Use only with constant capacities.
func New[T any](capacity int) *Allocator[T] {
	a, err := NewChecked[T](capacity)
	if err != nil {
		panic(err)
	}
	return a
}

// Cap returns the number of slots.
func (a *Allocator[T]) Cap() int {
	return len(a.slots)
}

// Len returns the number of live slots.
func (a *Allocator[T]) Len() int {
	return a.live
}

// Allocate marks the lowest-numbered empty slot live and returns its handle.
// The slot holds the zero value of T until Set is called.
func (a *Allocator[T]) Allocate() (Handle, error) {
	for i := range a.slots {
		if !a.slots[i].live {
			a.slots[i].live = true
			a.live++
			return Handle(i), nil //nolint:gosec // i < MaxCapacity
		}
	}
	return 0, fmt.Errorf("%w (capacity %d)", ErrResourceExhausted, len(a.slots))
}

// Insert allocates a slot and stores v in it.
func (a *Allocator[T]) Insert(v T) (Handle, error) {
	h, err := a.Allocate()
	if err != nil {
		return 0, err
	}
	a.slots[h].value = v
	return h, nil
}

// Set replaces the value stored in a live slot.
func (a *Allocator[T]) Set(h Handle, v T) error {
	if !a.Live(h) {
		return a.invalid(h)
	}
	a.slots[h].value = v
	return nil
}

// Get returns the value stored in a live slot.
func (a *Allocator[T]) Get(h Handle) (T, error) {
	if !a.Live(h) {
		var zero T
		return zero, a.invalid(h)
	}
	return a.slots[h].value, nil
}

// Live reports whether h names a live slot.
func (a *Allocator[T]) Live(h Handle) bool {
	return int(h) < len(a.slots) && a.slots[h].live
}

// Release marks a live slot empty and returns the value it held, so the
// caller can free the underlying resource. The slot becomes available to
// the next Allocate.
func (a *Allocator[T]) Release(h Handle) (T, error) {
	var zero T
	if !a.Live(h) {
		return zero, a.invalid(h)
	}
	v := a.slots[h].value
	a.slots[h] = slot[T]{}
	a.live--
	return v, nil
}

// Range calls fn for every live slot in ascending handle order.
// Iteration stops early if fn returns false. fn must not allocate or
// release slots.
func (a *Allocator[T]) Range(fn func(h Handle, v T) bool) {
	for i := range a.slots {
		if !a.slots[i].live {
			continue
		}
		if !fn(Handle(i), a.slots[i].value) { //nolint:gosec // i < MaxCapacity
			return
		}
	}
}

// Reset empties every slot without returning the stored values.
func (a *Allocator[T]) Reset() {
	clear(a.slots)
	a.live = 0
}

func (a *Allocator[T]) invalid(h Handle) error {
	if int(h) >= len(a.slots) {
		return fmt.Errorf("%w: %d out of range [0, %d)", ErrInvalidHandle, h, len(a.slots))
	}
	return fmt.Errorf("%w: slot %d is empty", ErrInvalidHandle, h)
}
