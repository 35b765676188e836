package grid

import (
	"slices"

	"github.com/matzehuels/blockgrid/pkg/errors"
)

// HeaderIndex tracks the header numbers assigned to each axis.
//
// Both sets are kept strictly increasing and are disjoint. Numbers allocated
// on the row axis are odd and numbers allocated on the column axis are even;
// a number moved to the other axis by [HeaderIndex.MoveNumber] keeps its value
// and therefore its parity, so an axis may hold numbers of the foreign parity
// after a conversion. Allocation never hands out a number held by either axis.
//
// The zero value is an empty index ready for use.
type HeaderIndex struct {
	rows []int
	cols []int
}

// NewHeaderIndex returns an empty index.
func NewHeaderIndex() *HeaderIndex {
	return &HeaderIndex{}
}

// RestoreHeaderIndex rebuilds an index from persisted number sets. It returns
// an ErrCodeCorruptState error if either set is not strictly increasing, holds
// negative numbers, or if the sets share a number.
func RestoreHeaderIndex(rows, cols []int) (*HeaderIndex, error) {
	for _, set := range [][]int{rows, cols} {
		for i, n := range set {
			if n < 0 {
				return nil, errors.New(errors.ErrCodeCorruptState, "negative header number %d", n)
			}
			if i > 0 && set[i-1] >= n {
				return nil, errors.New(errors.ErrCodeCorruptState, "header numbers not strictly increasing at %d", n)
			}
		}
	}
	for _, n := range rows {
		if _, found := slices.BinarySearch(cols, n); found {
			return nil, errors.New(errors.ErrCodeCorruptState, "header number %d assigned to both axes", n)
		}
	}
	return &HeaderIndex{rows: slices.Clone(rows), cols: slices.Clone(cols)}, nil
}

func (h *HeaderIndex) set(axis Axis) *[]int {
	if axis == AxisColumn {
		return &h.cols
	}
	return &h.rows
}

// Numbers returns a copy of the sorted numbers on axis.
func (h *HeaderIndex) Numbers(axis Axis) []int {
	out := slices.Clone(*h.set(axis))
	if out == nil {
		out = []int{}
	}
	return out
}

// Len returns how many numbers are assigned to axis.
func (h *HeaderIndex) Len(axis Axis) int {
	return len(*h.set(axis))
}

// Contains reports whether number is assigned to axis.
func (h *HeaderIndex) Contains(axis Axis, number int) bool {
	_, found := slices.BinarySearch(*h.set(axis), number)
	return found
}

// AxisOf returns the axis number is assigned to.
func (h *HeaderIndex) AxisOf(number int) (Axis, bool) {
	switch {
	case h.Contains(AxisRow, number):
		return AxisRow, true
	case h.Contains(AxisColumn, number):
		return AxisColumn, true
	}
	return AxisRow, false
}

// Rank returns the sorted position of number within axis, or -1 if absent.
func (h *HeaderIndex) Rank(axis Axis, number int) int {
	pos, found := slices.BinarySearch(*h.set(axis), number)
	if !found {
		return -1
	}
	return pos
}

func (h *HeaderIndex) taken(number int) bool {
	return h.Contains(AxisRow, number) || h.Contains(AxisColumn, number)
}

// AllocateNext assigns the next number on axis and returns it together with
// its sorted rank within the axis (the header line belongs at matrix index
// rank+1).
//
// The first number of the axis parity lying strictly between the axis's
// minimum and maximum and not held by either axis is reused. Without such a
// gap the range is extended past the maximum. An empty axis starts at 1 for
// rows and 0 for columns.
func (h *HeaderIndex) AllocateNext(axis Axis) (number, rank int) {
	number = h.nextFree(axis)
	set := h.set(axis)
	rank, _ = slices.BinarySearch(*set, number)
	*set = slices.Insert(*set, rank, number)
	return number, rank
}

func (h *HeaderIndex) nextFree(axis Axis) int {
	set := *h.set(axis)
	p := axis.parity()
	if len(set) == 0 {
		n := p
		for h.taken(n) {
			n += 2
		}
		return n
	}

	lo, hi := set[0], set[len(set)-1]
	start := lo
	if start%2 != p {
		start++
	}
	for n := start; n < hi; n += 2 {
		if !h.taken(n) {
			return n
		}
	}

	n := hi + 2
	if hi%2 != p {
		n = hi + 1
	}
	for h.taken(n) {
		n += 2
	}
	return n
}

// RemoveNumber deletes number from axis. It reports whether it was present.
func (h *HeaderIndex) RemoveNumber(axis Axis, number int) bool {
	set := h.set(axis)
	pos, found := slices.BinarySearch(*set, number)
	if !found {
		return false
	}
	*set = slices.Delete(*set, pos, pos+1)
	return true
}

// MoveNumber moves number from one axis to the other without renumbering it.
// It returns the destination axis and the number's sorted rank there.
func (h *HeaderIndex) MoveNumber(from Axis, number int) (to Axis, rank int, ok bool) {
	if !h.RemoveNumber(from, number) {
		return from, -1, false
	}
	to = from.Other()
	set := h.set(to)
	rank, _ = slices.BinarySearch(*set, number)
	*set = slices.Insert(*set, rank, number)
	return to, rank, true
}

// Clone returns a deep copy of the index.
func (h *HeaderIndex) Clone() *HeaderIndex {
	return &HeaderIndex{rows: slices.Clone(h.rows), cols: slices.Clone(h.cols)}
}
