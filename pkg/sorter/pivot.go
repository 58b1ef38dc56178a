package sorter

import (
	"errors"
	"fmt"
)

// ErrUnknownPivot is returned by ParsePivot for an unrecognised strategy name
var ErrUnknownPivot = errors.New("unknown pivot strategy")

// PivotStrategy selects the pivot value for a partition step
type PivotStrategy int

const (
	// PivotMidpoint uses the element at the middle index of the range.
	// Deterministic, with the classic worst case on adversarial inputs.
	PivotMidpoint PivotStrategy = iota

	// PivotMedianOfThree uses the median of the first, middle and last elements
	PivotMedianOfThree
)

func (p PivotStrategy) String() string {
	switch p {
	case PivotMidpoint:
		return "midpoint"
	case PivotMedianOfThree:
		return "median3"
	default:
		return fmt.Sprintf("PivotStrategy(%d)", int(p))
	}
}

// ParsePivot maps a configuration name to a PivotStrategy
func ParsePivot(name string) (PivotStrategy, error) {
	switch name {
	case "", "midpoint":
		return PivotMidpoint, nil
	case "median3":
		return PivotMedianOfThree, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPivot, name)
	}
}

// pickPivot returns the pivot value for data[left..right]; the value is always an element of the range
func pickPivot[T any](p PivotStrategy, data []T, left, right int, compare func(a, b T) int) T {
	mid := left + (right-left)/2
	if p != PivotMedianOfThree {
		return data[mid]
	}

	a, b, c := data[left], data[mid], data[right]
	if compare(a, b) > 0 {
		a, b = b, a
	}
	if compare(b, c) > 0 {
		b = c
		if compare(a, b) > 0 {
			b = a
		}
	}
	return b
}
