// Package labeling commits a selection as a complementary two-way label
// assignment over the whole loaded window.
package labeling

import (
	"context"
	"fmt"
)

// Label is the binary label domain.
type Label int

const (
	Negative Label = 0
	Positive Label = 1
)

func (l Label) Valid() bool { return l == Negative || l == Positive }

// Opposite returns the other label.
func (l Label) Opposite() Label {
	if l == Positive {
		return Negative
	}
	return Positive
}

func (l Label) String() string {
	switch l {
	case Positive:
		return "positive(1)"
	case Negative:
		return "negative(0)"
	default:
		return fmt.Sprintf("label(%d)", int(l))
	}
}

// Labeler applies one label to a list of sample ids. A call either fully
// succeeds or is reported as failed.
type Labeler interface {
	BatchLabel(ctx context.Context, ids []int64, label Label) error
}
