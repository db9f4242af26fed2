package model

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrRowOutOfRange    = errors.New("row does not exist")
	ErrColumnOutOfRange = errors.New("column does not exist")
	ErrUnknownVariable  = errors.New("unknown variable")
)

// ShapeError reports dimensions that do not agree.
type ShapeError struct {
	Op   string
	What string
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: mismatched %s: want %d, got %d", e.Op, e.What, e.Want, e.Got)
}
