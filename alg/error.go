package alg

import "errors"

var (
	ErrUnknownFilterStrategy = errors.New("unknown filter strategy")
	ErrInvalidFilterParam    = errors.New("invalid filter parameter")
	ErrShapeMismatch         = errors.New("grid shapes differ")
)
