package rlp

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInputType is returned for values that cannot be converted into
	// a byte string or list, including negative integers.
	ErrInvalidInputType = errors.New("rlp: invalid input type")

	// ErrInvalidLength is returned for malformed, non-canonical or out of range
	// size information.
	ErrInvalidLength = errors.New("rlp: invalid length")

	// ErrInvalidEncoding is returned when the framing of a value violates a
	// canonicality rule.
	ErrInvalidEncoding = errors.New("rlp: invalid encoding")

	// ErrInvalidRemainder is returned by Decode when input contains data after
	// the first value.
	ErrInvalidRemainder = errors.New("rlp: invalid remainder")

	ErrExpectedString = errors.New("rlp: expected String or Byte")
	ErrExpectedList   = errors.New("rlp: expected List")

	ErrMaxDepth = errors.New("rlp: nesting depth limit exceeded")
	ErrMaxSize  = errors.New("rlp: input size limit exceeded")

	errUnsigned      = fmt.Errorf("%w: must be unsigned", ErrInvalidInputType)
	errExtraZeros    = fmt.Errorf("%w: extra zeros", ErrInvalidLength)
	errCanonSize     = fmt.Errorf("%w: non-canonical size information", ErrInvalidLength)
	errTruncated     = fmt.Errorf("%w: value size exceeds available input length", ErrInvalidLength)
	errExceedsBuffer = fmt.Errorf("%w: total length is larger than the data", ErrInvalidLength)
	errSizeOverflow  = fmt.Errorf("%w: size overflows int", ErrInvalidLength)
	errCanonByte     = fmt.Errorf("%w: single byte below 0x80 must be its own encoding", ErrInvalidEncoding)
)
