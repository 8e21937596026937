package rlp

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Value is an RLP item: either one of the scalar types Bytes, Text, Uint,
// Uint256, Int and Empty, or a List of values.
//
// Decoding produces only Bytes and List.
type Value interface {
	isValue()
}

type (
	// Bytes is a raw byte string.
	Bytes []byte

	// Text is a string. Text starting with "0x" holds hexadecimal digits.
	Text string

	// Uint is an unsigned integer.
	Uint uint64

	// Uint256 is a 256 bit unsigned integer.
	Uint256 uint256.Int

	// Int is a signed integer. Only non-negative values can be encoded.
	Int int64

	// Empty is the absent value.
	Empty struct{}

	// List is an ordered sequence of values.
	List []Value
)

func (Bytes) isValue()   {}
func (Text) isValue()    {}
func (Uint) isValue()    {}
func (Uint256) isValue() {}
func (Int) isValue()     {}
func (Empty) isValue()   {}
func (List) isValue()    {}

// scalar is implemented by all values that encode as an RLP string.
type scalar interface {
	Value
	normalize() ([]byte, error)
}

func (b Bytes) normalize() ([]byte, error) { return b, nil }

func (t Text) normalize() ([]byte, error) {
	s := string(t)
	if !strings.HasPrefix(s, "0x") {
		return []byte(s), nil
	}
	s = s[2:]
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hex string %q", ErrInvalidInputType, string(t))
	}
	return b, nil
}

func (u Uint) normalize() ([]byte, error) {
	if u == 0 {
		return nil, nil
	}
	b := make([]byte, intsize(uint64(u)))
	putint(b, uint64(u))
	return b, nil
}

func (w Uint256) normalize() ([]byte, error) {
	i := uint256.Int(w)
	if i.IsZero() {
		return nil, nil
	}
	return i.Bytes(), nil
}

func (i Int) normalize() ([]byte, error) {
	if i < 0 {
		return nil, errUnsigned
	}
	return Uint(i).normalize()
}

func (Empty) normalize() ([]byte, error) { return nil, nil }

// NewUint256 wraps x as a Value. A nil x is the absent value.
func NewUint256(x *uint256.Int) Value {
	if x == nil {
		return Empty{}
	}
	return Uint256(*x)
}

// ToBytes converts a scalar into the byte string it is encoded as, applying
// the same rules as the encoder: text is taken as UTF-8 unless it starts with
// "0x", integers become minimal big endian bytes and zero, nil and the
// absent value become the empty string.
func ToBytes(v interface{}) ([]byte, error) {
	val, err := ValueOf(v)
	if err != nil {
		return nil, err
	}
	s, ok := val.(scalar)
	if !ok {
		return nil, fmt.Errorf("%w: cannot convert %T to bytes", ErrInvalidInputType, val)
	}
	b, err := s.normalize()
	if err != nil {
		return nil, err
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

// intsize computes the minimum number of bytes required to store i.
func intsize(i uint64) (size int) {
	for size = 1; ; size++ {
		if i >>= 8; i == 0 {
			return size
		}
	}
}

// putint writes i to the end of b in big endian byte order, using the
// whole of b.
func putint(b []byte, i uint64) {
	for j := len(b) - 1; j >= 0; j-- {
		b[j] = byte(i)
		i >>= 8
	}
}
