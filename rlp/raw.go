// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package rlp

import "math"

// Kind represents the kind of value contained in an RLP stream.
type Kind int8

const (
	KindByte Kind = iota
	KindString
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindByte:
		return "Byte"
	case KindString:
		return "String"
	case KindList:
		return "List"
	default:
		return "Unknown"
	}
}

// Split returns the content of first RLP value and any
// bytes after the value as subslices of b.
func Split(b []byte) (k Kind, content, rest []byte, err error) {
	k, ts, cs, err := readKind(b)
	if err != nil {
		return 0, nil, b, err
	}
	return k, b[ts : ts+cs], b[ts+cs:], nil
}

// SplitString splits b into the content of an RLP string
// and any remaining bytes after the string.
func SplitString(b []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, b, err
	}
	if k == KindList {
		return nil, b, ErrExpectedString
	}
	return content, rest, nil
}

// SplitList splits b into the content of a list and any remaining
// bytes after the list.
func SplitList(b []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, b, err
	}
	if k != KindList {
		return nil, b, ErrExpectedList
	}
	return content, rest, nil
}

// CountValues counts the number of encoded values in b.
func CountValues(b []byte) (int, error) {
	i := 0
	for ; len(b) > 0; i++ {
		_, tagsize, size, err := readKind(b)
		if err != nil {
			return 0, err
		}
		b = b[tagsize+size:]
	}
	return i, nil
}

// GetLength returns the total encoded size of the first value in b, header
// included. Only the header is inspected, the content does not need to be
// present. Empty input has length zero.
func GetLength(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	_, tagsize, size, err := readHeader(b)
	if err != nil {
		return 0, err
	}
	if size > math.MaxInt-tagsize {
		return 0, errSizeOverflow
	}
	return int(tagsize + size), nil
}

// readKind parses the header of the first value in buf and checks that its
// content is available.
func readKind(buf []byte) (k Kind, tagsize, contentsize uint64, err error) {
	k, tagsize, contentsize, err = readHeader(buf)
	if err != nil {
		return 0, 0, 0, err
	}
	// Reject values larger than the input slice.
	if contentsize > uint64(len(buf))-tagsize {
		if k == KindList && tagsize > 1 {
			return 0, 0, 0, errExceedsBuffer
		}
		return 0, 0, 0, errTruncated
	}
	return k, tagsize, contentsize, nil
}

// readHeader classifies the first value in buf by its leading byte.
//
//	0x00..0x7F  single byte
//	0x80..0xB7  string, 0-55 bytes
//	0xB8..0xBF  string, size follows in 1-8 bytes
//	0xC0..0xF7  list, 0-55 bytes of payload
//	0xF8..0xFF  list, size follows in 1-8 bytes
func readHeader(buf []byte) (k Kind, tagsize, contentsize uint64, err error) {
	if len(buf) == 0 {
		return 0, 0, 0, errTruncated
	}
	b := buf[0]
	switch {
	case b < 0x80:
		k = KindByte
		tagsize = 0
		contentsize = 1
	case b < 0xB8:
		k = KindString
		tagsize = 1
		contentsize = uint64(b - 0x80)
		// Reject strings that should've been single bytes.
		if contentsize == 1 && len(buf) > 1 && buf[1] < 0x80 {
			return 0, 0, 0, errCanonByte
		}
	case b < 0xC0:
		k = KindString
		tagsize = uint64(b-0xB7) + 1
		contentsize, err = readSize(buf[1:], b-0xB7)
	case b < 0xF8:
		k = KindList
		tagsize = 1
		contentsize = uint64(b - 0xC0)
	default:
		k = KindList
		tagsize = uint64(b-0xF7) + 1
		// readSize rejects sizes below 56, so a long list is never empty.
		contentsize, err = readSize(buf[1:], b-0xF7)
	}
	if err != nil {
		return 0, 0, 0, err
	}
	return k, tagsize, contentsize, nil
}

// readSize reads a big endian size field of slen bytes from b.
func readSize(b []byte, slen byte) (uint64, error) {
	if int(slen) > len(b) {
		return 0, errTruncated
	}
	if b[0] == 0 {
		return 0, errExtraZeros
	}
	var s uint64
	for _, c := range b[:slen] {
		s = s<<8 | uint64(c)
	}
	// Reject sizes < 56 (shouldn't have separate size) and sizes with
	// leading zero bytes.
	if s < 56 {
		return 0, errCanonSize
	}
	return s, nil
}
