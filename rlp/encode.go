package rlp

import (
	"fmt"
	"io"
)

const (
	// StringOffset is the type offset of string headers.
	StringOffset = 0x80
	// ListOffset is the type offset of list headers.
	ListOffset = 0xC0
)

var (
	// EmptyString and EmptyList are the encodings of the empty string and
	// the empty list.
	EmptyString = []byte{0x80}
	EmptyList   = []byte{0xC0}
)

// Encode writes the RLP encoding of val to w. See ValueOf for the Go types
// that can be encoded.
func Encode(w io.Writer, val interface{}) error {
	b, err := EncodeToBytes(val)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// EncodeToBytes returns the RLP encoding of val.
// Please see package-level documentation for the encoding rules.
// 返回val的RLP编码
func EncodeToBytes(val interface{}) ([]byte, error) {
	v, err := ValueOf(val)
	if err != nil {
		return nil, err
	}
	return AppendValue(nil, v)
}

// AppendValue appends the RLP encoding of v to dst and returns the extended
// buffer. A nil Value encodes like Empty.
func AppendValue(dst []byte, v Value) ([]byte, error) {
	switch v := v.(type) {
	case nil:
		return append(dst, EmptyString...), nil
	case List:
		if len(v) == 0 {
			return append(dst, EmptyList...), nil
		}
		return appendList(dst, v)
	case Bytes, Text, Uint, Uint256, Int, Empty:
		b, err := v.(scalar).normalize()
		if err != nil {
			return nil, err
		}
		return appendString(dst, b), nil
	default:
		// pointers to values end up here.
		resolved, err := ValueOf(v)
		if err != nil {
			return nil, err
		}
		return AppendValue(dst, resolved)
	}
}

// appendString appends b as an RLP string. A single byte below 0x80 is its
// own encoding and never gets a header.
func appendString(dst, b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return append(dst, b[0])
	}
	dst = appendLength(dst, uint64(len(b)), StringOffset)
	return append(dst, b...)
}

// appendList appends the elements of l and then moves the payload up to
// make room for the list header in front of it.
func appendList(dst []byte, l List) ([]byte, error) {
	offset := len(dst)
	for i, elem := range l {
		var err error
		if dst, err = AppendValue(dst, elem); err != nil {
			return nil, fmt.Errorf("%w (list element %d)", err, i)
		}
	}
	size := len(dst) - offset

	var head [9]byte
	hsize := puthead(head[:], ListOffset, uint64(size))
	dst = append(dst, head[:hsize]...)
	copy(dst[offset+hsize:], dst[offset:offset+size])
	copy(dst[offset:], head[:hsize])
	return dst, nil
}

// EncodeLength returns the header of a string (offset 0x80) or list (offset
// 0xC0) whose payload is size bytes long.
//
// Payloads below 56 bytes get a single byte header, offset+size. Larger ones
// get offset+55+n followed by the n byte big endian size.
// 小于56字节时头部只有一个字节；否则第一个字节记录长度本身占用的字节数，后面跟大端长度
func EncodeLength(size uint64, offset byte) []byte {
	buf := make([]byte, 9)
	return buf[:puthead(buf, offset, size)]
}

func appendLength(dst []byte, size uint64, offset byte) []byte {
	var head [9]byte
	return append(dst, head[:puthead(head[:], offset, size)]...)
}

// puthead writes a string or list header to buf.
// buf must be at least 9 bytes long.
func puthead(buf []byte, offset byte, size uint64) int {
	if size < 56 {
		buf[0] = offset + byte(size)
		return 1
	}
	sizesize := intsize(size)
	buf[0] = offset + 55 + byte(sizesize)
	putint(buf[1:sizesize+1], size)
	return sizesize + 1
}
