// Copyright 2014 The go-ethereum Authors
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

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func unhex(str string) []byte {
	b, err := hex.DecodeString(strings.Replace(str, " ", "", -1))
	if err != nil {
		panic("invalid hex string: " + str)
	}
	return b
}

type decodeTest struct {
	input string
	value Value
	error error
}

var decodeTests = []decodeTest{
	// empty input
	{input: "", value: Bytes{}},

	// single bytes
	{input: "00", value: Bytes{0x00}},
	{input: "01", value: Bytes{0x01}},
	{input: "7F", value: Bytes{0x7F}},

	// strings
	{input: "80", value: Bytes{}},
	{input: "8180", value: Bytes{0x80}},
	{input: "81FF", value: Bytes{0xFF}},
	{input: "820400", value: Bytes{0x04, 0x00}},
	{input: "83646F67", value: Bytes("dog")},
	{input: "B7" + strings.Repeat("61", 55), value: Bytes(strings.Repeat("a", 55))},
	{input: "B838" + strings.Repeat("61", 56), value: Bytes(strings.Repeat("a", 56))},
	{input: "B90100" + strings.Repeat("61", 256), value: Bytes(strings.Repeat("a", 256))},

	// lists
	{input: "C0", value: List{}},
	{input: "C180", value: List{Bytes{}}},
	{input: "C3010203", value: List{Bytes{1}, Bytes{2}, Bytes{3}}},
	{input: "C88363617483646F67", value: List{Bytes("cat"), Bytes("dog")}},
	{input: "C7C0C1C0C3C0C1C0", value: List{List{}, List{List{}}, List{List{}, List{List{}}}}},
	{input: "C3C2C161", value: List{List{List{Bytes("a")}}}},
	{input: "C4C0C28080", value: List{List{}, List{Bytes{}, Bytes{}}}},
	{input: "F838B7" + strings.Repeat("61", 55), value: List{Bytes(strings.Repeat("a", 55))}},

	// single byte wrapped in a string header
	{input: "8100", error: ErrInvalidEncoding},
	{input: "8101", error: ErrInvalidEncoding},
	{input: "817F", error: ErrInvalidEncoding},
	{input: "C28100", error: ErrInvalidEncoding},

	// size information with leading zeros
	{input: "B800", error: ErrInvalidLength},
	{input: "B90038" + strings.Repeat("61", 56), error: ErrInvalidLength},
	{input: "F800", error: ErrInvalidLength},
	{input: "F90038" + strings.Repeat("00", 56), error: ErrInvalidLength},

	// long form used for short values
	{input: "B801" + "61", error: ErrInvalidLength},
	{input: "B837" + strings.Repeat("61", 55), error: ErrInvalidLength},
	{input: "F801" + "80", error: ErrInvalidLength},
	{input: "F837" + strings.Repeat("80", 55), error: ErrInvalidLength},

	// truncated input
	{input: "81", error: ErrInvalidLength},
	{input: "83646F", error: ErrInvalidLength},
	{input: "B8", error: ErrInvalidLength},
	{input: "B9FF", error: ErrInvalidLength},
	{input: "B838" + strings.Repeat("61", 55), error: ErrInvalidLength},
	{input: "BFFFFFFFFFFFFFFFFF", error: ErrInvalidLength},
	{input: "C1", error: ErrInvalidLength},
	{input: "C30102", error: ErrInvalidLength},
	{input: "C2C3", error: ErrInvalidLength},
	{input: "F838" + strings.Repeat("80", 55), error: ErrInvalidLength},
	{input: "FFFFFFFFFFFFFFFFFF", error: ErrInvalidLength},

	// element exceeds its list
	{input: "C182", error: ErrInvalidLength},
	{input: "C2820400", error: ErrInvalidLength},

	// trailing data
	{input: "0000", error: ErrInvalidRemainder},
	{input: "8000", error: ErrInvalidRemainder},
	{input: "C0C0", error: ErrInvalidRemainder},
	{input: "83646F6783636174", error: ErrInvalidRemainder},
}

func TestDecode(t *testing.T) {
	for i, test := range decodeTests {
		input := unhex(test.input)
		val, err := Decode(input)
		if test.error != nil {
			if !errors.Is(err, test.error) {
				t.Errorf("test %d: input %s\nerror mismatch\ngot   %v\nwant  %v\nvalue %s", i, test.input, err, test.error, spew.Sdump(val))
			}
			continue
		}
		if err != nil {
			t.Errorf("test %d: input %s\nunexpected error: %v", i, test.input, err)
			continue
		}
		require.Equal(t, test.value, val, "test %d: input %s", i, test.input)
	}
}

// A long form header whose size field is cut off reports the truncation,
// not a canonicality problem.
func TestDecodeTruncatedSizeField(t *testing.T) {
	for _, input := range []string{"B8", "B9", "B901", "F8", "F9", "F901", "FA0100", "FF01020304050607"} {
		_, err := Decode(unhex(input))
		require.ErrorIs(t, err, ErrInvalidLength, "input %s", input)
		require.Equal(t, errTruncated, err, "input %s", input)
		require.EqualError(t, err, "rlp: invalid length: value size exceeds available input length", "input %s", input)

		_, _, _, err = Split(unhex(input))
		require.Equal(t, errTruncated, err, "input %s", input)
	}
	// The size field is present but the payload is not.
	_, err := Decode(unhex("F838"))
	require.ErrorIs(t, err, ErrInvalidLength)
	require.NotEqual(t, errTruncated, err)
}

func TestDecodeCopiesInput(t *testing.T) {
	input := unhex("C88363617483646F67")
	val, err := Decode(input)
	require.NoError(t, err)
	for i := range input {
		input[i] = 0
	}
	require.Equal(t, List{Bytes("cat"), Bytes("dog")}, val)
}

func TestDecodeStream(t *testing.T) {
	tests := []struct {
		input string
		value Value
		rest  string
	}{
		{input: "", value: Bytes{}, rest: ""},
		{input: "00", value: Bytes{0x00}, rest: ""},
		{input: "0000", value: Bytes{0x00}, rest: "00"},
		{input: "83636174" + "83646F67", value: Bytes("cat"), rest: "83646F67"},
		{input: "C0" + "C180", value: List{}, rest: "C180"},
		{input: "C28080" + "FF", value: List{Bytes{}, Bytes{}}, rest: "FF"},
	}
	for i, test := range tests {
		val, rest, err := DecodeStream(unhex(test.input))
		require.NoError(t, err, "test %d", i)
		require.Equal(t, test.value, val, "test %d", i)
		require.Equal(t, test.rest, strings.ToUpper(hex.EncodeToString(rest)), "test %d", i)
	}

	// Errors from the first value are still reported.
	_, _, err := DecodeStream(unhex("8100C0"))
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestDecodeAll(t *testing.T) {
	vals, err := DecodeAll(unhex("01 C0 83646F67 C180"))
	require.NoError(t, err)
	require.Equal(t, []Value{Bytes{1}, List{}, Bytes("dog"), List{Bytes{}}}, vals)

	vals, err = DecodeAll(nil)
	require.NoError(t, err)
	require.Empty(t, vals)

	_, err = DecodeAll(unhex("01 C0 B800"))
	require.ErrorIs(t, err, ErrInvalidLength)
	require.Contains(t, err.Error(), "value 2")
}

func TestDecoderLimits(t *testing.T) {
	nested := unhex("C3C2C161")

	dec := &Decoder{MaxDepth: 3}
	_, err := dec.Decode(nested)
	require.NoError(t, err)

	dec = &Decoder{MaxDepth: 2}
	_, err = dec.Decode(nested)
	require.ErrorIs(t, err, ErrMaxDepth)

	// Strings do not count as nesting.
	dec = &Decoder{MaxDepth: 1}
	_, err = dec.Decode(unhex("C3010203"))
	require.NoError(t, err)
	_, err = dec.Decode(unhex("820400"))
	require.NoError(t, err)

	dec = &Decoder{MaxSize: 3}
	_, err = dec.Decode(unhex("820400"))
	require.NoError(t, err)
	_, err = dec.Decode(unhex("83646F67"))
	require.ErrorIs(t, err, ErrMaxSize)
	_, _, err = dec.DecodeStream(unhex("01020304"))
	require.ErrorIs(t, err, ErrMaxSize)
	_, err = dec.DecodeAll(unhex("01020304"))
	require.ErrorIs(t, err, ErrMaxSize)
}

func TestDecodeDeepNesting(t *testing.T) {
	const depth = 10000
	var val Value = List{}
	for i := 1; i < depth; i++ {
		val = List{val}
	}
	enc, err := EncodeToBytes(val)
	require.NoError(t, err)

	dec, err := Decode(enc)
	require.NoError(t, err)
	for i := 1; i < depth; i++ {
		l, ok := dec.(List)
		require.True(t, ok, "level %d is %T", i, dec)
		require.Len(t, l, 1, "level %d", i)
		dec = l[0]
	}
	require.Equal(t, List{}, dec)

	_, err = (&Decoder{MaxDepth: depth - 1}).Decode(enc)
	require.ErrorIs(t, err, ErrMaxDepth)
}

func TestEncodeDecodeSpecialCases(t *testing.T) {
	// 1024 encodes as two content bytes behind a short string header.
	enc, err := EncodeToBytes(1024)
	require.NoError(t, err)
	require.Equal(t, []byte{0x82, 0x04, 0x00}, enc)
	dec, err := Decode(enc)
	require.NoError(t, err)
	require.Equal(t, Bytes{0x04, 0x00}, dec)

	// Every single byte below 0x80 is its own encoding.
	for b := 0; b < 0x80; b++ {
		enc, err := EncodeToBytes([]byte{byte(b)})
		require.NoError(t, err)
		require.Equal(t, []byte{byte(b)}, enc)
		dec, err := Decode(enc)
		require.NoError(t, err)
		require.Equal(t, Bytes{byte(b)}, dec)
	}

	// The empty values all encode as the empty string.
	for _, v := range []interface{}{nil, 0, uint(0), "", []byte{}, Empty{}} {
		enc, err := EncodeToBytes(v)
		require.NoError(t, err)
		require.Equal(t, EmptyString, enc, "value %#v", v)
	}
	for _, v := range []interface{}{List{}, []string{}, [0]uint{}} {
		enc, err := EncodeToBytes(v)
		require.NoError(t, err)
		require.Equal(t, EmptyList, enc, "value %#v", v)
	}
	dec, err = Decode(EmptyString)
	require.NoError(t, err)
	require.Equal(t, Bytes{}, dec)
	dec, err = Decode(EmptyList)
	require.NoError(t, err)
	require.Equal(t, List{}, dec)

	// An empty list is distinct from an empty string.
	dec, err = Decode(unhex("C2C080"))
	require.NoError(t, err)
	require.Equal(t, List{List{}, Bytes{}}, dec)

	// Concatenated values.
	a, _ := EncodeToBytes("cat")
	b, _ := EncodeToBytes([]string{"dog"})
	both := append(append([]byte{}, a...), b...)
	_, err = Decode(both)
	require.ErrorIs(t, err, ErrInvalidRemainder)
	val, rest, err := DecodeStream(both)
	require.NoError(t, err)
	require.Equal(t, Bytes("cat"), val)
	require.True(t, bytes.Equal(b, rest))
}

func BenchmarkDecodeList(b *testing.B) {
	val := make(List, 100)
	for i := range val {
		val[i] = List{Uint(i), Text("0x0102030405"), Bytes(bytes.Repeat([]byte{1}, i))}
	}
	enc, err := EncodeToBytes(val)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(enc)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(enc); err != nil {
			b.Fatal(err)
		}
	}
}
