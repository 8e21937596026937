package rlp

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

type (
	recList  []recList
	myBytes  []byte
	myString string
	myUints  []uint16
	wrapped  struct{ Bytes }
)

func TestValueOf(t *testing.T) {
	var nilIface interface{}
	tests := []struct {
		in   interface{}
		want Value
	}{
		{in: nil, want: Empty{}},
		{in: nilIface, want: Empty{}},
		{in: (*string)(nil), want: Empty{}},
		{in: uint8(7), want: Uint(7)},
		{in: uintptr(7), want: Uint(7)},
		{in: int16(-7), want: Int(-7)},
		{in: "abc", want: Text("abc")},
		{in: myString("abc"), want: Text("abc")},
		{in: []byte("abc"), want: Bytes("abc")},
		{in: myBytes("abc"), want: Bytes("abc")},
		{in: [2]byte{1, 2}, want: Bytes{1, 2}},
		{in: &[2]byte{1, 2}, want: Bytes{1, 2}},
		{in: *uint256.NewInt(9), want: Uint256(*uint256.NewInt(9))},
		{in: uint256.NewInt(9), want: Uint256(*uint256.NewInt(9))},
		{in: myUints{1, 2}, want: List{Uint(1), Uint(2)}},
		{in: []interface{}{"a", nil}, want: List{Text("a"), Empty{}}},
		{in: recList{{}, {{}}}, want: List{List{}, List{List{}}}},
		{in: List{Uint(1)}, want: List{Uint(1)}},
		{in: Text("x"), want: Text("x")},
	}
	for i, test := range tests {
		have, err := ValueOf(test.in)
		require.NoError(t, err, "test %d: %T", i, test.in)
		require.Equal(t, test.want, have, "test %d: %T", i, test.in)
	}
}

func TestValueOfUnsupported(t *testing.T) {
	for _, in := range []interface{}{
		false,
		float32(1),
		complex(1, 2),
		map[int]int{},
		struct{}{},
		wrapped{},
		func() {},
		[]bool{true},
		&struct{}{},
	} {
		_, err := ValueOf(in)
		require.ErrorIs(t, err, ErrInvalidInputType, "%T", in)
	}
}

func TestRecursiveTypeEncoding(t *testing.T) {
	enc, err := EncodeToBytes(recList{{}, {{}}, {{}, {{}}}})
	require.NoError(t, err)
	require.Equal(t, unhex("C7C0C1C0C3C0C1C0"), enc)
}
