/*
Package rlp implements the RLP serialization format.
    rlp包实现了RLP序列化格式

The purpose of RLP (Recursive Length Prefix) is to encode arbitrarily nested arrays of
binary data. The only purpose of RLP is to encode structure; encoding specific atomic
data types (eg. strings, ints, floats) is left up to higher-order protocols. Integers
must be represented in big endian binary form with no leading zeroes (thus making the
integer value zero equivalent to the empty string).
    RLP的目的是对二进制数据的任意嵌套数组进行编码。RLP的唯一目的是对结构进行编码；
    编码特定的原子数据类型由高阶协议决定。整数必须以无前导零的大端二进制形式表示
    （从而使整数值零等效于空字符串）。

RLP values are distinguished by a type tag. The type tag precedes the value in the input
stream and defines the size and kind of the bytes that follow.
    RLP值由类型标记区分。类型标记位于输入流中的值之前，并定义后面字节的大小和类型。

Values

Encoder input is a Value, a closed set of types:

	Bytes    raw byte string, encoded as is
	Text     text; "0x"-prefixed text is read as hexadecimal digits
	Uint     unsigned integer
	Uint256  256 bit unsigned integer (github.com/holiman/uint256)
	Int      signed integer, must not be negative
	Empty    the absent value, encodes as the empty string
	List     ordered sequence of values

Plain Go values are accepted too and converted by ValueOf: nil, []byte and byte arrays,
string, unsigned and signed integers, *uint256.Int, pointers, interfaces and slices or
arrays of those. Booleans, floating point numbers, maps, structs, channels, functions
and *big.Int are not supported and return ErrInvalidInputType.
    输入值在编码之前统一转换为Value。不支持布尔值、浮点数、映射、结构体、通道、函数和big.Int。

Encoding Rules
    编码规则

A single byte in the range [0x00, 0x7f] is its own encoding. Any other string of length
0-55 is prefixed by 0x80 plus its length; longer strings are prefixed by 0xb7 plus the
size of the big endian length, followed by the length. Lists use 0xc0 and 0xf7 in the
same way, where the length is the size of the concatenated encodings of the elements.
    [0x00, 0x7f]范围内的单个字节，它自己就是RLP编码。长度0-55的字符串以0x80加长度为前缀；
    更长的字符串以0xb7加长度的字节数为前缀，后面跟长度本身。列表同理使用0xc0和0xf7。

The integer zero, the empty string, an empty byte slice and nil all encode as 0x80.

Decoding Rules
    解码规则

Decode yields Bytes for every string and List for every list; the caller reinterprets
the leaves. The decoder only accepts canonical input. It rejects size information with
leading zero bytes or that should have used the short form, single bytes below 0x80
wrapped in a string header, values that are larger than the input, and trailing data
after the value. DecodeStream returns the unread remainder instead of failing on it.
    解码只接受规范编码：长度字段带前导零、应使用短格式却使用长格式、
    小于0x80的单字节被加上前缀、声明长度超过输入、值后面有多余数据，都会返回错误。

Lists are walked with an explicit stack, so nesting depth is bounded by memory only.
A Decoder with MaxDepth or MaxSize set should be used for untrusted input.
*/
package rlp
