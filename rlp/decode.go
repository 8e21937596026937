package rlp

import "fmt"

// Decoder decodes RLP data with optional resource limits. The zero value has
// no limits.
type Decoder struct {
	// MaxDepth bounds the nesting depth of lists. A top level list has depth
	// one. Zero means unlimited.
	MaxDepth int

	// MaxSize bounds the number of input bytes accepted. Zero means unlimited.
	MaxSize int
}

var defaultDecoder = new(Decoder)

// Decode parses b, which must contain exactly one RLP value. Empty input
// decodes to empty Bytes.
//
// Leaves are returned as Bytes holding a copy of the input, lists as List.
func Decode(b []byte) (Value, error) {
	return defaultDecoder.Decode(b)
}

// DecodeStream parses the first RLP value in b and returns it together with
// the bytes following it.
func DecodeStream(b []byte) (Value, []byte, error) {
	return defaultDecoder.DecodeStream(b)
}

// DecodeAll parses a concatenation of RLP values.
func DecodeAll(b []byte) ([]Value, error) {
	return defaultDecoder.DecodeAll(b)
}

// Decode parses b, which must contain exactly one RLP value.
func (d *Decoder) Decode(b []byte) (Value, error) {
	val, rest, err := d.DecodeStream(b)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidRemainder, len(rest))
	}
	return val, nil
}

// DecodeStream parses the first RLP value in b. The returned rest is a
// subslice of b.
func (d *Decoder) DecodeStream(b []byte) (Value, []byte, error) {
	if d.MaxSize > 0 && len(b) > d.MaxSize {
		return nil, nil, fmt.Errorf("%w: %d > %d bytes", ErrMaxSize, len(b), d.MaxSize)
	}
	if len(b) == 0 {
		return Bytes{}, nil, nil
	}
	return d.decode(b)
}

// DecodeAll parses every value in b until the input is exhausted.
func (d *Decoder) DecodeAll(b []byte) ([]Value, error) {
	if d.MaxSize > 0 && len(b) > d.MaxSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrMaxSize, len(b), d.MaxSize)
	}
	vals := []Value{}
	for len(b) > 0 {
		val, rest, err := d.decode(b)
		if err != nil {
			return nil, fmt.Errorf("%w (value %d)", err, len(vals))
		}
		vals = append(vals, val)
		b = rest
	}
	return vals, nil
}

// frame is a list under construction. rest holds its unparsed payload.
type frame struct {
	items List
	rest  []byte
}

// decode walks buf with an explicit stack of open lists. The bottom frame
// collects the single top level value.
// 用显式栈代替递归，嵌套深度不受调用栈限制
func (d *Decoder) decode(buf []byte) (Value, []byte, error) {
	stack := []*frame{{rest: buf}}
	for {
		cur := stack[len(stack)-1]
		if len(stack) > 1 && len(cur.rest) == 0 {
			// list payload consumed, close it.
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]
			parent.items = append(parent.items, cur.items)
			if len(stack) == 1 {
				return parent.items[0], parent.rest, nil
			}
			continue
		}
		kind, content, rest, err := Split(cur.rest)
		if err != nil {
			return nil, nil, err
		}
		cur.rest = rest
		if kind == KindList {
			if d.MaxDepth > 0 && len(stack) > d.MaxDepth {
				return nil, nil, fmt.Errorf("%w: depth > %d", ErrMaxDepth, d.MaxDepth)
			}
			stack = append(stack, &frame{items: List{}, rest: content})
			continue
		}
		cur.items = append(cur.items, copyBytes(content))
		if len(stack) == 1 {
			return cur.items[0], cur.rest, nil
		}
	}
}

func copyBytes(b []byte) Bytes {
	c := make(Bytes, len(b))
	copy(c, b)
	return c
}
