package rlp

import (
	"fmt"
	"math/big"
	"reflect"
	"sync"

	"github.com/holiman/uint256"
)

var (
	typeCacheMutex sync.RWMutex
	typeCache      = make(map[reflect.Type]*typeinfo)
)

type typeinfo struct {
	converter    converter
	converterErr error // error from makeConverter
}

// converter turns a Go value of one particular type into a Value.
type converter func(reflect.Value) (Value, error)

var (
	uint256Type = reflect.TypeOf(uint256.Int{})
	bigIntType  = reflect.TypeOf(big.Int{})

	// the variants of Value, passed through as is.
	valueTypes = map[reflect.Type]bool{
		reflect.TypeOf(Bytes{}):   true,
		reflect.TypeOf(Text("")):  true,
		reflect.TypeOf(Uint(0)):   true,
		reflect.TypeOf(Uint256{}): true,
		reflect.TypeOf(Int(0)):    true,
		reflect.TypeOf(Empty{}):   true,
		reflect.TypeOf(List{}):    true,
	}
)

// ValueOf converts a Go value into a Value. Values of this package are
// returned as is, everything else is resolved through a per-type converter
// that is generated once and cached.
func ValueOf(v interface{}) (Value, error) {
	if v == nil {
		return Empty{}, nil
	}
	rval := reflect.ValueOf(v)
	conv, err := cachedConverter(rval.Type())
	if err != nil {
		return nil, err
	}
	return conv(rval)
}

func cachedConverter(typ reflect.Type) (converter, error) {
	info := cachedTypeInfo(typ)
	return info.converter, info.converterErr
}

func cachedTypeInfo(typ reflect.Type) *typeinfo {
	typeCacheMutex.RLock()
	info := typeCache[typ]
	typeCacheMutex.RUnlock()
	if info != nil {
		return info
	}
	// not in the cache, need to generate info for this type.
	typeCacheMutex.Lock()
	defer typeCacheMutex.Unlock()
	return cachedTypeInfo1(typ)
}

func cachedTypeInfo1(typ reflect.Type) *typeinfo {
	info := typeCache[typ]
	if info != nil {
		// another goroutine got the write lock first
		return info
	}
	// put a dummy value into the cache before generating.
	// if the generator tries to lookup itself, it will get
	// the dummy value and won't call itself recursively.
	// 先放入一个空值，递归类型查找自身时拿到的是这个空值，不会无限递归
	info = new(typeinfo)
	typeCache[typ] = info
	info.converter, info.converterErr = makeConverter(typ)
	return info
}

func makeConverter(typ reflect.Type) (converter, error) {
	kind := typ.Kind()
	switch {
	case typ == uint256Type:
		return convertUint256, nil
	case typ == bigIntType:
		return nil, fmt.Errorf("%w: %v (arbitrary precision integers are not supported)", ErrInvalidInputType, typ)
	case kind == reflect.Interface:
		return convertInterface, nil
	case kind == reflect.Ptr:
		return makePtrConverter(typ)
	case valueTypes[typ]:
		return convertValue, nil
	case isUint(kind):
		return convertUint, nil
	case isInt(kind):
		return convertInt, nil
	case kind == reflect.String:
		return convertString, nil
	case kind == reflect.Slice && isByte(typ.Elem()):
		return convertByteSlice, nil
	case kind == reflect.Array && isByte(typ.Elem()):
		return convertByteArray, nil
	case kind == reflect.Slice || kind == reflect.Array:
		return makeListConverter(typ)
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidInputType, typ)
	}
}

func convertValue(val reflect.Value) (Value, error) {
	return val.Interface().(Value), nil
}

func convertUint(val reflect.Value) (Value, error) {
	return Uint(val.Uint()), nil
}

func convertInt(val reflect.Value) (Value, error) {
	return Int(val.Int()), nil
}

func convertString(val reflect.Value) (Value, error) {
	return Text(val.String()), nil
}

func convertUint256(val reflect.Value) (Value, error) {
	return Uint256(val.Interface().(uint256.Int)), nil
}

func convertByteSlice(val reflect.Value) (Value, error) {
	return Bytes(val.Bytes()), nil
}

func convertByteArray(val reflect.Value) (Value, error) {
	b := make([]byte, val.Len())
	reflect.Copy(reflect.ValueOf(b), val)
	return Bytes(b), nil
}

func convertInterface(val reflect.Value) (Value, error) {
	if val.IsNil() {
		return Empty{}, nil
	}
	elem := val.Elem()
	conv, err := cachedConverter(elem.Type())
	if err != nil {
		return nil, err
	}
	return conv(elem)
}

func makeListConverter(typ reflect.Type) (converter, error) {
	etypeinfo := cachedTypeInfo1(typ.Elem())
	if etypeinfo.converterErr != nil {
		return nil, etypeinfo.converterErr
	}
	conv := func(val reflect.Value) (Value, error) {
		// the element info may still have been a placeholder above.
		if etypeinfo.converterErr != nil {
			return nil, etypeinfo.converterErr
		}
		list := make(List, val.Len())
		for i := range list {
			elem, err := etypeinfo.converter(val.Index(i))
			if err != nil {
				return nil, err
			}
			list[i] = elem
		}
		return list, nil
	}
	return conv, nil
}

// makePtrConverter creates a converter that dereferences pointers. A nil
// pointer is the absent value.
func makePtrConverter(typ reflect.Type) (converter, error) {
	etypeinfo := cachedTypeInfo1(typ.Elem())
	if etypeinfo.converterErr != nil {
		return nil, etypeinfo.converterErr
	}
	conv := func(val reflect.Value) (Value, error) {
		if val.IsNil() {
			return Empty{}, nil
		}
		if etypeinfo.converterErr != nil {
			return nil, etypeinfo.converterErr
		}
		return etypeinfo.converter(val.Elem())
	}
	return conv, nil
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isByte(typ reflect.Type) bool {
	return typ.Kind() == reflect.Uint8
}
