package ndimage

import (
	"math"
	"reflect"

	"golang.org/x/exp/constraints"
)

// Pixel is the set of scalar types an Image can hold.
type Pixel interface {
	constraints.Integer | constraints.Float
}

// MaxValue returns the largest value representable by T, +Inf for floats.
func MaxValue[T Pixel]() T {
	var zero T
	switch reflect.TypeOf(zero).Kind() {
	case reflect.Int8:
		v := math.MaxInt8
		return T(v)
	case reflect.Int16:
		v := math.MaxInt16
		return T(v)
	case reflect.Int32:
		v := math.MaxInt32
		return T(v)
	case reflect.Int64:
		v := int64(math.MaxInt64)
		return T(v)
	case reflect.Int:
		v := math.MaxInt
		return T(v)
	case reflect.Uint8:
		v := math.MaxUint8
		return T(v)
	case reflect.Uint16:
		v := math.MaxUint16
		return T(v)
	case reflect.Uint32:
		v := uint32(math.MaxUint32)
		return T(v)
	case reflect.Uint64:
		v := uint64(math.MaxUint64)
		return T(v)
	case reflect.Uint:
		v := uint(math.MaxUint)
		return T(v)
	case reflect.Uintptr:
		v := ^uintptr(0)
		return T(v)
	case reflect.Float32:
		v := float32(math.Inf(1))
		return T(v)
	default:
		v := math.Inf(1)
		return T(v)
	}
}

// MinValue returns the smallest value representable by T, -Inf for floats.
func MinValue[T Pixel]() T {
	var zero T
	switch reflect.TypeOf(zero).Kind() {
	case reflect.Int8:
		v := math.MinInt8
		return T(v)
	case reflect.Int16:
		v := math.MinInt16
		return T(v)
	case reflect.Int32:
		v := math.MinInt32
		return T(v)
	case reflect.Int64:
		v := int64(math.MinInt64)
		return T(v)
	case reflect.Int:
		v := math.MinInt
		return T(v)
	case reflect.Float32:
		v := float32(math.Inf(-1))
		return T(v)
	case reflect.Float64:
		v := math.Inf(-1)
		return T(v)
	default:
		// unsigned kinds
		return 0
	}
}

// IsSmallInteger reports whether T is an 8 or 16 bit integer kind, i.e. a
// type whose whole value range fits in a counting array.
func IsSmallInteger[T Pixel]() bool {
	var zero T
	switch reflect.TypeOf(zero).Kind() {
	case reflect.Int8, reflect.Uint8, reflect.Int16, reflect.Uint16:
		return true
	}
	return false
}
