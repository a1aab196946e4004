package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
// NaN is not ordered, so a set of floats must never hold it.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// LessFunc reports whether i sorts before j.
// It must be a strict total order:
//  1. irreflexive, less(i, i) is false.
//  2. asymmetric, less(i, j) implies !less(j, i).
//  3. transitive, less(i, j) && less(j, k) implies less(i, k).
//
// Keys i and j are treated as equal when neither is less than the other.
type LessFunc[K any] func(i, j K) bool

func OrderedLess[K OrderedKey](i, j K) bool {
	return i < j
}

// Reverse flips the order of less.
func Reverse[K any](less LessFunc[K]) LessFunc[K] {
	return func(i, j K) bool {
		return less(j, i)
	}
}

// Equivalent reports whether neither key is less than the other.
func Equivalent[K any](less LessFunc[K], i, j K) bool {
	return !less(i, j) && !less(j, i)
}
