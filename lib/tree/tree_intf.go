package tree

import "github.com/benz9527/xset/lib/xlog"

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "Unknown"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (dir RBDirection) String() string {
	switch dir {
	case Left:
		return "Left"
	case Root:
		return "Root"
	case Right:
		return "Right"
	default:
	}
	return "Unknown"
}

// RBSetNode is a read-only view of a set node, for diagnostics.
type RBSetNode[T any] interface {
	Key() T
	Color() RBColor
	Left() RBSetNode[T]
	Right() RBSetNode[T]
	Parent() RBSetNode[T]
}

// RBSet is an ordered set of unique keys backed by a red-black tree.
// It is not safe for concurrent use, see SyncRBSet.
type RBSet[T any] interface {
	Len() int64
	Empty() bool
	Root() RBSetNode[T]
	Less(i, j T) bool

	Insert(key T) bool
	InsertMany(keys ...T) int
	Remove(key T) bool
	RemoveMin() (T, bool)
	RemoveMax() (T, bool)

	Contains(key T) bool
	Find(key T) RBSetIterator[T]
	LowerBound(key T) RBSetIterator[T]
	UpperBound(key T) RBSetIterator[T]
	Begin() RBSetIterator[T]
	End() RBSetIterator[T]

	Foreach(action func(idx int64, color RBColor, key T) bool)
	Ascend(from, to T, action func(key T) bool)
	Keys() []T
	String() string

	Clone() RBSet[T]
	Assign(other RBSet[T])
	Release()
}

type RBSetOpt[T any] func(*rbSet[T])

func WithRBSetDesc[T any]() RBSetOpt[T] {
	return func(set *rbSet[T]) {
		set.isDesc = true
	}
}

func WithRBSetRemoveBorrowSucc[T any]() RBSetOpt[T] {
	return func(set *rbSet[T]) {
		set.isRmBorrowSucc = true
	}
}

func WithRBSetLogger[T any](logger xlog.XLogger) RBSetOpt[T] {
	return func(set *rbSet[T]) {
		if logger != nil {
			set.logger = logger
		}
	}
}
