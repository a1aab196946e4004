package tree

// RBSetIterator is a bidirectional cursor over a set's keys.
// It walks the parent links, no auxiliary storage is kept.
//
// Insert and Remove keep iterators on surviving nodes valid. Removing a key
// whose node has two children copies the borrowed neighbour key (the pred by
// default) into that node and unlinks the neighbour's node instead: an
// iterator on the removed key then reads the neighbour key, and an iterator
// on the neighbour is dead and panics on use.
type RBSetIterator[T any] struct {
	set  *rbSet[T]
	node *rbSetNode[T]
}

// IsEnd reports whether the iterator is past the last key.
func (it RBSetIterator[T]) IsEnd() bool {
	return it.node == nil
}

func (it RBSetIterator[T]) mustLive(op string) {
	if it.node == nil {
		panic("[rbset] " + op + " the end iterator")
	}
	if !it.node.live {
		panic("[rbset] " + op + " a removed node")
	}
}

// Key panics on End.
func (it RBSetIterator[T]) Key() T {
	it.mustLive("dereference")
	return it.node.key
}

// Next panics on End.
func (it RBSetIterator[T]) Next() RBSetIterator[T] {
	it.mustLive("advance")
	return RBSetIterator[T]{set: it.set, node: it.node.succ()}
}

// Prev of End is the maximum key, Prev of the minimum key is End.
func (it RBSetIterator[T]) Prev() RBSetIterator[T] {
	if it.node == nil {
		if it.set == nil {
			panic("[rbset] retreat an iterator without set")
		}
		return RBSetIterator[T]{set: it.set, node: it.set.root.maximum()}
	}
	it.mustLive("retreat")
	return RBSetIterator[T]{set: it.set, node: it.node.pred()}
}

func (it RBSetIterator[T]) Equal(other RBSetIterator[T]) bool {
	return it.set == other.set && it.node == other.node
}
