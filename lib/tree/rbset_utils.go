package tree

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/xset/lib/infra"
)

// rbset rule validation utilities.
// All of them walk with an explicit stack.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

func RootViolationValidate[T any](set RBSet[T]) error {
	root := set.Root()
	if root == nil {
		return nil
	}
	if root.Parent() != nil {
		return infra.NewErrorStack("[rbset] root violation, root has a parent")
	}
	if root.Color() != Black {
		return infra.NewErrorStack("[rbset] root violation, root is red")
	}
	return nil
}

// Preorder traversal to check no red node has a red child.
func RedViolationValidate[T any](set RBSet[T]) error {
	aux := set.Root()
	if aux == nil {
		return nil
	}

	stack := make([]RBSetNode[T], 0, 64)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, aux)

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		l, r := aux.Left(), aux.Right()
		if aux.Color() == Red &&
			((l != nil && l.Color() == Red) || (r != nil && r.Color() == Red)) {
			return infra.NewErrorStack(fmt.Sprintf("[rbset] red violation at key %v", aux.Key()))
		}
		if l != nil {
			stack = append(stack, l)
		}
		if r != nil {
			stack = append(stack, r)
		}
	}
	return nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or nil).

	        [13]
	        /  \
	     <8>    [15]
	     / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            <16>

Every path from the root to a nil child passes the same number
of black nodes.
*/
func BlackViolationValidate[T any](set RBSet[T]) error {
	aux := set.Root()
	if aux == nil {
		return nil
	}

	type pathNode struct {
		node  RBSetNode[T]
		black int
	}
	stack := make([]pathNode, 0, 64)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, pathNode{node: aux})

	blackDepth := -1
	for size := len(stack); size > 0; size = len(stack) {
		top := stack[size-1]
		stack = stack[:size-1]
		depth := top.black
		if top.node.Color() == Black {
			depth++
		}
		for _, c := range [2]RBSetNode[T]{top.node.Left(), top.node.Right()} {
			if c != nil {
				stack = append(stack, pathNode{node: c, black: depth})
				continue
			}
			if blackDepth < 0 {
				blackDepth = depth
			} else if blackDepth != depth {
				return infra.NewErrorStack(fmt.Sprintf(
					"[rbset] black violation under key %v, black depth %d != %d",
					top.node.Key(), depth, blackDepth,
				))
			}
		}
	}
	return nil
}

// Inorder traversal to check keys strictly increase and the parent
// links point back to the visiting node.
func OrderViolationValidate[T any](set RBSet[T]) error {
	aux := set.Root()
	if aux == nil {
		return nil
	}

	stack := make([]RBSetNode[T], 0, 64)
	defer func() {
		clear(stack)
	}()
	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	var prev RBSetNode[T]
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if prev != nil && !set.Less(prev.Key(), aux.Key()) {
			return infra.NewErrorStack(fmt.Sprintf(
				"[rbset] order violation, key %v is not less than %v", prev.Key(), aux.Key(),
			))
		}
		for _, c := range [2]RBSetNode[T]{aux.Left(), aux.Right()} {
			if c != nil && c.Parent() != aux {
				return infra.NewErrorStack(fmt.Sprintf("[rbset] link violation under key %v", aux.Key()))
			}
		}
		prev = aux
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return nil
}

func SizeViolationValidate[T any](set RBSet[T]) error {
	count := int64(0)
	set.Foreach(func(int64, RBColor, T) bool {
		count++
		return true
	})
	if count != set.Len() {
		return infra.NewErrorStack(fmt.Sprintf("[rbset] size violation, len %d but %d nodes", set.Len(), count))
	}
	return nil
}

// Validate runs all rule validations and combines their errors.
func Validate[T any](set RBSet[T]) error {
	return multierr.Combine(
		RootViolationValidate(set),
		RedViolationValidate(set),
		BlackViolationValidate(set),
		OrderViolationValidate(set),
		SizeViolationValidate(set),
	)
}
