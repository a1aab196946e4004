package tree

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/benz9527/xset/lib/infra"
	"github.com/benz9527/xset/lib/xlog"
)

// Absent children and the root's parent are nil pointers.
// A nil node reads as black, so no shared sentinel node exists.
type rbSetNode[T any] struct {
	parent *rbSetNode[T]
	left   *rbSetNode[T]
	right  *rbSetNode[T]
	key    T
	color  RBColor
	live   bool // false once unlinked from its set
}

func (node *rbSetNode[T]) Color() RBColor {
	return node.color
}

func (node *rbSetNode[T]) Key() T {
	return node.key
}

func (node *rbSetNode[T]) Left() RBSetNode[T] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbSetNode[T]) Right() RBSetNode[T] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *rbSetNode[T]) Parent() RBSetNode[T] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *rbSetNode[T]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbSetNode[T]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbSetNode[T]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbSetNode[T]) Direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbset] nil node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbSetNode[T]) child(dir RBDirection) *rbSetNode[T] {
	if dir == Left {
		return node.left
	}
	return node.right
}

// setChild links c under node at dir, c may be nil.
func (node *rbSetNode[T]) setChild(dir RBDirection, c *rbSetNode[T]) {
	if dir == Left {
		node.left = c
	} else {
		node.right = c
	}
	if c != nil {
		c.parent = node
	}
}

func (node *rbSetNode[T]) sibling() *rbSetNode[T] {
	switch dir := node.Direction(); dir {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *rbSetNode[T]) uncle() *rbSetNode[T] {
	if node.isRoot() {
		return nil
	}
	return node.parent.sibling()
}

func (node *rbSetNode[T]) grandpa() *rbSetNode[T] {
	if node.isRoot() {
		return nil
	}
	return node.parent.parent
}

func (node *rbSetNode[T]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbSetNode[T]) minimum() *rbSetNode[T] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *rbSetNode[T]) maximum() *rbSetNode[T] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
func (node *rbSetNode[T]) pred() *rbSetNode[T] {
	x := node
	if x == nil {
		return nil
	}
	if x.left != nil {
		return x.left.maximum()
	}

	aux := x.parent
	// Backtrack until x is reached from a right child step.
	for aux != nil && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (node *rbSetNode[T]) succ() *rbSetNode[T] {
	x := node
	if x == nil {
		return nil
	}
	if x.right != nil {
		return x.right.minimum()
	}

	aux := x.parent
	// Backtrack until x is reached from a left child step.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

func (node *rbSetNode[T]) unlink() {
	var zero T
	node.parent, node.left, node.right = nil, nil, nil
	node.key = zero
	node.live = false
}

type rbSet[T any] struct {
	root           *rbSetNode[T]
	count          int64
	less           infra.LessFunc[T]
	isDesc         bool
	isRmBorrowSucc bool
	logger         xlog.XLogger
}

var _ RBSet[int] = (*rbSet[int])(nil)

func (set *rbSet[T]) keyCompare(k1, k2 T) int64 {
	if set.less(k1, k2) {
		return -1
	} else if set.less(k2, k1) {
		return 1
	}
	return 0
}

// violate reports a broken internal invariant and never returns.
func (set *rbSet[T]) violate(msg string, fields ...zap.Field) {
	err := infra.NewErrorStack(msg)
	set.logger.ErrorStack(err, "[rbset] debug assertion", fields...)
	panic(err)
}

func (set *rbSet[T]) Len() int64 {
	return set.count
}

func (set *rbSet[T]) Empty() bool {
	return set.count == 0
}

func (set *rbSet[T]) Root() RBSetNode[T] {
	if set.root == nil {
		return nil
	}
	return set.root
}

func (set *rbSet[T]) Less(i, j T) bool {
	return set.less(i, j)
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All nil children are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   nil children goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, X is black and the child
//   is a red leaf, otherwise p4 breaks between the child side and the nil side.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (set *rbSet[T]) leftRotate(x *rbSetNode[T]) {
	if x == nil || x.right == nil {
		// impossible run to here
		set.violate("[rbset] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		set.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
	}
	y.parent = p
}

/*
		 |                         |
		 X                         L
		/ \    rightRotate(X)     / \
	   L   R   ============>    Ld   X
	  / \                           / \
	Ld   Lc                        Lc  R
*/
func (set *rbSet[T]) rightRotate(x *rbSetNode[T]) {
	if x == nil || x.left == nil {
		// impossible run to here
		set.violate("[rbset] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		set.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
	}
	y.parent = p
}

// rotate moves x down towards dir.
func (set *rbSet[T]) rotate(x *rbSetNode[T], dir RBDirection) {
	switch dir {
	case Left:
		set.leftRotate(x)
	case Right:
		set.rightRotate(x)
	default:
		// impossible run to here
		set.violate("[rbset] rotate without direction")
	}
}

func (set *rbSet[T]) search(key T) *rbSetNode[T] {
	for aux := set.root; aux != nil; {
		res := set.keyCompare(key, aux.key)
		if /* equal */ res == 0 {
			return aux
		} else /* less */ if res < 0 {
			aux = aux.left
		} else /* greater */ {
			aux = aux.right
		}
	}
	return nil
}

// i1: Empty set, the new node becomes the black root.
// i2: Equal key found during descent, nothing changes.
func (set *rbSet[T]) Insert(key T) bool {
	if /* i1 */ set.root == nil {
		set.root = &rbSetNode[T]{
			key:   key,
			color: Black,
			live:  true,
		}
		set.count++
		return true
	}

	var (
		x, y *rbSetNode[T] = set.root, nil
		res  int64
	)
	for x != nil {
		y = x
		res = set.keyCompare(key, x.key)
		if /* i2 */ res == 0 {
			return false
		} else if res < 0 {
			x = x.left
		} else {
			x = x.right
		}
	}

	z := &rbSetNode[T]{
		key:   key,
		color: Red,
		live:  true,
	}
	if res < 0 {
		y.setChild(Left, z)
	} else {
		y.setChild(Right, z)
	}

	set.count++
	set.insertRebalance(z)
	return true
}

func (set *rbSet[T]) InsertMany(keys ...T) int {
	added := 0
	for _, key := range keys {
		if set.Insert(key) {
			added++
		}
	}
	return added
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or nil).

A red parent P is never the root, so the grandpa G exists.

im1: The parent P and the uncle U are red, grandpa G is black.
Repaint P and U into black, G into red. G may be red-violation now,
continue to fix from G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im2: The parent P is red but the uncle U is black, X is the opposite
direction to P (zig-zag). Rotate P towards P's direction to straighten,
then enter im3 with the old P as X.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im3: X is the same direction as the red parent P, the uncle U is black.
Repaint P into black, G into red, rotate G away from P. Done.

	    [G]                 [P]
	    / \    rotate(G)    / \
	  <P> [U]  ========>  <X> <G>
	  /                         \
	<X>                         [U]
*/
func (set *rbSet[T]) insertRebalance(x *rbSetNode[T]) {
	for x.parent.isRed() {
		p, gp := x.parent, x.grandpa()
		if gp == nil {
			// impossible run to here
			set.violate("[rbset] red parent without grandpa", zap.Int64("len", set.count))
		}
		pDir := p.Direction()

		if /* im1 */ u := x.uncle(); u.isRed() {
			p.color = Black
			u.color = Black
			gp.color = Red
			x = gp
			continue
		}

		if /* im2 */ x.Direction() != pDir {
			set.rotate(p, pDir)
			x = p
			p = x.parent
		}

		/* im3 */
		p.color = Black
		gp.color = Red
		set.rotate(gp, -pDir)
		break
	}
	set.root.color = Black
}

func (set *rbSet[T]) Remove(key T) bool {
	z := set.search(key)
	if z == nil {
		return false
	}
	set.removeNode(z)
	return true
}

func (set *rbSet[T]) RemoveMin() (T, bool) {
	_min := set.root.minimum()
	if _min == nil {
		var zero T
		return zero, false
	}
	key := _min.key
	set.removeNode(_min)
	return key, true
}

func (set *rbSet[T]) RemoveMax() (T, bool) {
	_max := set.root.maximum()
	if _max == nil {
		var zero T
		return zero, false
	}
	key := _max.key
	set.removeNode(_max)
	return key, true
}

// transplant puts n into old's slot, n may be nil.
func (set *rbSet[T]) transplant(old, n *rbSetNode[T]) {
	switch dir := old.Direction(); dir {
	case Root:
		set.root = n
		if n != nil {
			n.parent = nil
		}
	default:
		old.parent.setChild(dir, n)
	}
}

/*
r1: Current node X has left and right children.
Copy the key of X's pred (default) or succ into X, then remove that
node instead. It has at most one child.

	  |                    |
	  X                    L
	 / \                  / \
	..  R   key(X)=key(L) ..  R
	  \    ============>   \
	   L                    (L removed)

r2: Current node Y has a single child C.
Y must be black and C must be a red leaf (see conclusion). Splice C into
Y's slot and repaint it black, black depth is kept.

r3: Y is the root without children, the set becomes empty.

r4: Y is a red leaf, unlink directly.

r5: Y is a black leaf, unlink it and repair the short side of its parent.
(black-violation)
*/
func (set *rbSet[T]) removeNode(z *rbSetNode[T]) {
	y := z
	if /* r1 */ z.left != nil && z.right != nil {
		if set.isRmBorrowSucc {
			y = z.succ()
		} else {
			y = z.pred()
		}
		z.key = y.key
	}

	replace := y.left
	if replace == nil {
		replace = y.right
	}

	switch {
	case /* r2 */ replace != nil:
		if y.isRed() || replace.isBlack() || replace.left != nil || replace.right != nil {
			// impossible run to here
			set.violate("[rbset] a node with a single child must be black with a red leaf child",
				zap.Stringer("nodeColor", y.color),
				zap.Stringer("childColor", replace.color),
			)
		}
		set.transplant(y, replace)
		replace.color = Black
	case /* r3 */ y.isRoot():
		set.root = nil
	case /* r4 */ y.isRed():
		y.parent.setChild(y.Direction(), nil)
	default:
		/* r5 */
		p, dir := y.parent, y.Direction()
		p.setChild(dir, nil)
		set.removeRebalance(p, dir)
	}

	y.unlink()
	set.count--
}

/*
<X> is a RED node.
[X] is a BLACK node (or nil).
{X} is either a RED node or a BLACK node.

The side dir of parent P is one black short, its current node X may be nil.
S is X's sibling, Sc is S's child close to X, Sd is S's child away from X.
S can't be nil, it roots a subtree holding at least one black node.

rm1: S is red, so P, Sc and Sd are black.
Repaint S into black, P into red, rotate P towards dir.
Sc becomes the new sibling and enter rm2-rm5.

	  [P]                   [S]
	  / \    rotate(P)      / \
	[X] <S>  ==========>  <P> [Sd]
	    / \               / \
	 [Sc] [Sd]          [X] [Sc]

rm2: S, Sc and Sd are black, P is red.
Repaint S into red and P into black. Done.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: P, S, Sc and Sd are all black.
Repaint S into red, now P's whole subtree is one black short.
Continue to fix from P.

rm4: S is black, Sc is red and Sd is black.
Repaint Sc into black and S into red, rotate S away from dir.
Sc becomes the new sibling, enter rm5.

	  {P}                   {P}
	  / \    rotate(S)      / \
	[X] [S]  ==========>  [X] [Sc]
	    / \                     \
	  <Sc> [Sd]                 <S>
	                              \
	                              [Sd]

rm5: S is black and Sd is red.
S takes P's color, P and Sd are repainted into black, rotate P towards dir.
Done.

	  {P}                   {S}
	  / \    rotate(P)      / \
	[X] [S]  ==========>  [P] [Sd]
	    / \               / \
	 {Sc} <Sd>          [X] {Sc}
*/
func (set *rbSet[T]) removeRebalance(p *rbSetNode[T], dir RBDirection) {
	for p != nil {
		s := p.child(-dir)
		if s == nil {
			// impossible run to here
			set.violate("[rbset] black short side without sibling", zap.Stringer("dir", dir))
		}

		if /* rm1 */ s.isRed() {
			s.color = Black
			p.color = Red
			set.rotate(p, dir)
			s = p.child(-dir)
		}

		sc, sd := s.child(dir), s.child(-dir)
		if sc.isBlack() && sd.isBlack() {
			s.color = Red
			if /* rm2 */ p.isRed() {
				p.color = Black
				return
			}
			/* rm3 */
			if dir = p.Direction(); dir == Root {
				return
			}
			p = p.parent
			continue
		}

		if /* rm4 */ sd.isBlack() {
			sc.color = Black
			s.color = Red
			set.rotate(s, -dir)
			s = p.child(-dir)
			sd = s.child(-dir)
		}

		/* rm5 */
		s.color = p.color
		p.color = Black
		sd.color = Black
		set.rotate(p, dir)
		return
	}
}

func (set *rbSet[T]) Contains(key T) bool {
	return set.search(key) != nil
}

func (set *rbSet[T]) Find(key T) RBSetIterator[T] {
	return RBSetIterator[T]{set: set, node: set.search(key)}
}

// LowerBound returns the first key not less than key.
func (set *rbSet[T]) LowerBound(key T) RBSetIterator[T] {
	var candidate *rbSetNode[T]
	for aux := set.root; aux != nil; {
		res := set.keyCompare(key, aux.key)
		if res == 0 {
			return RBSetIterator[T]{set: set, node: aux}
		} else if res < 0 {
			candidate = aux
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return RBSetIterator[T]{set: set, node: candidate}
}

// UpperBound returns the first key greater than key.
func (set *rbSet[T]) UpperBound(key T) RBSetIterator[T] {
	var candidate *rbSetNode[T]
	for aux := set.root; aux != nil; {
		if set.less(key, aux.key) {
			candidate = aux
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return RBSetIterator[T]{set: set, node: candidate}
}

func (set *rbSet[T]) Begin() RBSetIterator[T] {
	return RBSetIterator[T]{set: set, node: set.root.minimum()}
}

func (set *rbSet[T]) End() RBSetIterator[T] {
	return RBSetIterator[T]{set: set}
}

// Inorder traversal to implement the DFS.
func (set *rbSet[T]) Foreach(action func(idx int64, color RBColor, key T) bool) {
	aux := set.root
	if aux == nil {
		return
	}

	stack := make([]*rbSetNode[T], 0, 64)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

// Ascend walks keys in [from, to) in order.
func (set *rbSet[T]) Ascend(from, to T, action func(key T) bool) {
	if !set.less(from, to) {
		return
	}
	for aux := set.LowerBound(from).node; aux != nil && set.less(aux.key, to); aux = aux.succ() {
		if !action(aux.key) {
			return
		}
	}
}

func (set *rbSet[T]) Keys() []T {
	keys := make([]T, 0, set.count)
	set.Foreach(func(_ int64, _ RBColor, key T) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (set *rbSet[T]) String() string {
	return fmt.Sprint(set.Keys())
}

// clone copies the shape and colors node by node, no rebalance happens.
func (set *rbSet[T]) clone() *rbSet[T] {
	dup := &rbSet[T]{
		count:          set.count,
		less:           set.less,
		isDesc:         set.isDesc,
		isRmBorrowSucc: set.isRmBorrowSucc,
		logger:         set.logger,
	}
	if set.root == nil {
		return dup
	}

	type pair struct {
		src, dst *rbSetNode[T]
	}
	dup.root = &rbSetNode[T]{key: set.root.key, color: set.root.color, live: true}
	stack := make([]pair, 0, 64)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, pair{set.root, dup.root})

	for size := len(stack); size > 0; size = len(stack) {
		top := stack[size-1]
		stack = stack[:size-1]
		for _, dir := range [2]RBDirection{Left, Right} {
			if src := top.src.child(dir); src != nil {
				dst := &rbSetNode[T]{key: src.key, color: src.color, live: true}
				top.dst.setChild(dir, dst)
				stack = append(stack, pair{src, dst})
			}
		}
	}
	return dup
}

func (set *rbSet[T]) Clone() RBSet[T] {
	return set.clone()
}

// Assign drops all keys and becomes a deep copy of other.
// A set of this package also hands over its order and options,
// others are copied key by key with the current order.
func (set *rbSet[T]) Assign(other RBSet[T]) {
	if other == nil {
		set.Release()
		return
	}
	if that, ok := other.(*rbSet[T]); ok {
		if that == set {
			return
		}
		set.Release()
		dup := that.clone()
		set.root, set.count = dup.root, dup.count
		set.less, set.isDesc, set.isRmBorrowSucc = dup.less, dup.isDesc, dup.isRmBorrowSucc
		return
	}

	set.Release()
	other.Foreach(func(_ int64, _ RBColor, key T) bool {
		set.Insert(key)
		return true
	})
}

// Release unlinks every node with an explicit stack, no recursion.
func (set *rbSet[T]) Release() {
	aux := set.root
	set.root = nil
	if aux == nil {
		set.count = 0
		return
	}

	released := set.count
	stack := make([]*rbSetNode[T], 0, 64)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, aux)

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		aux.unlink()
		set.count--
	}

	if set.count != 0 {
		// impossible run to here
		set.violate("[rbset] released nodes mismatch the length",
			zap.Int64("len", released),
			zap.Int64("remaining", set.count),
		)
	}
	set.logger.Debug("[rbset] released", zap.Int64("nodes", released))
}

func newRBSet[T any](less infra.LessFunc[T], opts ...RBSetOpt[T]) *rbSet[T] {
	if less == nil {
		panic("[rbset] nil less func")
	}

	set := &rbSet[T]{
		count:          0,
		isDesc:         false,
		isRmBorrowSucc: false,
		logger:         xlog.NewNopXLogger(),
	}
	for _, o := range opts {
		o(set)
	}

	set.less = less
	if set.isDesc {
		set.less = infra.Reverse(less)
	}
	return set
}

func NewRBSet[T any](less infra.LessFunc[T], opts ...RBSetOpt[T]) RBSet[T] {
	return newRBSet[T](less, opts...)
}

func NewOrderedRBSet[T infra.OrderedKey](opts ...RBSetOpt[T]) RBSet[T] {
	return newRBSet[T](infra.OrderedLess[T], opts...)
}

// NewRBSetOf builds a set from keys, duplicates collapse.
func NewRBSetOf[T infra.OrderedKey](keys ...T) RBSet[T] {
	set := newRBSet[T](infra.OrderedLess[T])
	set.InsertMany(keys...)
	return set
}

// NewRBSetFromRange builds a set from the keys in [from, to) with the
// order of from's set. to must be reachable from from, or End.
func NewRBSetFromRange[T any](from, to RBSetIterator[T], opts ...RBSetOpt[T]) RBSet[T] {
	if from.set == nil {
		panic("[rbset] range iterator without set")
	}
	set := newRBSet[T](from.set.less, append([]RBSetOpt[T]{WithRBSetLogger[T](from.set.logger)}, opts...)...)
	for it := from; !it.IsEnd() && !it.Equal(to); it = it.Next() {
		set.Insert(it.Key())
	}
	return set
}
