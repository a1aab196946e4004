package tree

import (
	randv2 "math/rand/v2"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestRBSetIterator_Forward(t *testing.T) {
	set := NewRBSetOf(10, 20, 5, 15, 25)
	got := make([]int, 0, set.Len())
	for it := set.Begin(); !it.IsEnd(); it = it.Next() {
		got = append(got, it.Key())
	}
	require.Equal(t, []int{5, 10, 15, 20, 25}, got)
}

func TestRBSetIterator_Backward(t *testing.T) {
	set := NewRBSetOf(10, 20, 5, 15, 25)
	got := make([]int, 0, set.Len())
	for it := set.End().Prev(); !it.IsEnd(); it = it.Prev() {
		got = append(got, it.Key())
	}
	require.Equal(t, []int{25, 20, 15, 10, 5}, got)

	require.True(t, set.Begin().Prev().IsEnd())
	require.True(t, NewOrderedRBSet[int]().End().Prev().IsEnd())
}

func TestRBSetIterator_Symmetry(t *testing.T) {
	set := NewOrderedRBSet[int]()
	for i := 0; i < 2000; i++ {
		set.Insert(randv2.IntN(10000))
	}
	for i := 0; i < 500; i++ {
		set.Remove(randv2.IntN(10000))
	}

	last := set.End().Prev()
	for it := set.Begin().Next(); !it.Equal(last); it = it.Next() {
		require.True(t, it.Next().Prev().Equal(it))
		require.True(t, it.Prev().Next().Equal(it))
		require.True(t, set.Less(it.Prev().Key(), it.Key()))
		require.True(t, set.Less(it.Key(), it.Next().Key()))
	}
	require.True(t, last.Next().IsEnd())
	require.True(t, last.Next().Prev().Equal(last))
}

func TestRBSetIterator_Equal(t *testing.T) {
	a, b := NewRBSetOf(1, 2), NewRBSetOf(1, 2)
	require.True(t, a.Find(1).Equal(a.Begin()))
	require.False(t, a.Find(1).Equal(a.Find(2)))
	require.True(t, a.End().Equal(a.Find(3)))
	require.False(t, a.End().Equal(b.End()))
	require.False(t, a.Begin().Equal(b.Begin()))
}

func TestRBSetIterator_EndPanics(t *testing.T) {
	set := NewRBSetOf(1)
	end := set.End()
	require.PanicsWithValue(t, "[rbset] dereference the end iterator", func() {
		end.Key()
	})
	require.PanicsWithValue(t, "[rbset] advance the end iterator", func() {
		end.Next()
	})
	require.Panics(t, func() {
		RBSetIterator[int]{}.Prev()
	})
}

func TestRBSetIterator_SurvivesRebalance(t *testing.T) {
	set := NewOrderedRBSet[int]()
	set.Insert(500)
	it := set.Find(500)
	for _, key := range lo.Shuffle(lo.Range(1000)) {
		set.Insert(key)
	}
	for i := 0; i < 1000; i += 2 {
		if i != 500 {
			set.Remove(i)
		}
	}
	require.NoError(t, Validate(set))
	require.Equal(t, 500, it.Key())
	require.Equal(t, 499, it.Prev().Key())
	require.Equal(t, 501, it.Next().Key())
}

// A two-child removal overwrites the removed node with the pred key
// and unlinks the pred's node.
func TestRBSetIterator_TwoChildRemoval(t *testing.T) {
	set := newRBSet[int](func(i, j int) bool { return i < j })
	set.InsertMany(10, 20, 5, 15, 25)
	require.NotNil(t, set.root.right.left)
	require.Equal(t, 20, set.root.right.key)

	removed := set.Find(20)
	borrowed := set.Find(15)
	require.True(t, set.Remove(20))

	require.Equal(t, []int{5, 10, 15, 25}, set.Keys())
	require.Equal(t, 15, removed.Key())
	require.True(t, removed.Equal(set.Find(15)))
	require.PanicsWithValue(t, "[rbset] dereference a removed node", func() {
		borrowed.Key()
	})
	require.PanicsWithValue(t, "[rbset] advance a removed node", func() {
		borrowed.Next()
	})
}

func TestRBSetIterator_TwoChildRemovalBorrowSucc(t *testing.T) {
	set := newRBSet[int](func(i, j int) bool { return i < j }, WithRBSetRemoveBorrowSucc[int]())
	set.InsertMany(10, 20, 5, 15, 25)

	removed := set.Find(20)
	borrowed := set.Find(25)
	require.True(t, set.Remove(20))

	require.Equal(t, []int{5, 10, 15, 25}, set.Keys())
	require.Equal(t, 25, removed.Key())
	require.Panics(t, func() {
		borrowed.Key()
	})
	require.NoError(t, Validate[int](set))
}
