package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Set_AddHasRemove(t *testing.T) {
	s := New(0)

	added := s.Add(5)
	assert.True(t, added)
	assert.True(t, s.Has(5))
	assert.False(t, s.Has(4))

	addedAgain := s.Add(5)
	assert.False(t, addedAgain)

	s.Remove(5)
	assert.False(t, s.Has(5))
}

func Test_Set_GrowsAcrossWords(t *testing.T) {
	s := New(0)
	s.Add(200)
	assert.True(t, s.Has(200))
	assert.Equal(t, 1, s.Len())
}

func Test_Set_UnionIntersectSubset(t *testing.T) {
	a := FromSlice([]int{1, 2, 3})
	b := FromSlice([]int{3, 4, 5})

	changed := a.Clone()
	assert.True(t, changed.Union(b))
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, changed.Elements())

	inter := a.Clone()
	inter.Intersect(b)
	assert.Equal(t, []int{3}, inter.Elements())

	assert.True(t, FromSlice([]int{1, 2}).Subset(a))
	assert.False(t, a.Subset(FromSlice([]int{1, 2})))
}

func Test_Set_EqualAndKey(t *testing.T) {
	a := FromSlice([]int{1, 5, 9})
	b := FromSlice([]int{9, 5, 1})

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())

	c := FromSlice([]int{1, 5})
	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.Key(), c.Key())
}

func Test_Set_Empty(t *testing.T) {
	s := New(0)
	assert.True(t, s.Empty())
	s.Add(3)
	assert.False(t, s.Empty())
}
