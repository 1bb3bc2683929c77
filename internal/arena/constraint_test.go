package arena

import (
	"testing"

	"github.com/dekarrin/lrgen/internal/bitset"
	"github.com/stretchr/testify/assert"
)

func Test_ConstraintPool_InternsByContent(t *testing.T) {
	p := NewConstraintPool()

	a := p.Intern(bitset.FromSlice([]int{3, 1, 2}))
	b := p.Intern(bitset.FromSlice([]int{1, 2, 3}))
	c := p.Intern(bitset.FromSlice([]int{1, 2}))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 2, p.Len())
	assert.ElementsMatch(t, []int{1, 2, 3}, p.Get(a).Elements())
}

func Test_ConstraintPool_ClonesOnIntern(t *testing.T) {
	p := NewConstraintPool()
	s := bitset.FromSlice([]int{1})
	id := p.Intern(s)

	s.Add(2)

	assert.Equal(t, []int{1}, p.Get(id).Elements())
}
