// Package arena provides an append-only pool of lookahead constraints
// addressed by integer handle. It holds no other resource kind; automata
// keep their own transitions.
package arena

import (
	"github.com/cnf/structhash"
	"github.com/dekarrin/lrgen/internal/bitset"
)

// ConstraintPool interns lookahead constraints by content equality: two
// constraints with the same member terminals always resolve to the same
// handle, and so to one shared stored set. The LALR builder uses it so
// that items with equal merged lookaheads share one set; state identity
// there is decided by kernel keys, not by these handles.
type ConstraintPool struct {
	byHash map[string]int
	sets   []*bitset.Set
}

// NewConstraintPool returns an empty pool.
func NewConstraintPool() *ConstraintPool {
	return &ConstraintPool{byHash: make(map[string]int)}
}

// Intern returns the handle for a constraint with the same members as s,
// allocating a new pool entry only if no equal constraint has been seen
// before. The pool takes ownership of a clone of s; the caller's s is left
// untouched and may keep being mutated.
func (p *ConstraintPool) Intern(s *bitset.Set) int {
	h := contentHash(s)
	if id, ok := p.byHash[h]; ok {
		return id
	}
	id := len(p.sets)
	p.sets = append(p.sets, s.Clone())
	p.byHash[h] = id
	return id
}

// Get returns the constraint stored at handle id. The returned set must
// not be mutated by callers; Clone it first if a mutable copy is needed.
func (p *ConstraintPool) Get(id int) *bitset.Set {
	return p.sets[id]
}

// Len returns the number of distinct constraints interned so far.
func (p *ConstraintPool) Len() int {
	return len(p.sets)
}

func contentHash(s *bitset.Set) string {
	elems := s.Elements()
	digest, err := structhash.Hash(elems, 1)
	if err != nil {
		// structhash only fails on unhashable types; []int is always
		// hashable, so this path does not occur in practice. Fall back to
		// the set's own canonical key rather than panicking.
		return s.Key()
	}
	return digest
}
