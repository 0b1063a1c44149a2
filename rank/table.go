// Package rank implements n-tuple rank encoding: each block of a permuted
// vector is reduced to the relative ordering of its values, and every distinct
// ordering seen so far gets a stable integer id from a shared Table.
//
// The vocabulary grows with every previously unseen ordering, during training
// as well as during classification, and is never pruned. A block of n values
// has up to n! orderings, so memory use is bounded only by the data.
package rank

import (
	"encoding/binary"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrDuplicateSignature reports a vocabulary which lists the same signature twice
var ErrDuplicateSignature = errors.New("duplicate signature")

// ErrInvalidSignature reports a signature that is not an ordering of a block
var ErrInvalidSignature = errors.New("invalid signature")

// Signature is the sequence of in-block positions after sorting a block by (value, position)
type Signature []uint16

func (s Signature) key() string {
	var b = make([]byte, 2*len(s))
	for i, v := range s {
		binary.LittleEndian.PutUint16(b[2*i:], v)
	}
	return string(b)
}

// Validate checks that s is a permutation of the positions 0 to blockSize-1
func (s Signature) Validate(blockSize int) error {
	if len(s) != blockSize {
		return errors.Wrapf(ErrInvalidSignature, "%d positions, want %d", len(s), blockSize)
	}
	seen := make([]bool, blockSize)
	for _, p := range s {
		if int(p) >= blockSize || seen[p] {
			return errors.Wrapf(ErrInvalidSignature, "%v is not an ordering of %d positions", s, blockSize)
		}
		seen[p] = true
	}
	return nil
}

// Table is an arena of signatures with stable ids. Ids are assigned from 0 in
// first seen order and never reassigned. It is safe for concurrent use.
type Table struct {
	mu         sync.Mutex
	index      map[string]uint32
	signatures []Signature
}

// NewTable creates an empty vocabulary
func NewTable() *Table {
	return &Table{index: make(map[string]uint32)}
}

// FromSignatures rebuilds a table where signature i has id i
func FromSignatures(sigs []Signature) (*Table, error) {
	t := NewTable()
	for i, sig := range sigs {
		if _, ok := t.index[sig.key()]; ok {
			return nil, errors.Wrapf(ErrDuplicateSignature, "signature %d %v", i, sig)
		}
		t.index[sig.key()] = uint32(i)
		t.signatures = append(t.signatures, append(Signature(nil), sig...))
	}
	return t, nil
}

// ID returns the id of sig, inserting it with the next free id if unseen
func (t *Table) ID(sig Signature) uint32 {
	k := sig.key()
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.index[k]; ok {
		return id
	}
	id := uint32(len(t.signatures))
	t.index[k] = id
	t.signatures = append(t.signatures, append(Signature(nil), sig...))
	return id
}

// Lookup returns the id of sig without inserting it
func (t *Table) Lookup(sig Signature) (id uint32, ok bool) {
	t.mu.Lock()
	id, ok = t.index[sig.key()]
	t.mu.Unlock()
	return
}

// Signature returns the signature stored under id
func (t *Table) Signature(id uint32) (Signature, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(id) >= len(t.signatures) {
		return nil, false
	}
	return append(Signature(nil), t.signatures[id]...), true
}

// Len is the vocabulary size
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.signatures)
}

// Signatures returns a copy of the vocabulary ordered by id
func (t *Table) Signatures() []Signature {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Signature, len(t.signatures))
	for i, sig := range t.signatures {
		out[i] = append(Signature(nil), sig...)
	}
	return out
}
