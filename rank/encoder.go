package rank

import (
	"cmp"
	"slices"

	"github.com/cockroachdb/errors"
)

// ErrInvalidInputLength reports a vector that does not split into whole blocks
var ErrInvalidInputLength = errors.New("invalid input length")

// Sign computes the signature of one block: positions ordered by value,
// equal values ordered by position. NaN sorts below every number.
func Sign(block []float64) Signature {
	sig := make(Signature, len(block))
	for i := range sig {
		sig[i] = uint16(i)
	}
	slices.SortStableFunc(sig, func(a, b uint16) int {
		return cmp.Compare(block[a], block[b])
	})
	return sig
}

// Encoder turns permuted vectors into one address per block using a shared Table
type Encoder struct {
	table     *Table
	blockSize int
}

// NewEncoder creates an encoder for blocks of blockSize values
func NewEncoder(table *Table, blockSize int) *Encoder {
	return &Encoder{table: table, blockSize: blockSize}
}

// Table is the vocabulary the encoder assigns ids from
func (e *Encoder) Table() *Table {
	return e.table
}

// Encode splits permuted into contiguous blocks and returns their ids in block order.
// Unseen signatures are added to the table.
func (e *Encoder) Encode(permuted []float64) ([]uint32, error) {
	if e.blockSize <= 0 || len(permuted)%e.blockSize != 0 {
		return nil, errors.Wrapf(ErrInvalidInputLength, "%d features do not split into blocks of %d", len(permuted), e.blockSize)
	}
	addresses := make([]uint32, 0, len(permuted)/e.blockSize)
	for i := 0; i < len(permuted); i += e.blockSize {
		addresses = append(addresses, e.table.ID(Sign(permuted[i:i+e.blockSize])))
	}
	return addresses, nil
}
