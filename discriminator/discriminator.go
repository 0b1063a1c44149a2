// Package discriminator implements the per-class memory of a weightless network:
// one RAM per address slot, each remembering which addresses were trained and how often.
package discriminator

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cockroachdb/errors"
)

// ErrInvalidImage reports a mental image that cannot be loaded back
var ErrInvalidImage = errors.New("invalid mental image")

// Entry is one memorized address and the number of times it was trained
type Entry struct {
	Address uint32 `json:"address"`
	Count   uint64 `json:"count"`
}

// RAM is a sparse address to count table. The bitmap answers presence and
// keeps addresses in ascending order; counts only matter for introspection.
type RAM struct {
	known  *roaring.Bitmap
	counts map[uint32]uint64
}

func newRAM() RAM {
	return RAM{known: roaring.New(), counts: make(map[uint32]uint64)}
}

func (r *RAM) add(address uint32, n uint64) {
	r.known.Add(address)
	r.counts[address] += n
}

// Contains reports whether address was ever trained
func (r *RAM) Contains(address uint32) bool {
	return r.known.Contains(address)
}

// Count returns how many times address was trained
func (r *RAM) Count(address uint32) uint64 {
	return r.counts[address]
}

// Len is the number of distinct addresses stored
func (r *RAM) Len() int {
	return int(r.known.GetCardinality())
}

// Discriminator is the memory of one class
type Discriminator struct {
	rams         []RAM
	timesTrained uint64
}

// New creates an untrained discriminator with the given number of RAMs
func New(tables int) *Discriminator {
	d := &Discriminator{rams: make([]RAM, tables)}
	for i := range d.rams {
		d.rams[i] = newRAM()
	}
	return d
}

// Tables is the number of RAMs
func (d *Discriminator) Tables() int {
	return len(d.rams)
}

// TimesTrained is the number of Train calls
func (d *Discriminator) TimesTrained() uint64 {
	return d.timesTrained
}

// RAM returns the n-th RAM
func (d *Discriminator) RAM(n int) *RAM {
	return &d.rams[n]
}

// Train memorizes addresses, one per RAM. len(addresses) must equal Tables().
func (d *Discriminator) Train(addresses []uint32) {
	for i := range d.rams {
		d.rams[i].add(addresses[i], 1)
	}
	d.timesTrained++
}

// Classify counts the RAMs which know their address. The stored counts do not
// weigh the vote. len(addresses) must equal Tables().
func (d *Discriminator) Classify(addresses []uint32) (votes int, timesTrained uint64) {
	for i := range d.rams {
		if d.rams[i].Contains(addresses[i]) {
			votes++
		}
	}
	return votes, d.timesTrained
}

// MentalImage exports every RAM as its memorized addresses in ascending order
func (d *Discriminator) MentalImage() [][]Entry {
	image := make([][]Entry, len(d.rams))
	for i := range d.rams {
		addrs := d.rams[i].known.ToArray()
		image[i] = make([]Entry, len(addrs))
		for j, a := range addrs {
			image[i][j] = Entry{Address: a, Count: d.rams[i].counts[a]}
		}
	}
	return image
}

// FromMentalImage rebuilds a discriminator from an exported image
func FromMentalImage(image [][]Entry, timesTrained uint64) (*Discriminator, error) {
	d := New(len(image))
	for i, entries := range image {
		for _, e := range entries {
			if e.Count == 0 {
				return nil, errors.Wrapf(ErrInvalidImage, "ram %d address %d has zero count", i, e.Address)
			}
			if d.rams[i].Contains(e.Address) {
				return nil, errors.Wrapf(ErrInvalidImage, "ram %d lists address %d twice", i, e.Address)
			}
			if e.Count > timesTrained {
				return nil, errors.Wrapf(ErrInvalidImage, "ram %d address %d trained %d times, more than %d", i, e.Address, e.Count, timesTrained)
			}
			d.rams[i].add(e.Address, e.Count)
		}
	}
	d.timesTrained = timesTrained
	return d, nil
}
