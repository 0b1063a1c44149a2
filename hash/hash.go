// Package hash implements the fast modular hash used to derive reproducible feature permutations
package hash

// Hash mixes n with the salt s and reduces the result into the range 0 to max-1.
// A max of 0 always yields 0.
func Hash(n uint32, s uint32, max uint32) uint32 {
	// mixing stage, mix input with salt using subtraction
	var m = uint32(n) - uint32(s)

	// hashing stage, use xor shift with prime coefficients
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	// mixing stage 2, mix input with salt using addition
	m += s

	// multiply shift reduction by Daniel Lemire instead of modulo
	// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
	return uint32((uint64(m) * uint64(max)) >> 32)
}

// Stream draws a reproducible sequence of bounded integers from a salt.
// Two streams with the same salt yield the same sequence.
type Stream struct {
	salt    uint32
	counter uint32
}

// NewStream creates a stream seeded by salt
func NewStream(salt uint32) *Stream {
	return &Stream{salt: salt}
}

// Uint32n returns the next value of the stream in the range 0 to max-1
func (s *Stream) Uint32n(max uint32) uint32 {
	s.counter++
	// a second round decorrelates neighbouring counters
	return Hash(Hash(s.counter, s.salt, 0xffffffff), s.salt^0x9e3779b9, max)
}

// Intn returns the next value of the stream in the range 0 to max-1
func (s *Stream) Intn(max int) int {
	if max <= 0 {
		return 0
	}
	return int(s.Uint32n(uint32(max)))
}
