// Package grid holds the double-buffered simulation state: two scalar
// channels over a square toroidal lattice.
package grid

import "fmt"

// MaxSize caps allocations from garbage config input. The controller
// restricts sizes further to its supported list.
const MaxSize = 4096

// Channel selects one of the two scalar channels of a Field.
type Channel int

const (
	U Channel = iota
	V
)

// Field is one time level of the state: channels U and V over an N×N
// toroidal lattice, stored as flat row-major slices.
type Field struct {
	N    int
	U, V []float32
}

// NewField allocates a zeroed N×N field.
func NewField(n int) *Field {
	return &Field{
		N: n,
		U: make([]float32, n*n),
		V: make([]float32, n*n),
	}
}

// Channel returns the backing slice for c (V for any unknown value).
func (f *Field) Channel(c Channel) []float32 {
	if c == U {
		return f.U
	}
	return f.V
}

// Fill sets every cell of both channels.
func (f *Field) Fill(u, v float32) {
	for i := range f.U {
		f.U[i] = u
		f.V[i] = v
	}
}

// Wrap maps i into [0,n) with toroidal wrapping.
func Wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Buffer is a ping-pong pair of equally sized Fields. The integrator
// reads Cur, writes Next, then calls Swap; readers only ever see Cur.
type Buffer struct {
	cur, nxt *Field
}

// New allocates a buffer of two zeroed n×n fields.
func New(n int) (*Buffer, error) {
	if n <= 0 || n > MaxSize {
		return nil, fmt.Errorf("grid: size %d out of range [1,%d]", n, MaxSize)
	}
	return &Buffer{cur: NewField(n), nxt: NewField(n)}, nil
}

// Size returns the lattice side length.
func (b *Buffer) Size() int { return b.cur.N }

// Cur returns the readable field.
func (b *Buffer) Cur() *Field { return b.cur }

// Next returns the writable field for the in-flight step.
func (b *Buffer) Next() *Field { return b.nxt }

// Swap exchanges the two fields. O(1); no cell data moves.
func (b *Buffer) Swap() {
	b.cur, b.nxt = b.nxt, b.cur
}

// Resize reallocates both fields at n×n, discarding all cell data. The
// caller reseeds afterwards. On error the buffer is left untouched.
func (b *Buffer) Resize(n int) error {
	if n <= 0 || n > MaxSize {
		return fmt.Errorf("grid: size %d out of range [1,%d]", n, MaxSize)
	}
	b.cur = NewField(n)
	b.nxt = NewField(n)
	return nil
}
