package hwl

import "fmt"

// Tape is a fixed-length circular array of byte cells with a cursor.
type Tape struct {
	cells []byte
	ptr   int
}

// NewTape allocates a zeroed tape. The length never changes afterwards.
func NewTape(length int) (*Tape, error) {
	if length <= 0 {
		return nil, fmt.Errorf("tape length must be positive, got %d", length)
	}
	return &Tape{cells: make([]byte, length)}, nil
}

// Len is the fixed number of cells.
func (t *Tape) Len() int { return len(t.cells) }

// Pointer is the selected cell index, always in [0, Len()).
func (t *Tape) Pointer() int { return t.ptr }

// Cell returns the value under the pointer.
func (t *Tape) Cell() byte { return t.cells[t.ptr] }

// At returns the value of cell i.
func (t *Tape) At(i int) byte { return t.cells[i] }

// Right moves the pointer one cell right, wrapping to 0 past the end.
func (t *Tape) Right() {
	t.ptr++
	if t.ptr == len(t.cells) {
		t.ptr = 0
	}
}

// Left moves the pointer one cell left, wrapping from 0 to the last cell.
func (t *Tape) Left() {
	if t.ptr == 0 {
		t.ptr = len(t.cells)
	}
	t.ptr--
}

// Inc adds one to the current cell; 255 wraps to 0.
func (t *Tape) Inc() { t.cells[t.ptr]++ }

// Dec subtracts one from the current cell; 0 wraps to 255.
func (t *Tape) Dec() { t.cells[t.ptr]-- }

// Reset zeroes the current cell.
func (t *Tape) Reset() { t.cells[t.ptr] = 0 }

// Snapshot copies the cell contents.
func (t *Tape) Snapshot() []byte {
	return append([]byte(nil), t.cells...)
}
