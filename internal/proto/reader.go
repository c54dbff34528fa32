package proto

import (
	"bufio"
	"errors"
	"io"
)

// DefaultMaxUnit is the largest unit returned by a Reader unless told
// otherwise.
const DefaultMaxUnit = 1023

// Reader frames a byte stream into newline-terminated units.
//
// A unit is everything up to and including '\n'. A line longer than the
// maximum is returned in consecutive pieces of at most that size. Bytes
// left without a terminator when the stream ends form a final unit.
type Reader struct {
	br *bufio.Reader
}

// NewReader wraps r. max bounds the unit size; bufio imposes a floor of
// 16 bytes.
func NewReader(r io.Reader, max int) *Reader {
	if max <= 0 {
		max = DefaultMaxUnit
	}
	return &Reader{br: bufio.NewReaderSize(r, max)}
}

// ReadUnit returns the next unit. The returned slice is owned by the
// caller. It returns io.EOF once the stream is exhausted.
func (r *Reader) ReadUnit() ([]byte, error) {
	line, err := r.br.ReadSlice('\n')
	switch {
	case err == nil, errors.Is(err, bufio.ErrBufferFull):
	case errors.Is(err, io.EOF) && len(line) > 0:
	default:
		return nil, err
	}
	unit := make([]byte, len(line))
	copy(unit, line)
	return unit, nil
}
