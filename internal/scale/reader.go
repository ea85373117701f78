// Package scale implements the subset of the SCALE codec needed to read and
// write runtime metadata: compact integers, length-prefixed vectors and
// strings, options, booleans and fixed-width little-endian integers.
package scale

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var (
	// ErrOverflow is returned when a compact value does not fit 64 bits.
	ErrOverflow = errors.New("scale: compact overflow")

	// ErrInvalidBool is returned for a boolean byte other than 0 or 1.
	ErrInvalidBool = errors.New("scale: invalid bool")

	// ErrInvalidOption is returned for an option tag other than 0 or 1.
	ErrInvalidOption = errors.New("scale: invalid option tag")

	// ErrLength is returned when a length prefix exceeds the remaining input.
	ErrLength = errors.New("scale: length exceeds input")
)

// Reader reads SCALE values from a byte slice and tracks its position.
type Reader struct {
	buf []byte
	pos int
}

// NewReader creates a Reader over b. The slice is not copied.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Position returns the current byte offset.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes. The returned slice is a copy.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// ReadU32LE reads a fixed-width little-endian uint32.
func (r *Reader) ReadU32LE() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadBool reads a one-byte boolean.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, r.wrapError(ErrInvalidBool)
	}
}

// ReadOption reads an option tag and reports whether a value follows.
func (r *Reader) ReadOption() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, r.wrapError(ErrInvalidOption)
	}
}

// ReadCompact reads a compact-encoded unsigned integer.
func (r *Reader) ReadCompact() (uint64, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	switch b & 0b11 {
	case 0b00:
		return uint64(b >> 2), nil
	case 0b01:
		b1, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16([]byte{b, b1}) >> 2), nil
	case 0b10:
		if r.Remaining() < 3 {
			return 0, io.ErrUnexpectedEOF
		}
		v := binary.LittleEndian.Uint32([]byte{b, r.buf[r.pos], r.buf[r.pos+1], r.buf[r.pos+2]})
		r.pos += 3
		return uint64(v >> 2), nil
	default:
		n := int(b>>2) + 4
		if n > 8 {
			return 0, r.wrapError(ErrOverflow)
		}
		if r.Remaining() < n {
			return 0, io.ErrUnexpectedEOF
		}
		var v uint64
		for i := n - 1; i >= 0; i-- {
			v = v<<8 | uint64(r.buf[r.pos+i])
		}
		r.pos += n
		return v, nil
	}
}

// ReadCompactU32 reads a compact-encoded integer that must fit 32 bits.
func (r *Reader) ReadCompactU32() (uint32, error) {
	v, err := r.ReadCompact()
	if err != nil {
		return 0, err
	}
	if v > 0xffffffff {
		return 0, r.wrapError(ErrOverflow)
	}
	return uint32(v), nil
}

// ReadLen reads a compact vector length. Every element of the vectors this
// package reads occupies at least one byte, so a length larger than the
// remaining input is rejected before anything is allocated.
func (r *Reader) ReadLen() (int, error) {
	v, err := r.ReadCompact()
	if err != nil {
		return 0, err
	}
	if v > uint64(r.Remaining()) {
		return 0, r.wrapError(ErrLength)
	}
	return int(v), nil
}

// ReadByteVec reads a length-prefixed byte vector.
func (r *Reader) ReadByteVec() ([]byte, error) {
	n, err := r.ReadLen()
	if err != nil || n == 0 {
		return nil, err
	}
	return r.ReadBytes(n)
}

// ReadString reads a length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadLen()
	if err != nil {
		return "", err
	}
	data := r.buf[r.pos : r.pos+n]
	if !utf8.Valid(data) {
		return "", r.wrapError(errors.New("invalid UTF-8 in string"))
	}
	r.pos += n
	return string(data), nil
}

// ReadOptionString reads an Option<String>. A missing value yields "".
func (r *Reader) ReadOptionString() (string, bool, error) {
	ok, err := r.ReadOption()
	if err != nil || !ok {
		return "", false, err
	}
	s, err := r.ReadString()
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

// ReadStrings reads a Vec<String>.
func (r *Reader) ReadStrings() ([]string, error) {
	n, err := r.ReadLen()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *Reader) wrapError(err error) error {
	return fmt.Errorf("at position %d: %w", r.pos, err)
}
