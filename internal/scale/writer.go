package scale

import (
	"bytes"
	"encoding/binary"
)

// Writer encodes SCALE values into a growing buffer.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// Raw writes b without a length prefix.
func (w *Writer) Raw(b []byte) {
	w.buf.Write(b)
}

// U32LE writes a fixed-width little-endian uint32.
func (w *Writer) U32LE(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// Bool writes a one-byte boolean.
func (w *Writer) Bool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// Compact writes v in compact encoding, choosing the shortest mode.
func (w *Writer) Compact(v uint64) {
	switch {
	case v < 1<<6:
		w.buf.WriteByte(byte(v << 2))
	case v < 1<<14:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(v<<2)|0b01)
		w.buf.Write(b[:])
	case v < 1<<30:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v<<2)|0b10)
		w.buf.Write(b[:])
	default:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		n := 8
		for n > 4 && b[n-1] == 0 {
			n--
		}
		w.buf.WriteByte(byte(n-4)<<2 | 0b11)
		w.buf.Write(b[:n])
	}
}

// None writes an empty option.
func (w *Writer) None() {
	w.buf.WriteByte(0)
}

// Some writes the tag of a present option; the caller writes the value.
func (w *Writer) Some() {
	w.buf.WriteByte(1)
}

// String writes a length-prefixed string.
func (w *Writer) String(s string) {
	w.Compact(uint64(len(s)))
	w.buf.WriteString(s)
}

// OptionString writes Some(s) when ok, None otherwise.
func (w *Writer) OptionString(s string, ok bool) {
	if !ok {
		w.None()
		return
	}
	w.Some()
	w.String(s)
}

// ByteVec writes a length-prefixed byte vector.
func (w *Writer) ByteVec(b []byte) {
	w.Compact(uint64(len(b)))
	w.buf.Write(b)
}

// Strings writes a Vec<String>.
func (w *Writer) Strings(ss []string) {
	w.Compact(uint64(len(ss)))
	for _, s := range ss {
		w.String(s)
	}
}
