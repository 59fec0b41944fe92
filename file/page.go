package file

import (
	"encoding/binary"
	"fmt"
)

// IntSize is the on-disk byte width of an integer field: a fixed
// 4-byte big-endian int32, regardless of the host platform's native
// int width. This keeps data files portable across machines, unlike a
// width derived from unsafe.Sizeof(int).
const IntSize = 4

// Page is a fixed-size in-memory buffer holding the bytes of exactly
// one disk block. All integers are stored as 4-byte big-endian values;
// strings and byte slices are stored length-prefixed by one such
// integer followed by their raw bytes.
type Page struct {
	buf     []byte
	maxSize int
}

func NewPageWithSize(size int) *Page {
	return &Page{
		buf:     make([]byte, size),
		maxSize: size,
	}
}

func NewPageWithSlice(buf []byte) *Page {
	return &Page{
		buf:     buf,
		maxSize: len(buf),
	}
}

// Len returns the page's fixed capacity in bytes.
func (p *Page) Len() int {
	return p.maxSize
}

func (p *Page) assertSize(offset int, size int) {
	if offset+size > p.maxSize {
		panic(fmt.Sprintf("data out of page bounds. offset: %d length: %d. Max page size is %d", offset, size, p.maxSize))
	}
}

func (p *Page) contents() []byte {
	return p.buf
}

// SetBytes writes a byte slice at the provided offset, prefixed by its
// length as a 4-byte big-endian int.
func (p *Page) SetBytes(offset int, data []byte) {
	p.assertSize(offset, IntSize+len(data))
	binary.BigEndian.PutUint32(p.buf[offset:], uint32(len(data)))
	copy(p.buf[offset+IntSize:], data)
}

func (p *Page) Bytes(offset int) []byte {
	size := binary.BigEndian.Uint32(p.buf[offset : offset+IntSize])
	from := offset + IntSize
	to := from + int(size)
	return p.buf[from:to]
}

func (p *Page) SetInt(offset int, val int) {
	p.assertSize(offset, IntSize)
	binary.BigEndian.PutUint32(p.buf[offset:], uint32(int32(val)))
}

func (p *Page) Int(offset int) int {
	v := binary.BigEndian.Uint32(p.buf[offset : offset+IntSize])
	return int(int32(v))
}

func (p *Page) SetString(offset int, v string) {
	p.SetBytes(offset, []byte(v))
}

func (p *Page) String(offset int) string {
	return string(p.Bytes(offset))
}

// MaxLength returns the number of bytes needed to store a string of
// strlen bytes: the 4-byte length prefix plus the bytes themselves.
func MaxLength(strlen int) int {
	return StrLength(strlen)
}

// StrLength returns the number of bytes needed to store a string of
// strlen bytes: the 4-byte length prefix plus the bytes themselves.
// Schema/Layout use this to size STRING fields' slots.
func StrLength(strlen int) int {
	return strlen + IntSize
}
