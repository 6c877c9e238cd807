package replogger

import "strconv"

// Buffer is a growable byte buffer with fallible, short-circuiting
// append methods: once an append fails, every subsequent append is a
// no-op and the first error is retained. Callers perform a whole
// record's worth of appends and check Err() once at the end, instead
// of threading an error return through every call.
type Buffer struct {
	b       []byte
	err     error
	maxSize int
}

// defaultMaxBufferSize bounds a single record's encoded size. Go does
// not expose allocation failure as a recoverable error, so this cap
// stands in for that failure mode: growth past it fails with
// StatusOutOfMemory instead of growing unboundedly.
const defaultMaxBufferSize = 64 << 20

// NewBuffer returns a Buffer with the given initial capacity and the
// default maximum size.
func NewBuffer(capacity int) *Buffer {
	return NewBoundedBuffer(capacity, defaultMaxBufferSize)
}

// NewBoundedBuffer returns a Buffer with the given initial capacity
// and an explicit maximum size, past which appends fail with
// StatusOutOfMemory.
func NewBoundedBuffer(capacity, maxSize int) *Buffer {
	return &Buffer{b: make([]byte, 0, capacity), maxSize: maxSize}
}

var errBufferTooLarge = errOf("record exceeds maximum buffer size")

// checkGrowth fails the buffer with StatusOutOfMemory if growing by n
// more bytes would exceed maxSize.
func (buf *Buffer) checkGrowth(n int) bool {
	if buf.maxSize > 0 && len(buf.b)+n > buf.maxSize {
		buf.err = errf(StatusOutOfMemory, "Buffer.append", errBufferTooLarge)
		return false
	}
	return true
}

// Reset clears the buffer for reuse, keeping its backing array.
func (buf *Buffer) Reset() {
	buf.b = buf.b[:0]
	buf.err = nil
}

// Err returns the first error encountered by any append call, if any.
func (buf *Buffer) Err() error { return buf.err }

// Bytes returns the accumulated bytes. Only meaningful when Err() == nil.
func (buf *Buffer) Bytes() []byte { return buf.b }

func (buf *Buffer) fail(err error) {
	if buf.err == nil {
		buf.err = err
	}
}

// appendByte appends a single raw byte.
func (buf *Buffer) appendByte(c byte) {
	if buf.err != nil || !buf.checkGrowth(1) {
		return
	}
	buf.b = append(buf.b, c)
}

// appendRaw appends bytes verbatim, with no escaping.
func (buf *Buffer) appendRaw(s string) {
	if buf.err != nil || !buf.checkGrowth(len(s)) {
		return
	}
	buf.b = append(buf.b, s...)
}

// appendRawBytes appends bytes verbatim, with no escaping.
func (buf *Buffer) appendRawBytes(s []byte) {
	if buf.err != nil || !buf.checkGrowth(len(s)) {
		return
	}
	buf.b = append(buf.b, s...)
}

// appendQuoted appends a JSON string literal around s. The caller
// guarantees s contains no JSON-meta characters — keys and collection
// names are passed through unescaped.
func (buf *Buffer) appendQuoted(s string) {
	if buf.err != nil || !buf.checkGrowth(len(s)+2) {
		return
	}
	buf.b = append(buf.b, '"')
	buf.b = append(buf.b, s...)
	buf.b = append(buf.b, '"')
}

// appendQuotedDecimal appends a 64-bit identifier as a quoted decimal
// string, preserving full precision for JSON consumers that parse
// numbers as float64.
func (buf *Buffer) appendQuotedDecimal(v uint64) {
	if buf.err != nil || !buf.checkGrowth(22) {
		return
	}
	buf.b = append(buf.b, '"')
	buf.b = strconv.AppendUint(buf.b, v, 10)
	buf.b = append(buf.b, '"')
}

// appendDecimal appends a 64-bit value as unquoted decimal digits.
func (buf *Buffer) appendDecimal(v uint64) {
	if buf.err != nil || !buf.checkGrowth(20) {
		return
	}
	buf.b = strconv.AppendUint(buf.b, v, 10)
}

// appendField appends `"key":` for a subsequent value.
func (buf *Buffer) appendField(key string) {
	if buf.err != nil {
		return
	}
	buf.appendQuoted(key)
	buf.appendByte(':')
}
