/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package wire holds the big-endian primitives shared by the telemetry
// container and every sensor payload.
//
// Writer appends fixed-width integers, IEEE-754 floats, and uint16
// length-prefixed strings. Reader consumes them with a sticky error: the
// first short read latches ErrShortBuffer and every later call returns a
// zero value, so decoders check Err once at the end.
package wire

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	// ErrShortBuffer is latched when a read runs past the end of the payload.
	ErrShortBuffer = errors.New("read past end of buffer")
	// ErrStringTooLong is returned by Writer.Text for strings over 65535 bytes.
	ErrStringTooLong = errors.New("string exceeds 65535 bytes")
	// ErrNegativeLength is latched when a length prefix is negative.
	ErrNegativeLength = errors.New("negative length")
)

// Writer accumulates a big-endian payload.
type Writer struct {
	buf []byte
	err error
}

// NewWriter returns a Writer with capacity for size bytes.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size)}
}

func (w *Writer) Uint8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) Bool(v bool) {
	if v {
		w.Uint8(1)
		return
	}

	w.Uint8(0)
}

func (w *Writer) Int16(v int16)   { w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(v)) }
func (w *Writer) Uint16(v uint16) { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }
func (w *Writer) Int32(v int32)   { w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(v)) }
func (w *Writer) Int64(v int64)   { w.buf = binary.BigEndian.AppendUint64(w.buf, uint64(v)) }

func (w *Writer) Float32(v float32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, math.Float32bits(v))
}

func (w *Writer) Float64(v float64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, math.Float64bits(v))
}

// Text writes a uint16 byte length followed by the UTF-8 bytes.
func (w *Writer) Text(s string) {
	if len(s) > math.MaxUint16 {
		if w.err == nil {
			w.err = ErrStringTooLong
		}

		return
	}

	w.Uint16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

// Raw appends b verbatim.
func (w *Writer) Raw(b []byte) { w.buf = append(w.buf, b...) }

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte { return w.buf }

// Len reports the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Err returns the first encoding error, if any.
func (w *Writer) Err() error { return w.err }

// Reader consumes a big-endian payload.
type Reader struct {
	buf []byte
	off int
	err error
}

// NewReader returns a Reader over b. b is not copied.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}

	if n < 0 {
		r.err = ErrNegativeLength
		return nil
	}

	if len(r.buf)-r.off < n {
		r.err = ErrShortBuffer
		r.off = len(r.buf)

		return nil
	}

	b := r.buf[r.off : r.off+n]
	r.off += n

	return b
}

func (r *Reader) Uint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}

	return b[0]
}

func (r *Reader) Bool() bool { return r.Uint8() != 0 }

func (r *Reader) Uint16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}

	return binary.BigEndian.Uint16(b)
}

func (r *Reader) Int16() int16 { return int16(r.Uint16()) }

func (r *Reader) Int32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}

	return int32(binary.BigEndian.Uint32(b))
}

func (r *Reader) Int64() int64 {
	b := r.take(8)
	if b == nil {
		return 0
	}

	return int64(binary.BigEndian.Uint64(b))
}

func (r *Reader) Float32() float32 {
	b := r.take(4)
	if b == nil {
		return 0
	}

	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

func (r *Reader) Float64() float64 {
	b := r.take(8)
	if b == nil {
		return 0
	}

	return math.Float64frombits(binary.BigEndian.Uint64(b))
}

func (r *Reader) Text() string {
	n := int(r.Uint16())

	return string(r.take(n))
}

// Bytes returns the next n bytes without copying.
func (r *Reader) Bytes(n int) []byte { return r.take(n) }

// Remaining reports how many unread bytes are left.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// Err returns the first decoding error, if any.
func (r *Reader) Err() error { return r.err }
