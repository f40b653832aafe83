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

package wire

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderPrimitives(t *testing.T) {
	t.Parallel()

	w := NewWriter(64)
	w.Uint8(7)
	w.Bool(true)
	w.Int16(-1234)
	w.Int32(-37774900)
	w.Int64(1_767_225_600)
	w.Float32(72.5)
	w.Float64(math.Pi)
	w.Text("node-A")
	require.NoError(t, w.Err())

	r := NewReader(w.Bytes())
	assert.Equal(t, uint8(7), r.Uint8())
	assert.True(t, r.Bool())
	assert.Equal(t, int16(-1234), r.Int16())
	assert.Equal(t, int32(-37774900), r.Int32())
	assert.Equal(t, int64(1_767_225_600), r.Int64())
	assert.Equal(t, float32(72.5), r.Float32())
	assert.Equal(t, math.Pi, r.Float64())
	assert.Equal(t, "node-A", r.Text())
	require.NoError(t, r.Err())
	assert.Zero(t, r.Remaining())
}

func TestBigEndianLayout(t *testing.T) {
	t.Parallel()

	w := NewWriter(4)
	w.Int32(1)

	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x01}, w.Bytes())
}

func TestReaderShortBufferIsSticky(t *testing.T) {
	t.Parallel()

	r := NewReader([]byte{0x00, 0x01})

	assert.Zero(t, r.Int32())
	require.ErrorIs(t, r.Err(), ErrShortBuffer)

	// Later reads keep returning zero values without clearing the error.
	assert.Zero(t, r.Uint8())
	require.ErrorIs(t, r.Err(), ErrShortBuffer)
}

func TestReaderNegativeLength(t *testing.T) {
	t.Parallel()

	r := NewReader([]byte{1, 2, 3})

	assert.Nil(t, r.Bytes(-1))
	require.ErrorIs(t, r.Err(), ErrNegativeLength)
}

func TestStringLengthPrefixTruncated(t *testing.T) {
	t.Parallel()

	// Length prefix claims 10 bytes but only 3 follow.
	r := NewReader([]byte{0x00, 0x0A, 'a', 'b', 'c'})

	assert.Empty(t, r.Text())
	require.ErrorIs(t, r.Err(), ErrShortBuffer)
}

func TestWriterRejectsOversizedString(t *testing.T) {
	t.Parallel()

	w := NewWriter(0)
	w.Text(strings.Repeat("x", math.MaxUint16+1))

	require.ErrorIs(t, w.Err(), ErrStringTooLong)
	assert.Zero(t, w.Len())
}
