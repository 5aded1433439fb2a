// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package goulink

import (
	"bytes"
	"math"
)

// Buffer is a growable byte buffer with a little-endian 16-bit write
// helper. Nothing else in the package uses it.
type Buffer struct {
	bytes.Buffer
}

// Endian picks which byte order convertToUint16 decodes.
type Endian uint8

const (
	littleEndian Endian = 0
	bigEndian    Endian = 1
)

func (e Endian) toString() string {
	if e == littleEndian {
		return "little endian"
	}
	return "big endian"
}

func NewBuffer(initSize int) *Buffer {
	b := &Buffer{}
	b.Grow(initSize)
	return b
}

func (buf *Buffer) WriteUint16LE(value uint16) {
	buf.WriteByte(byte(value))
	buf.WriteByte(byte(value >> 8))
}

// convertToUint16 decodes a 2-byte field in the given byte order. HEX
// extended-linear-address records and the 16-bit fields inside a
// Intel-HEX data line are big-endian; the OpenULINK wire protocol itself
// is little-endian throughout, hence both orders are needed in this one
// driver.
func convertToUint16(buf []byte, e Endian) uint16 {
	if len(buf) < 2 {
		logger.Errorf("could not read uint16 %s from given buffer", e.toString())
		return math.MaxUint16
	}
	if e == littleEndian {
		return uint16(buf[0]) | (uint16(buf[1]) << 8)
	}
	return uint16(buf[1]) | (uint16(buf[0]) << 8)
}
