// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package crc implements the masked CRC-32C (Castagnoli) checksums that
// protect TFRecord framing. Stored checksums are "masked": the raw CRC is
// rotated and offset by a fixed delta so that a stream which happens to
// contain an embedded checksum does not itself produce a plausible-looking
// checksum. The convention comes from LevelDB's log format; it is an
// anti-accident measure, not a cryptographic one.
package crc

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// Size is the encoded width of a checksum in bytes.
const Size = 4

// maskDelta is the offset added to the rotated CRC by Mask.
const maskDelta = 0xa282ead8

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Masked is a masked CRC-32C checksum. Masked values are immutable,
// copied freely, and compared with ==.
type Masked uint32

// Compute returns the masked CRC-32C of data. It is deterministic and
// defined for all inputs, including the empty slice, and is safe for
// concurrent use.
func Compute(data []byte) Masked {
	return Mask(crc32.Checksum(data, castagnoli))
}

// Mask converts a raw CRC-32C into its stored form: the value is rotated
// right by 15 bits, then offset by a fixed delta with wraparound.
func Mask(raw uint32) Masked {
	return Masked((raw>>15 | raw<<17) + maskDelta)
}

// Unmask is the inverse of Mask, recovering the raw CRC-32C from its
// stored form.
func Unmask(m Masked) uint32 {
	raw := uint32(m) - maskDelta
	return raw>>17 | raw<<15
}

// Get decodes a checksum from the first 4 bytes of b, which are
// interpreted in little-endian order.
func Get(b []byte) Masked {
	return Masked(binary.LittleEndian.Uint32(b))
}

// Put encodes m into the first 4 bytes of b in little-endian order.
func Put(b []byte, m Masked) {
	binary.LittleEndian.PutUint32(b, uint32(m))
}

// String renders the checksum as a zero-padded hex literal, e.g.
// "0x00bc614e". Diagnostics elsewhere rely on this exact form.
func (m Masked) String() string {
	return fmt.Sprintf("0x%08x", uint32(m))
}

// GoString implements fmt.GoStringer.
func (m Masked) GoString() string {
	return fmt.Sprintf("crc.Masked(0x%08x)", uint32(m))
}
