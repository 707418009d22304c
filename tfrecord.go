// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package tfrecord implements reading and writing of TFRecord streams,
// the framed record format used by TensorFlow and TensorBoard event
// files. Readers are resumable: a stream may be handed to the reader in
// arbitrary partial pieces, as when tailing a file that another process
// is still appending to, and reading picks up exactly where it left
// off once more bytes arrive. Malformed and truncated input is reported
// through errors, never panics.
//
// Data layout
//
// A TFRecord stream is a bare concatenation of records. Each record
// frames a single opaque payload:
//
//	record :=
//		length uint64       // little-endian payload length
//		lengthCRC uint32    // masked CRC-32C of the 8 length bytes
//		data [length]uint8  // the payload
//		dataCRC uint32      // masked CRC-32C of the payload
//
// Checksums are "masked" in the LevelDB manner; see package
// github.com/grailbio/tfrecord/crc. The length checksum is verified
// eagerly during reading, since a corrupt length makes the rest of the
// stream unwalkable. The payload checksum is kept with the record and
// verified only when the caller asks (Record.Validate), so that callers
// tailing large streams can defer or skip integrity checks.
//
// The format has no compression of its own; whole streams are sometimes
// stored gzip- or zlib-compressed, for which see package
// github.com/grailbio/tfrecord/compress.
package tfrecord

import "github.com/grailbio/tfrecord/crc"

const (
	// lengthSize is the width of a record's length field.
	lengthSize = 8
	// headerSize is the width of a record header: the length field
	// followed by its checksum.
	headerSize = lengthSize + crc.Size
	// footerSize is the width of a record footer: the payload checksum.
	footerSize = crc.Size
)
