// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tfrecord

import (
	"encoding/binary"
	"io"

	"github.com/grailbio/tfrecord/crc"
)

// A Writer appends records to an underlying stream. Writers are thin
// and unbuffered: every Append hands the record's bytes straight to the
// underlying io.Writer. Writers are not safe for concurrent use.
type Writer struct {
	wr  io.Writer
	hdr [headerSize]byte
	ftr [footerSize]byte
}

// NewWriter returns a writer that appends records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{wr: w}
}

// Append writes one record framing the payload data. Empty payloads are
// legal and frame to a well-formed record. Errors from the underlying
// writer are returned as they are; an interrupted Append leaves the
// stream ending mid-record, which readers see as a truncated (and thus
// still appendable-to, not corrupt) stream only if nothing further is
// written. Append does not retain data.
func (w *Writer) Append(data []byte) error {
	binary.LittleEndian.PutUint64(w.hdr[:lengthSize], uint64(len(data)))
	crc.Put(w.hdr[lengthSize:], crc.Compute(w.hdr[:lengthSize]))
	if _, err := w.wr.Write(w.hdr[:]); err != nil {
		return err
	}
	if _, err := w.wr.Write(data); err != nil {
		return err
	}
	crc.Put(w.ftr[:], crc.Compute(data))
	_, err := w.wr.Write(w.ftr[:])
	return err
}
