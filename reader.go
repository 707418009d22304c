// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tfrecord

import (
	"encoding/binary"
	"io"

	"github.com/grailbio/tfrecord/crc"
)

const maxInt = int(^uint(0) >> 1)

// A Record is a single parsed record. Data is the payload, owned by the
// record; it retains no reference to the State that produced it.
type Record struct {
	Data []byte

	want crc.Masked
}

// Validate recomputes the checksum of the record's payload and compares
// it against the checksum stored in the stream, returning a
// *ChecksumError on mismatch. Reading never validates payloads itself:
// callers check integrity when (and if) they choose. Validate is
// idempotent.
func (r Record) Validate() error {
	if got := crc.Compute(r.Data); got != r.want {
		return &ChecksumError{Got: got, Want: r.want}
	}
	return nil
}

type phase uint8

const (
	readingHeader phase = iota
	readingData
)

// A State holds the progress of reading a single record, so that a
// record whose bytes arrive in pieces can be parsed across multiple
// calls to Read. One State tracks one stream; methods must not be
// called concurrently.
type State struct {
	phase phase

	// Header accumulator. nhdr counts the bytes of hdr filled so far.
	hdr  [headerSize]byte
	nhdr int

	// Payload accumulator, sized to length+footerSize once a header
	// has validated, nil otherwise. ndata counts the bytes filled.
	data  []byte
	ndata int
}

// NewState returns parse state for a fresh stream, positioned at a
// record boundary. No payload memory is held until a record header has
// been read and validated.
func NewState() *State {
	return new(State)
}

// Read parses the next record from r, resuming wherever the previous
// call left off. On success the returned record owns its payload; the
// state is reset for the next record and retains no payload memory.
//
// If r runs out of bytes before the record completes, Read returns
// ErrTruncated. This is not failure: the bytes read so far stay
// buffered in the state, and calling Read again (after the stream has
// grown) picks up exactly where parsing stopped. A source with nothing
// available must return (0, io.EOF) the way *os.File does at end of
// file, rather than blocking or returning a zero count with nil error.
//
// Reads never over-consume: no byte beyond the current record's frame
// is read from r, so a single reader may be handed to successive calls
// and records come out back to back.
//
// A record header whose length field fails its checksum yields a
// *HeaderChecksumError, and one whose declared length cannot be
// buffered yields a *TooLargeError. Both poison the stream: the length
// cannot be trusted to locate the next record, and further calls
// return the same error without consuming more input. Any other error
// from r is returned verbatim; like truncation it is resumable, since
// partial progress stays buffered.
func (s *State) Read(r io.Reader) (Record, error) {
	if s.phase == readingHeader {
		n, err := fill(r, s.hdr[s.nhdr:])
		s.nhdr += n
		if err != nil {
			return Record{}, err
		}
		length := binary.LittleEndian.Uint64(s.hdr[:lengthSize])
		want := crc.Get(s.hdr[lengthSize:])
		if got := crc.Compute(s.hdr[:lengthSize]); got != want {
			return Record{}, &HeaderChecksumError{Got: got, Want: want}
		}
		if length > uint64(maxInt-footerSize) {
			return Record{}, &TooLargeError{Length: length}
		}
		s.data = make([]byte, int(length)+footerSize)
		s.ndata = 0
		s.phase = readingData
	}
	n, err := fill(r, s.data[s.ndata:])
	s.ndata += n
	if err != nil {
		return Record{}, err
	}
	boundary := len(s.data) - footerSize
	rec := Record{
		Data: s.data[:boundary:boundary],
		want: crc.Get(s.data[boundary:]),
	}
	s.phase = readingHeader
	s.nhdr = 0
	s.data = nil
	s.ndata = 0
	return rec, nil
}

// fill reads from r until buf is full, returning the count read. If r
// runs dry first (io.EOF or io.ErrUnexpectedEOF, including immediately)
// fill reports ErrTruncated; other errors are passed through. In every
// case the bytes obtained remain in buf.
func fill(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	switch err {
	case nil:
		return n, nil
	case io.EOF, io.ErrUnexpectedEOF:
		return n, ErrTruncated
	}
	return n, err
}
