// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tfrecord

import (
	"io"

	"github.com/grailbio/tfrecord/errors"
)

// ScannerOpts configures a Scanner.
type ScannerOpts struct {
	// ValidateData verifies each record's payload checksum during Scan,
	// instead of leaving validation to the caller. A mismatch stops the
	// scanner with a *ChecksumError.
	ValidateData bool
}

// A Scanner provides a convenient loop over the records in a stream.
// The usual form:
//
//	sc := tfrecord.NewScanner(r, tfrecord.ScannerOpts{})
//	for sc.Scan() {
//		process(sc.Bytes())
//	}
//	if err := sc.Err(); err != nil {
//		// stream failed
//	}
//
// Scan returns false either because the stream is exhausted (Err
// returns nil) or because it failed (Err returns the cause). An
// exhausted stream is not final: when the underlying file is still
// being appended to, a later Scan resumes parsing exactly where the
// previous one stopped, so the loop above can simply be run again.
// Tailer wraps that pattern with a retry policy.
//
// Failures latch: once Err is non-nil, Scan keeps returning false. A
// caller that wants to ride out transient read errors from its own
// io.Reader should drive State.Read directly.
//
// Scanners are not safe for concurrent use.
type Scanner struct {
	rd    io.Reader
	opts  ScannerOpts
	state State
	rec   Record
	err   errors.Once
}

// NewScanner returns a scanner that reads records from r.
func NewScanner(r io.Reader, opts ScannerOpts) *Scanner {
	return &Scanner{
		rd:   r,
		opts: opts,
		err:  errors.Once{Ignored: []error{ErrTruncated}},
	}
}

// Scan advances to the next record, returning true if one was parsed.
func (s *Scanner) Scan() bool {
	if s.err.Err() != nil {
		return false
	}
	rec, err := s.state.Read(s.rd)
	if err != nil {
		s.err.Set(err)
		return false
	}
	if s.opts.ValidateData {
		if err := rec.Validate(); err != nil {
			s.err.Set(err)
			return false
		}
	}
	s.rec = rec
	return true
}

// Record returns the record parsed by the last successful Scan.
func (s *Scanner) Record() Record {
	return s.rec
}

// Bytes returns the payload of the record parsed by the last
// successful Scan.
func (s *Scanner) Bytes() []byte {
	return s.rec.Data
}

// Err returns the error that stopped the scanner, if any. Running out
// of input is not an error: after a Scan that returned false only
// because the stream was exhausted, Err returns nil.
func (s *Scanner) Err() error {
	return s.err.Err()
}

// Reset reinitializes the scanner to read from r, dropping all parse
// progress, any latched error, and the last record.
func (s *Scanner) Reset(r io.Reader) {
	s.rd = r
	s.state = State{}
	s.rec = Record{}
	s.err = errors.Once{Ignored: []error{ErrTruncated}}
}
