// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tfrecord

import (
	"errors"
	"fmt"

	"github.com/grailbio/tfrecord/crc"
)

// ErrTruncated is returned by State.Read when the stream ran out of
// bytes before a complete record was available. It is a retriable
// condition, not corruption: the parse state retains everything read so
// far, and a later call against the same State resumes mid-record once
// the stream has grown. Callers that know the stream is complete treat
// it as a clean end of input.
//
// A stream that ends exactly on a record boundary reports ErrTruncated
// too; the format gives a reader no way to tell "no next record" from
// "next record not yet flushed".
var ErrTruncated = errors.New("record truncated")

// A ChecksumError reports a payload whose contents do not match the
// checksum stored alongside it. It is returned by Record.Validate. The
// record's framing was intact, so the stream remains walkable; the
// caller decides whether the damaged payload is tolerable.
type ChecksumError struct {
	Got  crc.Masked // checksum of the payload as read
	Want crc.Masked // checksum stored in the stream
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: got %v, want %v", e.Got, e.Want)
}

// A HeaderChecksumError reports a record header whose length field does
// not match its stored checksum. The length cannot be trusted, so there
// is no way to locate the next record: the stream is unrecoverable past
// this point.
type HeaderChecksumError struct {
	Got  crc.Masked // checksum of the length bytes as read
	Want crc.Masked // checksum stored in the stream
}

func (e *HeaderChecksumError) Error() string {
	return fmt.Sprintf("length checksum mismatch: got %v, want %v", e.Got, e.Want)
}

// A TooLargeError reports a record whose declared payload length cannot
// be buffered on this platform. The header checksum validated, so the
// length was written that way; as with a corrupt header, the stream
// cannot be walked past it.
type TooLargeError struct {
	Length uint64 // the length field, verbatim
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("record too large to fit in memory (%d bytes)", e.Length)
}
