// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tfrecord

import (
	"context"
	"io"
	"time"

	"github.com/grailbio/tfrecord/retry"
)

// TailOpts configures a Tailer.
type TailOpts struct {
	// Policy determines how long to wait between polls while the
	// stream's next record is incomplete, and when to give up. Waiting
	// restarts for each record. If nil, polls back off from 50ms to 1s
	// and never give up (bound Next with a context instead).
	Policy retry.Policy

	// ValidateData verifies each record's payload checksum as it is
	// scanned, as in ScannerOpts.
	ValidateData bool
}

// A Tailer reads records from a stream that is still being written.
// Where a Scanner's loop ends at the current end of input, a Tailer
// waits, under a retry policy, for the rest of the record to appear.
//
// The reader must behave the way *os.File does: a read at end of file
// returns (0, io.EOF), and a read after the file grows returns the new
// bytes. Readers that block indefinitely instead defeat the policy but
// not correctness.
type Tailer struct {
	sc     *Scanner
	policy retry.Policy
}

// NewTailer returns a tailer reading records from r.
func NewTailer(r io.Reader, opts TailOpts) *Tailer {
	policy := opts.Policy
	if policy == nil {
		policy = retry.Backoff(50*time.Millisecond, time.Second, 1.5)
	}
	return &Tailer{
		sc:     NewScanner(r, ScannerOpts{ValidateData: opts.ValidateData}),
		policy: policy,
	}
}

// Next returns the next record in the stream, polling until it is
// complete. It returns early with the stream's error if parsing or
// validation fails, with the policy's error if the policy gives up, or
// with ctx's error if ctx is canceled or its deadline would expire
// before the next poll. Stream errors are final; policy and context
// errors leave the parse state intact, so a later Next (with a fresh
// context) continues from the same position.
func (t *Tailer) Next(ctx context.Context) (Record, error) {
	for try := 0; ; try++ {
		if t.sc.Scan() {
			return t.sc.Record(), nil
		}
		if err := t.sc.Err(); err != nil {
			return Record{}, err
		}
		if err := retry.Wait(ctx, t.policy, try); err != nil {
			return Record{}, err
		}
	}
}
