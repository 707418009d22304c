// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package errors

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// Once latches the first error it is given. Errors may be set from
// multiple goroutines; the zero Once is ready to use.
//
//	var e errors.Once
//	e.Set(errors.New("boom"))
type Once struct {
	// Ignored lists errors that Set drops instead of latching.
	// Sentinels that mark normal conditions, such as io.EOF, belong
	// here.
	Ignored []error
	mu      sync.Mutex
	err     unsafe.Pointer // stores *error
}

// Err returns the first error passed to Set, or nil. Err is cheap
// enough to call on hot paths.
func (e *Once) Err() error {
	p := atomic.LoadPointer(&e.err) // Acquire load
	if p == nil {
		return nil
	}
	return *(*error)(p)
}

// Set latches err. Only the first non-nil, non-Ignored error sticks;
// later calls have no effect.
func (e *Once) Set(err error) {
	if err != nil {
		for _, ignored := range e.Ignored {
			if err == ignored {
				return
			}
		}
		e.mu.Lock()
		if e.err == nil {
			atomic.StorePointer(&e.err, unsafe.Pointer(&err)) // Release store
		}
		e.mu.Unlock()
	}
}
