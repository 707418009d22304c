// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package compress wraps readers and writers in the whole-stream
// compressions applied to TFRecord files: gzip and zlib. The record
// format itself is uncompressed; compression, when present, covers the
// entire stream, so these wrappers sit between the file and the record
// reader.
package compress

import (
	"bytes"
	"io"
	"io/ioutil"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// errorReader is a ReadCloser implementation that always returns the given
// error.
type errorReader struct{ err error }

func (r *errorReader) Read(buf []byte) (int, error) { return 0, r.err }
func (r *errorReader) Close() error                 { return r.err }

func isGzipHeader(buf []byte) bool {
	if len(buf) < 10 {
		return false
	}
	if !(buf[0] == 0x1f && buf[1] == 0x8b) {
		return false
	}
	if !(buf[2] <= 3 || buf[2] == 8) {
		return false
	}
	if (buf[3] & 0xc0) != 0 {
		return false
	}
	if !(buf[9] <= 0xd || buf[9] == 0xff) {
		return false
	}
	return true
}

func isZlibHeader(buf []byte) bool {
	// RFC 1950: CMF declares deflate with a <=32KiB window, and
	// CMF<<8|FLG is a multiple of 31. FDICT never appears in practice.
	if len(buf) < 2 {
		return false
	}
	if buf[0]&0x0f != 8 || buf[0]>>4 > 7 {
		return false
	}
	if buf[1]&0x20 != 0 {
		return false
	}
	return (uint(buf[0])<<8|uint(buf[1]))%31 == 0
}

// NewReader creates an uncompressing reader by reading the first few bytes of
// the input and finding a magic header for either gzip or zlib. If a magic
// header is found, it returns an uncompressing ReadCloser and true. Else, it
// returns ioutil.NopCloser(r) and false.
//
// CAUTION: this function will misbehave when the input is a binary string
// that happens to begin with a gzip or zlib header. A bare TFRecord stream
// never does (its first byte pair is the low bytes of a record length), but
// arbitrary payloads offer no such guarantee.
func NewReader(r io.Reader) (io.ReadCloser, bool) {
	buf := bytes.Buffer{}
	_, err := io.CopyN(&buf, r, 128)
	var m io.Reader
	switch err {
	case io.EOF:
		m = &buf
	case nil:
		m = io.MultiReader(&buf, r)
	default:
		m = io.MultiReader(&buf, &errorReader{err})
	}
	if isGzipHeader(buf.Bytes()) {
		z, err := gzip.NewReader(m)
		if err != nil {
			return &errorReader{err}, false
		}
		return z, true
	}
	if isZlibHeader(buf.Bytes()) {
		z, err := zlib.NewReader(m)
		if err != nil {
			return &errorReader{err}, false
		}
		return z, true
	}
	return ioutil.NopCloser(m), false
}

// NewReaderPath creates a reader that uncompresses data read from the given
// reader.  The compression format is determined by the pathname extensions.
// The following extensions are recognized:
//
//  .gz => gzip format
//  .z, .zz => zlib format
//
// For other extensions, this function returns nil.
//
// If the caller receives a non-nil reader from this function, it must close
// the reader after use. For some file formats, Close() is the only place that
// reports file corruption.
func NewReaderPath(r io.Reader, path string) io.ReadCloser {
	switch extension(path) {
	case ".gz":
		z, err := gzip.NewReader(r)
		if err != nil {
			return &errorReader{err}
		}
		return z
	case ".z", ".zz":
		z, err := zlib.NewReader(r)
		if err != nil {
			return &errorReader{err}
		}
		return z
	}
	return nil
}

// NewWriterPath creates a WriteCloser that compresses data.  The compression
// format is determined by the pathname extensions, as in NewReaderPath. For
// other extensions, this function returns nil. If this function returns a
// non-nil writecloser, the caller must call Close() once after writing all
// the data.
func NewWriterPath(w io.Writer, path string) io.WriteCloser {
	switch extension(path) {
	case ".gz":
		return gzip.NewWriter(w)
	case ".z", ".zz":
		return zlib.NewWriter(w)
	}
	return nil
}

func extension(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return strings.ToLower(path[i:])
	}
	return ""
}
