package errors

import "fmt"

// CleanUp is defer-able syntactic sugar that calls f and reports its
// error, if any, into *dst. Pass the caller's named return error:
//
//	func writeStream(path string) (err error) {
//		f, err := os.Create(path)
//		if err != nil { ... }
//		defer errors.CleanUp(f.Close, &err)
//		...
//	}
//
// When the caller already returns its own error, the cleanup error is
// appended to it rather than replacing it.
func CleanUp(cleanUp func() error, dst *error) {
	err2 := cleanUp()
	if err2 == nil {
		return
	}
	if *dst == nil {
		*dst = err2
		return
	}
	// err2 is not chained as *dst's cause: *dst may have a meaningful
	// cause already, and err2 may be unrelated to it.
	*dst = E(*dst, fmt.Sprintf("second error in Close: %v", err2))
}
