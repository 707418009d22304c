package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type errCallable struct{ error }

func (e errCallable) Func() error { return e.error }

func TestCleanUp(t *testing.T) {
	const (
		closeMsg  = "close [seuozr]"
		returnMsg = "return [mntbnb]"
	)

	// No return error, no close error.
	gotErr := func() (err error) {
		e := errCallable{}
		defer CleanUp(e.Func, &err)
		return nil
	}()
	assert.NoError(t, gotErr)

	// No return error, close error.
	gotErr = func() (err error) {
		e := errCallable{errors.New(closeMsg)}
		defer CleanUp(e.Func, &err)
		return nil
	}()
	assert.Equal(t, gotErr.Error(), closeMsg)

	// Return error, no close error.
	gotErr = func() (err error) {
		e := errCallable{}
		defer CleanUp(e.Func, &err)
		return errors.New(returnMsg)
	}()
	assert.Equal(t, gotErr.Error(), returnMsg)

	// Return error, close error.
	gotErr = func() (err error) {
		e := errCallable{errors.New(closeMsg)}
		defer CleanUp(e.Func, &err)
		return errors.New(returnMsg)
	}()
	assert.Contains(t, gotErr.Error(), returnMsg)
	assert.Contains(t, gotErr.Error(), closeMsg)
}
