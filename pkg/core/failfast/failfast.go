// Package failfast turns broken invariants into panics that carry the cause and a stack.
// A Failure can be turned back into an error at a boundary with Recover.
package failfast

import (
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
)

// Failure is the value every helper in this package panics with
type Failure struct {
	Err   error
	Stack []byte
}

func (f *Failure) Error() string {
	return "fail-fast: " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func fail(err error) {
	panic(&Failure{Err: err, Stack: debug.Stack()})
}

// Err panics if err != nil
func Err(err error) {
	if err != nil {
		fail(err)
	}
}

// If panics with a formatted message if condition is false
func If(condition bool, format string, args ...interface{}) {
	if !condition {
		fail(fmt.Errorf(format, args...))
	}
}

// NotNil panics if v is nil, including typed nil pointers, funcs, maps, slices and channels
func NotNil(v interface{}, name string) {
	if v == nil {
		fail(fmt.Errorf("%s is nil", name))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		if rv.IsNil() {
			fail(fmt.Errorf("%s is nil", name))
		}
	}
}

// Recover converts a Failure panic into *errp. Other panics are re-raised.
// Use as: defer failfast.Recover(&err)
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	var f *Failure
	if err, ok := r.(error); ok && errors.As(err, &f) {
		*errp = f
		return
	}
	panic(r)
}
