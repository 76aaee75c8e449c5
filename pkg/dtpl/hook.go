package dtpl

import (
	"fmt"
)

// Reporter receives the messages produced while resolving templates.
type Reporter interface {
	Debug(msg string)
	Warning(msg string)
	Error(msg string, err error)
}

// RunHook runs user supplied code. Errors and panics are reported as "running <name>" and
// turned into the zero value of T with ok set to false.
func RunHook[T any](rep Reporter, name string, fn func() (T, error)) (out T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			err, isErr := r.(error)
			if !isErr {
				err = fmt.Errorf("%v", r)
			}
			report(rep, name, err)
			out, ok = *new(T), false
		}
	}()

	v, err := fn()
	if err != nil {
		report(rep, name, err)
		return *new(T), false
	}
	return v, true
}

func report(rep Reporter, name string, err error) {
	if rep == nil {
		return
	}
	rep.Error(fmt.Sprintf("running %s: %s", name, err.Error()), err)
}
