// Package assertctor provides protection-aware lookup of registered
// constructors and assertions over their shape.
//
// Go has no constructor reflection, so a type's constructors are described
// explicitly as Constructor values wrapping the constructor funcs. The
// protection of a constructor follows its name: an exported name is Public,
// an unexported one is Package, unless Protection is set explicitly.
package assertctor

import (
	"errors"
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"

	"testkit/pkg/unit"
)

// Protection is a bit mask of constructor visibilities.
type Protection int

const (
	Public Protection = 1 << iota
	Protected
	Package
	Private

	// AnyProtection matches every constructor.
	AnyProtection = Public | Protected | Package | Private
)

// String returns a readable rendering of the mask
func (p Protection) String() string {
	if p == 0 {
		return "none"
	}
	if p == AnyProtection {
		return "any"
	}
	var out string
	for _, bit := range []struct {
		flag Protection
		name string
	}{{Public, "public"}, {Protected, "protected"}, {Package, "package"}, {Private, "private"}} {
		if p&bit.flag != 0 {
			if out != "" {
				out += "|"
			}
			out += bit.name
		}
	}
	return out
}

var (
	// ErrNotAFunc is returned when a Constructor does not wrap a func.
	ErrNotAFunc = errors.New("constructor is not a func")
	// ErrWrongArgCount is returned when Call receives the wrong number of arguments.
	ErrWrongArgCount = errors.New("wrong number of arguments")
	// ErrArgType is returned when an argument cannot be passed to the constructor.
	ErrArgType = errors.New("argument type mismatch")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// InvocationError wraps a panic raised by the constructor body.
type InvocationError struct {
	Constructor string
	Cause       error
}

// Error implements the error interface
func (e *InvocationError) Error() string {
	return fmt.Sprintf("constructor %s panicked: %v", e.Constructor, e.Cause)
}

// Unwrap returns the recovered cause.
func (e *InvocationError) Unwrap() error {
	return e.Cause
}

// Constructor describes one way of building a value.
type Constructor struct {
	// Name of the constructor func, used to derive the protection
	Name string
	// Func is the constructor itself. It must return T or (T, error).
	Func interface{}
	// Protection overrides the protection derived from Name when non-zero
	Protection Protection
}

// New describes fn as a constructor named name.
func New(name string, fn interface{}) Constructor {
	return Constructor{Name: name, Func: fn}
}

// WithProtection returns a copy of c with an explicit protection.
func (c Constructor) WithProtection(p Protection) Constructor {
	c.Protection = p
	return c
}

// Valid reports whether c wraps a func with one result, or a result and an
// error.
func (c Constructor) Valid() bool {
	if c.Func == nil {
		return false
	}
	ft := reflect.TypeOf(c.Func)
	if ft.Kind() != reflect.Func || ft.IsVariadic() {
		return false
	}
	switch ft.NumOut() {
	case 1:
		return true
	case 2:
		return ft.Out(1) == errorType
	}
	return false
}

// Params returns the parameter types, or nil for an invalid constructor.
func (c Constructor) Params() []reflect.Type {
	if !c.Valid() {
		return nil
	}
	ft := reflect.TypeOf(c.Func)
	params := make([]reflect.Type, ft.NumIn())
	for i := range params {
		params[i] = ft.In(i)
	}
	return params
}

// Result returns the type of the constructed value.
func (c Constructor) Result() reflect.Type {
	if !c.Valid() {
		return nil
	}
	return reflect.TypeOf(c.Func).Out(0)
}

// EffectiveProtection returns the explicit protection, or the one implied by
// the constructor name.
func (c Constructor) EffectiveProtection() Protection {
	if c.Protection != 0 {
		return c.Protection
	}
	r, _ := utf8.DecodeRuneInString(c.Name)
	if unicode.IsUpper(r) {
		return Public
	}
	return Package
}

// Call invokes the constructor with args. Nil arguments become the zero value
// of the parameter type. A panic in the constructor body is returned as an
// *InvocationError; an error returned by the constructor is passed through.
// A nil result is returned as an untyped nil.
func (c Constructor) Call(args ...interface{}) (out interface{}, err error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%s: %w", c.Name, ErrNotAFunc)
	}
	params := c.Params()
	if len(args) != len(params) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d: %w", c.Name, len(params), len(args), ErrWrongArgCount)
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(params[i])
			continue
		}
		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(params[i]) {
			return nil, fmt.Errorf("%s argument %d: %s is not assignable to %s: %w", c.Name, i, v.Type(), params[i], ErrArgType)
		}
		in[i] = v
	}

	var results []reflect.Value
	callErr := unit.Capture(func() error {
		results = reflect.ValueOf(c.Func).Call(in)
		return nil
	})
	if callErr != nil {
		return nil, &InvocationError{Constructor: c.Name, Cause: callErr}
	}

	if len(results) == 2 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	result := results[0]
	switch result.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if result.IsNil() {
			return nil, nil
		}
	}
	return result.Interface(), nil
}

// String renders the constructor signature
func (c Constructor) String() string {
	if !c.Valid() {
		return c.Name + "(<invalid>)"
	}
	return fmt.Sprintf("%s %s", c.Name, reflect.TypeOf(c.Func))
}
