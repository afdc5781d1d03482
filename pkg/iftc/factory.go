package iftc

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// ImplFactory produces fresh implementation objects for a contract test.
type ImplFactory interface {
	// CreateImplObject returns a new object to test
	CreateImplObject() (interface{}, error)
	// String returns the factory identifier
	String() string
}

// CxFactory is an ImplFactory that also releases the objects it created.
type CxFactory interface {
	ImplFactory
	// TearDown releases an object previously returned by CreateImplObject
	TearDown(implObject interface{}) error
}

// CreateFunc builds one implementation object.
type CreateFunc func() (interface{}, error)

// TearDownFunc releases one implementation object.
type TearDownFunc func(implObject interface{}) error

// ErrNoCreate is returned by a Factory that was built without a create func
// and whose embedding type does not provide CreateImplObject.
var ErrNoCreate = errors.New("factory has no create function")

// Factory is the base implementation of CxFactory. Its identifier is either
// the plain name or "Owner-name" where Owner is the simple name of the code
// that declared the factory. TearDown is a no-op unless a tear-down func is
// attached.
type Factory struct {
	id       string
	create   CreateFunc
	tearDown TearDownFunc
}

// NewFactory creates a factory around create. With addClassName the
// identifier is prefixed with the simple name of the function or method that
// declared create.
func NewFactory(name string, addClassName bool, create CreateFunc) *Factory {
	f := &Factory{id: name, create: create}
	if addClassName && create != nil {
		owner := runtime.FuncForPC(reflect.ValueOf(create).Pointer())
		if owner != nil {
			f.id = SimpleClassName(owner.Name()) + "-" + name
		}
	}
	return f
}

// BaseFactory returns the identity base for a factory type that embeds
// Factory and implements CreateImplObject itself. With addClassName the
// identifier is prefixed with the simple type name of owner.
func BaseFactory(owner interface{}, name string, addClassName bool) Factory {
	f := Factory{id: name}
	if addClassName && owner != nil {
		f.id = SimpleClassName(reflect.TypeOf(owner).String()) + "-" + name
	}
	return f
}

// WithTearDown attaches a tear-down func and returns f.
func (f *Factory) WithTearDown(fn TearDownFunc) *Factory {
	f.tearDown = fn
	return f
}

// CreateImplObject calls the create func.
func (f *Factory) CreateImplObject() (interface{}, error) {
	if f.create == nil {
		return nil, fmt.Errorf("%s: %w", f.id, ErrNoCreate)
	}
	return f.create()
}

// TearDown calls the attached tear-down func, if any.
func (f *Factory) TearDown(implObject interface{}) error {
	if f.tearDown == nil {
		return nil
	}
	return f.tearDown(implObject)
}

// String returns the factory identifier.
func (f *Factory) String() string {
	return f.id
}

// plainFactory is an ImplFactory without tear-down support.
type plainFactory struct {
	name   string
	create CreateFunc
}

// Func returns an ImplFactory named name that cannot tear down what it
// creates.
func Func(name string, create CreateFunc) ImplFactory {
	return &plainFactory{name: name, create: create}
}

func (p *plainFactory) CreateImplObject() (interface{}, error) {
	if p.create == nil {
		return nil, fmt.Errorf("%s: %w", p.name, ErrNoCreate)
	}
	return p.create()
}

func (p *plainFactory) String() string {
	return p.name
}

// SimpleClassName reduces a qualified Go function or type name to the simple
// name of its outermost lexical owner:
//
//	testkit/internal/sample.(*StackTests).Factories.func1  -> StackTests
//	testkit/internal/sample.TestStack.func2.1             -> TestStack
//	*sample.arrayFactory                                   -> arrayFactory
func SimpleClassName(qualified string) string {
	name := strings.TrimLeft(qualified, "*[]")
	// generic instantiations carry their type arguments
	if i := strings.Index(name, "["); i > 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	// drop the package qualifier
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	// closures are decorated as .funcN
	if i := strings.Index(name, ".func"); i >= 0 {
		name = name[:i]
	}
	if strings.HasPrefix(name, "(") {
		if i := strings.Index(name, ")"); i >= 0 {
			name = name[1:i]
		}
	} else if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	return strings.TrimLeft(name, "*")
}
