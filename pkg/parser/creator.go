package parser

import (
	"errors"
	"fmt"
	"reflect"

	"testkit/pkg/assertctor"
	"testkit/pkg/iftc"
	"testkit/pkg/unit"
)

// TestCreator builds tests for one constructor shape.
type TestCreator interface {
	// CanCreate reports whether class has the constructor shape this
	// creator needs
	CanCreate(class *Class) bool
	// CreateTest builds the test for method. A nil test without error means
	// the constructor produced nothing.
	CreateTest(class *Class, method Method) (unit.Test, error)
}

// ErrorKind classifies construction failures.
type ErrorKind int

const (
	// KindNoConstructor means the class has no constructor of the shape
	KindNoConstructor ErrorKind = iota + 1
	// KindWrongArgCount means the arguments did not match the constructor
	KindWrongArgCount
	// KindInstantiation means the constructor returned an error
	KindInstantiation
	// KindInvocation means the constructor panicked
	KindInvocation
	// KindProtection means the constructor is not public
	KindProtection
	// KindCast means the constructed value is not a test of the needed kind
	KindCast
)

// String implements fmt.Stringer
func (k ErrorKind) String() string {
	switch k {
	case KindNoConstructor:
		return "no-constructor"
	case KindWrongArgCount:
		return "wrong-arg-count"
	case KindInstantiation:
		return "instantiation"
	case KindInvocation:
		return "invocation"
	case KindProtection:
		return "protection"
	case KindCast:
		return "cast"
	default:
		return "unknown"
	}
}

// CreateError is returned by creators when a test cannot be built.
type CreateError struct {
	Kind   ErrorKind
	Class  string
	Method string
	Err    error
}

// Error implements the error interface
func (e *CreateError) Error() string {
	return fmt.Sprintf("%s: cannot create %s.%s: %v", e.Kind, e.Class, e.Method, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CreateError) Unwrap() error {
	return e.Err
}

var (
	stringType      = reflect.TypeOf("")
	implFactoryType = reflect.TypeOf((*iftc.ImplFactory)(nil)).Elem()

	legacyShape  = []reflect.Type{stringType}
	defaultShape = []reflect.Type{}
	factoryShape = []reflect.Type{stringType, implFactoryType}
)

// constructorFor finds the constructor of the exact shape regardless of
// protection.
func constructorFor(class *Class, method Method, shape []reflect.Type) (*assertctor.Constructor, error) {
	ctor := assertctor.GetSameConstructor(class, shape, assertctor.AnyProtection)
	if ctor == nil {
		return nil, &CreateError{Kind: KindNoConstructor, Class: class.Name, Method: method.Name,
			Err: fmt.Errorf("no constructor with parameters %v", shape)}
	}
	if !assertctor.HasProtection(*ctor, assertctor.Public) {
		return nil, &CreateError{Kind: KindProtection, Class: class.Name, Method: method.Name,
			Err: fmt.Errorf("constructor %s is %s", ctor.Name, ctor.EffectiveProtection())}
	}
	return ctor, nil
}

// instantiate calls ctor and converts the outcome into a test. Thread-death
// errors are re-raised.
func instantiate(class *Class, method Method, ctor *assertctor.Constructor, args ...interface{}) (unit.Test, error) {
	out, err := ctor.Call(args...)
	if err != nil {
		if unit.IsThreadDeath(err) {
			panic(err)
		}
		kind := KindInstantiation
		var invocation *assertctor.InvocationError
		switch {
		case errors.Is(err, assertctor.ErrWrongArgCount), errors.Is(err, assertctor.ErrArgType):
			kind = KindWrongArgCount
			err = fmt.Errorf("Arguments didn't match for constructor %s in class %s. Arguments = %s: %w",
				ctor, class.Name, describeArgs(args), err)
		case errors.As(err, &invocation):
			kind = KindInvocation
		}
		return nil, &CreateError{Kind: kind, Class: class.Name, Method: method.Name, Err: err}
	}
	if out == nil {
		return nil, nil
	}
	test, ok := out.(unit.Test)
	if !ok {
		return nil, &CreateError{Kind: KindCast, Class: class.Name, Method: method.Name,
			Err: fmt.Errorf("%T is not a unit.Test", out)}
	}
	return test, nil
}

func describeArgs(args []interface{}) string {
	s := "["
	for i, a := range args {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%T = '%v'", a, a)
	}
	return s + "]"
}

// LegacyCreator builds tests through a public func(name string) T
// constructor.
type LegacyCreator struct{}

// CanCreate implements TestCreator
func (LegacyCreator) CanCreate(class *Class) bool {
	return class != nil && assertctor.GetSameConstructor(class, legacyShape, assertctor.Public) != nil
}

// CreateTest implements TestCreator
func (LegacyCreator) CreateTest(class *Class, method Method) (unit.Test, error) {
	ctor, err := constructorFor(class, method, legacyShape)
	if err != nil {
		return nil, err
	}
	return instantiate(class, method, ctor, method.Name)
}

// String implements fmt.Stringer
func (LegacyCreator) String() string {
	return "LegacyCreator"
}

// DefaultCreator builds test cases through a public func() T constructor and
// names them with SetName.
type DefaultCreator struct{}

// CanCreate implements TestCreator
func (DefaultCreator) CanCreate(class *Class) bool {
	return class != nil && class.IsTestCase &&
		assertctor.GetSameConstructor(class, defaultShape, assertctor.Public) != nil
}

// CreateTest implements TestCreator
func (DefaultCreator) CreateTest(class *Class, method Method) (unit.Test, error) {
	ctor, err := constructorFor(class, method, defaultShape)
	if err != nil {
		return nil, err
	}
	test, err := instantiate(class, method, ctor)
	if err != nil || test == nil {
		return nil, err
	}
	tc, ok := test.(unit.TestCase)
	if !ok {
		return nil, &CreateError{Kind: KindCast, Class: class.Name, Method: method.Name,
			Err: fmt.Errorf("%T is not a unit.TestCase", test)}
	}
	tc.SetName(method.Name)
	return tc, nil
}

// String implements fmt.Stringer
func (DefaultCreator) String() string {
	return "DefaultCreator"
}

// FactoryCreator builds one test per factory through a public
// func(name string, f iftc.ImplFactory) T constructor.
type FactoryCreator struct {
	factories []iftc.ImplFactory
}

// NewFactoryCreator creates a factory creator over factories, in order.
func NewFactoryCreator(factories []iftc.ImplFactory) (*FactoryCreator, error) {
	if factories == nil {
		return nil, fmt.Errorf("no nil factory list: %w", unit.ErrIllegalArgument)
	}
	fc := &FactoryCreator{factories: make([]iftc.ImplFactory, len(factories))}
	for i, f := range factories {
		if f == nil {
			return nil, fmt.Errorf("factory %d is nil: %w", i, unit.ErrIllegalArgument)
		}
		fc.factories[i] = f
	}
	return fc, nil
}

// CanCreate implements TestCreator
func (fc *FactoryCreator) CanCreate(class *Class) bool {
	return class != nil && assertctor.GetSameConstructor(class, factoryShape, assertctor.Public) != nil
}

// CreateTest returns a suite with one test per factory. When no factory
// yields a test the suite holds a single warning test instead.
func (fc *FactoryCreator) CreateTest(class *Class, method Method) (unit.Test, error) {
	ctor, err := constructorFor(class, method, factoryShape)
	if err != nil {
		return nil, err
	}

	suite := unit.NewSuite(method.Name)
	good := 0
	for _, f := range fc.factories {
		test, err := instantiate(class, method, ctor, method.Name, f)
		if err != nil {
			return nil, err
		}
		if test != nil {
			good++
			suite.AddTest(test)
		}
	}
	if good == 0 {
		suite.AddTest(CreateWarningTest(fmt.Sprintf(
			"No factories or valid instances for test class %s, method %s.", class.Name, method.Name)))
	}
	return suite, nil
}

// String implements fmt.Stringer
func (fc *FactoryCreator) String() string {
	return fmt.Sprintf("FactoryCreator(%d factories)", len(fc.factories))
}
