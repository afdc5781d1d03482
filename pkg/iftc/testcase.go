package iftc

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"runtime/debug"
	"strings"

	"go.uber.org/multierr"

	"testkit/pkg/logging"
	"testkit/pkg/unit"
)

// NoClassNameEnv is the process-wide switch that removes the test type
// prefix from contract test names when set to "true".
const NoClassNameEnv = "TESTKIT_INTERFACETESTCASE_NO_CLASSNAME"

const subsystem = "InterfaceTestCase"

// InterfaceTestCase is the embeddable base for contract tests.
type InterfaceTestCase struct {
	unit.Case

	iface          reflect.Type
	factory        ImplFactory
	cx             CxFactory
	useClassInName *bool
	created        []interface{}
}

// Init binds self, the concrete contract test value, to the test method
// name, the type every created object must satisfy and the factory that
// creates them.
func (c *InterfaceTestCase) Init(self unit.TestCase, name string, iface reflect.Type, factory ImplFactory) error {
	if self == nil || iface == nil || factory == nil {
		return fmt.Errorf("no nil arguments: %w", unit.ErrIllegalArgument)
	}
	selfType := reflect.TypeOf(self)
	if iface == selfType || (selfType.Kind() == reflect.Ptr && iface == selfType.Elem()) {
		return &unit.AssertionFailedError{Message: fmt.Sprintf(
			"Interface under test argument (%s) is the same as the current test's type (%s). "+
				"Pass the interface or base type all tested implementations must satisfy.",
			iface, selfType)}
	}

	c.Bind(self, name)
	c.iface = iface
	c.factory = factory
	c.cx, _ = factory.(CxFactory)
	c.created = nil
	return nil
}

// InterfaceType returns the type created objects are checked against.
func (c *InterfaceTestCase) InterfaceType() reflect.Type {
	return c.iface
}

// Factory returns the bound factory.
func (c *InterfaceTestCase) Factory() ImplFactory {
	return c.factory
}

// SetUseClassInName overrides the process-wide name prefix switch for this
// test instance.
func (c *InterfaceTestCase) SetUseClassInName(use bool) {
	c.useClassInName = &use
}

// CreateImplObject asks the bound factory for a new object under test. The
// test fails when the factory errors, returns nil or returns an object of the
// wrong type. Objects from a CxFactory are remembered for TearDown even when
// the type check fails.
func (c *InterfaceTestCase) CreateImplObject() interface{} {
	unit.AssertNotNull("The factory instance was never set.", c.factory)

	var obj interface{}
	err := unit.Capture(func() error {
		var createErr error
		obj, createErr = c.factory.CreateImplObject()
		return createErr
	})
	if err != nil {
		if unit.IsThreadDeath(err) {
			panic(err)
		}
		unit.Fail(fmt.Sprintf("Factory %s threw exception %v during creation: %s",
			c.factory, err, stackOf(err, debug.Stack())))
	}

	unit.AssertNotNull(fmt.Sprintf("The implementation factory %s created a null.", c.factory), obj)

	if c.cx != nil {
		c.created = append(c.created, obj)
	}

	unit.AssertTrue(fmt.Sprintf(
		"The implementation factory did not create a valid class: created %T, but should have been of type %s.",
		obj, c.iface), isInstance(obj, c.iface))
	return obj
}

// Name renders "Type.Method[factory]", or "Method[factory]" when the type
// prefix is switched off.
func (c *InterfaceTestCase) Name() string {
	factory := "<nil>"
	if c.factory != nil {
		factory = c.factory.String()
	}
	return c.namePrefix() + c.MethodName() + "[" + factory + "]"
}

// String returns Name
func (c *InterfaceTestCase) String() string {
	return c.Name()
}

// TearDown hands every object created through a CxFactory back to the
// factory, newest first. Tear-down errors do not stop the loop; they are
// reported together once every object was released.
func (c *InterfaceTestCase) TearDown() error {
	var errs error
	if c.cx != nil {
		for len(c.created) > 0 {
			last := len(c.created) - 1
			obj := c.created[last]
			c.created = c.created[:last]

			err := unit.Capture(func() error {
				return c.cx.TearDown(obj)
			})
			if err == nil {
				continue
			}
			if unit.IsThreadDeath(err) {
				panic(err)
			}
			logging.Error(subsystem, err, "Factory %s failed to tear down %T", c.cx, obj)
			errs = multierr.Append(errs, err)
		}
	}

	baseErr := c.Case.TearDown()
	if errs != nil {
		return &unit.AssertionFailedError{
			Message: "Encountered factory tearDown exceptions: " + errs.Error(),
		}
	}
	return baseErr
}

// Pending returns how many created objects still await tear-down.
func (c *InterfaceTestCase) Pending() int {
	return len(c.created)
}

func (c *InterfaceTestCase) namePrefix() string {
	use := true
	if c.useClassInName != nil {
		use = *c.useClassInName
	} else if strings.EqualFold(os.Getenv(NoClassNameEnv), "true") {
		use = false
	}
	if !use {
		return ""
	}
	return SimpleClassName(reflect.TypeOf(c.Self()).String()) + "."
}

func isInstance(obj interface{}, t reflect.Type) bool {
	if t == nil {
		return false
	}
	ot := reflect.TypeOf(obj)
	if t.Kind() == reflect.Interface {
		return ot.Implements(t)
	}
	return ot.AssignableTo(t)
}

// stackOf prefers the stack of a recovered panic. A plain error carries none,
// so the stack of the failing call site is used instead.
func stackOf(err error, site []byte) string {
	var pe *unit.PanicError
	if errors.As(err, &pe) {
		return string(pe.Stack)
	}
	return string(site)
}
