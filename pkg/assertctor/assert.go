package assertctor

import (
	"reflect"

	"testkit/pkg/unit"
)

// Provider is anything that carries a set of constructors, typically a test
// class description.
type Provider interface {
	Constructors() []Constructor
}

// Set is a plain list of constructors.
type Set []Constructor

// Constructors implements Provider
func (s Set) Constructors() []Constructor {
	return s
}

// HasProtection reports whether the constructor's protection matches the
// mask. Package matches only constructors that are neither public,
// protected nor private.
func HasProtection(c Constructor, protection Protection) bool {
	p := c.EffectiveProtection()
	if protection&Public != 0 && p&Public != 0 {
		return true
	}
	if protection&Protected != 0 && p&Protected != 0 {
		return true
	}
	if protection&Private != 0 && p&Private != 0 {
		return true
	}
	return protection&Package != 0 && p&(Public|Protected|Private) == 0
}

// GetConstructor returns the first constructor of p whose arity equals
// len(args), whose i-th parameter accepts args[i] (a nil entry is a
// wildcard) and whose protection matches. It returns nil when none does.
func GetConstructor(p Provider, args []reflect.Type, protection Protection) *Constructor {
	if isNil(p) {
		unit.Fail("Null class argument.")
	}
	for _, c := range p.Constructors() {
		if HasProtection(c, protection) && acceptsArgs(c, args) {
			found := c
			return &found
		}
	}
	return nil
}

// GetSameConstructor returns the first constructor of p whose parameter types
// are exactly args and whose protection matches, or nil.
func GetSameConstructor(p Provider, args []reflect.Type, protection Protection) *Constructor {
	if isNil(p) {
		unit.Fail("Null class argument.")
	}
	for _, c := range p.Constructors() {
		if !c.Valid() {
			continue
		}
		params := c.Params()
		if len(params) != len(args) {
			continue
		}
		same := true
		for i := range params {
			if params[i] != args[i] {
				same = false
				break
			}
		}
		if same && HasProtection(c, protection) {
			found := c
			return &found
		}
	}
	return nil
}

func acceptsArgs(c Constructor, args []reflect.Type) bool {
	if !c.Valid() {
		return false
	}
	params := c.Params()
	if len(params) != len(args) {
		return false
	}
	for i, arg := range args {
		if arg != nil && !arg.AssignableTo(params[i]) {
			return false
		}
	}
	return true
}

// AssertHasConstructor fails with message unless GetConstructor finds a
// match.
func AssertHasConstructor(message string, p Provider, args []reflect.Type, protection Protection) {
	unit.AssertNotNull(message, GetConstructor(p, args, protection))
}

// AssertHasPublicConstructor is AssertHasConstructor with the Public mask.
func AssertHasPublicConstructor(message string, p Provider, args []reflect.Type) {
	AssertHasConstructor(message, p, args, Public)
}

// AssertHasSameConstructor fails with message unless GetSameConstructor
// finds a match.
func AssertHasSameConstructor(message string, p Provider, args []reflect.Type, protection Protection) {
	unit.AssertNotNull(message, GetSameConstructor(p, args, protection))
}

// AssertHasDefaultConstructor fails with message unless p has a public
// constructor without parameters.
func AssertHasDefaultConstructor(message string, p Provider) {
	AssertHasSameConstructor(message, p, nil, Public)
}

func isNil(p Provider) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
