package parser

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"testkit/pkg/assertctor"
	"testkit/pkg/unit"
)

var (
	testType     = reflect.TypeOf((*unit.Test)(nil)).Elem()
	testCaseType = reflect.TypeOf((*unit.TestCase)(nil)).Elem()
)

// Method describes one method of a test class.
type Method struct {
	Name    string
	Public  bool
	NumIn   int
	NumOut  int
	Declare string
}

// IsTestMethod reports whether m has the shape of a test method, ignoring
// visibility.
func (m Method) IsTestMethod() bool {
	return m.NumIn == 0 && m.NumOut == 0 &&
		(strings.HasPrefix(m.Name, "Test") || strings.HasPrefix(m.Name, "test"))
}

// IsPublicTestMethod reports whether m is a test method that can be run.
func (m Method) IsPublicTestMethod() bool {
	return m.IsTestMethod() && m.Public
}

// Class describes a test type.
//
// Classes built with ClassOf are derived from a Go type. Hand-described
// classes set the fields directly; they may list unexported methods, which
// reflection never reports, and chain to a Super class explicitly.
type Class struct {
	Name       string
	Public     bool
	IsTest     bool
	IsTestCase bool
	Type       reflect.Type
	Methods    []Method
	Super      *Class
	Ctors      []assertctor.Constructor
}

// ClassOf describes the test type t, which may be a struct type or a pointer
// to one, with the given constructors.
func ClassOf(t reflect.Type, ctors ...assertctor.Constructor) *Class {
	if t == nil {
		return nil
	}
	ptr := t
	if t.Kind() != reflect.Ptr {
		ptr = reflect.PtrTo(t)
	}
	elem := ptr.Elem()

	c := &Class{
		Name:       qualifiedName(elem),
		Public:     isExported(elem.Name()),
		IsTest:     ptr.Implements(testType),
		IsTestCase: ptr.Implements(testCaseType),
		Type:       ptr,
		Methods:    methodsOf(ptr),
		Ctors:      ctors,
	}
	c.Super = embeddedTest(elem)
	return c
}

// Constructors implements assertctor.Provider
func (c *Class) Constructors() []assertctor.Constructor {
	return c.Ctors
}

// String returns the qualified class name
func (c *Class) String() string {
	return c.Name
}

// SimpleName returns the class name without its package qualifier.
func (c *Class) SimpleName() string {
	if i := strings.LastIndex(c.Name, "."); i >= 0 {
		return c.Name[i+1:]
	}
	return c.Name
}

// methodsOf lists the exported method set of ptr in lexical order.
func methodsOf(ptr reflect.Type) []Method {
	methods := make([]Method, 0, ptr.NumMethod())
	for i := 0; i < ptr.NumMethod(); i++ {
		m := ptr.Method(i)
		methods = append(methods, Method{
			Name:    m.Name,
			Public:  m.IsExported(),
			NumIn:   m.Type.NumIn() - 1,
			NumOut:  m.Type.NumOut(),
			Declare: qualifiedName(ptr.Elem()),
		})
	}
	return methods
}

// embeddedTest returns the first embedded struct of elem that is itself a
// test type.
func embeddedTest(elem reflect.Type) *Class {
	if elem.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < elem.NumField(); i++ {
		f := elem.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() != reflect.Struct {
			continue
		}
		if reflect.PtrTo(ft).Implements(testType) {
			return ClassOf(ft)
		}
	}
	return nil
}

func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

func isExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
