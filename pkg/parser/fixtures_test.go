package parser

import (
	"errors"
	"reflect"

	"testkit/pkg/assertctor"
	"testkit/pkg/iftc"
	"testkit/pkg/unit"
)

type LegacyTests struct {
	unit.Case
}

func NewLegacyTests(name string) *LegacyTests {
	t := &LegacyTests{}
	t.Bind(t, name)
	return t
}

func (t *LegacyTests) TestA()        {}
func (t *LegacyTests) TestB()        {}
func (t *LegacyTests) Helper()       {}
func (t *LegacyTests) TestArg(int)   {}
func (t *LegacyTests) TestOut() bool { return true }

var legacyClass = ClassOf(reflect.TypeOf(LegacyTests{}),
	assertctor.New("NewLegacyTests", NewLegacyTests))

type DefaultTests struct {
	unit.Case
}

func NewDefaultTests() *DefaultTests {
	t := &DefaultTests{}
	t.Bind(t, "")
	return t
}

func (t *DefaultTests) TestOne() {}

var defaultClass = ClassOf(reflect.TypeOf(&DefaultTests{}),
	assertctor.New("NewDefaultTests", NewDefaultTests))

type Greeter interface {
	Greet() string
}

type english struct{}

func (english) Greet() string { return "hello" }

type GreeterContract struct {
	iftc.InterfaceTestCase
}

func NewGreeterContract(name string, f iftc.ImplFactory) (*GreeterContract, error) {
	t := &GreeterContract{}
	if err := t.Init(t, name, reflect.TypeOf((*Greeter)(nil)).Elem(), f); err != nil {
		return nil, err
	}
	return t, nil
}

func NewGreeterContractByName(name string) *GreeterContract {
	t := &GreeterContract{}
	t.Bind(t, name)
	return t
}

func (t *GreeterContract) TestGreets() {
	g := t.CreateImplObject().(Greeter)
	unit.AssertEquals("greeting", "hello", g.Greet())
}

func (t *GreeterContract) TestNotEmpty() {
	g := t.CreateImplObject().(Greeter)
	unit.AssertTrue("empty greeting", g.Greet() != "")
}

var greeterClass = ClassOf(reflect.TypeOf(GreeterContract{}),
	assertctor.New("NewGreeterContract", NewGreeterContract),
	assertctor.New("NewGreeterContractByName", NewGreeterContractByName))

func greeterFactories(names ...string) []iftc.ImplFactory {
	var out []iftc.ImplFactory
	for _, n := range names {
		out = append(out, iftc.NewFactory(n, false, func() (interface{}, error) {
			return english{}, nil
		}))
	}
	return out
}

type BaseTests struct {
	unit.Case
	calls []string
}

func (t *BaseTests) TestBase()   { t.calls = append(t.calls, "base.TestBase") }
func (t *BaseTests) TestShared() { t.calls = append(t.calls, "base.TestShared") }

type DerivedTests struct {
	BaseTests
}

func NewDerivedTests(name string) *DerivedTests {
	t := &DerivedTests{}
	t.Bind(t, name)
	return t
}

func (t *DerivedTests) TestShared()  { t.calls = append(t.calls, "derived.TestShared") }
func (t *DerivedTests) TestDerived() { t.calls = append(t.calls, "derived.TestDerived") }

var derivedClass = ClassOf(reflect.TypeOf(DerivedTests{}),
	assertctor.New("NewDerivedTests", NewDerivedTests))

type hiddenTests struct {
	unit.Case
}

func (t *hiddenTests) TestHidden() {}

type NotATest struct{}

func (NotATest) TestNothing() {}

type BrokenTests struct {
	unit.Case
}

func (t *BrokenTests) TestX() {}

func newBrokenTests(name string) *BrokenTests {
	return &BrokenTests{}
}

func NewBrokenTestsErr(name string) (*BrokenTests, error) {
	return nil, errors.New("cannot build")
}

func NewBrokenTestsPanic(name string) *BrokenTests {
	panic("constructor exploded")
}

func NewBrokenTestsNil(name string) *BrokenTests {
	return nil
}

func NewNotATestValue(name string) string {
	return name
}
