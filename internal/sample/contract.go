package sample

import (
	"reflect"

	"testkit/pkg/assertctor"
	"testkit/pkg/iftc"
	"testkit/pkg/parser"
	"testkit/pkg/unit"
)

var stackType = reflect.TypeOf((*Stack)(nil)).Elem()

// StackContract is the behaviour every Stack implementation must show.
type StackContract struct {
	iftc.InterfaceTestCase
}

// NewStackContract creates the contract test for method name run against
// objects of f.
func NewStackContract(name string, f iftc.ImplFactory) (*StackContract, error) {
	t := &StackContract{}
	if err := t.Init(t, name, stackType, f); err != nil {
		return nil, err
	}
	return t, nil
}

// StackContractClass describes StackContract to the suite machinery.
var StackContractClass = parser.ClassOf(reflect.TypeOf(StackContract{}),
	assertctor.New("NewStackContract", NewStackContract))

func (t *StackContract) stack() Stack {
	return t.CreateImplObject().(Stack)
}

func (t *StackContract) TestPushPop() {
	s := t.stack()
	s.Push(42)
	v, ok := s.Pop()
	unit.AssertTrue("pop after push", ok)
	unit.AssertEquals("popped value", 42, v)
}

func (t *StackContract) TestPopEmpty() {
	s := t.stack()
	_, ok := s.Pop()
	unit.AssertFalse("pop on empty stack", ok)
	_, ok = s.Peek()
	unit.AssertFalse("peek on empty stack", ok)
}

func (t *StackContract) TestLastInFirstOut() {
	s := t.stack()
	for i := 1; i <= 5; i++ {
		s.Push(i)
	}
	for want := 5; want >= 1; want-- {
		got, ok := s.Pop()
		unit.AssertTrue("stack drained early", ok)
		unit.AssertEquals("pop order", want, got)
	}
}

func (t *StackContract) TestPeekKeepsTop() {
	s := t.stack()
	s.Push(7)
	v, ok := s.Peek()
	unit.AssertTrue("peek on non-empty stack", ok)
	unit.AssertEquals("peeked value", 7, v)
	unit.AssertEquals("length after peek", 1, s.Len())
}

func (t *StackContract) TestLen() {
	s := t.stack()
	unit.AssertEquals("initial length", 0, s.Len())
	s.Push(1)
	s.Push(2)
	s.Push(3)
	unit.AssertEquals("length after pushes", 3, s.Len())
	s.Pop()
	unit.AssertEquals("length after pop", 2, s.Len())
}

// Factories returns one factory per Stack implementation.
func Factories() []iftc.ImplFactory {
	return []iftc.ImplFactory{
		iftc.NewFactory("slice", false, func() (interface{}, error) {
			return NewSliceStack(), nil
		}),
		iftc.NewFactory("sync", false, func() (interface{}, error) {
			return NewSyncStack(), nil
		}).WithTearDown(func(obj interface{}) error {
			return obj.(*SyncStack).Close()
		}),
		iftc.NewFactory("linked", false, func() (interface{}, error) {
			return NewLinkedStack(), nil
		}),
	}
}
