// Package sample holds the suites the testkit binary runs to check itself:
// a contract test of three Stack implementations, a concurrency stress test
// and a soft-assertion scenario.
package sample

import (
	"errors"
	"sync"
)

// ErrClosed is returned when closing a stack twice.
var ErrClosed = errors.New("stack already closed")

// Stack is a LIFO of ints.
type Stack interface {
	Push(v int)
	Pop() (int, bool)
	Peek() (int, bool)
	Len() int
}

// SliceStack is a Stack backed by a slice. It is not safe for concurrent use.
type SliceStack struct {
	items []int
}

// NewSliceStack returns an empty SliceStack.
func NewSliceStack() *SliceStack {
	return &SliceStack{}
}

func (s *SliceStack) Push(v int) {
	s.items = append(s.items, v)
}

func (s *SliceStack) Pop() (int, bool) {
	n := len(s.items)
	if n == 0 {
		return 0, false
	}
	v := s.items[n-1]
	s.items = s.items[:n-1]
	return v, true
}

func (s *SliceStack) Peek() (int, bool) {
	n := len(s.items)
	if n == 0 {
		return 0, false
	}
	return s.items[n-1], true
}

func (s *SliceStack) Len() int {
	return len(s.items)
}

// SyncStack is a SliceStack guarded by a mutex.
type SyncStack struct {
	mu     sync.Mutex
	inner  SliceStack
	closed bool
}

// NewSyncStack returns an empty SyncStack.
func NewSyncStack() *SyncStack {
	return &SyncStack{}
}

func (s *SyncStack) Push(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Push(v)
}

func (s *SyncStack) Pop() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Pop()
}

func (s *SyncStack) Peek() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Peek()
}

func (s *SyncStack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Len()
}

// Close drops the contents. Closing twice returns ErrClosed.
func (s *SyncStack) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.inner.items = nil
	return nil
}

// LinkedStack is a Stack of linked nodes.
type LinkedStack struct {
	head *node
	size int
}

type node struct {
	value int
	next  *node
}

// NewLinkedStack returns an empty LinkedStack.
func NewLinkedStack() *LinkedStack {
	return &LinkedStack{}
}

func (s *LinkedStack) Push(v int) {
	s.head = &node{value: v, next: s.head}
	s.size++
}

func (s *LinkedStack) Pop() (int, bool) {
	if s.head == nil {
		return 0, false
	}
	v := s.head.value
	s.head = s.head.next
	s.size--
	return v, true
}

func (s *LinkedStack) Peek() (int, bool) {
	if s.head == nil {
		return 0, false
	}
	return s.head.value, true
}

func (s *LinkedStack) Len() int {
	return s.size
}
