package parser

import (
	"fmt"

	"testkit/pkg/iftc"
	"testkit/pkg/logging"
	"testkit/pkg/unit"
)

const creatorSubsystem = "Creator"

// DelegateTestCreator tries a fixed list of creators in order.
type DelegateTestCreator struct {
	creators []TestCreator
}

// NewDelegateTestCreator creates a delegate over creators, which must be
// non-empty and contain no nil entries.
func NewDelegateTestCreator(creators ...TestCreator) (*DelegateTestCreator, error) {
	if len(creators) == 0 {
		return nil, fmt.Errorf("no creators: %w", unit.ErrIllegalArgument)
	}
	d := &DelegateTestCreator{creators: make([]TestCreator, len(creators))}
	for i, c := range creators {
		if c == nil {
			return nil, fmt.Errorf("creator %d is nil: %w", i, unit.ErrIllegalArgument)
		}
		d.creators[i] = c
	}
	return d, nil
}

// NewStandardCreator returns the usual delegate: the factory creator first,
// so that classes with both a factory and a name constructor become contract
// tests, then the legacy and the default creators.
func NewStandardCreator(factories []iftc.ImplFactory) (*DelegateTestCreator, error) {
	fc, err := NewFactoryCreator(factories)
	if err != nil {
		return nil, err
	}
	return NewDelegateTestCreator(fc, LegacyCreator{}, DefaultCreator{})
}

// CanCreate reports whether any creator claims class.
func (d *DelegateTestCreator) CanCreate(class *Class) bool {
	for _, c := range d.creators {
		if c.CanCreate(class) {
			return true
		}
	}
	return false
}

// CreateTest returns the first non-nil test produced by a creator that
// claims class. Failures are logged and the next creator is tried. It
// returns nil when every creator fails.
func (d *DelegateTestCreator) CreateTest(class *Class, method Method) (unit.Test, error) {
	for _, c := range d.creators {
		if !c.CanCreate(class) {
			continue
		}
		test, err := c.CreateTest(class, method)
		if err != nil {
			logging.Info(creatorSubsystem, "Failed to create test with creator %v: %v", c, err)
			continue
		}
		if test != nil {
			return test, nil
		}
	}
	return nil, nil
}
