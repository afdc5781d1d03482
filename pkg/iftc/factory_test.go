package iftc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type ownerTests struct{}

func (o *ownerTests) factory() *Factory {
	return NewFactory("slice", true, func() (interface{}, error) {
		return []int{}, nil
	})
}

type memFactory struct {
	Factory
}

func (m *memFactory) CreateImplObject() (interface{}, error) {
	return map[string]int{}, nil
}

func TestSimpleClassName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"testkit/internal/sample.(*StackTests).Factories.func1", "StackTests"},
		{"testkit/internal/sample.StackTests.Factories.func1", "StackTests"},
		{"testkit/internal/sample.TestStack.func2.1", "TestStack"},
		{"testkit/internal/sample.newArrayStack", "newArrayStack"},
		{"testkit/internal/sample.(*T).Method-fm", "T"},
		{"*sample.arrayFactory", "arrayFactory"},
		{"sample.Box[testkit/internal/sample.Item]", "Box"},
		{"[]*sample.Item", "Item"},
		{"Plain", "Plain"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SimpleClassName(tt.in))
		})
	}
}

func TestSimpleClassName_Property(t *testing.T) {
	ident := rapid.StringMatching(`[A-Za-z][A-Za-z0-9_]{0,8}`)

	rapid.Check(t, func(t *rapid.T) {
		pkg := rapid.StringMatching(`[a-z]{1,6}(/[a-z]{1,6}){0,3}`).Draw(t, "pkg")
		owner := ident.Draw(t, "owner")
		closures := rapid.IntRange(0, 3).Draw(t, "closures")

		name := pkg + "." + owner
		if rapid.Bool().Draw(t, "method") {
			name = pkg + ".(*" + owner + ")." + ident.Draw(t, "method")
		}
		for i := 0; i < closures; i++ {
			name += ".func1"
		}

		if got := SimpleClassName(name); got != owner {
			t.Fatalf("SimpleClassName(%q) = %q, want %q", name, got, owner)
		}
	})
}

func TestNewFactory(t *testing.T) {
	t.Run("plain name", func(t *testing.T) {
		f := NewFactory("slice", false, func() (interface{}, error) { return 1, nil })
		assert.Equal(t, "slice", f.String())

		obj, err := f.CreateImplObject()
		require.NoError(t, err)
		assert.Equal(t, 1, obj)
		assert.NoError(t, f.TearDown(obj))
	})

	t.Run("owner prefix from closure", func(t *testing.T) {
		f := (&ownerTests{}).factory()
		assert.Equal(t, "ownerTests-slice", f.String())
	})

	t.Run("owner prefix from test function", func(t *testing.T) {
		f := NewFactory("x", true, func() (interface{}, error) { return nil, nil })
		assert.Equal(t, "TestNewFactory-x", f.String())
	})

	t.Run("tear down attached", func(t *testing.T) {
		var released []interface{}
		f := NewFactory("x", false, func() (interface{}, error) { return 1, nil }).
			WithTearDown(func(obj interface{}) error {
				released = append(released, obj)
				return errors.New("nope")
			})

		assert.EqualError(t, f.TearDown(7), "nope")
		assert.Equal(t, []interface{}{7}, released)
	})

	t.Run("no create func", func(t *testing.T) {
		_, err := NewFactory("x", true, nil).CreateImplObject()
		assert.ErrorIs(t, err, ErrNoCreate)
	})
}

func TestBaseFactory(t *testing.T) {
	m := &memFactory{}
	m.Factory = BaseFactory(m, "mem", true)

	var f ImplFactory = m
	assert.Equal(t, "memFactory-mem", f.String())

	obj, err := f.CreateImplObject()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{}, obj)

	_, isCx := f.(CxFactory)
	assert.True(t, isCx)

	plain := BaseFactory(m, "mem", false)
	assert.Equal(t, "mem", plain.String())
}

func TestFunc(t *testing.T) {
	f := Func("plain", func() (interface{}, error) { return "v", nil })

	_, isCx := f.(CxFactory)
	assert.False(t, isCx)
	assert.Equal(t, "plain", f.String())

	obj, err := f.CreateImplObject()
	require.NoError(t, err)
	assert.Equal(t, "v", obj)
}
