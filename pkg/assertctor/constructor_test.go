package assertctor

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type widget struct {
	name string
}

func NewWidget(name string) *widget {
	return &widget{name: name}
}

func newWidgetChecked(name string) (*widget, error) {
	if name == "" {
		return nil, errors.New("empty name")
	}
	return &widget{name: name}, nil
}

func TestProtection_String(t *testing.T) {
	assert.Equal(t, "none", Protection(0).String())
	assert.Equal(t, "any", AnyProtection.String())
	assert.Equal(t, "public|private", (Public | Private).String())
}

func TestConstructor_EffectiveProtection(t *testing.T) {
	assert.Equal(t, Public, New("NewWidget", NewWidget).EffectiveProtection())
	assert.Equal(t, Package, New("newWidgetChecked", newWidgetChecked).EffectiveProtection())
	assert.Equal(t, Private, New("NewWidget", NewWidget).WithProtection(Private).EffectiveProtection())
}

func TestConstructor_Valid(t *testing.T) {
	assert.True(t, New("a", NewWidget).Valid())
	assert.True(t, New("b", newWidgetChecked).Valid())
	assert.False(t, New("c", nil).Valid())
	assert.False(t, New("d", 42).Valid())
	assert.False(t, New("e", func() {}).Valid())
	assert.False(t, New("f", func() (int, int) { return 0, 0 }).Valid())
	assert.False(t, New("g", func(...int) int { return 0 }).Valid())
}

func TestConstructor_Call(t *testing.T) {
	t.Run("single result", func(t *testing.T) {
		out, err := New("NewWidget", NewWidget).Call("x")
		require.NoError(t, err)
		assert.Equal(t, "x", out.(*widget).name)
	})

	t.Run("returned error", func(t *testing.T) {
		_, err := New("newWidgetChecked", newWidgetChecked).Call("")
		assert.EqualError(t, err, "empty name")
	})

	t.Run("wrong arg count", func(t *testing.T) {
		_, err := New("NewWidget", NewWidget).Call()
		assert.ErrorIs(t, err, ErrWrongArgCount)
	})

	t.Run("wrong arg type", func(t *testing.T) {
		_, err := New("NewWidget", NewWidget).Call(3)
		assert.ErrorIs(t, err, ErrArgType)
	})

	t.Run("nil argument is zero value", func(t *testing.T) {
		out, err := New("NewWidget", NewWidget).Call(nil)
		require.NoError(t, err)
		assert.Equal(t, "", out.(*widget).name)
	})

	t.Run("panic is invocation error", func(t *testing.T) {
		_, err := New("Boom", func() *widget { panic("boom") }).Call()
		var ie *InvocationError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "Boom", ie.Constructor)
	})

	t.Run("nil result", func(t *testing.T) {
		out, err := New("Nothing", func() *widget { return nil }).Call()
		require.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("not a func", func(t *testing.T) {
		_, err := New("x", "y").Call()
		assert.ErrorIs(t, err, ErrNotAFunc)
	})
}

var (
	stringType = reflect.TypeOf("")
	intType    = reflect.TypeOf(0)
	readerType = reflect.TypeOf((*io.Reader)(nil)).Elem()
	bufferType = reflect.TypeOf(&bytes.Buffer{})
)

func TestGetConstructor(t *testing.T) {
	set := Set{
		New("NewWidget", NewWidget),
		New("fromReader", func(r io.Reader) *widget { return &widget{} }),
		New("Pair", func(a string, b int) *widget { return &widget{} }).WithProtection(Protected),
	}

	tests := []struct {
		name       string
		args       []reflect.Type
		protection Protection
		want       string
	}{
		{"exact public", []reflect.Type{stringType}, Public, "NewWidget"},
		{"wildcard", []reflect.Type{nil}, Public, "NewWidget"},
		{"assignable interface", []reflect.Type{bufferType}, Package, "fromReader"},
		{"interface arg", []reflect.Type{readerType}, AnyProtection, "fromReader"},
		{"package excluded by public mask", []reflect.Type{bufferType}, Public, ""},
		{"protected", []reflect.Type{stringType, intType}, Protected, "Pair"},
		{"protected not package", []reflect.Type{stringType, intType}, Package, ""},
		{"arity mismatch", []reflect.Type{stringType, stringType, stringType}, AnyProtection, ""},
		{"not assignable", []reflect.Type{intType}, AnyProtection, ""},
		{"no default", nil, AnyProtection, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetConstructor(set, tt.args, tt.protection)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestGetSameConstructor(t *testing.T) {
	set := Set{
		New("fromReader", func(r io.Reader) *widget { return &widget{} }).WithProtection(Public),
		New("Default", func() *widget { return &widget{} }),
	}

	assert.Nil(t, GetSameConstructor(set, []reflect.Type{bufferType}, AnyProtection))
	assert.NotNil(t, GetSameConstructor(set, []reflect.Type{readerType}, Public))
	assert.NotNil(t, GetSameConstructor(set, nil, Public))
	assert.Nil(t, GetSameConstructor(set, nil, Private))
}

func TestAssertions(t *testing.T) {
	set := Set{New("NewWidget", NewWidget)}

	assert.NotPanics(t, func() {
		AssertHasConstructor("missing", set, []reflect.Type{stringType}, Public)
		AssertHasPublicConstructor("missing", set, []reflect.Type{nil})
		AssertHasSameConstructor("missing", set, []reflect.Type{stringType}, AnyProtection)
	})

	assert.PanicsWithError(t, "no default", func() {
		AssertHasDefaultConstructor("no default", set)
	})
	assert.PanicsWithError(t, "Null class argument.", func() {
		AssertHasConstructor("x", nil, nil, Public)
	})
}

// Any constructor shape is found exactly when the arity, parameter
// assignability and protection rules all hold for it.
func TestGetConstructor_Property(t *testing.T) {
	pool := []reflect.Type{stringType, intType, readerType, bufferType}
	protections := []Protection{Public, Protected, Package, Private}
	resultType := reflect.TypeOf(&widget{})

	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(0, 4).Draw(t, "constructors")
		var set Set
		for i := 0; i < count; i++ {
			arity := rapid.IntRange(0, 3).Draw(t, "arity")
			params := make([]reflect.Type, arity)
			for j := range params {
				params[j] = rapid.SampledFrom(pool).Draw(t, "param")
			}
			fnType := reflect.FuncOf(params, []reflect.Type{resultType}, false)
			fn := reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
				return []reflect.Value{reflect.ValueOf(&widget{})}
			})
			prot := rapid.SampledFrom(protections).Draw(t, "protection")
			set = append(set, New("ctor", fn.Interface()).WithProtection(prot))
		}

		argCount := rapid.IntRange(0, 3).Draw(t, "args")
		args := make([]reflect.Type, argCount)
		for i := range args {
			if rapid.Bool().Draw(t, "wildcard") {
				continue
			}
			args[i] = rapid.SampledFrom(pool).Draw(t, "arg")
		}
		mask := Protection(rapid.IntRange(0, int(AnyProtection)).Draw(t, "mask"))

		want := false
		for _, c := range set {
			if c.EffectiveProtection()&mask == 0 {
				continue
			}
			params := c.Params()
			if len(params) != len(args) {
				continue
			}
			ok := true
			for i := range args {
				if args[i] != nil && !args[i].AssignableTo(params[i]) {
					ok = false
				}
			}
			if ok {
				want = true
				break
			}
		}

		got := GetConstructor(set, args, mask) != nil
		if got != want {
			t.Fatalf("GetConstructor = %v, want %v (mask %s)", got, want, mask)
		}
	})
}
