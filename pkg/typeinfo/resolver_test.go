package typeinfo

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/objwire/pkg/util/merr"
)

func TestTypeName(t *testing.T) {
	pkg := "github.com/lk2023060901/objwire/pkg/typeinfo"
	assert.Equal(t, "int32", TypeName(TypeOf[int32]()))
	assert.Equal(t, "string", TypeName(TypeOf[string]()))
	assert.Equal(t, pkg+".Point", TypeName(TypeOf[Point]()))
	assert.Equal(t, "*"+pkg+".Point", TypeName(TypeOf[*Point]()))
	assert.Equal(t, "[]*"+pkg+".Point", TypeName(TypeOf[[]*Point]()))
	assert.Equal(t, "[3]int64", TypeName(TypeOf[[3]int64]()))
	assert.Equal(t, "map[string][]uint8", TypeName(TypeOf[map[string][]byte]()))
	assert.Equal(t, "*reflect.rtype", TypeName(reflect.TypeOf(reflect.TypeOf(0))))
	assert.Equal(t, "nil", TypeName(nil))
}

func TestTypeRegistryResolve(t *testing.T) {
	r := NewTypeRegistry()

	for _, typ := range []reflect.Type{
		TypeOf[bool](),
		TypeOf[[]int32](),
		TypeOf[[][]string](),
		TypeOf[[4]float64](),
		TypeOf[*int64](),
		TypeOf[map[string][]byte](),
		TypeOf[map[int32]map[string]bool](),
		reflect.TypeOf(reflect.TypeOf(0)),
	} {
		got, err := r.Resolve(TypeName(typ))
		require.NoError(t, err, TypeName(typ))
		assert.Equal(t, typ, got)
	}

	_, err := r.Resolve(TypeName(TypeOf[*Point]()))
	assert.ErrorIs(t, err, merr.ErrClassResolution)

	require.NoError(t, r.RegisterType(TypeOf[Point]()))
	got, err := r.Resolve(TypeName(TypeOf[[]*Point]()))
	require.NoError(t, err)
	assert.Equal(t, TypeOf[[]*Point](), got)

	_, err = r.Resolve("[x]int32")
	assert.ErrorIs(t, err, merr.ErrClassResolution)
	_, err = r.Resolve("map[[]int32]bool")
	assert.ErrorIs(t, err, merr.ErrClassResolution)

	for _, name := range []string{
		"[4611686018427387904]int64",
		"[2147483648]bool",
		"[2147483647][2147483647]int64",
	} {
		_, err = r.Resolve(name)
		assert.ErrorIs(t, err, merr.ErrClassResolution, name)
	}
	got, err = r.Resolve("[1024]int64")
	require.NoError(t, err)
	assert.Equal(t, TypeOf[[1024]int64](), got)
}

func TestTypeRegistryRegister(t *testing.T) {
	r := NewTypeRegistry()
	require.NoError(t, r.Register("point", TypeOf[Point]()))
	require.NoError(t, r.Register("point", TypeOf[Point]()))
	assert.ErrorIs(t, r.Register("point", TypeOf[Color]()), merr.ErrParameterInvalid)
	assert.ErrorIs(t, r.Register("", TypeOf[Color]()), merr.ErrParameterInvalid)

	got, err := r.Resolve("point")
	require.NoError(t, err)
	assert.Equal(t, TypeOf[Point](), got)
}

func TestTypeRegistryLoaders(t *testing.T) {
	var tried []string
	first := func(name string) (reflect.Type, bool) {
		tried = append(tried, "first")
		return nil, false
	}
	second := func(name string) (reflect.Type, bool) {
		tried = append(tried, "second")
		if name == "legacy.Color" {
			return TypeOf[Color](), true
		}
		return nil, false
	}
	r := NewTypeRegistry(first)
	r.AddLoader(second)

	got, err := r.Resolve("legacy.Color")
	require.NoError(t, err)
	assert.Equal(t, TypeOf[Color](), got)
	assert.Equal(t, []string{"first", "second"}, tried)

	// 通过 Registry 按名称查找
	registry := NewRegistry(WithResolver(r))
	d, err := registry.GetByName("legacy.Color")
	require.NoError(t, err)
	assert.Equal(t, CategoryEnum, d.Category())
	assert.Same(t, Resolver(r), registry.Resolver())
}
