package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/objwire/pkg/util/merr"
)

func TestArrayWindow(t *testing.T) {
	src := []int32{1, 100, 5000, 300000, math.MinInt32}
	buf, err := AppendInt32s(nil, src, 1, 3)
	require.NoError(t, err)

	var expected []byte
	for _, v := range src[1:4] {
		expected = AppendInt32(expected, v)
	}
	assert.Equal(t, expected, buf)

	dst := make([]int32, 5)
	require.NoError(t, ReadInt32s(&sliceReader{buf: buf}, dst, 2, 3))
	assert.Equal(t, []int32{0, 0, 100, 5000, 300000}, dst)
}

func TestArrayWindowInvalid(t *testing.T) {
	src := []int64{1, 2, 3}
	_, err := AppendInt64s(nil, src, -1, 1)
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)
	_, err = AppendInt64s(nil, src, 1, 3)
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)
	_, err = AppendInt64s(nil, src, 4, 0)
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)

	buf, err := AppendInt64s(nil, src, 3, 0)
	require.NoError(t, err)
	assert.Empty(t, buf)

	err = ReadFloat64s(&sliceReader{}, make([]float64, 2), 1, 2)
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)
}

func TestArrayKinds(t *testing.T) {
	bools := []bool{true, false, true}
	buf, err := AppendBools(nil, bools, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{'T', 'F', 'T'}, buf)
	gotBools := make([]bool, 3)
	require.NoError(t, ReadBools(&sliceReader{buf: buf}, gotBools, 0, 3))
	assert.Equal(t, bools, gotBools)

	raw := []byte{9, 8, 7, 6}
	buf, err = AppendBytes(nil, raw, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{8, 7}, buf)
	gotRaw := make([]byte, 2)
	require.NoError(t, ReadBytes(&sliceReader{buf: buf}, gotRaw, 0, 2))
	assert.Equal(t, []byte{8, 7}, gotRaw)

	chars := []uint16{'a', 0x4e2d, 0xffff}
	buf, err = AppendChars(nil, chars, 0, 3)
	require.NoError(t, err)
	gotChars := make([]uint16, 3)
	require.NoError(t, ReadChars(&sliceReader{buf: buf}, gotChars, 0, 3))
	assert.Equal(t, chars, gotChars)

	shorts := []int16{-1, 300, math.MinInt16}
	buf, err = AppendInt16s(nil, shorts, 0, 3)
	require.NoError(t, err)
	gotShorts := make([]int16, 3)
	require.NoError(t, ReadInt16s(&sliceReader{buf: buf}, gotShorts, 0, 3))
	assert.Equal(t, shorts, gotShorts)

	floats := []float32{0, 1.5, -7}
	buf, err = AppendFloat32s(nil, floats, 0, 3)
	require.NoError(t, err)
	gotFloats := make([]float32, 3)
	require.NoError(t, ReadFloat32s(&sliceReader{buf: buf}, gotFloats, 0, 3))
	assert.Equal(t, floats, gotFloats)

	doubles := []float64{3.14159, 0, -2}
	buf, err = AppendFloat64s(nil, doubles, 0, 3)
	require.NoError(t, err)
	gotDoubles := make([]float64, 3)
	require.NoError(t, ReadFloat64s(&sliceReader{buf: buf}, gotDoubles, 0, 3))
	assert.Equal(t, doubles, gotDoubles)

	err = ReadBytes(&sliceReader{buf: []byte{1}}, make([]byte, 4), 0, 4)
	assert.ErrorIs(t, err, merr.ErrIoUnexpectEOF)
}
