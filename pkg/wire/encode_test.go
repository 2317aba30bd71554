package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/objwire/pkg/util/merr"
)

type CodecSuite struct {
	suite.Suite
}

func (s *CodecSuite) TestInt32ByteTier() {
	for v := int32(Int32ByteMin); v <= Int32ByteMax; v++ {
		buf := AppendInt32(nil, v)
		s.Len(buf, 1, "value %d", v)
		got, n, err := DecodeInt32(buf)
		s.NoError(err)
		s.Equal(1, n)
		s.Equal(v, got)
	}
	s.Equal([]byte{0xba}, AppendInt32(nil, 42))
	s.Equal([]byte{0x80}, AppendInt32(nil, -16))
	s.Equal([]byte{0xbf}, AppendInt32(nil, 47))
}

func (s *CodecSuite) TestInt32Boundaries() {
	cases := []struct {
		v    int32
		tier Tier
		size int
	}{
		{-16, TierByte, 1},
		{47, TierByte, 1},
		{-17, TierShort, 2},
		{48, TierShort, 2},
		{-2048, TierShort, 2},
		{2047, TierShort, 2},
		{-2049, TierTriple, 3},
		{2048, TierTriple, 3},
		{-262144, TierTriple, 3},
		{262143, TierTriple, 3},
		{-262145, TierFull, 5},
		{262144, TierFull, 5},
		{math.MinInt32, TierFull, 5},
		{math.MaxInt32, TierFull, 5},
	}
	for _, c := range cases {
		s.Equal(c.tier, Int32Tier(c.v), "value %d", c.v)
		buf := AppendInt32(nil, c.v)
		s.Len(buf, c.size, "value %d", c.v)
		got, n, err := DecodeInt32(buf)
		s.NoError(err)
		s.Equal(c.size, n)
		s.Equal(c.v, got)
	}
	s.Equal([]byte{0xc7, 0xef}, AppendInt32(nil, -17))
	s.Equal([]byte{0xc8, 0x30}, AppendInt32(nil, 48))
	s.Equal([]byte{'I', 0x00, 0x04, 0x00, 0x00}, AppendInt32(nil, 262144))
}

func (s *CodecSuite) TestInt64Boundaries() {
	cases := []struct {
		v    int64
		tier Tier
		size int
	}{
		{-8, TierByte, 1},
		{15, TierByte, 1},
		{-9, TierShort, 2},
		{16, TierShort, 2},
		{-2048, TierShort, 2},
		{2047, TierShort, 2},
		{-2049, TierTriple, 3},
		{2048, TierTriple, 3},
		{-262144, TierTriple, 3},
		{262143, TierTriple, 3},
		{-262145, TierInt, 5},
		{math.MaxInt32, TierInt, 5},
		{math.MinInt32, TierInt, 5},
		{math.MaxInt32 + 1, TierFull, 9},
		{math.MinInt32 - 1, TierFull, 9},
		{math.MinInt64, TierFull, 9},
		{math.MaxInt64, TierFull, 9},
	}
	for _, c := range cases {
		s.Equal(c.tier, Int64Tier(c.v), "value %d", c.v)
		buf := AppendInt64(nil, c.v)
		s.Len(buf, c.size, "value %d", c.v)
		got, n, err := DecodeInt64(buf)
		s.NoError(err)
		s.Equal(c.size, n)
		s.Equal(c.v, got)
	}
	s.Equal([]byte{0xe0}, AppendInt64(nil, 0))
	s.Equal([]byte{0x59, 0xff, 0xfb, 0xff, 0xff}, AppendInt64(nil, -262145))
}

func (s *CodecSuite) TestInt16() {
	for _, v := range []int16{0, -16, 47, 48, -17, math.MinInt16, math.MaxInt16} {
		buf := AppendInt16(nil, v)
		s.Equal(AppendInt32(nil, int32(v)), buf)
		got, _, err := DecodeInt16(buf)
		s.NoError(err)
		s.Equal(v, got)
	}
	_, _, err := DecodeInt16(AppendInt32(nil, math.MaxInt16+1))
	s.ErrorIs(err, merr.ErrIoMalformed)
}

func (s *CodecSuite) TestFloat64Forms() {
	s.Equal([]byte{TagFloatZero}, AppendFloat64(nil, 0.0))
	s.Equal([]byte{TagFloatOne}, AppendFloat64(nil, 1.0))
	s.Equal([]byte{TagFloatByte, 0x80}, AppendFloat64(nil, -128))
	s.Equal([]byte{TagFloatByte, 0x7f}, AppendFloat64(nil, 127))
	s.Equal([]byte{TagFloatShort, 0x00, 0x80}, AppendFloat64(nil, 128))
	s.Equal([]byte{TagFloatShort, 0x80, 0x00}, AppendFloat64(nil, -32768))
	s.Equal(TierFloat32, Float64Form(32768))
	s.Equal(TierFloat32, Float64Form(0.5))

	buf := AppendFloat64(nil, 3.14159)
	s.Len(buf, 9)
	s.Equal(TagFloat64, buf[0])
	s.Equal(TierFloat64, Float64Form(3.14159))

	values := []float64{
		0, 1, -1, 127, -128, 128, 32767, -32768, 32768, 0.5, -0.25, 1e-3, 3.14159,
		math.MaxFloat64, math.SmallestNonzeroFloat64, math.MaxFloat32,
		math.Inf(1), math.Inf(-1),
	}
	for _, v := range values {
		got, n, err := DecodeFloat64(AppendFloat64(nil, v))
		s.NoError(err)
		s.Equal(len(AppendFloat64(nil, v)), n)
		s.Equal(math.Float64bits(v), math.Float64bits(got), "value %v", v)
	}
}

func (s *CodecSuite) TestNegativeZero() {
	negZero := math.Copysign(0, -1)
	s.Equal(TierFloat32, Float64Form(negZero))
	buf := AppendFloat64(nil, negZero)
	s.Equal([]byte{TagFloat32, 0x80, 0x00, 0x00, 0x00}, buf)
	got, _, err := DecodeFloat64(buf)
	s.NoError(err)
	s.True(math.Signbit(got))

	negZero32 := float32(negZero)
	got32, _, err := DecodeFloat32(AppendFloat32(nil, negZero32))
	s.NoError(err)
	s.Equal(math.Float32bits(negZero32), math.Float32bits(got32))
}

func (s *CodecSuite) TestNaN() {
	// float32 可以精确表示的 NaN 走 4 字节形式，并保留载荷位
	nan32 := math.Float32frombits(0x7fc00001)
	buf := AppendFloat32(nil, nan32)
	s.Len(buf, 5)
	got32, _, err := DecodeFloat32(buf)
	s.NoError(err)
	s.Equal(uint32(0x7fc00001), math.Float32bits(got32))

	// 低位载荷在窄化时会丢失，因此使用 8 字节形式
	nan64 := math.Float64frombits(0x7ff8000000000001)
	s.Equal(TierFloat64, Float64Form(nan64))
	buf = AppendFloat64(nil, nan64)
	s.Len(buf, 9)
	got, _, err := DecodeFloat64(buf)
	s.NoError(err)
	s.Equal(uint64(0x7ff8000000000001), math.Float64bits(got))

	// 任何形式下解码结果都与写入的位模式一致
	canonical := math.NaN()
	got, _, err = DecodeFloat64(AppendFloat64(nil, canonical))
	s.NoError(err)
	s.Equal(math.Float64bits(canonical), math.Float64bits(got))
}

func (s *CodecSuite) TestFloat32() {
	for _, v := range []float32{0, 1, -1, 2.5, -1024, 40000, math.MaxFloat32, math.SmallestNonzeroFloat32} {
		buf := AppendFloat32(nil, v)
		got, n, err := DecodeFloat32(buf)
		s.NoError(err)
		s.Equal(len(buf), n)
		s.Equal(math.Float32bits(v), math.Float32bits(got))
	}
	s.Equal([]byte{TagFloatZero}, AppendFloat32(nil, 0))

	_, _, err := DecodeFloat32(AppendFloat64(nil, 3.14159))
	s.ErrorIs(err, merr.ErrIoMalformed)
}

func (s *CodecSuite) TestBoolAndByte() {
	s.Equal([]byte{'T'}, AppendBool(nil, true))
	s.Equal([]byte{'F'}, AppendBool(nil, false))
	v, _, err := DecodeBool([]byte{'T'})
	s.NoError(err)
	s.True(v)
	_, _, err = DecodeBool([]byte{'X'})
	s.ErrorIs(err, merr.ErrIoMalformed)

	s.Equal([]byte{0xff}, AppendByte(nil, 0xff))
}

func (s *CodecSuite) TestMalformedAndTruncated() {
	_, _, err := DecodeInt32([]byte{0x00})
	s.ErrorIs(err, merr.ErrIoMalformed)
	s.Contains(err.Error(), "tag=0x00")

	_, _, err = DecodeInt64([]byte{'I', 0, 0, 0, 1})
	s.ErrorIs(err, merr.ErrIoMalformed)

	_, _, err = DecodeInt32([]byte{'I', 0x01})
	s.ErrorIs(err, merr.ErrIoUnexpectEOF)

	_, _, err = DecodeInt64(nil)
	s.ErrorIs(err, merr.ErrIoUnexpectEOF)

	_, _, err = DecodeFloat64([]byte{'D', 0, 0})
	s.ErrorIs(err, merr.ErrIoUnexpectEOF)
}

func TestCodec(t *testing.T) {
	suite.Run(t, new(CodecSuite))
}

func TestInt32RoundTripSweep(t *testing.T) {
	for v := int64(math.MinInt32); v <= math.MaxInt32; v += 7919 {
		buf := AppendInt32(nil, int32(v))
		got, n, err := DecodeInt32(buf)
		require.NoError(t, err)
		require.Equal(t, len(buf), n)
		require.Equal(t, int32(v), got)
	}
}

func TestInt64RoundTripShifts(t *testing.T) {
	for shift := 0; shift < 63; shift++ {
		for _, base := range []int64{1, -1, 3, -5} {
			v := base << shift
			for _, d := range []int64{-1, 0, 1} {
				got, _, err := DecodeInt64(AppendInt64(nil, v+d))
				require.NoError(t, err)
				assert.Equal(t, v+d, got)
			}
		}
	}
}
