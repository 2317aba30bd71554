package wire

import (
	"encoding/binary"
	"math"
)

// AppendBool 追加布尔值。
func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, TagTrue)
	}
	return append(dst, TagFalse)
}

// AppendByte 追加一个原始字节，不带 tag。
func AppendByte(dst []byte, v byte) []byte {
	return append(dst, v)
}

// AppendInt16 按 32 位整数的分级规则追加 v。
func AppendInt16(dst []byte, v int16) []byte {
	return AppendInt32(dst, int32(v))
}

// AppendInt32 以能精确表示 v 的最短分级追加 v。
func AppendInt32(dst []byte, v int32) []byte {
	switch Int32Tier(v) {
	case TierByte:
		return append(dst, byte(v+Int32ByteZero))
	case TierShort:
		return append(dst, byte((v>>8)+Int32ShortZero), byte(v))
	case TierTriple:
		return append(dst, byte((v>>16)+Int32TripleZero), byte(v>>8), byte(v))
	default:
		dst = append(dst, TagInt32)
		return binary.BigEndian.AppendUint32(dst, uint32(v))
	}
}

// AppendInt64 以能精确表示 v 的最短分级追加 v。
func AppendInt64(dst []byte, v int64) []byte {
	switch Int64Tier(v) {
	case TierByte:
		return append(dst, byte(v+Int64ByteZero))
	case TierShort:
		return append(dst, byte((v>>8)+Int64ShortZero), byte(v))
	case TierTriple:
		return append(dst, byte((v>>16)+Int64TripleZero), byte(v>>8), byte(v))
	case TierInt:
		dst = append(dst, TagInt64Int)
		return binary.BigEndian.AppendUint32(dst, uint32(v))
	default:
		dst = append(dst, TagInt64)
		return binary.BigEndian.AppendUint64(dst, uint64(v))
	}
}

func appendIntegerFloat(dst []byte, t Tier, v float64) []byte {
	switch t {
	case TierFloatZero:
		return append(dst, TagFloatZero)
	case TierFloatOne:
		return append(dst, TagFloatOne)
	case TierFloatByte:
		return append(dst, TagFloatByte, byte(int8(v)))
	default:
		s := int16(v)
		return append(dst, TagFloatShort, byte(s>>8), byte(s))
	}
}

// AppendFloat32 追加 v：整数精确值使用短格式，其余使用 4 字节形式。
func AppendFloat32(dst []byte, v float32) []byte {
	t := Float32Form(v)
	if t != TierFloat32 {
		return appendIntegerFloat(dst, t, float64(v))
	}
	dst = append(dst, TagFloat32)
	return binary.BigEndian.AppendUint32(dst, math.Float32bits(v))
}

// AppendFloat64 追加 v：依次尝试整数短格式、4 字节 float32 形式和 8 字节完整形式。
func AppendFloat64(dst []byte, v float64) []byte {
	switch t := Float64Form(v); t {
	case TierFloat32:
		dst = append(dst, TagFloat32)
		return binary.BigEndian.AppendUint32(dst, math.Float32bits(float32(v)))
	case TierFloat64:
		dst = append(dst, TagFloat64)
		return binary.BigEndian.AppendUint64(dst, math.Float64bits(v))
	default:
		return appendIntegerFloat(dst, t, v)
	}
}
