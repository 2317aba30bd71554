package wire

import "math"

// Tier 描述一个数值在线上选用的表示形式。
type Tier uint8

const (
	TierByte Tier = iota + 1
	TierShort
	TierTriple
	TierInt
	TierFull
	TierFloatZero
	TierFloatOne
	TierFloatByte
	TierFloatShort
	TierFloat32
	TierFloat64
)

var tierNames = map[Tier]string{
	TierByte:       "byte",
	TierShort:      "short",
	TierTriple:     "triple",
	TierInt:        "int",
	TierFull:       "full",
	TierFloatZero:  "float-zero",
	TierFloatOne:   "float-one",
	TierFloatByte:  "float-byte",
	TierFloatShort: "float-short",
	TierFloat32:    "float32",
	TierFloat64:    "float64",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "unknown"
}

// Int32Tier 返回能精确表示 v 的最小 32 位整数分级。
func Int32Tier(v int32) Tier {
	switch {
	case Int32ByteMin <= v && v <= Int32ByteMax:
		return TierByte
	case Int32ShortMin <= v && v <= Int32ShortMax:
		return TierShort
	case Int32TripleMin <= v && v <= Int32TripleMax:
		return TierTriple
	default:
		return TierFull
	}
}

// Int64Tier 返回能精确表示 v 的最小 64 位整数分级。
func Int64Tier(v int64) Tier {
	switch {
	case Int64ByteMin <= v && v <= Int64ByteMax:
		return TierByte
	case Int64ShortMin <= v && v <= Int64ShortMax:
		return TierShort
	case Int64TripleMin <= v && v <= Int64TripleMax:
		return TierTriple
	case math.MinInt32 <= v && v <= math.MaxInt32:
		return TierInt
	default:
		return TierFull
	}
}

// integerForm 判断 v 是否可以用整数短格式表示。
// 负零不算整数精确值，否则符号位会丢失；NaN 与无穷也不算。
func integerForm(v float64) (Tier, bool) {
	if v != math.Trunc(v) || v < math.MinInt16 || v > math.MaxInt16 {
		return 0, false
	}
	switch {
	case v == 0:
		if math.Signbit(v) {
			return 0, false
		}
		return TierFloatZero, true
	case v == 1:
		return TierFloatOne, true
	case math.MinInt8 <= v && v <= math.MaxInt8:
		return TierFloatByte, true
	default:
		return TierFloatShort, true
	}
}

// Float64Form 返回 v 在线上的表示形式。
//
// 判断 float32 精确时比较的是位模式：窄化再展宽后位模式不变才使用 4 字节形式，
// 因此 NaN 的载荷位要么完整保留在 4 字节形式中，要么回退到 8 字节形式。
func Float64Form(v float64) Tier {
	if t, ok := integerForm(v); ok {
		return t
	}
	if math.Float64bits(float64(float32(v))) == math.Float64bits(v) {
		return TierFloat32
	}
	return TierFloat64
}

// Float32Form 返回 v 在线上的表示形式，只会是整数短格式或 4 字节形式。
func Float32Form(v float32) Tier {
	if math.IsNaN(float64(v)) {
		return TierFloat32
	}
	if t, ok := integerForm(float64(v)); ok {
		return t
	}
	return TierFloat32
}
