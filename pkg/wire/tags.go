// Package wire 实现对象流使用的紧凑二进制编码。
//
// 编码规则沿用 Hessian 2 的分级思路：数值越小占用的字节越少，
// 只有在短格式无法精确表示时才回退到定长格式。所有多字节定长格式均为大端序。
//
// 本包只处理基本类型、文本与基本类型数组，不涉及对象身份与类型信息；
// 所有 Append* 与 Read* 函数都是无状态的，可以在任意多个 goroutine 中并发调用。
package wire

// 布尔值。
const (
	TagTrue  byte = 'T'
	TagFalse byte = 'F'
)

// 32 位整数。单字节区间的 tag = v + Int32ByteZero，其余区间类推。
const (
	Int32ByteMin  = -0x10
	Int32ByteMax  = 0x2f
	Int32ByteZero = 0x90

	Int32ShortMin  = -0x800
	Int32ShortMax  = 0x7ff
	Int32ShortZero = 0xc8

	Int32TripleMin  = -0x40000
	Int32TripleMax  = 0x3ffff
	Int32TripleZero = 0xd4

	TagInt32 byte = 'I'
)

// 64 位整数。
const (
	Int64ByteMin  = -0x08
	Int64ByteMax  = 0x0f
	Int64ByteZero = 0xe0

	Int64ShortMin  = -0x800
	Int64ShortMax  = 0x7ff
	Int64ShortZero = 0xf8

	Int64TripleMin  = -0x40000
	Int64TripleMax  = 0x3ffff
	Int64TripleZero = 0x3c

	// TagInt64Int 表示取值落在 int32 范围内，后跟 4 字节。
	TagInt64Int byte = 0x59
	TagInt64    byte = 'L'
)

// 浮点数。TagFloat32 后跟 float32 的 4 字节位模式，TagFloat64 后跟 8 字节位模式。
const (
	TagFloatZero  byte = 0x5b
	TagFloatOne   byte = 0x5c
	TagFloatByte  byte = 0x5d
	TagFloatShort byte = 0x5e
	TagFloat32    byte = 0x5f
	TagFloat64    byte = 'D'
)

// 文本。长度单位为 UTF-16 码元。
const (
	TextDirectMax   = 0x1f
	TextShortMax    = 0x3ff
	TextChunkLength = 0x8000

	TagTextShort byte = 0x30
	TagTextChunk byte = 'R'
	TagTextFinal byte = 'S'

	// TagChar 即长度为 1 的直接文本。
	TagChar byte = 0x01
)
