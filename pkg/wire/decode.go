package wire

import (
	"io"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/lk2023060901/objwire/pkg/util/merr"
)

// ioError 将底层读取错误归类：EOF 视为截断，其余为传输失败。
func ioError(op string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return merr.WrapErrIoUnexpectEOF(op, err)
	}
	if merr.IsWireError(err) {
		return err
	}
	return merr.WrapErrIoFailed(op, err)
}

func readByte(r io.ByteReader, op string) (byte, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, ioError(op, err)
	}
	return b, nil
}

func readUint16(r io.ByteReader, op string) (uint16, error) {
	var v uint16
	for i := 0; i < 2; i++ {
		b, err := readByte(r, op)
		if err != nil {
			return 0, err
		}
		v = v<<8 | uint16(b)
	}
	return v, nil
}

func readUint32(r io.ByteReader, op string) (uint32, error) {
	var v uint32
	for i := 0; i < 4; i++ {
		b, err := readByte(r, op)
		if err != nil {
			return 0, err
		}
		v = v<<8 | uint32(b)
	}
	return v, nil
}

func readUint64(r io.ByteReader, op string) (uint64, error) {
	var v uint64
	for i := 0; i < 8; i++ {
		b, err := readByte(r, op)
		if err != nil {
			return 0, err
		}
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// ReadBool 读取 AppendBool 写出的布尔值。
func ReadBool(r io.ByteReader) (bool, error) {
	tag, err := readByte(r, "read bool")
	if err != nil {
		return false, err
	}
	switch tag {
	case TagTrue:
		return true, nil
	case TagFalse:
		return false, nil
	default:
		return false, merr.WrapErrIoMalformedTag("read bool", tag)
	}
}

// ReadByte 读取一个原始字节。
func ReadByte(r io.ByteReader) (byte, error) {
	return readByte(r, "read byte")
}

// ReadInt16 读取 AppendInt16 写出的值，超出 int16 范围的值视为格式错误。
func ReadInt16(r io.ByteReader) (int16, error) {
	v, err := ReadInt32(r)
	if err != nil {
		return 0, err
	}
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, merr.WrapErrIoMalformed("int16 out of range")
	}
	return int16(v), nil
}

// ReadInt32 读取 AppendInt32 写出的值。
func ReadInt32(r io.ByteReader) (int32, error) {
	const op = "read int32"
	tag, err := readByte(r, op)
	if err != nil {
		return 0, err
	}
	switch {
	case tag >= 0x80 && tag <= 0xbf:
		return int32(tag) - Int32ByteZero, nil
	case tag >= 0xc0 && tag <= 0xcf:
		b0, err := readByte(r, op)
		if err != nil {
			return 0, err
		}
		return (int32(tag)-Int32ShortZero)<<8 | int32(b0), nil
	case tag >= 0xd0 && tag <= 0xd7:
		v, err := readUint16(r, op)
		if err != nil {
			return 0, err
		}
		return (int32(tag)-Int32TripleZero)<<16 | int32(v), nil
	case tag == TagInt32:
		v, err := readUint32(r, op)
		if err != nil {
			return 0, err
		}
		return int32(v), nil
	default:
		return 0, merr.WrapErrIoMalformedTag(op, tag)
	}
}

// ReadInt64 读取 AppendInt64 写出的值。
func ReadInt64(r io.ByteReader) (int64, error) {
	const op = "read int64"
	tag, err := readByte(r, op)
	if err != nil {
		return 0, err
	}
	switch {
	case tag >= 0xd8 && tag <= 0xef:
		return int64(tag) - Int64ByteZero, nil
	case tag >= 0xf0:
		b0, err := readByte(r, op)
		if err != nil {
			return 0, err
		}
		return (int64(tag)-Int64ShortZero)<<8 | int64(b0), nil
	case tag >= 0x38 && tag <= 0x3f:
		v, err := readUint16(r, op)
		if err != nil {
			return 0, err
		}
		return (int64(tag)-Int64TripleZero)<<16 | int64(v), nil
	case tag == TagInt64Int:
		v, err := readUint32(r, op)
		if err != nil {
			return 0, err
		}
		return int64(int32(v)), nil
	case tag == TagInt64:
		v, err := readUint64(r, op)
		if err != nil {
			return 0, err
		}
		return int64(v), nil
	default:
		return 0, merr.WrapErrIoMalformedTag(op, tag)
	}
}

// readIntegerFloat 解析整数短格式，ok 为 false 表示 tag 不属于这一组。
func readIntegerFloat(r io.ByteReader, tag byte, op string) (float64, bool, error) {
	switch tag {
	case TagFloatZero:
		return 0, true, nil
	case TagFloatOne:
		return 1, true, nil
	case TagFloatByte:
		b, err := readByte(r, op)
		if err != nil {
			return 0, true, err
		}
		return float64(int8(b)), true, nil
	case TagFloatShort:
		v, err := readUint16(r, op)
		if err != nil {
			return 0, true, err
		}
		return float64(int16(v)), true, nil
	default:
		return 0, false, nil
	}
}

// ReadFloat32 读取 AppendFloat32 写出的值。
func ReadFloat32(r io.ByteReader) (float32, error) {
	const op = "read float32"
	tag, err := readByte(r, op)
	if err != nil {
		return 0, err
	}
	if v, ok, err := readIntegerFloat(r, tag, op); ok {
		return float32(v), err
	}
	if tag != TagFloat32 {
		return 0, merr.WrapErrIoMalformedTag(op, tag)
	}
	bits, err := readUint32(r, op)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadFloat64 读取 AppendFloat64 写出的值。
func ReadFloat64(r io.ByteReader) (float64, error) {
	const op = "read float64"
	tag, err := readByte(r, op)
	if err != nil {
		return 0, err
	}
	if v, ok, err := readIntegerFloat(r, tag, op); ok {
		return v, err
	}
	switch tag {
	case TagFloat32:
		bits, err := readUint32(r, op)
		if err != nil {
			return 0, err
		}
		return float64(math.Float32frombits(bits)), nil
	case TagFloat64:
		bits, err := readUint64(r, op)
		if err != nil {
			return 0, err
		}
		return math.Float64frombits(bits), nil
	default:
		return 0, merr.WrapErrIoMalformedTag(op, tag)
	}
}
