package wire

import "io"

// sliceReader 是基于字节切片的 io.ByteReader，用于 Decode* 系列函数。
type sliceReader struct {
	buf []byte
	pos int
}

func (r *sliceReader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, io.EOF
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *sliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.buf) {
		return 0, io.EOF
	}
	n := copy(p, r.buf[r.pos:])
	r.pos += n
	return n, nil
}

func decode[T any](src []byte, dec func(io.ByteReader) (T, error)) (T, int, error) {
	r := &sliceReader{buf: src}
	v, err := dec(r)
	if err != nil {
		var zero T
		return zero, 0, err
	}
	return v, r.pos, nil
}

// Decode* 从 src 开头解码一个值，返回值与消耗的字节数。

func DecodeBool(src []byte) (bool, int, error)       { return decode(src, ReadBool) }
func DecodeChar(src []byte) (uint16, int, error)     { return decode(src, ReadChar) }
func DecodeInt16(src []byte) (int16, int, error)     { return decode(src, ReadInt16) }
func DecodeInt32(src []byte) (int32, int, error)     { return decode(src, ReadInt32) }
func DecodeInt64(src []byte) (int64, int, error)     { return decode(src, ReadInt64) }
func DecodeFloat32(src []byte) (float32, int, error) { return decode(src, ReadFloat32) }
func DecodeFloat64(src []byte) (float64, int, error) { return decode(src, ReadFloat64) }
func DecodeString(src []byte) (string, int, error)   { return decode(src, ReadString) }
