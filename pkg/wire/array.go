package wire

import (
	"io"

	"github.com/lk2023060901/objwire/pkg/util/merr"
)

// checkWindow 校验 [off, off+n) 是否落在长度为 size 的数组内。
func checkWindow(size, off, n int) error {
	if off < 0 || off > size {
		return merr.WrapErrParameterInvalidRange(0, size, off, "array offset out of range")
	}
	if n < 0 || n > size-off {
		return merr.WrapErrParameterInvalidRange(0, size-off, n, "array length out of range")
	}
	return nil
}

func appendWindow[T any](dst []byte, src []T, off, n int, enc func([]byte, T) []byte) ([]byte, error) {
	if err := checkWindow(len(src), off, n); err != nil {
		return dst, err
	}
	for _, v := range src[off : off+n] {
		dst = enc(dst, v)
	}
	return dst, nil
}

func readWindow[T any](r io.ByteReader, dst []T, off, n int, dec func(io.ByteReader) (T, error)) error {
	if err := checkWindow(len(dst), off, n); err != nil {
		return err
	}
	for i := off; i < off+n; i++ {
		v, err := dec(r)
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

// 以下函数逐个元素编码 src[off:off+n]，不写长度前缀。

func AppendBools(dst []byte, src []bool, off, n int) ([]byte, error) {
	return appendWindow(dst, src, off, n, AppendBool)
}

// AppendBytes 原样追加字节窗口。
func AppendBytes(dst []byte, src []byte, off, n int) ([]byte, error) {
	if err := checkWindow(len(src), off, n); err != nil {
		return dst, err
	}
	return append(dst, src[off:off+n]...), nil
}

func AppendInt16s(dst []byte, src []int16, off, n int) ([]byte, error) {
	return appendWindow(dst, src, off, n, AppendInt16)
}

func AppendInt32s(dst []byte, src []int32, off, n int) ([]byte, error) {
	return appendWindow(dst, src, off, n, AppendInt32)
}

func AppendInt64s(dst []byte, src []int64, off, n int) ([]byte, error) {
	return appendWindow(dst, src, off, n, AppendInt64)
}

func AppendFloat32s(dst []byte, src []float32, off, n int) ([]byte, error) {
	return appendWindow(dst, src, off, n, AppendFloat32)
}

func AppendFloat64s(dst []byte, src []float64, off, n int) ([]byte, error) {
	return appendWindow(dst, src, off, n, AppendFloat64)
}

// 以下函数读取 n 个元素填充 dst[off:off+n]。

func ReadBools(r io.ByteReader, dst []bool, off, n int) error {
	return readWindow(r, dst, off, n, ReadBool)
}

// ReadBytes 读取 n 个原始字节。r 同时实现 io.Reader 时使用 io.ReadFull。
func ReadBytes(r io.ByteReader, dst []byte, off, n int) error {
	if err := checkWindow(len(dst), off, n); err != nil {
		return err
	}
	if rr, ok := r.(io.Reader); ok {
		if _, err := io.ReadFull(rr, dst[off:off+n]); err != nil {
			return ioError("read bytes", err)
		}
		return nil
	}
	return readWindow(r, dst, off, n, ReadByte)
}

func ReadInt16s(r io.ByteReader, dst []int16, off, n int) error {
	return readWindow(r, dst, off, n, ReadInt16)
}

func ReadInt32s(r io.ByteReader, dst []int32, off, n int) error {
	return readWindow(r, dst, off, n, ReadInt32)
}

func ReadInt64s(r io.ByteReader, dst []int64, off, n int) error {
	return readWindow(r, dst, off, n, ReadInt64)
}

func ReadFloat32s(r io.ByteReader, dst []float32, off, n int) error {
	return readWindow(r, dst, off, n, ReadFloat32)
}

func ReadFloat64s(r io.ByteReader, dst []float64, off, n int) error {
	return readWindow(r, dst, off, n, ReadFloat64)
}
