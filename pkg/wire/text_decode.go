package wire

import (
	"io"
	"strings"
	"unicode/utf16"

	"github.com/lk2023060901/objwire/pkg/util/merr"
)

func readUnit(r io.ByteReader, op string) (uint16, error) {
	b0, err := readByte(r, op)
	if err != nil {
		return 0, err
	}
	switch {
	case b0 < 0x80:
		return uint16(b0), nil
	case b0&0xe0 == 0xc0:
		b1, err := readContinuation(r, op)
		if err != nil {
			return 0, err
		}
		return uint16(b0&0x1f)<<6 | uint16(b1), nil
	case b0&0xf0 == 0xe0:
		b1, err := readContinuation(r, op)
		if err != nil {
			return 0, err
		}
		b2, err := readContinuation(r, op)
		if err != nil {
			return 0, err
		}
		return uint16(b0&0x0f)<<12 | uint16(b1)<<6 | uint16(b2), nil
	default:
		return 0, merr.WrapErrIoMalformedTag(op, b0)
	}
}

func readContinuation(r io.ByteReader, op string) (byte, error) {
	b, err := readByte(r, op)
	if err != nil {
		return 0, err
	}
	if b&0xc0 != 0x80 {
		return 0, merr.WrapErrIoMalformedTag(op, b)
	}
	return b & 0x3f, nil
}

// ReadChar 读取 AppendChar 写出的字符。
func ReadChar(r io.ByteReader) (uint16, error) {
	const op = "read char"
	tag, err := readByte(r, op)
	if err != nil {
		return 0, err
	}
	if tag != TagChar {
		return 0, merr.WrapErrIoMalformedTag(op, tag)
	}
	return readUnit(r, op)
}

// readTextLength 返回下一个分块的码元个数，final 表示是否为最后一块。
func readTextLength(r io.ByteReader, op string) (n int, final bool, err error) {
	tag, err := readByte(r, op)
	if err != nil {
		return 0, false, err
	}
	switch {
	case tag <= TextDirectMax:
		return int(tag), true, nil
	case tag >= TagTextShort && tag <= TagTextShort+3:
		b, err := readByte(r, op)
		if err != nil {
			return 0, false, err
		}
		return int(tag-TagTextShort)<<8 | int(b), true, nil
	case tag == TagTextChunk || tag == TagTextFinal:
		v, err := readUint16(r, op)
		if err != nil {
			return 0, false, err
		}
		return int(v), tag == TagTextFinal, nil
	default:
		return 0, false, merr.WrapErrIoMalformedTag(op, tag)
	}
}

// ReadUnits 读取文本并返回其 UTF-16 码元。
func ReadUnits(r io.ByteReader) ([]uint16, error) {
	const op = "read string"
	var units []uint16
	for {
		n, final, err := readTextLength(r, op)
		if err != nil {
			return nil, err
		}
		if units == nil {
			units = make([]uint16, 0, n)
		}
		for i := 0; i < n; i++ {
			c, err := readUnit(r, op)
			if err != nil {
				return nil, err
			}
			units = append(units, c)
		}
		if final {
			return units, nil
		}
	}
}

// ReadString 读取 AppendString 写出的文本。不成对的代理码元会被替换为 U+FFFD。
func ReadString(r io.ByteReader) (string, error) {
	units, err := ReadUnits(r)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.Grow(len(units))
	for _, c := range utf16.Decode(units) {
		sb.WriteRune(c)
	}
	return sb.String(), nil
}

// ReadChars 读取 n 个字符填充到 dst[off:off+n]。
func ReadChars(r io.ByteReader, dst []uint16, off, n int) error {
	if err := checkWindow(len(dst), off, n); err != nil {
		return err
	}
	for i := off; i < off+n; i++ {
		c, err := ReadChar(r)
		if err != nil {
			return err
		}
		dst[i] = c
	}
	return nil
}
