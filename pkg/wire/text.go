package wire

import (
	"unicode/utf16"
)

// appendUnit 以受限的 UTF-8 形式追加一个 UTF-16 码元。
func appendUnit(dst []byte, c uint16) []byte {
	switch {
	case c < 0x80:
		return append(dst, byte(c))
	case c < 0x800:
		return append(dst, byte(0xc0+((c>>6)&0x1f)), byte(0x80+(c&0x3f)))
	default:
		return append(dst,
			byte(0xe0+((c>>12)&0x0f)),
			byte(0x80+((c>>6)&0x3f)),
			byte(0x80+(c&0x3f)))
	}
}

// AppendChar 追加一个字符，等价于长度为 1 的文本。
func AppendChar(dst []byte, c uint16) []byte {
	return appendUnit(append(dst, TagChar), c)
}

func appendTextLength(dst []byte, n int) []byte {
	switch {
	case n <= TextDirectMax:
		return append(dst, byte(n))
	case n <= TextShortMax:
		return append(dst, TagTextShort+byte(n>>8), byte(n))
	default:
		return append(dst, TagTextFinal, byte(n>>8), byte(n))
	}
}

func appendUnits(dst []byte, units []uint16) []byte {
	for len(units) > TextChunkLength {
		dst = append(dst, TagTextChunk, byte(TextChunkLength>>8), byte(TextChunkLength&0xff))
		for _, c := range units[:TextChunkLength] {
			dst = appendUnit(dst, c)
		}
		units = units[TextChunkLength:]
	}
	dst = appendTextLength(dst, len(units))
	for _, c := range units {
		dst = appendUnit(dst, c)
	}
	return dst
}

// AppendString 追加文本。长度按 UTF-16 码元计算，超过 TextChunkLength 的文本分块写出。
// s 中的非法 UTF-8 字节会被替换为 U+FFFD。
func AppendString(dst []byte, s string) []byte {
	return appendUnits(dst, utf16.Encode([]rune(s)))
}

// AppendChars 追加 src[off:off+n] 中的字符，每个字符都带 TagChar。
func AppendChars(dst []byte, src []uint16, off, n int) ([]byte, error) {
	if err := checkWindow(len(src), off, n); err != nil {
		return dst, err
	}
	for _, c := range src[off : off+n] {
		dst = AppendChar(dst, c)
	}
	return dst, nil
}
