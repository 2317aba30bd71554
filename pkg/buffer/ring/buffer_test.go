package ring

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferWrapAround(t *testing.T) {
	rb := New(8)
	assert.Equal(t, 8, rb.Cap())

	_, err := rb.Write([]byte("abcdef"))
	require.NoError(t, err)
	p := make([]byte, 4)
	n, err := rb.Read(p)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(p[:n]))

	// 写指针越过环形边界
	_, err = rb.Write([]byte("ghij"))
	require.NoError(t, err)
	assert.Equal(t, 6, rb.Buffered())
	assert.Equal(t, 8, rb.Cap())

	var out bytes.Buffer
	written, err := rb.WriteTo(&out)
	require.NoError(t, err)
	assert.EqualValues(t, 6, written)
	assert.Equal(t, "efghij", out.String())
	assert.True(t, rb.IsEmpty())
}

func TestBufferGrow(t *testing.T) {
	rb := New(4)
	for i := 0; i < 100; i++ {
		require.NoError(t, rb.WriteByte(byte(i)))
	}
	assert.Equal(t, 100, rb.Buffered())
	assert.Equal(t, 128, rb.Cap())
	for i := 0; i < 100; i++ {
		b, err := rb.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, byte(i), b)
	}
	_, err := rb.ReadByte()
	assert.ErrorIs(t, err, ErrIsEmpty)
}

func TestBufferFill(t *testing.T) {
	src := iotest.OneByteReader(bytes.NewReader([]byte("hello")))
	rb := New(0)
	var got []byte
	for {
		_, err := rb.Fill(src)
		for !rb.IsEmpty() {
			b, _ := rb.ReadByte()
			got = append(got, b)
		}
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, "hello", string(got))
}

func TestBufferShortWrite(t *testing.T) {
	rb := New(16)
	_, _ = rb.Write([]byte("0123456789"))
	_, err := rb.WriteTo(&limitedWriter{limit: 3})
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.Equal(t, 7, rb.Buffered())
}

type limitedWriter struct {
	limit int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		return w.limit, nil
	}
	return len(p), nil
}
