package wire

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/objwire/pkg/util/merr"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out, 16)
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.WriteByte(0x7f))
	require.NoError(t, w.WriteChar('中'))
	require.NoError(t, w.WriteInt16(-300))
	require.NoError(t, w.WriteInt32(42))
	require.NoError(t, w.WriteInt64(math.MinInt64))
	require.NoError(t, w.WriteFloat32(2.5))
	require.NoError(t, w.WriteFloat64(3.14159))
	require.NoError(t, w.WriteString("objwire"))
	require.NoError(t, w.WriteEncoded(func(dst []byte) ([]byte, error) {
		return AppendInt32s(dst, []int32{7, 8, 9}, 0, 3)
	}))
	// 超过阈值的部分已经刷出
	assert.Greater(t, out.Len(), 0)
	require.NoError(t, w.Flush())
	assert.Equal(t, 0, w.Buffered())
	assert.EqualValues(t, out.Len(), w.Written())

	r := NewReader(iotest.HalfReader(bytes.NewReader(out.Bytes())), 8)
	defer r.Close()

	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)
	raw, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x7f), raw)
	c, err := r.ReadChar()
	require.NoError(t, err)
	assert.Equal(t, uint16('中'), c)
	i16, err := r.ReadInt16()
	require.NoError(t, err)
	assert.Equal(t, int16(-300), i16)
	i32, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(42), i32)
	i64, err := r.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), i64)
	f32, err := r.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), f32)
	f64, err := r.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, 3.14159, f64)
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "objwire", s)
	ints := make([]int32, 3)
	require.NoError(t, ReadInt32s(r, ints, 0, 3))
	assert.Equal(t, []int32{7, 8, 9}, ints)

	assert.EqualValues(t, out.Len(), r.Consumed())
	_, err = r.ReadInt32()
	assert.ErrorIs(t, err, merr.ErrIoUnexpectEOF)
}

type failingWriter struct {
	err error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	return 0, w.err
}

func TestWriterStickyError(t *testing.T) {
	cause := errors.New("broken pipe")
	w := NewWriter(&failingWriter{err: cause}, 16)
	require.NoError(t, w.WriteInt32(1))

	err := w.Flush()
	assert.ErrorIs(t, err, merr.ErrIoFailed)
	assert.ErrorIs(t, w.WriteInt32(2), merr.ErrIoFailed)
	assert.ErrorIs(t, w.Close(), merr.ErrIoFailed)
}

type closeRecorder struct {
	bytes.Buffer
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestWriterClose(t *testing.T) {
	dst := &closeRecorder{}
	w := NewWriter(dst, 0)
	require.NoError(t, w.WriteString("bye"))
	require.NoError(t, w.Close())
	assert.True(t, dst.closed)
	assert.Equal(t, AppendString(nil, "bye"), dst.Bytes())

	// 关闭后再写入返回错误
	assert.ErrorIs(t, w.WriteBool(true), merr.ErrIoFailed)
	assert.NoError(t, w.Close())
}

func TestReaderSourceError(t *testing.T) {
	cause := errors.New("connection reset")
	r := NewReader(iotest.ErrReader(cause), 0)
	_, err := r.ReadInt64()
	assert.ErrorIs(t, err, merr.ErrIoFailed)

	_, err = r.ReadByte()
	assert.ErrorIs(t, err, cause)

	empty := NewReader(bytes.NewReader(nil), 0)
	_, err = empty.ReadByte()
	assert.Equal(t, io.EOF, err)
}
