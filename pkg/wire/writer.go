package wire

import (
	"io"

	"go.uber.org/atomic"

	"github.com/lk2023060901/objwire/internal/pool/ringbuffer"
	"github.com/lk2023060901/objwire/pkg/metrics"
	"github.com/lk2023060901/objwire/pkg/util/merr"
)

// DefaultBufferSize 为未指定时的缓冲区大小。
const DefaultBufferSize = 4096

type flusher interface {
	Flush() error
}

// Writer 在 io.Writer 之上提供带缓冲的类型化写入。
//
// 缓冲数据达到阈值时自动刷出。一旦底层写入失败，后续所有写入都返回同一个错误。
// Writer 不是并发安全的。
type Writer struct {
	dst       io.Writer
	buf       *ringbuffer.RingBuffer
	threshold int
	scratch   []byte
	written   atomic.Int64
	err       error
}

// NewWriter 创建一个 Writer，bufferSize <= 0 时使用 DefaultBufferSize。
func NewWriter(dst io.Writer, bufferSize int) *Writer {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Writer{
		dst:       dst,
		buf:       ringbuffer.Get(bufferSize),
		threshold: bufferSize,
		scratch:   make([]byte, 0, 16),
	}
}

func (w *Writer) emit(p []byte) error {
	if w.err != nil {
		return w.err
	}
	if w.buf == nil {
		return merr.WrapErrIoFailedReason("writer closed")
	}
	_, _ = w.buf.Write(p)
	w.written.Add(int64(len(p)))
	if w.buf.Buffered() >= w.threshold {
		return w.flushBuffer()
	}
	return nil
}

// Write 写入原始字节，实现 io.Writer。
func (w *Writer) Write(p []byte) (int, error) {
	if err := w.emit(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *Writer) WriteBool(v bool) error {
	return w.emit(AppendBool(w.scratch[:0], v))
}

// WriteByte 写入一个原始字节，实现 io.ByteWriter。
func (w *Writer) WriteByte(v byte) error {
	return w.emit(AppendByte(w.scratch[:0], v))
}

func (w *Writer) WriteChar(v uint16) error {
	return w.emit(AppendChar(w.scratch[:0], v))
}

func (w *Writer) WriteInt16(v int16) error {
	return w.emit(AppendInt16(w.scratch[:0], v))
}

func (w *Writer) WriteInt32(v int32) error {
	return w.emit(AppendInt32(w.scratch[:0], v))
}

func (w *Writer) WriteInt64(v int64) error {
	return w.emit(AppendInt64(w.scratch[:0], v))
}

func (w *Writer) WriteFloat32(v float32) error {
	return w.emit(AppendFloat32(w.scratch[:0], v))
}

func (w *Writer) WriteFloat64(v float64) error {
	return w.emit(AppendFloat64(w.scratch[:0], v))
}

func (w *Writer) WriteString(v string) error {
	return w.emit(AppendString(nil, v))
}

func (w *Writer) WriteUnits(v []uint16) error {
	return w.emit(appendUnits(nil, v))
}

// WriteEncoded 写入 enc 追加的字节，供批量编码使用。
func (w *Writer) WriteEncoded(enc func([]byte) ([]byte, error)) error {
	p, err := enc(nil)
	if err != nil {
		return err
	}
	return w.emit(p)
}

func (w *Writer) flushBuffer() error {
	if w.buf.IsEmpty() {
		return nil
	}
	n, err := w.buf.WriteTo(w.dst)
	metrics.WireBytesWritten.Add(float64(n))
	if err != nil {
		w.err = merr.WrapErrIoFailed("flush", err)
		return w.err
	}
	return nil
}

// Flush 刷出缓冲数据；底层实现了 Flush() error 时一并调用。
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if w.buf == nil {
		return nil
	}
	if err := w.flushBuffer(); err != nil {
		return err
	}
	if f, ok := w.dst.(flusher); ok {
		if err := f.Flush(); err != nil {
			w.err = merr.WrapErrIoFailed("flush", err)
			return w.err
		}
	}
	return nil
}

// Written 返回已经交给 Writer 的字节数（含尚未刷出的部分）。
func (w *Writer) Written() int64 {
	return w.written.Load()
}

// Buffered 返回尚未刷出的字节数。
func (w *Writer) Buffered() int {
	if w.buf == nil {
		return 0
	}
	return w.buf.Buffered()
}

// Close 刷出数据、归还缓冲区，并在底层实现 io.Closer 时关闭它。
func (w *Writer) Close() error {
	if w.buf == nil {
		return nil
	}
	err := w.Flush()
	ringbuffer.Put(w.buf)
	w.buf = nil
	if c, ok := w.dst.(io.Closer); ok {
		err = merr.Combine(err, merr.WrapErrIoFailed("close", c.Close()))
	}
	return err
}
