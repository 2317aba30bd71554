package wire

import (
	"io"

	"go.uber.org/atomic"

	"github.com/lk2023060901/objwire/internal/pool/ringbuffer"
	"github.com/lk2023060901/objwire/pkg/util/merr"
)

// maxEmptyReads 为底层连续返回 (0, nil) 的容忍次数，与 bufio 保持一致。
const maxEmptyReads = 100

// Reader 在 io.Reader 之上提供带缓冲的类型化读取。Reader 不是并发安全的。
type Reader struct {
	src      io.Reader
	buf      *ringbuffer.RingBuffer
	consumed atomic.Int64
	err      error
}

// NewReader 创建一个 Reader，bufferSize <= 0 时使用 DefaultBufferSize。
func NewReader(src io.Reader, bufferSize int) *Reader {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Reader{
		src: src,
		buf: ringbuffer.Get(bufferSize),
	}
}

func (r *Reader) fill() error {
	if r.err != nil {
		return r.err
	}
	if r.buf == nil {
		return merr.WrapErrIoFailedReason("reader closed")
	}
	for i := 0; i < maxEmptyReads; i++ {
		n, err := r.buf.Fill(r.src)
		if n > 0 {
			return nil
		}
		if err != nil {
			r.err = err
			return err
		}
	}
	r.err = io.ErrNoProgress
	return r.err
}

// ReadByte 读取一个原始字节，实现 io.ByteReader；错误不做包装，输入结束时返回 io.EOF。
func (r *Reader) ReadByte() (byte, error) {
	if r.buf == nil || r.buf.IsEmpty() {
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	b, err := r.buf.ReadByte()
	if err == nil {
		r.consumed.Inc()
	}
	return b, err
}

// Read 实现 io.Reader，优先返回缓冲区中的数据。
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.buf == nil || r.buf.IsEmpty() {
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	n, _ := r.buf.Read(p)
	r.consumed.Add(int64(n))
	return n, nil
}

func (r *Reader) ReadBool() (bool, error)       { return ReadBool(r) }
func (r *Reader) ReadChar() (uint16, error)     { return ReadChar(r) }
func (r *Reader) ReadInt16() (int16, error)     { return ReadInt16(r) }
func (r *Reader) ReadInt32() (int32, error)     { return ReadInt32(r) }
func (r *Reader) ReadInt64() (int64, error)     { return ReadInt64(r) }
func (r *Reader) ReadFloat32() (float32, error) { return ReadFloat32(r) }
func (r *Reader) ReadFloat64() (float64, error) { return ReadFloat64(r) }
func (r *Reader) ReadString() (string, error)   { return ReadString(r) }
func (r *Reader) ReadUnits() ([]uint16, error)  { return ReadUnits(r) }

// Consumed 返回已经被解码消费的字节数。
func (r *Reader) Consumed() int64 {
	return r.consumed.Load()
}

// Close 归还缓冲区，不关闭底层 io.Reader。
func (r *Reader) Close() error {
	if r.buf != nil {
		ringbuffer.Put(r.buf)
		r.buf = nil
	}
	return nil
}
