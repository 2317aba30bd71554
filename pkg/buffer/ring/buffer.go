// Copyright (c) 2019 The Gnet Authors. All rights reserved.
// Copyright (c) 2019 Chao yuepan, Allen Xu
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE


// Package ring 实现流编解码使用的环形暂存缓冲区。
//
// 写端把编码结果追加进缓冲区，积累到阈值后用 WriteTo 一次性刷到底层 io.Writer；
// 读端用 Fill 从底层 io.Reader 补充数据，再逐字节消费。
package ring

import (
	"errors"
	"io"
	"math/bits"
)

const (
	// DefaultBufferSize 是未指定容量时首次扩容使用的大小。
	DefaultBufferSize   = 1024     // 1KB
	bufferGrowThreshold = 4 * 1024 // 4KB
)

// ErrIsEmpty 表示当前环形缓冲区为空，无法继续读取。
var ErrIsEmpty = errors.New("ring-buffer is empty")

// Buffer 是一个环形缓冲区，实现了 io.Reader、io.ByteReader、io.Writer 与 io.ByteWriter。
// Buffer 不是并发安全的，一个流独占一个 Buffer。
type Buffer struct {
	buf     []byte // 底层字节切片
	size    int    // 缓冲区容量（始终为 2 的幂）
	r       int    // 下一次读取位置
	w       int    // 下一次写入位置
	isEmpty bool   // r == w 时用于区分“空/满”状态
}

// New 创建一个给定初始容量的 Buffer，size 会被向上取整为 2 的幂。
func New(size int) *Buffer {
	if size <= 0 {
		return &Buffer{isEmpty: true}
	}
	size = ceilToPowerOfTwo(size)
	return &Buffer{
		buf:     make([]byte, size),
		size:    size,
		isEmpty: true,
	}
}

// Read 读取至多 len(p) 个字节；缓冲区为空时返回 ErrIsEmpty。
func (rb *Buffer) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if rb.isEmpty {
		return 0, ErrIsEmpty
	}

	head, tail := rb.readable()
	n = copy(p, head)
	if n < len(p) {
		n += copy(p[n:], tail)
	}
	rb.advanceRead(n)
	return n, nil
}

// ReadByte 读取并返回下一个字节，当缓冲区为空时返回 ErrIsEmpty。
func (rb *Buffer) ReadByte() (byte, error) {
	if rb.isEmpty {
		return 0, ErrIsEmpty
	}
	b := rb.buf[rb.r]
	rb.advanceRead(1)
	return b, nil
}

// Write 将 p 追加到缓冲区，空间不足时自动扩容，总是返回 len(p), nil。
func (rb *Buffer) Write(p []byte) (n int, err error) {
	n = len(p)
	if n == 0 {
		return 0, nil
	}
	if free := rb.Available(); n > free {
		rb.grow(rb.size + n - free)
	}

	c := copy(rb.buf[rb.w:], p)
	if c < n {
		copy(rb.buf, p[c:])
	}
	rb.w = (rb.w + n) & (rb.size - 1)
	rb.isEmpty = false
	return n, nil
}

// WriteByte 向缓冲区写入单个字节。
func (rb *Buffer) WriteByte(c byte) error {
	if rb.Available() < 1 {
		rb.grow(rb.size + 1)
	}
	rb.buf[rb.w] = c
	rb.w = (rb.w + 1) & (rb.size - 1)
	rb.isEmpty = false
	return nil
}

// Fill 调用一次 src.Read，把读到的数据追加到缓冲区的连续空闲区域。
// 缓冲区已满时先扩容。src 返回的 io.EOF 原样透出。
func (rb *Buffer) Fill(src io.Reader) (int, error) {
	if rb.Available() == 0 {
		rb.grow(rb.size + 1)
	}
	end := rb.size
	if rb.w < rb.r {
		end = rb.r
	}
	n, err := src.Read(rb.buf[rb.w:end])
	if n < 0 {
		panic("ring.Buffer.Fill: reader returned negative count from Read")
	}
	if n > 0 {
		rb.w = (rb.w + n) & (rb.size - 1)
		rb.isEmpty = false
	}
	return n, err
}

// WriteTo 把全部可读数据写入 w，写完后缓冲区为空。
func (rb *Buffer) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for !rb.isEmpty {
		head, _ := rb.readable()
		m, err := w.Write(head)
		if m < 0 || m > len(head) {
			panic("ring.Buffer.WriteTo: invalid Write count")
		}
		rb.advanceRead(m)
		total += int64(m)
		if err != nil {
			return total, err
		}
		if m < len(head) {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

// Buffered 返回当前缓冲区中可读数据的字节数。
func (rb *Buffer) Buffered() int {
	switch {
	case rb.isEmpty:
		return 0
	case rb.w > rb.r:
		return rb.w - rb.r
	default:
		return rb.size - rb.r + rb.w
	}
}

// Cap 返回底层缓冲区的容量。
func (rb *Buffer) Cap() int {
	return rb.size
}

// Available 返回当前缓冲区中可写入的剩余字节数。
func (rb *Buffer) Available() int {
	return rb.size - rb.Buffered()
}

// IsEmpty 返回当前环形缓冲区是否为空。
func (rb *Buffer) IsEmpty() bool {
	return rb.isEmpty
}

// Reset 将读写指针重置为 0，并将缓冲区标记为“空”状态。
func (rb *Buffer) Reset() {
	rb.isEmpty = true
	rb.r, rb.w = 0, 0
}

// readable 返回可读数据，跨越环形边界时拆分为 head/tail 两段。
func (rb *Buffer) readable() (head, tail []byte) {
	if rb.isEmpty {
		return nil, nil
	}
	if rb.w > rb.r {
		return rb.buf[rb.r:rb.w], nil
	}
	return rb.buf[rb.r:], rb.buf[:rb.w]
}

func (rb *Buffer) advanceRead(n int) {
	if n == 0 {
		return
	}
	rb.r = (rb.r + n) & (rb.size - 1)
	if rb.r == rb.w {
		rb.Reset()
	}
}

func (rb *Buffer) grow(newCap int) {
	if n := rb.size; n == 0 {
		if newCap <= DefaultBufferSize {
			newCap = DefaultBufferSize
		}
	} else {
		doubleCap := n + n
		if newCap <= doubleCap {
			if n < bufferGrowThreshold {
				newCap = doubleCap
			} else {
				for 0 < n && n < newCap {
					n += n / 4
				}
				if n > 0 {
					newCap = n
				}
			}
		}
	}
	newCap = ceilToPowerOfTwo(newCap)
	newBuf := make([]byte, newCap)
	oldLen := rb.Buffered()
	head, tail := rb.readable()
	copy(newBuf[copy(newBuf, head):], tail)
	rb.buf = newBuf
	rb.size = newCap
	rb.r = 0
	rb.w = oldLen & (newCap - 1)
	rb.isEmpty = oldLen == 0
}

// ceilToPowerOfTwo 将 n 向上取整为最接近的 2 的幂。
func ceilToPowerOfTwo(n int) int {
	if n <= 0 {
		return 0
	}
	if n&(n-1) == 0 {
		return n
	}
	return 1 << bits.Len(uint(n))
}
