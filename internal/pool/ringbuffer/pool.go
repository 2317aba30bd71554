// Copyright (c) 2019 The Gnet Authors. All rights reserved.
// Copyright (c) 2016 Aliaksandr Valialkin, VertaMedia
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Use of this source code is governed by a MIT license that can be found
// at https://github.com/valyala/bytebufferpool/blob/master/LICENSE


// Package ringbuffer 按容量分级复用环形缓冲区，供对象流的读写端使用，降低 GC 压力。
package ringbuffer

import (
	"math/bits"
	"sync"

	"github.com/lk2023060901/objwire/pkg/buffer/ring"
)

const (
	minBitSize = 6 // 2**6=64，为典型 CPU cache line 大小
	steps      = 20

	minSize = 1 << minBitSize
	// maxSize 以上的缓冲区不回收，避免偶发的大对象长期占用内存。
	maxSize = minSize << (steps - 1)
)

type RingBuffer = ring.Buffer

// Pool 为每个容量等级维护一个 sync.Pool。零值可直接使用。
type Pool struct {
	classes [steps]sync.Pool
}

var builtinPool Pool

// Get 从全局池中取出容量不小于 size 的缓冲区。
func Get(size int) *RingBuffer { return builtinPool.Get(size) }

// Put 将缓冲区归还全局池。
func Put(b *RingBuffer) { builtinPool.Put(b) }

// Get 取出容量不小于 size 的空缓冲区。
func (p *Pool) Get(size int) *RingBuffer {
	idx := index(size)
	if v := p.classes[idx].Get(); v != nil {
		return v.(*RingBuffer)
	}
	return ring.New(minSize << idx)
}

// Put 重置 b 并按其容量归还；容量过大或为零的缓冲区直接丢弃。
func (p *Pool) Put(b *RingBuffer) {
	if b == nil || b.Cap() < minSize || b.Cap() > maxSize {
		return
	}
	b.Reset()
	// 归入不超过其容量的最大等级，保证 Get 拿到的容量足够。
	idx := bits.Len(uint(b.Cap()>>minBitSize)) - 1
	p.classes[idx].Put(b)
}

// index 返回容量不小于 n 的最小等级。
func index(n int) int {
	if n <= minSize {
		return 0
	}
	idx := bits.Len(uint((n - 1) >> minBitSize))
	if idx >= steps {
		idx = steps - 1
	}
	return idx
}
