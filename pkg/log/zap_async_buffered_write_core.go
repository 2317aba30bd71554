// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"github.com/lk2023060901/objwire/pkg/metrics"
)

var _ zapcore.Core = (*asyncTextIOCore)(nil)

// NewAsyncTextIOCore 创建一个异步写入的 Core，cfg 需已经 initialize。
// 编码后的日志进入队列，由后台协程写入带缓冲的 WriteSyncer。
func NewAsyncTextIOCore(cfg *Config, ws zapcore.WriteSyncer, enab zapcore.LevelEnabler) *asyncTextIOCore {
	bws := &zapcore.BufferedWriteSyncer{
		WS:            ws,
		Size:          cfg.AsyncWriteBufferSize,
		FlushInterval: cfg.AsyncWriteFlushInterval,
	}
	nonDroppableLevel, _ := zapcore.ParseLevel(cfg.AsyncWriteNonDroppableLevel)
	ctx, cancel := context.WithCancel(context.Background())
	core := &asyncTextIOCore{
		LevelEnabler: enab,
		enc:          newZapEncoder(cfg),
		shared: &asyncShared{
			ctx:      ctx,
			cancel:   cancel,
			finished: make(chan struct{}),
			bws:      bws,
			pending:  make(chan *entryItem, cfg.AsyncWritePendingLength),
		},
		writeDroppedTimeout: cfg.AsyncWriteDroppedTimeout,
		nonDroppableLevel:   nonDroppableLevel,
		stopTimeout:         cfg.AsyncWriteStopTimeout,
		maxBytesPerLog:      cfg.AsyncWriteMaxBytesPerLog,
	}
	go core.background()
	return core
}

// asyncShared 为同一个异步 Core 及其 With 副本共享的状态。
type asyncShared struct {
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	finished chan struct{}
	bws      *zapcore.BufferedWriteSyncer
	pending  chan *entryItem
}

type asyncTextIOCore struct {
	zapcore.LevelEnabler

	enc                 zapcore.Encoder
	shared              *asyncShared
	writeDroppedTimeout time.Duration
	nonDroppableLevel   zapcore.Level
	stopTimeout         time.Duration
	maxBytesPerLog      int
}

// entryItem 为等待写入底层 WriteSyncer 的一条日志。
type entryItem struct {
	buf   *buffer.Buffer
	level zapcore.Level
}

func (s *asyncTextIOCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *s
	clone.enc = s.enc.Clone()
	addEncoderFields(clone.enc, fields)
	return &clone
}

func (s *asyncTextIOCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if s.Enabled(ent.Level) {
		return ce.AddCore(ent, s)
	}
	return ce
}

// Write 将编码后的日志放入队列。队列已满时，低于 nonDroppableLevel 的日志等待
// writeDroppedTimeout 后被丢弃，其余级别一直等待。
func (s *asyncTextIOCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := s.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	length := buf.Len()
	if length == 0 {
		buf.Free()
		return nil
	}
	var writeDroppedTimeout <-chan time.Time
	if ent.Level < s.nonDroppableLevel {
		writeDroppedTimeout = time.After(s.writeDroppedTimeout)
	}
	select {
	case s.shared.pending <- &entryItem{buf: buf, level: ent.Level}:
		metrics.LoggingPendingWriteLength.Inc()
		metrics.LoggingPendingWriteBytes.Add(float64(length))
	case <-writeDroppedTimeout:
		metrics.LoggingDroppedWrites.Inc()
		buf.Free()
	}
	return nil
}

// Sync 只刷出缓冲区，不等待队列排空。
func (s *asyncTextIOCore) Sync() error {
	return s.shared.bws.Sync()
}

func (s *asyncTextIOCore) background() {
	defer func() {
		s.flushPendingWriteWithTimeout()
		close(s.shared.finished)
	}()

	for {
		select {
		case <-s.shared.ctx.Done():
			return
		case ent := <-s.shared.pending:
			s.consumeEntry(ent)
		}
	}
}

func (s *asyncTextIOCore) consumeEntry(ent *entryItem) {
	length := ent.buf.Len()
	metrics.LoggingPendingWriteLength.Dec()
	metrics.LoggingPendingWriteBytes.Sub(float64(length))
	if _, err := s.shared.bws.Write(s.getWriteBytes(ent)); err != nil {
		metrics.LoggingIOFailure.Inc()
	}
	ent.buf.Free()
	if ent.level > zapcore.ErrorLevel {
		_ = s.shared.bws.Sync()
	}
}

// getWriteBytes 返回写入的字节；超过 maxBytesPerLog 时截断，并保留最后一个字节（换行符）。
func (s *asyncTextIOCore) getWriteBytes(ent *entryItem) []byte {
	length := ent.buf.Len()
	writes := ent.buf.Bytes()
	if length <= s.maxBytesPerLog {
		return writes
	}
	metrics.LoggingTruncatedWrites.Inc()
	metrics.LoggingTruncatedWriteBytes.Add(float64(length - s.maxBytesPerLog))
	end := writes[length-1]
	writes = writes[:s.maxBytesPerLog]
	writes[len(writes)-1] = end
	return writes
}

func (s *asyncTextIOCore) flushPendingWriteWithTimeout() {
	done := make(chan struct{})
	go s.flushAllPendingWrites(done)

	select {
	case <-time.After(s.stopTimeout):
	case <-done:
	}
}

func (s *asyncTextIOCore) flushAllPendingWrites(done chan struct{}) {
	defer func() {
		if err := s.shared.bws.Stop(); err != nil {
			metrics.LoggingIOFailure.Inc()
		}
		close(done)
	}()

	for {
		select {
		case ent := <-s.shared.pending:
			s.consumeEntry(ent)
		default:
			return
		}
	}
}

// Stop 停止后台协程，排空队列并刷出缓冲区，可重复调用。
func (s *asyncTextIOCore) Stop() {
	s.shared.stopOnce.Do(s.shared.cancel)
	<-s.shared.finished
}
