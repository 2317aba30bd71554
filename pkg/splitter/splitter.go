// Package splitter 把同一份字节流复制到多个目标。
package splitter

import (
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/lk2023060901/objwire/pkg/log"
	"github.com/lk2023060901/objwire/pkg/metrics"
	"github.com/lk2023060901/objwire/pkg/util/conc"
	"github.com/lk2023060901/objwire/pkg/util/merr"
)

type flusher interface {
	Flush() error
}

// Splitter 是一组目标之上的 io.Writer。
//
// 某个目标失败后它被移出目标集合，其余目标照常写入；
// 本次操作的所有失败以 *SplitError 一并返回。
type Splitter struct {
	log.Binder

	mu           sync.Mutex
	destinations []io.Writer
	pool         *conc.Pool[struct{}]
}

// Option 配置 Splitter。
type Option func(s *Splitter)

// WithPool 使各目标的写入在 pool 中并行执行。
func WithPool(pool *conc.Pool[struct{}]) Option {
	return func(s *Splitter) {
		s.pool = pool
	}
}

// WithLogger 设置 Splitter 使用的 logger。
func WithLogger(l *log.MLogger) Option {
	return func(s *Splitter) {
		s.SetLogger(l)
	}
}

// New 创建写往 destinations 的 Splitter。
func New(destinations []io.Writer, opts ...Option) *Splitter {
	s := &Splitter{
		destinations: append([]io.Writer(nil), destinations...),
	}
	s.SetComponent("splitter")
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add 追加一个目标。
func (s *Splitter) Add(dst io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destinations = append(s.destinations, dst)
}

// Len 返回仍然存活的目标个数。
func (s *Splitter) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.destinations)
}

// Write 将 p 写入每个存活的目标，总是返回 len(p)；有目标失败时返回 *SplitError。
func (s *Splitter) Write(p []byte) (int, error) {
	err := s.each("write", func(dst io.Writer) error {
		n, err := dst.Write(p)
		if err == nil && n < len(p) {
			err = io.ErrShortWrite
		}
		return err
	})
	return len(p), err
}

// Flush 刷新实现了 Flush() error 的目标。
func (s *Splitter) Flush() error {
	return s.each("flush", func(dst io.Writer) error {
		if f, ok := dst.(flusher); ok {
			return f.Flush()
		}
		return nil
	})
}

// Close 关闭实现了 io.Closer 的目标，之后 Splitter 不再持有任何目标。
func (s *Splitter) Close() error {
	err := s.each("close", func(dst io.Writer) error {
		if c, ok := dst.(io.Closer); ok {
			return c.Close()
		}
		return nil
	})
	s.mu.Lock()
	s.destinations = nil
	s.mu.Unlock()
	return err
}

func (s *Splitter) each(op string, fn func(dst io.Writer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	errs := make([]error, len(s.destinations))
	if s.pool != nil {
		futures := make([]*conc.Future[struct{}], len(s.destinations))
		for i, dst := range s.destinations {
			futures[i] = s.pool.Submit(func() (struct{}, error) {
				return struct{}{}, fn(dst)
			})
		}
		for i, f := range futures {
			_, errs[i] = f.Await()
		}
	} else {
		for i, dst := range s.destinations {
			errs[i] = fn(dst)
		}
	}

	splitErr := &SplitError{}
	alive := s.destinations[:0]
	for i, dst := range s.destinations {
		if errs[i] == nil {
			alive = append(alive, dst)
			continue
		}
		err := errs[i]
		if !merr.IsWireError(err) {
			err = merr.WrapErrIoFailed(op, err)
		}
		splitErr.add(dst, err)
	}
	clear(s.destinations[len(alive):])
	s.destinations = alive

	if splitErr.Count() > 0 {
		metrics.SplitterFailures.Add(float64(splitErr.Count()))
		s.Logger().Warn("splitter dropped failed destinations",
			zap.String("op", op),
			zap.Int("failed", splitErr.Count()),
			zap.Int("alive", len(alive)),
			zap.Error(splitErr))
	}
	return splitErr.orNil()
}
