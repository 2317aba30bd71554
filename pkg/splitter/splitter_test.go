package splitter

import (
	"bytes"
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/objwire/pkg/util/conc"
	"github.com/lk2023060901/objwire/pkg/util/merr"
)

// failingWriter 在写入 limit 字节后开始失败。
type failingWriter struct {
	bytes.Buffer
	limit   int
	short   bool
	flushes int
	closed  bool
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.Len()+len(p) > w.limit {
		if w.short {
			return w.Buffer.Write(p[:w.limit-w.Len()])
		}
		return 0, errors.New("disk full")
	}
	return w.Buffer.Write(p)
}

func (w *failingWriter) Flush() error {
	w.flushes++
	return nil
}

func (w *failingWriter) Close() error {
	w.closed = true
	return nil
}

type closeFailure struct {
	bytes.Buffer
}

func (w *closeFailure) Close() error {
	return merr.WrapErrIoFailedReason("already closed")
}

type SplitterSuite struct {
	suite.Suite
	pool *conc.Pool[struct{}]
}

func (s *SplitterSuite) newSplitter(dsts ...io.Writer) *Splitter {
	if s.pool != nil {
		return New(dsts, WithPool(s.pool))
	}
	return New(dsts)
}

func (s *SplitterSuite) TestWriteAll() {
	a, b := &bytes.Buffer{}, &bytes.Buffer{}
	sp := s.newSplitter(a, b)
	n, err := sp.Write([]byte("hello"))
	s.NoError(err)
	s.Equal(5, n)
	s.Equal("hello", a.String())
	s.Equal("hello", b.String())
	s.Equal(2, sp.Len())
}

func (s *SplitterSuite) TestFailedDestinationDropped() {
	good := &bytes.Buffer{}
	bad := &failingWriter{limit: 4}
	short := &failingWriter{limit: 6, short: true}
	sp := s.newSplitter(bad, good, short)

	_, err := sp.Write([]byte("abc"))
	s.Require().NoError(err)

	n, err := sp.Write([]byte("defg"))
	s.Equal(4, n)
	var splitErr *SplitError
	s.Require().True(errors.As(err, &splitErr))
	s.Equal(2, splitErr.Count())
	s.Equal([]io.Writer{bad, short}, splitErr.Destinations())
	s.Len(splitErr.Errors(), 2)
	s.ErrorIs(err, merr.ErrIoFailed)
	s.Contains(err.Error(), "disk full")
	s.Contains(err.Error(), io.ErrShortWrite.Error())
	s.ErrorIs(err, io.ErrShortWrite)
	s.Equal(1, sp.Len())

	_, err = sp.Write([]byte("h"))
	s.NoError(err)
	s.Equal("abcdefgh", good.String())
	s.Equal("abc", bad.String())
}

func (s *SplitterSuite) TestFlushAndClose() {
	a := &failingWriter{limit: 100}
	b := &closeFailure{}
	sp := s.newSplitter(a, b, &bytes.Buffer{})

	s.NoError(sp.Flush())
	s.Equal(1, a.flushes)

	err := sp.Close()
	var splitErr *SplitError
	s.Require().True(errors.As(err, &splitErr))
	s.Equal([]io.Writer{b}, splitErr.Destinations())
	s.ErrorIs(err, merr.ErrIoFailed)
	s.True(a.closed)
	s.Equal(0, sp.Len())
}

func (s *SplitterSuite) TestAdd() {
	sp := s.newSplitter()
	_, err := sp.Write([]byte("x"))
	s.NoError(err)

	dst := &bytes.Buffer{}
	sp.Add(dst)
	_, err = sp.Write([]byte("y"))
	s.NoError(err)
	s.Equal("y", dst.String())
}

func TestSplitter(t *testing.T) {
	suite.Run(t, new(SplitterSuite))
}

func TestSplitterWithPool(t *testing.T) {
	pool := conc.NewPool[struct{}](4)
	defer pool.Release()
	suite.Run(t, &SplitterSuite{pool: pool})
}
