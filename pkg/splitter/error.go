package splitter

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/lk2023060901/objwire/pkg/util/merr"
)

// SplitError 汇总一次操作中所有失败的目标及其错误，两者按下标一一对应。
type SplitError struct {
	destinations []io.Writer
	errs         []error
}

func (e *SplitError) add(dst io.Writer, err error) {
	e.destinations = append(e.destinations, dst)
	e.errs = append(e.errs, err)
}

// Count 返回失败目标的个数。
func (e *SplitError) Count() int {
	return len(e.errs)
}

// Destinations 返回失败的目标。
func (e *SplitError) Destinations() []io.Writer {
	return append([]io.Writer(nil), e.destinations...)
}

// Errors 返回各目标的错误。
func (e *SplitError) Errors() []error {
	return append([]error(nil), e.errs...)
}

func (e *SplitError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "got %d errors:", len(e.errs))
	for _, err := range e.errs {
		sb.WriteString(" [")
		sb.WriteString(err.Error())
		sb.WriteString("]")
	}
	return sb.String()
}

// Is 报告任一目标的错误是否匹配 target。
func (e *SplitError) Is(target error) bool {
	return errors.Is(merr.Combine(e.errs...), target)
}

func (e *SplitError) orNil() error {
	if e == nil || len(e.errs) == 0 {
		return nil
	}
	return e
}
