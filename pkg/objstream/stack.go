package objstream

import (
	"reflect"

	"github.com/lk2023060901/objwire/pkg/util/merr"
)

type frame struct {
	object reflect.Value
	depth  int
}

// objectStack 记录正在读写的 Externalizable 对象，每个流独占一个。
type objectStack struct {
	frames []frame
}

func (s *objectStack) push(v reflect.Value, depth int) {
	s.frames = append(s.frames, frame{object: v, depth: depth})
}

func (s *objectStack) pop() error {
	if len(s.frames) == 0 {
		return merr.WrapErrSerializationReason("pop on empty current-object stack")
	}
	s.frames[len(s.frames)-1] = frame{}
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

func (s *objectStack) current() (reflect.Value, int, bool) {
	if len(s.frames) == 0 {
		return reflect.Value{}, 0, false
	}
	f := s.frames[len(s.frames)-1]
	return f.object, f.depth, true
}

func (s *objectStack) size() int {
	return len(s.frames)
}

func (s *objectStack) reset() {
	clear(s.frames)
	s.frames = s.frames[:0]
}
