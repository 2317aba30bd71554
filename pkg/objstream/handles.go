package objstream

import (
	"reflect"
)

type handleKey struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// HandleTable 为写出的对象分配单调递增的句柄。
// 只有具有引用语义的值（指针、map、非空切片）可以通过 Lookup 查回句柄，
// 其余值同样占用句柄号，以便与读端的登记顺序保持一致。
type HandleTable struct {
	next    int32
	handles map[handleKey]int32
}

func NewHandleTable() *HandleTable {
	return &HandleTable{
		handles: make(map[handleKey]int32),
	}
}

func identity(v reflect.Value) (handleKey, bool) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map:
		if v.IsNil() {
			return handleKey{}, false
		}
		return handleKey{typ: v.Type(), ptr: v.Pointer()}, true
	case reflect.Slice:
		if v.IsNil() {
			return handleKey{}, false
		}
		return handleKey{typ: v.Type(), ptr: v.Pointer(), len: v.Len()}, true
	default:
		return handleKey{}, false
	}
}

// Assign 为 v 分配下一个句柄。
func (t *HandleTable) Assign(v reflect.Value) int32 {
	h := t.next
	t.next++
	if key, ok := identity(v); ok {
		t.handles[key] = h
	}
	return h
}

// Lookup 返回 v 已分配的句柄。
func (t *HandleTable) Lookup(v reflect.Value) (int32, bool) {
	key, ok := identity(v)
	if !ok {
		return 0, false
	}
	h, ok := t.handles[key]
	return h, ok
}

// Len 返回已分配的句柄数。
func (t *HandleTable) Len() int {
	return int(t.next)
}

// Reset 清空句柄表，句柄号从 0 重新开始。
func (t *HandleTable) Reset() {
	t.next = 0
	clear(t.handles)
}
