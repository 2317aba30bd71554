package objstream

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleTable(t *testing.T) {
	table := NewHandleTable()
	n := &Node{}
	s := []int32{1, 2, 3}

	assert.Equal(t, int32(0), table.Assign(reflect.ValueOf(n)))
	assert.Equal(t, int32(1), table.Assign(reflect.ValueOf("text")))
	assert.Equal(t, int32(2), table.Assign(reflect.ValueOf(s)))
	assert.Equal(t, 3, table.Len())

	h, ok := table.Lookup(reflect.ValueOf(n))
	assert.True(t, ok)
	assert.Equal(t, int32(0), h)
	h, ok = table.Lookup(reflect.ValueOf(s))
	assert.True(t, ok)
	assert.Equal(t, int32(2), h)

	// 值类型不参与查找。
	_, ok = table.Lookup(reflect.ValueOf("text"))
	assert.False(t, ok)
	// 同一底层数组的不同长度视为不同对象。
	_, ok = table.Lookup(reflect.ValueOf(s[:2]))
	assert.False(t, ok)
	_, ok = table.Lookup(reflect.ValueOf(&Node{}))
	assert.False(t, ok)

	table.Reset()
	assert.Equal(t, 0, table.Len())
	_, ok = table.Lookup(reflect.ValueOf(n))
	assert.False(t, ok)
	assert.Equal(t, int32(0), table.Assign(reflect.ValueOf(n)))
}
