package objstream

import (
	"io"
	"reflect"

	"go.uber.org/zap"

	"github.com/lk2023060901/objwire/pkg/config"
	"github.com/lk2023060901/objwire/pkg/log"
	"github.com/lk2023060901/objwire/pkg/metrics"
	"github.com/lk2023060901/objwire/pkg/typeinfo"
	"github.com/lk2023060901/objwire/pkg/util/merr"
	"github.com/lk2023060901/objwire/pkg/wire"
)

var _ typeinfo.Output = (*Writer)(nil)

// Writer 将对象图写入底层 io.Writer。
//
// 同一对象（指针、map、切片）在一个流中只完整写出一次，之后以句柄引用；
// 类型定义同样只写一次。Writer 不是并发安全的。
type Writer struct {
	log.Binder

	w        *wire.Writer
	registry *typeinfo.Registry
	cfg      config.IOConfig
	handles  *HandleTable
	types    map[reflect.Type]int32
	stack    objectStack
	stats    map[typeinfo.Category]int64
}

// NewWriter 创建写入 dst 的对象流。
func NewWriter(dst io.Writer, opts ...Option) *Writer {
	o := buildOptions(opts)
	w := &Writer{
		w:        wire.NewWriter(dst, o.cfg.BufferSize),
		registry: o.registry,
		cfg:      o.cfg,
		handles:  NewHandleTable(),
		types:    make(map[reflect.Type]int32),
		stats:    make(map[typeinfo.Category]int64),
	}
	w.SetComponent("objstream.writer")
	if o.logger != nil {
		w.SetLogger(o.logger)
	}
	return w
}

func (w *Writer) WriteBool(v bool) error       { return w.w.WriteBool(v) }
func (w *Writer) WriteByte(v byte) error       { return w.w.WriteByte(v) }
func (w *Writer) WriteChar(v uint16) error     { return w.w.WriteChar(v) }
func (w *Writer) WriteInt16(v int16) error     { return w.w.WriteInt16(v) }
func (w *Writer) WriteInt32(v int32) error     { return w.w.WriteInt32(v) }
func (w *Writer) WriteInt64(v int64) error     { return w.w.WriteInt64(v) }
func (w *Writer) WriteFloat32(v float32) error { return w.w.WriteFloat32(v) }
func (w *Writer) WriteFloat64(v float64) error { return w.w.WriteFloat64(v) }
func (w *Writer) WriteString(v string) error   { return w.w.WriteString(v) }

// WriteObject 写出 v 及其可达的对象图。
func (w *Writer) WriteObject(v any) error {
	return w.writeValue(reflect.ValueOf(v), nil, false)
}

// WriteObjectAs 写出静态类型为 expected 的对象，类型相同时只写一个字节的类型标记。
func (w *Writer) WriteObjectAs(v any, expected reflect.Type) error {
	return w.writeValue(reflect.ValueOf(v), expected, false)
}

// WriteUnshared 写出 v 但不登记句柄，之后对同一对象的写入仍会完整写出。
func (w *Writer) WriteUnshared(v any) error {
	return w.writeValue(reflect.ValueOf(v), nil, true)
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func (w *Writer) writeValue(v reflect.Value, expected reflect.Type, unshared bool) error {
	if isNil(v) {
		return w.w.WriteByte(TagNull)
	}
	if v.Kind() == reflect.Interface {
		v = v.Elem()
		if isNil(v) {
			return w.w.WriteByte(TagNull)
		}
	}
	if !unshared {
		if h, ok := w.handles.Lookup(v); ok {
			if err := w.w.WriteByte(TagBackRef); err != nil {
				return err
			}
			return w.w.WriteInt32(h)
		}
	}
	d, err := w.registry.Get(v.Type())
	if err != nil {
		return err
	}
	return d.Writer().Write(w, v, d, unshared, expected)
}

// AssignHandle 为 v 分配下一个句柄。
func (w *Writer) AssignHandle(v reflect.Value) int32 {
	return w.handles.Assign(v)
}

// WriteTypeTag 写出 t 的类型标记。
func (w *Writer) WriteTypeTag(t reflect.Type, expected reflect.Type) error {
	if expected != nil && t == expected {
		return w.w.WriteByte(TagExpected)
	}
	if h, ok := w.types[t]; ok {
		if err := w.w.WriteByte(TagTypeRef); err != nil {
			return err
		}
		return w.w.WriteInt32(h)
	}
	h := int32(len(w.types))
	w.types[t] = h
	name := typeinfo.TypeName(t)
	if w.cfg.Debug {
		w.Logger().Debug("define type on stream", zap.String("type", name), zap.Int32("handle", h))
	}
	if err := w.w.WriteByte(TagTypeDef); err != nil {
		return err
	}
	return w.w.WriteString(name)
}

// RecordWrite 在开启 io.stats-written 时按类别计数。
func (w *Writer) RecordWrite(d *typeinfo.Descriptor) {
	if !w.cfg.StatsWritten {
		return
	}
	w.stats[d.Category()]++
	metrics.ObjectsWritten.WithLabelValues(d.Category().String()).Inc()
}

// Stats 返回按类别统计的写出对象数，仅在开启 io.stats-written 时有数据。
func (w *Writer) Stats() map[typeinfo.Category]int64 {
	stats := make(map[typeinfo.Category]int64, len(w.stats))
	for c, n := range w.stats {
		stats[c] = n
	}
	return stats
}

func (w *Writer) PushCurrentObject(v reflect.Value) {
	w.stack.push(v, w.stack.size())
}

func (w *Writer) PopCurrentObject() error {
	return w.stack.pop()
}

// CurrentObject 返回最内层正在处理的 Externalizable 对象及其嵌套深度。
func (w *Writer) CurrentObject() (reflect.Value, int, bool) {
	return w.stack.current()
}

// Reset 清空句柄与类型表，并通知读端同步清空。
// 之后写出的对象不会再引用 Reset 之前写出的对象。
func (w *Writer) Reset() error {
	if w.stack.size() != 0 {
		return merr.WrapErrSerializationReason("reset while writing an object")
	}
	w.handles.Reset()
	clear(w.types)
	return w.w.WriteByte(TagReset)
}

// Flush 将缓冲数据写入底层 io.Writer。
func (w *Writer) Flush() error {
	if w.cfg.Asserts && w.stack.size() != 0 {
		return merr.WrapErrSerializationReason("flush while writing an object")
	}
	return w.w.Flush()
}

// Written 返回写入流的字节数，包括仍在缓冲区中的数据。
func (w *Writer) Written() int64 {
	return w.w.Written()
}

// Close 刷出缓冲数据，如果底层 io.Writer 实现了 io.Closer 则一并关闭。
func (w *Writer) Close() error {
	if w.cfg.Asserts && w.stack.size() != 0 {
		return merr.WrapErrSerializationReason("close while writing an object")
	}
	return w.w.Close()
}
