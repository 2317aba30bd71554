package objstream

import (
	"io"
	"reflect"

	"go.uber.org/zap"

	"github.com/lk2023060901/objwire/pkg/config"
	"github.com/lk2023060901/objwire/pkg/log"
	"github.com/lk2023060901/objwire/pkg/typeinfo"
	"github.com/lk2023060901/objwire/pkg/util/merr"
	"github.com/lk2023060901/objwire/pkg/wire"
)

var _ typeinfo.Input = (*Reader)(nil)

// Reader 从底层 io.Reader 读取 Writer 写出的对象图。Reader 不是并发安全的。
type Reader struct {
	log.Binder

	r        *wire.Reader
	registry *typeinfo.Registry
	resolver typeinfo.Resolver
	cfg      config.IOConfig
	handles  []reflect.Value
	types    []*typeinfo.Descriptor
	stack    objectStack
	unshared bool
}

// NewReader 创建从 src 读取的对象流。
func NewReader(src io.Reader, opts ...Option) *Reader {
	o := buildOptions(opts)
	r := &Reader{
		r:        wire.NewReader(src, o.cfg.BufferSize),
		registry: o.registry,
		resolver: o.resolver,
		cfg:      o.cfg,
	}
	r.SetComponent("objstream.reader")
	if o.logger != nil {
		r.SetLogger(o.logger)
	}
	return r
}

func (r *Reader) ReadBool() (bool, error)       { return r.r.ReadBool() }
func (r *Reader) ReadByte() (byte, error)       { return wire.ReadByte(r.r) }
func (r *Reader) ReadChar() (uint16, error)     { return r.r.ReadChar() }
func (r *Reader) ReadInt16() (int16, error)     { return r.r.ReadInt16() }
func (r *Reader) ReadInt32() (int32, error)     { return r.r.ReadInt32() }
func (r *Reader) ReadInt64() (int64, error)     { return r.r.ReadInt64() }
func (r *Reader) ReadFloat32() (float32, error) { return r.r.ReadFloat32() }
func (r *Reader) ReadFloat64() (float64, error) { return r.r.ReadFloat64() }
func (r *Reader) ReadString() (string, error)   { return r.r.ReadString() }

// ReadObject 读取下一个对象，空引用返回 nil。
func (r *Reader) ReadObject() (any, error) {
	return r.unwrap(r.readValue(nil))
}

// ReadObjectAs 读取静态类型为 expected 的对象，与 Writer.WriteObjectAs 对应。
func (r *Reader) ReadObjectAs(expected reflect.Type) (any, error) {
	return r.unwrap(r.readValue(expected))
}

// ReadUnshared 读取由 Writer.WriteUnshared 写出的对象，该对象不占用句柄。
func (r *Reader) ReadUnshared() (any, error) {
	r.unshared = true
	defer func() {
		r.unshared = false
	}()
	return r.unwrap(r.readValue(nil))
}

func (r *Reader) unwrap(v reflect.Value, err error) (any, error) {
	if err != nil || !v.IsValid() {
		return nil, err
	}
	return v.Interface(), nil
}

func (r *Reader) readValue(expected reflect.Type) (reflect.Value, error) {
	for {
		tag, err := wire.ReadByte(r.r)
		if err != nil {
			return reflect.Value{}, err
		}
		var (
			d      *typeinfo.Descriptor
			handle int32 = -1
		)
		switch tag {
		case TagNull:
			return reflect.Value{}, nil
		case TagBackRef:
			h, err := r.r.ReadInt32()
			if err != nil {
				return reflect.Value{}, err
			}
			if h < 0 || int(h) >= len(r.handles) {
				return reflect.Value{}, merr.WrapErrIoMalformed("unknown object handle")
			}
			return r.handles[h], nil
		case TagReset:
			r.Reset()
			continue
		case TagExpected:
			if expected == nil {
				return reflect.Value{}, merr.WrapErrIoMalformed("expected-type tag without a static type")
			}
			d, err = r.registry.Get(expected)
		case TagTypeRef:
			h, err := r.r.ReadInt32()
			if err != nil {
				return reflect.Value{}, err
			}
			if h < 0 || int(h) >= len(r.types) {
				return reflect.Value{}, merr.WrapErrIoMalformed("unknown type handle")
			}
			d, handle = r.types[h], h
		case TagTypeDef:
			d, handle, err = r.readTypeDef()
		default:
			return reflect.Value{}, merr.WrapErrIoMalformedTag("read object", tag)
		}
		if err != nil {
			return reflect.Value{}, err
		}
		return d.Reader().Read(r, d, handle)
	}
}

func (r *Reader) readTypeDef() (*typeinfo.Descriptor, int32, error) {
	name, err := r.r.ReadString()
	if err != nil {
		return nil, 0, err
	}
	t, err := r.ResolveClass(name)
	if err != nil {
		return nil, 0, err
	}
	d, err := r.registry.Get(t)
	if err != nil {
		return nil, 0, err
	}
	h := int32(len(r.types))
	r.types = append(r.types, d)
	if r.cfg.Debug {
		r.Logger().Debug("type defined by stream", zap.String("type", name), zap.Int32("handle", h))
	}
	return d, h, nil
}

// ResolveClass 按名称解析类型。
func (r *Reader) ResolveClass(name string) (reflect.Type, error) {
	return r.resolver.Resolve(name)
}

// RegisterCycleCheck 为 v 分配下一个句柄。
// 当前对象由 ReadUnshared 读取时，第一次登记被跳过。
func (r *Reader) RegisterCycleCheck(v reflect.Value) {
	if r.unshared {
		r.unshared = false
		return
	}
	r.handles = append(r.handles, v)
}

func (r *Reader) PushCurrentObject(v reflect.Value) {
	r.stack.push(v, r.stack.size())
}

func (r *Reader) PopCurrentObject() error {
	return r.stack.pop()
}

// CurrentObject 返回最内层正在处理的 Externalizable 对象及其嵌套深度。
func (r *Reader) CurrentObject() (reflect.Value, int, bool) {
	return r.stack.current()
}

// Reset 清空句柄与类型表，读到写端的重置标记时自动调用。
func (r *Reader) Reset() {
	clear(r.handles)
	r.handles = r.handles[:0]
	clear(r.types)
	r.types = r.types[:0]
}

// Consumed 返回已经解码的字节数。
func (r *Reader) Consumed() int64 {
	return r.r.Consumed()
}

// Close 释放缓冲区，不关闭底层 io.Reader。
func (r *Reader) Close() error {
	if r.cfg.Asserts && r.stack.size() != 0 {
		return merr.WrapErrSerializationReason("close while reading an object")
	}
	return r.r.Close()
}
