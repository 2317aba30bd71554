package typeinfo

import (
	"reflect"

	"github.com/samber/lo"

	"github.com/lk2023060901/objwire/pkg/util/merr"
)

// StructCodec 是通过反射为结构体（或结构体指针）推导出的 GeneratedCodec。
//
// 只序列化导出字段，带 `wire:"-"` 标签的字段被忽略。第一个字段为导出的非指针嵌入结构体时，
// 它被视为父类型：父类型的字段先于本类型的字段写出，两部分各自按布局规则排序。
type StructCodec struct {
	typ     reflect.Type
	pointer bool
	fields  []Field
	parent  *StructCodec
}

var _ GeneratedCodec = (*StructCodec)(nil)

// NewStructCodec 为 t 推导编解码器，t 必须是结构体或结构体指针。
func NewStructCodec(t reflect.Type) (*StructCodec, error) {
	if t == nil {
		return nil, merr.WrapErrParameterInvalidMsg("nil type")
	}
	c := &StructCodec{typ: t}
	st := t
	if t.Kind() == reflect.Pointer {
		c.pointer = true
		st = t.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, merr.WrapErrParameterInvalid("struct", st.Kind().String(), TypeName(t))
	}

	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() || f.Tag.Get("wire") == "-" {
			continue
		}
		if _, ok := parentField(st); ok && i == 0 {
			parent, err := NewStructCodec(f.Type)
			if err != nil {
				return nil, err
			}
			c.parent = parent
			continue
		}
		c.fields = append(c.fields, Field{
			Name:  f.Name,
			Kind:  KindOf(f.Type),
			Index: []int{i},
		})
	}
	SortFields(c.fields)
	return c, nil
}

// Fields 返回本类型自身的字段，不含父类型的字段。
func (c *StructCodec) Fields() []Field {
	return lo.Map(c.fields, func(f Field, _ int) Field {
		f.Index = append([]int(nil), f.Index...)
		return f
	})
}

// WriteFields 依次写出父类型字段与本类型字段。
func (c *StructCodec) WriteFields(out ObjectOutput, v reflect.Value) error {
	if c.pointer {
		if v.IsNil() {
			return merr.WrapErrParameterInvalidMsg("nil %s", TypeName(c.typ))
		}
		v = v.Elem()
	}
	return c.writeStruct(out, v)
}

func (c *StructCodec) writeStruct(out ObjectOutput, sv reflect.Value) error {
	if c.parent != nil {
		if err := c.parent.writeStruct(out, sv.Field(0)); err != nil {
			return err
		}
	}
	for _, f := range c.fields {
		if err := writeField(out, f, sv.FieldByIndex(f.Index)); err != nil {
			return err
		}
	}
	return nil
}

func writeField(out ObjectOutput, f Field, fv reflect.Value) error {
	switch f.Kind {
	case KindDouble:
		return out.WriteFloat64(fv.Float())
	case KindLong:
		if fv.CanInt() {
			return out.WriteInt64(fv.Int())
		}
		return out.WriteInt64(int64(fv.Uint()))
	case KindFloat:
		return out.WriteFloat32(float32(fv.Float()))
	case KindInt:
		return out.WriteInt32(int32(fv.Int()))
	case KindShort:
		return out.WriteInt16(int16(fv.Int()))
	case KindChar:
		return out.WriteChar(uint16(fv.Uint()))
	case KindByte:
		if fv.CanInt() {
			return out.WriteByte(byte(fv.Int()))
		}
		return out.WriteByte(byte(fv.Uint()))
	case KindBoolean:
		return out.WriteBool(fv.Bool())
	default:
		if fv.Kind() == reflect.Interface {
			return out.WriteObject(fv.Interface())
		}
		return out.WriteObjectAs(fv.Interface(), fv.Type())
	}
}

// ConstructAndPopulate 构造零值实例，登记后再按写出顺序填充字段。
func (c *StructCodec) ConstructAndPopulate(in ObjectInput) (reflect.Value, error) {
	ptr := reflect.New(c.structType())
	result := ptr
	if !c.pointer {
		result = ptr.Elem()
	}
	in.RegisterCycleCheck(result)
	if err := c.populate(in, ptr.Elem()); err != nil {
		return reflect.Value{}, err
	}
	return result, nil
}

func (c *StructCodec) structType() reflect.Type {
	if c.pointer {
		return c.typ.Elem()
	}
	return c.typ
}

func (c *StructCodec) populate(in ObjectInput, sv reflect.Value) error {
	if c.parent != nil {
		if err := c.parent.populate(in, sv.Field(0)); err != nil {
			return err
		}
	}
	for _, f := range c.fields {
		if err := readField(in, f, sv.FieldByIndex(f.Index)); err != nil {
			return err
		}
	}
	return nil
}

func readField(in ObjectInput, f Field, fv reflect.Value) error {
	switch f.Kind {
	case KindDouble, KindFloat:
		var v float64
		var err error
		if f.Kind == KindDouble {
			v, err = in.ReadFloat64()
		} else {
			var v32 float32
			v32, err = in.ReadFloat32()
			v = float64(v32)
		}
		if err != nil {
			return err
		}
		fv.SetFloat(v)
	case KindLong, KindInt, KindShort:
		var v int64
		var err error
		switch f.Kind {
		case KindLong:
			v, err = in.ReadInt64()
		case KindInt:
			var v32 int32
			v32, err = in.ReadInt32()
			v = int64(v32)
		default:
			var v16 int16
			v16, err = in.ReadInt16()
			v = int64(v16)
		}
		if err != nil {
			return err
		}
		return setInteger(fv, f, v)
	case KindChar:
		v, err := in.ReadChar()
		if err != nil {
			return err
		}
		fv.SetUint(uint64(v))
	case KindByte:
		v, err := in.ReadByte()
		if err != nil {
			return err
		}
		if fv.CanInt() {
			fv.SetInt(int64(int8(v)))
		} else {
			fv.SetUint(uint64(v))
		}
	case KindBoolean:
		v, err := in.ReadBool()
		if err != nil {
			return err
		}
		fv.SetBool(v)
	default:
		var obj any
		var err error
		if fv.Kind() == reflect.Interface {
			obj, err = in.ReadObject()
		} else {
			obj, err = in.ReadObjectAs(fv.Type())
		}
		if err != nil {
			return err
		}
		return assign(fv, f, obj)
	}
	return nil
}

func setInteger(fv reflect.Value, f Field, v int64) error {
	if fv.CanInt() {
		if fv.OverflowInt(v) {
			return merr.WrapErrIoMalformed("integer overflows field " + f.Name)
		}
		fv.SetInt(v)
		return nil
	}
	if v < 0 || fv.OverflowUint(uint64(v)) {
		// 64 位无符号字段按位写出，读回时原样还原。
		if fv.Kind() != reflect.Uint64 && fv.Kind() != reflect.Uint {
			return merr.WrapErrIoMalformed("integer overflows field " + f.Name)
		}
	}
	fv.SetUint(uint64(v))
	return nil
}

func assign(fv reflect.Value, f Field, obj any) error {
	if obj == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	v := reflect.ValueOf(obj)
	if !v.Type().AssignableTo(fv.Type()) {
		return merr.WrapErrIoMalformed("cannot assign "+TypeName(v.Type())+" to field "+f.Name, TypeName(fv.Type()))
	}
	fv.Set(v)
	return nil
}

// StructCodecs 返回一个为具名结构体及其指针推导 StructCodec 的 CodecProvider。
// 实现了 Externalizable、Enum 或 reflect.Type 的类型保留各自的类别。
func StructCodecs() CodecProvider {
	return CodecProviderFunc(func(t reflect.Type) (GeneratedCodec, bool) {
		st := t
		if st.Kind() == reflect.Pointer {
			st = st.Elem()
		}
		if st.Kind() != reflect.Struct || st.Name() == "" {
			return nil, false
		}
		if isExternalizable(t) || isEnum(t) || isTypeLiteral(t) {
			return nil, false
		}
		codec, err := NewStructCodec(t)
		if err != nil {
			return nil, false
		}
		return codec, true
	})
}
