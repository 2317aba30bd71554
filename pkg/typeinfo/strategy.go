package typeinfo

import (
	"reflect"

	"github.com/lk2023060901/objwire/pkg/util/merr"
)

// Output 是写策略依赖的流能力：ObjectOutput 加上句柄、类型标记与数组入口。
type Output interface {
	ObjectOutput

	// AssignHandle 为 v 分配下一个句柄。
	AssignHandle(v reflect.Value) int32
	// WriteTypeTag 写出类型标记：t 与 expected 相同时写短标记，否则写 t 的类型定义或已知句柄。
	WriteTypeTag(t reflect.Type, expected reflect.Type) error
	// WriteArray 写出数组长度与元素，类型标记已由调用方写出。
	WriteArray(v reflect.Value, d *Descriptor, unshared bool) error
	PushCurrentObject(v reflect.Value)
	PopCurrentObject() error
	// RecordWrite 记录一次对象写入，用于统计。
	RecordWrite(d *Descriptor)
}

// Input 是读策略依赖的流能力。
type Input interface {
	ObjectInput

	// ReadArray 读取数组长度与元素，typeHandle 为已经读到的类型句柄。
	ReadArray(d *Descriptor, typeHandle int32) (reflect.Value, error)
	ResolveClass(name string) (reflect.Type, error)
	PushCurrentObject(v reflect.Value)
	PopCurrentObject() error
}

// Writer 是按类别绑定的写策略，无状态。
type Writer interface {
	Write(out Output, v reflect.Value, d *Descriptor, unshared bool, expected reflect.Type) error
}

// Reader 是按类别绑定的读策略，无状态。调用前类型标记已被读取。
type Reader interface {
	Read(in Input, d *Descriptor, typeHandle int32) (reflect.Value, error)
}

type strategy interface {
	Writer
	Reader
}

var strategies = [...]strategy{
	CategoryUnsupported:    unsupportedStrategy{},
	CategoryArray:          arrayStrategy{},
	CategoryGenerated:      generatedStrategy{},
	CategoryExternalizable: externalizableStrategy{},
	CategoryText:           textStrategy{},
	CategoryClassLiteral:   classLiteralStrategy{},
	CategoryEnum:           enumStrategy{},
}

// WriteHeader 是除 CategoryUnsupported 外所有类别共用的写入前缀：
// 非 unshared 时登记句柄，然后写出类型标记，最后记录统计。
func WriteHeader(out Output, v reflect.Value, d *Descriptor, unshared bool, expected reflect.Type) error {
	if !unshared {
		out.AssignHandle(v)
	}
	if err := out.WriteTypeTag(d.typ, expected); err != nil {
		return err
	}
	out.RecordWrite(d)
	return nil
}

type arrayStrategy struct{}

func (arrayStrategy) Write(out Output, v reflect.Value, d *Descriptor, unshared bool, expected reflect.Type) error {
	if err := WriteHeader(out, v, d, unshared, expected); err != nil {
		return err
	}
	return out.WriteArray(v, d, unshared)
}

func (arrayStrategy) Read(in Input, d *Descriptor, typeHandle int32) (reflect.Value, error) {
	return in.ReadArray(d, typeHandle)
}

type generatedStrategy struct{}

func (generatedStrategy) Write(out Output, v reflect.Value, d *Descriptor, unshared bool, expected reflect.Type) error {
	if err := WriteHeader(out, v, d, unshared, expected); err != nil {
		return err
	}
	return d.codec.WriteFields(out, v)
}

func (generatedStrategy) Read(in Input, d *Descriptor, _ int32) (reflect.Value, error) {
	return d.codec.ConstructAndPopulate(in)
}

type externalizableStrategy struct{}

func (externalizableStrategy) Write(out Output, v reflect.Value, d *Descriptor, unshared bool, expected reflect.Type) error {
	if err := WriteHeader(out, v, d, unshared, expected); err != nil {
		return err
	}
	out.PushCurrentObject(v)
	err := v.Interface().(Externalizable).WriteExternal(out)
	if popErr := out.PopCurrentObject(); err == nil {
		err = popErr
	}
	return err
}

func (externalizableStrategy) Read(in Input, d *Descriptor, _ int32) (reflect.Value, error) {
	if d.typ.Kind() != reflect.Pointer {
		return reflect.Value{}, merr.WrapErrClassInstantiation(d.name, "externalizable type must be a pointer type")
	}
	v := reflect.New(d.typ.Elem())
	in.RegisterCycleCheck(v)
	in.PushCurrentObject(v)
	err := v.Interface().(Externalizable).ReadExternal(in)
	if popErr := in.PopCurrentObject(); err == nil {
		err = popErr
	}
	if err != nil {
		return reflect.Value{}, err
	}
	return v, nil
}

type textStrategy struct{}

func (textStrategy) Write(out Output, v reflect.Value, d *Descriptor, unshared bool, expected reflect.Type) error {
	if err := WriteHeader(out, v, d, unshared, expected); err != nil {
		return err
	}
	return out.WriteString(v.String())
}

func (textStrategy) Read(in Input, _ *Descriptor, _ int32) (reflect.Value, error) {
	s, err := in.ReadString()
	if err != nil {
		return reflect.Value{}, err
	}
	v := reflect.ValueOf(s)
	in.RegisterCycleCheck(v)
	return v, nil
}

type classLiteralStrategy struct{}

func (classLiteralStrategy) Write(out Output, v reflect.Value, d *Descriptor, unshared bool, expected reflect.Type) error {
	if err := WriteHeader(out, v, d, unshared, expected); err != nil {
		return err
	}
	return out.WriteString(TypeName(v.Interface().(reflect.Type)))
}

func (classLiteralStrategy) Read(in Input, _ *Descriptor, _ int32) (reflect.Value, error) {
	name, err := in.ReadString()
	if err != nil {
		return reflect.Value{}, err
	}
	t, err := in.ResolveClass(name)
	if err != nil {
		return reflect.Value{}, err
	}
	v := reflect.ValueOf(t)
	in.RegisterCycleCheck(v)
	return v, nil
}

type enumStrategy struct{}

func (enumStrategy) Write(out Output, v reflect.Value, d *Descriptor, unshared bool, expected reflect.Type) error {
	if err := WriteHeader(out, v, d, unshared, expected); err != nil {
		return err
	}
	return out.WriteString(v.Interface().(Enum).EnumName())
}

func (enumStrategy) Read(in Input, d *Descriptor, _ int32) (reflect.Value, error) {
	name, err := in.ReadString()
	if err != nil {
		return reflect.Value{}, err
	}
	v, ok := d.EnumConstant(name)
	if !ok {
		return reflect.Value{}, merr.WrapErrIoMalformed("no enum constant "+name, d.name)
	}
	in.RegisterCycleCheck(v)
	return v, nil
}

type unsupportedStrategy struct{}

func (unsupportedStrategy) Write(_ Output, _ reflect.Value, d *Descriptor, _ bool, _ reflect.Type) error {
	return merr.WrapErrNotSerializable(d.name)
}

func (unsupportedStrategy) Read(_ Input, d *Descriptor, _ int32) (reflect.Value, error) {
	return reflect.Value{}, merr.WrapErrIoMalformed("unsupported type on the wire", d.name)
}
