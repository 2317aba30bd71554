package typeinfo

import "reflect"

// ObjectOutput 是用户代码（Externalizable 与生成的编解码器）可见的写入接口。
type ObjectOutput interface {
	WriteBool(v bool) error
	WriteByte(v byte) error
	WriteChar(v uint16) error
	WriteInt16(v int16) error
	WriteInt32(v int32) error
	WriteInt64(v int64) error
	WriteFloat32(v float32) error
	WriteFloat64(v float64) error
	WriteString(v string) error

	// WriteObject 写入任意对象，共享引用只写句柄。
	WriteObject(v any) error
	// WriteObjectAs 写入静态类型已知的对象，类型与 expected 相同时只写短标记。
	WriteObjectAs(v any, expected reflect.Type) error
	// WriteUnshared 写入对象但不登记句柄。
	WriteUnshared(v any) error
}

// ObjectInput 是用户代码可见的读取接口。
type ObjectInput interface {
	ReadBool() (bool, error)
	ReadByte() (byte, error)
	ReadChar() (uint16, error)
	ReadInt16() (int16, error)
	ReadInt32() (int32, error)
	ReadInt64() (int64, error)
	ReadFloat32() (float32, error)
	ReadFloat64() (float64, error)
	ReadString() (string, error)

	ReadObject() (any, error)
	ReadObjectAs(expected reflect.Type) (any, error)
	ReadUnshared() (any, error)

	// RegisterCycleCheck 在对象构造完成、字段填充之前登记对象，
	// 使填充过程中出现的自引用能够解析到同一个实例。
	RegisterCycleCheck(v reflect.Value)
}

// Externalizable 由自行负责读写内容的类型实现。
// ReadExternal 在零值实例上调用，因此类型必须是指针类型。
type Externalizable interface {
	WriteExternal(out ObjectOutput) error
	ReadExternal(in ObjectInput) error
}

// Enum 由枚举类型实现。EnumConstants 必须返回该类型的全部常量，且名称唯一。
// EnumConstants 在 Registry 的写锁内调用，不能访问同一 Registry。
type Enum interface {
	EnumName() string
	EnumConstants() []Enum
}

// GeneratedCodec 为一个类型提供逐字段的读写例程，可由代码生成或显式注册提供。
type GeneratedCodec interface {
	// Fields 返回参与序列化的字段，顺序无关，描述符会按布局规则排序。
	// 在 Registry 的写锁内调用，不能访问同一 Registry。
	Fields() []Field
	WriteFields(out ObjectOutput, v reflect.Value) error
	// ConstructAndPopulate 构造实例，先调用 RegisterCycleCheck 再填充字段。
	ConstructAndPopulate(in ObjectInput) (reflect.Value, error)
}

// CodecProvider 在描述符构建时按类型提供编解码器。
//
// CodecFor 在 Registry 的写锁内调用，不能再调用同一 Registry 的 Get、GetByName、
// RegisterCodec 等方法，否则会死锁。
type CodecProvider interface {
	CodecFor(t reflect.Type) (GeneratedCodec, bool)
}

// CodecProviderFunc 将函数适配为 CodecProvider。
type CodecProviderFunc func(t reflect.Type) (GeneratedCodec, bool)

func (f CodecProviderFunc) CodecFor(t reflect.Type) (GeneratedCodec, bool) {
	return f(t)
}

var (
	externalizableType = reflect.TypeOf((*Externalizable)(nil)).Elem()
	enumType           = reflect.TypeOf((*Enum)(nil)).Elem()
	typeLiteralType    = reflect.TypeOf((*reflect.Type)(nil)).Elem()
	stringType         = reflect.TypeOf("")
)

func isExternalizable(t reflect.Type) bool {
	return t.Implements(externalizableType)
}

func isEnum(t reflect.Type) bool {
	return t.Implements(enumType)
}

func isTypeLiteral(t reflect.Type) bool {
	return t.Kind() != reflect.Interface && t.Implements(typeLiteralType)
}
