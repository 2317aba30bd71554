package typeinfo

import "reflect"

// TypeOf 返回 T 的 reflect.Type，T 可以是接口类型。
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// DescriptorOf 返回 T 在 r 中的描述符。
func DescriptorOf[T any](r *Registry) (*Descriptor, error) {
	return r.Get(TypeOf[T]())
}

// RegisterStruct 为 T 注册反射推导的 StructCodec。
func RegisterStruct[T any](r *Registry) error {
	t := TypeOf[T]()
	codec, err := NewStructCodec(t)
	if err != nil {
		return err
	}
	return r.RegisterCodec(t, codec)
}
