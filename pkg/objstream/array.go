package objstream

import (
	"math"
	"reflect"

	"github.com/lk2023060901/objwire/pkg/typeinfo"
	"github.com/lk2023060901/objwire/pkg/util/merr"
	"github.com/lk2023060901/objwire/pkg/wire"
)

func isPrimitive(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// staticElem 返回引用元素写入时使用的静态类型，接口类型没有静态类型。
func staticElem(elem reflect.Type) reflect.Type {
	if elem.Kind() == reflect.Interface {
		return nil
	}
	return elem
}

// basicView 返回数组内容的预声明基本类型切片视图，用于批量编解码。
// 元素为具名类型时返回 false，改用逐元素编解码。
func basicView(v reflect.Value, elem reflect.Type) (any, bool) {
	if elem.PkgPath() != "" || elem.Name() == "" {
		return nil, false
	}
	if v.Kind() == reflect.Array {
		if !v.CanAddr() {
			tmp := reflect.New(v.Type()).Elem()
			tmp.Set(v)
			v = tmp
		}
		return v.Slice(0, v.Len()).Interface(), true
	}
	return v.Convert(reflect.SliceOf(elem)).Interface(), true
}

// WriteArray 写出数组长度与元素。基本类型元素按 io.array-chunk 分批编码进缓冲区。
func (w *Writer) WriteArray(v reflect.Value, d *typeinfo.Descriptor, _ bool) error {
	n := v.Len()
	if n > math.MaxInt32 {
		return merr.WrapErrSerializationReason("array too long", d.Name())
	}
	if err := w.w.WriteInt32(int32(n)); err != nil {
		return err
	}
	elem := d.Type().Elem()
	if !isPrimitive(elem.Kind()) {
		expected := staticElem(elem)
		for i := 0; i < n; i++ {
			if err := w.writeValue(v.Index(i), expected, false); err != nil {
				return err
			}
		}
		return nil
	}
	view, fast := basicView(v, elem)
	chunk := w.cfg.ArrayChunk
	for off := 0; off < n; off += chunk {
		m := min(chunk, n-off)
		err := w.w.WriteEncoded(func(dst []byte) ([]byte, error) {
			if fast {
				return appendBasic(dst, view, off, m)
			}
			for i := off; i < off+m; i++ {
				dst = appendElem(dst, v.Index(i))
			}
			return dst, nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func appendBasic(dst []byte, view any, off, n int) ([]byte, error) {
	switch s := view.(type) {
	case []bool:
		return wire.AppendBools(dst, s, off, n)
	case []byte:
		return wire.AppendBytes(dst, s, off, n)
	case []uint16:
		return wire.AppendChars(dst, s, off, n)
	case []int16:
		return wire.AppendInt16s(dst, s, off, n)
	case []int32:
		return wire.AppendInt32s(dst, s, off, n)
	case []int64:
		return wire.AppendInt64s(dst, s, off, n)
	case []float32:
		return wire.AppendFloat32s(dst, s, off, n)
	case []float64:
		return wire.AppendFloat64s(dst, s, off, n)
	}
	rv := reflect.ValueOf(view)
	for i := off; i < off+n; i++ {
		dst = appendElem(dst, rv.Index(i))
	}
	return dst, nil
}

func appendElem(dst []byte, e reflect.Value) []byte {
	switch e.Kind() {
	case reflect.Bool:
		return wire.AppendBool(dst, e.Bool())
	case reflect.Int8:
		return wire.AppendByte(dst, byte(e.Int()))
	case reflect.Uint8:
		return wire.AppendByte(dst, byte(e.Uint()))
	case reflect.Int16:
		return wire.AppendInt16(dst, int16(e.Int()))
	case reflect.Uint16:
		return wire.AppendChar(dst, uint16(e.Uint()))
	case reflect.Int32:
		return wire.AppendInt32(dst, int32(e.Int()))
	case reflect.Int, reflect.Int64:
		return wire.AppendInt64(dst, e.Int())
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		return wire.AppendInt64(dst, int64(e.Uint()))
	case reflect.Float32:
		return wire.AppendFloat32(dst, float32(e.Float()))
	default:
		return wire.AppendFloat64(dst, e.Float())
	}
}

// ReadArray 读取数组长度与元素。容器在读取元素之前登记，元素可以引用数组本身。
func (r *Reader) ReadArray(d *typeinfo.Descriptor, _ int32) (reflect.Value, error) {
	n32, err := r.r.ReadInt32()
	if err != nil {
		return reflect.Value{}, err
	}
	n := int(n32)
	if n < 0 {
		return reflect.Value{}, merr.WrapErrIoMalformed("negative array length", d.Name())
	}
	if n > r.cfg.MaxArrayLength {
		return reflect.Value{}, merr.WrapErrIoMalformed("array length exceeds io.max-array-length", d.Name())
	}
	t := d.Type()
	var arr reflect.Value
	if t.Kind() == reflect.Array {
		if t.Len() != n {
			return reflect.Value{}, merr.WrapErrIoMalformed("array length mismatch", d.Name())
		}
		arr = reflect.New(t).Elem()
	} else {
		arr = reflect.MakeSlice(t, n, n)
	}
	r.RegisterCycleCheck(arr)

	elem := t.Elem()
	if !isPrimitive(elem.Kind()) {
		expected := staticElem(elem)
		for i := 0; i < n; i++ {
			ev, err := r.readValue(expected)
			if err != nil {
				return reflect.Value{}, err
			}
			if !ev.IsValid() {
				continue
			}
			if !ev.Type().AssignableTo(elem) {
				return reflect.Value{}, merr.WrapErrIoMalformed("cannot assign "+typeinfo.TypeName(ev.Type())+" to element", d.Name())
			}
			arr.Index(i).Set(ev)
		}
		return arr, nil
	}
	if view, ok := basicView(arr, elem); ok {
		if err := r.readBasic(view, n); err != nil {
			return reflect.Value{}, err
		}
		return arr, nil
	}
	for i := 0; i < n; i++ {
		if err := r.readElem(arr.Index(i)); err != nil {
			return reflect.Value{}, err
		}
	}
	return arr, nil
}

func (r *Reader) readBasic(view any, n int) error {
	switch s := view.(type) {
	case []bool:
		return wire.ReadBools(r.r, s, 0, n)
	case []byte:
		return wire.ReadBytes(r.r, s, 0, n)
	case []uint16:
		return wire.ReadChars(r.r, s, 0, n)
	case []int16:
		return wire.ReadInt16s(r.r, s, 0, n)
	case []int32:
		return wire.ReadInt32s(r.r, s, 0, n)
	case []int64:
		return wire.ReadInt64s(r.r, s, 0, n)
	case []float32:
		return wire.ReadFloat32s(r.r, s, 0, n)
	case []float64:
		return wire.ReadFloat64s(r.r, s, 0, n)
	}
	rv := reflect.ValueOf(view)
	for i := 0; i < n; i++ {
		if err := r.readElem(rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) readElem(e reflect.Value) error {
	switch e.Kind() {
	case reflect.Bool:
		v, err := r.r.ReadBool()
		if err != nil {
			return err
		}
		e.SetBool(v)
	case reflect.Int8, reflect.Uint8:
		v, err := wire.ReadByte(r.r)
		if err != nil {
			return err
		}
		if e.CanInt() {
			e.SetInt(int64(int8(v)))
		} else {
			e.SetUint(uint64(v))
		}
	case reflect.Int16:
		v, err := r.r.ReadInt16()
		if err != nil {
			return err
		}
		e.SetInt(int64(v))
	case reflect.Uint16:
		v, err := r.r.ReadChar()
		if err != nil {
			return err
		}
		e.SetUint(uint64(v))
	case reflect.Int32:
		v, err := r.r.ReadInt32()
		if err != nil {
			return err
		}
		e.SetInt(int64(v))
	case reflect.Int, reflect.Int64:
		v, err := r.r.ReadInt64()
		if err != nil {
			return err
		}
		if e.OverflowInt(v) {
			return merr.WrapErrIoMalformed("integer overflows array element")
		}
		e.SetInt(v)
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		v, err := r.r.ReadInt64()
		if err != nil {
			return err
		}
		if e.Kind() == reflect.Uint32 && (v < 0 || v > math.MaxUint32) {
			return merr.WrapErrIoMalformed("integer overflows array element")
		}
		e.SetUint(uint64(v))
	case reflect.Float32:
		v, err := r.r.ReadFloat32()
		if err != nil {
			return err
		}
		e.SetFloat(float64(v))
	default:
		v, err := r.r.ReadFloat64()
		if err != nil {
			return err
		}
		e.SetFloat(v)
	}
	return nil
}
