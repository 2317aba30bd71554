package objstream

import (
	"reflect"

	"github.com/lk2023060901/objwire/pkg/typeinfo"
)

type Node struct {
	Value int32
	Label string
	Next  *Node
}

type Pair struct {
	Left  *Node
	Right *Node
}

type Shape struct {
	Name    string
	Sides   int16
	Scale   float64
	Ratio   float32
	Code    uint16
	Flag    bool
	Small   int8
	Count   uint64
	Tags    []string
	Weights []float32
	Extra   any
}

type Base struct {
	ID int64
}

type Circle struct {
	Base
	Radius float32
}

type Level uint8

type Holder struct {
	Kind   reflect.Type
	Levels []Level
	Grid   [2][3]int32
}

type Vec struct {
	X, Y int32
}

func (v *Vec) WriteExternal(out typeinfo.ObjectOutput) error {
	if err := out.WriteInt32(v.X); err != nil {
		return err
	}
	return out.WriteInt32(v.Y)
}

func (v *Vec) ReadExternal(in typeinfo.ObjectInput) error {
	var err error
	if v.X, err = in.ReadInt32(); err != nil {
		return err
	}
	v.Y, err = in.ReadInt32()
	return err
}

// Bag 在 WriteExternal 中写出嵌套对象，Self 可以指向自身。
type Bag struct {
	Items []any
	Self  *Bag
}

func (b *Bag) WriteExternal(out typeinfo.ObjectOutput) error {
	if err := out.WriteObject(b.Items); err != nil {
		return err
	}
	return out.WriteObject(b.Self)
}

func (b *Bag) ReadExternal(in typeinfo.ObjectInput) error {
	items, err := in.ReadObject()
	if err != nil {
		return err
	}
	if items != nil {
		b.Items = items.([]any)
	}
	self, err := in.ReadObject()
	if err != nil {
		return err
	}
	if self != nil {
		b.Self = self.(*Bag)
	}
	return nil
}

type Weekday int32

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
)

var weekdayNames = [...]string{"MONDAY", "TUESDAY", "WEDNESDAY"}

func (d Weekday) EnumName() string {
	return weekdayNames[d]
}

func (Weekday) EnumConstants() []typeinfo.Enum {
	return []typeinfo.Enum{Monday, Tuesday, Wednesday}
}

func testRegistry() *typeinfo.Registry {
	resolver := typeinfo.NewTypeRegistry()
	for _, t := range []reflect.Type{
		typeinfo.TypeOf[Node](),
		typeinfo.TypeOf[Pair](),
		typeinfo.TypeOf[Shape](),
		typeinfo.TypeOf[Base](),
		typeinfo.TypeOf[Circle](),
		typeinfo.TypeOf[Level](),
		typeinfo.TypeOf[Holder](),
		typeinfo.TypeOf[Vec](),
		typeinfo.TypeOf[Bag](),
		typeinfo.TypeOf[Weekday](),
	} {
		if err := resolver.RegisterType(t); err != nil {
			panic(err)
		}
	}
	return typeinfo.NewRegistry(
		typeinfo.WithResolver(resolver),
		typeinfo.WithCodecProvider(typeinfo.StructCodecs()),
	)
}
