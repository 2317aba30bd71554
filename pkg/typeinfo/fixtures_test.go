package typeinfo

import (
	"reflect"
)

type Base struct {
	ID int64
}

type Derived struct {
	Base
	Name string
}

type Leaf struct {
	Derived
	Flag bool
}

type Mixed struct {
	B byte
	A int32
	Z float64
}

type Layout struct {
	Ref   *Layout
	Flag  bool
	Count int32
	Beta  int32
	Alpha int32
	Ratio float32
	Total int64
	Code  uint16
	Small int16
	Raw   int8
	Score float64
	Text  string
	skip  int32
	Tag   string `wire:"-"`
}

type Point struct {
	X, Y int32
}

func (p *Point) WriteExternal(out ObjectOutput) error {
	if err := out.WriteInt32(p.X); err != nil {
		return err
	}
	return out.WriteInt32(p.Y)
}

func (p *Point) ReadExternal(in ObjectInput) error {
	var err error
	if p.X, err = in.ReadInt32(); err != nil {
		return err
	}
	p.Y, err = in.ReadInt32()
	return err
}

// ValuePoint 以值接收者实现 Externalizable，无法通过零值构造后填充。
type ValuePoint struct{}

func (ValuePoint) WriteExternal(ObjectOutput) error { return nil }
func (ValuePoint) ReadExternal(ObjectInput) error   { return nil }

// Points 同时满足数组与 Externalizable。
type Points []int32

func (Points) WriteExternal(ObjectOutput) error { return nil }
func (Points) ReadExternal(ObjectInput) error   { return nil }

type Color int32

const (
	Red Color = iota
	Green
	Blue
)

var colorNames = [...]string{"RED", "GREEN", "BLUE"}

func (c Color) EnumName() string { return colorNames[c] }

func (Color) EnumConstants() []Enum { return []Enum{Red, Green, Blue} }

type BrokenEnum int32

func (BrokenEnum) EnumName() string { return "SAME" }

func (BrokenEnum) EnumConstants() []Enum { return []Enum{BrokenEnum(0), BrokenEnum(1)} }

type Opaque struct {
	ch chan int
}

type Chain struct {
	*Chain
	V int32
}

type PtrDerived struct {
	*Base
	X int32
}

type hidden struct {
	ID int64
}

type HiddenDerived struct {
	hidden
	X int32
}

type panicCodec struct{}

func (panicCodec) Fields() []Field { panic("introspection failed") }

func (panicCodec) WriteFields(ObjectOutput, reflect.Value) error { return nil }

func (panicCodec) ConstructAndPopulate(ObjectInput) (reflect.Value, error) {
	return reflect.Value{}, nil
}
