package typeinfo

import (
	"fmt"
	"reflect"

	"github.com/samber/lo"
)

// Descriptor 描述一个类型的序列化方式。每个类型在一个 Registry 中只有一个 Descriptor，
// 构建完成后不再修改，可以无锁地在多个 goroutine 间共享。
type Descriptor struct {
	typ      reflect.Type
	name     string
	category Category
	super    *Descriptor
	level    int
	fields   []Field
	codec    GeneratedCodec
	enums    map[string]reflect.Value
	writer   Writer
	reader   Reader
}

// Type 返回描述的类型。
func (d *Descriptor) Type() reflect.Type { return d.typ }

// Name 返回类型的线上名称。
func (d *Descriptor) Name() string { return d.name }

// Category 返回序列化类别。
func (d *Descriptor) Category() Category { return d.category }

// Super 返回最近的可序列化父类型的描述符，没有时为 nil。
func (d *Descriptor) Super() *Descriptor { return d.super }

// Level 为继承层级：没有可序列化父类型时为 1，否则为父类型层级加 1。
func (d *Descriptor) Level() int { return d.level }

// Fields 返回按布局规则排好序的字段副本，只有 CategoryGenerated 才有字段。
func (d *Descriptor) Fields() []Field {
	return lo.Map(d.fields, func(f Field, _ int) Field {
		f.Index = append([]int(nil), f.Index...)
		return f
	})
}

// Codec 返回 CategoryGenerated 类型的编解码器。
func (d *Descriptor) Codec() GeneratedCodec { return d.codec }

// EnumConstant 按名称查找枚举常量。
func (d *Descriptor) EnumConstant(name string) (reflect.Value, bool) {
	v, ok := d.enums[name]
	return v, ok
}

// Writer 返回该类别绑定的写策略。
func (d *Descriptor) Writer() Writer { return d.writer }

// Reader 返回该类别绑定的读策略。
func (d *Descriptor) Reader() Reader { return d.reader }

func (d *Descriptor) String() string {
	return fmt.Sprintf("Descriptor{type=%s, category=%s, level=%d}", d.name, d.category, d.level)
}
