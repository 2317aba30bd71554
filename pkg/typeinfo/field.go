package typeinfo

import (
	"reflect"
	"sort"
)

// FieldKind 是字段布局使用的基本类型分级，常量顺序即排序顺序。
type FieldKind uint8

const (
	KindDouble FieldKind = iota
	KindLong
	KindFloat
	KindInt
	KindShort
	KindChar
	KindByte
	KindBoolean
	KindReference
)

var fieldKindNames = [...]string{
	KindDouble:    "double",
	KindLong:      "long",
	KindFloat:     "float",
	KindInt:       "int",
	KindShort:     "short",
	KindChar:      "char",
	KindByte:      "byte",
	KindBoolean:   "boolean",
	KindReference: "reference",
}

func (k FieldKind) String() string {
	if int(k) < len(fieldKindNames) {
		return fieldKindNames[k]
	}
	return "unknown"
}

// KindOf 返回 Go 类型对应的字段分级。
// 平台相关或无符号的整数统一按 64 位处理，uint16 视为字符。
func KindOf(t reflect.Type) FieldKind {
	switch t.Kind() {
	case reflect.Float64:
		return KindDouble
	case reflect.Int64, reflect.Int, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return KindLong
	case reflect.Float32:
		return KindFloat
	case reflect.Int32:
		return KindInt
	case reflect.Int16:
		return KindShort
	case reflect.Uint16:
		return KindChar
	case reflect.Int8, reflect.Uint8:
		return KindByte
	case reflect.Bool:
		return KindBoolean
	default:
		return KindReference
	}
}

// Field 描述一个按声明顺序序列化的字段。
type Field struct {
	Name string
	Kind FieldKind
	// Index 为 reflect.Value.FieldByIndex 使用的下标路径。
	Index []int
}

// SortFields 按字段布局规则原地排序：先按分级，同级按名称字典序。
// 读写两端必须用同一规则计算布局，布局本身不上线。
func SortFields(fields []Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Kind != fields[j].Kind {
			return fields[i].Kind < fields[j].Kind
		}
		return fields[i].Name < fields[j].Name
	})
}
