package typeinfo

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/lk2023060901/objwire/pkg/util/merr"
)

// maxArrayBytes 为按名称构造定长数组类型时允许的最大字节数。
const maxArrayBytes = 1 << 32

// Resolver 将线上的类型名解析为 Go 类型。
type Resolver interface {
	Resolve(name string) (reflect.Type, error)
}

// Loader 是名称解析的兜底来源，按注册顺序依次尝试。
type Loader func(name string) (reflect.Type, bool)

// TypeName 返回类型在线上使用的全限定名。
// 具名类型为 "包路径.类型名"，复合类型由元素类型的名称递归拼接。
func TypeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name()
		}
		return t.PkgPath() + "." + t.Name()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + TypeName(t.Elem())
	case reflect.Slice:
		return "[]" + TypeName(t.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), TypeName(t.Elem()))
	case reflect.Map:
		return "map[" + TypeName(t.Key()) + "]" + TypeName(t.Elem())
	default:
		return t.String()
	}
}

var builtinTypes = []reflect.Type{
	reflect.TypeOf(false),
	reflect.TypeOf(int(0)),
	reflect.TypeOf(int8(0)),
	reflect.TypeOf(int16(0)),
	reflect.TypeOf(int32(0)),
	reflect.TypeOf(int64(0)),
	reflect.TypeOf(uint(0)),
	reflect.TypeOf(uint8(0)),
	reflect.TypeOf(uint16(0)),
	reflect.TypeOf(uint32(0)),
	reflect.TypeOf(uint64(0)),
	reflect.TypeOf(float32(0)),
	reflect.TypeOf(float64(0)),
	reflect.TypeOf(""),
	reflect.TypeOf((*any)(nil)).Elem(),
	// reflect.Type 的具体实现，类型字面量以它为运行时类型。
	reflect.TypeOf(reflect.TypeOf(0)).Elem(),
}

// TypeRegistry 是基于名称表的 Resolver。
// 内建类型以及由可解析类型组成的指针、切片、数组、map 无需注册即可解析。
type TypeRegistry struct {
	mu      sync.RWMutex
	types   map[string]reflect.Type
	loaders []Loader
}

// NewTypeRegistry 创建 TypeRegistry，loaders 在名称表未命中时依次尝试。
func NewTypeRegistry(loaders ...Loader) *TypeRegistry {
	r := &TypeRegistry{
		types:   make(map[string]reflect.Type, len(builtinTypes)),
		loaders: loaders,
	}
	for _, t := range builtinTypes {
		r.types[TypeName(t)] = t
	}
	return r
}

// Register 以 name 登记 t。同名登记不同类型视为参数错误。
func (r *TypeRegistry) Register(name string, t reflect.Type) error {
	if name == "" || t == nil {
		return merr.WrapErrParameterInvalidMsg("empty type name or nil type")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.types[name]; ok && old != t {
		return merr.WrapErrParameterInvalidMsg("type name %s already bound to %s", name, old)
	}
	r.types[name] = t
	return nil
}

// RegisterType 以 TypeName(t) 登记 t。
func (r *TypeRegistry) RegisterType(t reflect.Type) error {
	return r.Register(TypeName(t), t)
}

// AddLoader 追加一个兜底 Loader。
func (r *TypeRegistry) AddLoader(l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders = append(r.loaders, l)
}

// Resolve 解析 name，所有来源都失败时返回 ErrClassResolution。
func (r *TypeRegistry) Resolve(name string) (reflect.Type, error) {
	if t, ok := r.resolve(name); ok {
		return t, nil
	}
	return nil, merr.WrapErrClassResolution(name, "no loader can resolve the type")
}

func (r *TypeRegistry) resolve(name string) (reflect.Type, bool) {
	r.mu.RLock()
	t, ok := r.types[name]
	loaders := r.loaders
	r.mu.RUnlock()
	if ok {
		return t, true
	}
	if t, ok := r.resolveComposite(name); ok {
		return t, true
	}
	for _, load := range loaders {
		if t, ok := load(name); ok && t != nil {
			return t, true
		}
	}
	return nil, false
}

func (r *TypeRegistry) resolveComposite(name string) (reflect.Type, bool) {
	switch {
	case strings.HasPrefix(name, "*"):
		elem, ok := r.resolve(name[1:])
		if !ok {
			return nil, false
		}
		return reflect.PointerTo(elem), true
	case strings.HasPrefix(name, "[]"):
		elem, ok := r.resolve(name[2:])
		if !ok {
			return nil, false
		}
		return reflect.SliceOf(elem), true
	case strings.HasPrefix(name, "["):
		end := strings.IndexByte(name, ']')
		if end < 0 {
			return nil, false
		}
		n, err := strconv.Atoi(name[1:end])
		if err != nil || n < 0 || n > math.MaxInt32 {
			return nil, false
		}
		elem, ok := r.resolve(name[end+1:])
		if !ok {
			return nil, false
		}
		// 流中的数组长度为 int32，总大小另受 maxArrayBytes 约束。
		if size := elem.Size(); size > 0 && uint64(n) > maxArrayBytes/uint64(size) {
			return nil, false
		}
		return reflect.ArrayOf(n, elem), true
	case strings.HasPrefix(name, "map["):
		end := matchingBracket(name, len("map"))
		if end < 0 {
			return nil, false
		}
		key, ok := r.resolve(name[len("map["):end])
		if !ok || !key.Comparable() {
			return nil, false
		}
		elem, ok := r.resolve(name[end+1:])
		if !ok {
			return nil, false
		}
		return reflect.MapOf(key, elem), true
	default:
		return nil, false
	}
}

// matchingBracket 返回与 name[open] 处 '[' 配对的 ']' 下标。
func matchingBracket(name string, open int) int {
	depth := 0
	for i := open; i < len(name); i++ {
		switch name[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
