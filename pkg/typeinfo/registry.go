package typeinfo

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/lk2023060901/objwire/pkg/log"
	"github.com/lk2023060901/objwire/pkg/metrics"
	"github.com/lk2023060901/objwire/pkg/util/merr"
)

type entry struct {
	desc *Descriptor
	err  error
}

// Registry 构建并缓存 Descriptor。
//
// 同一类型的描述符只构建一次：读锁命中直接返回，未命中时在写锁内复查后构建。
// 构建失败同样被缓存，之后的查询返回同一个错误而不会重试。
// 构建期间调用的用户代码（CodecProvider.CodecFor、GeneratedCodec.Fields、
// Enum.EnumConstants）都在写锁内执行，它们再访问同一 Registry 会死锁。
type Registry struct {
	log.Binder

	mu          sync.RWMutex
	descriptors map[reflect.Type]*entry
	codecs      map[reflect.Type]GeneratedCodec
	providers   []CodecProvider
	resolver    Resolver
}

// Option 配置 Registry。
type Option func(r *Registry)

// WithResolver 设置按名称查找类型时使用的 Resolver，默认为 NewTypeRegistry()。
func WithResolver(resolver Resolver) Option {
	return func(r *Registry) {
		r.resolver = resolver
	}
}

// WithCodecProvider 追加一个编解码器来源，显式注册的编解码器优先。
func WithCodecProvider(p CodecProvider) Option {
	return func(r *Registry) {
		r.providers = append(r.providers, p)
	}
}

// WithLogger 设置 Registry 使用的 logger。
func WithLogger(l *log.MLogger) Option {
	return func(r *Registry) {
		r.SetLogger(l)
	}
}

// NewRegistry 创建一个独立的 Registry。
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		descriptors: make(map[reflect.Type]*entry),
		codecs:      make(map[reflect.Type]GeneratedCodec),
	}
	r.SetComponent("typeinfo.registry")
	for _, opt := range opts {
		opt(r)
	}
	if r.resolver == nil {
		r.resolver = NewTypeRegistry()
	}
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default 返回进程级共享的 Registry。
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Resolver 返回 Registry 使用的 Resolver。
func (r *Registry) Resolver() Resolver {
	return r.resolver
}

// RegisterCodec 为 t 注册编解码器。t 的描述符已经构建后不能再注册。
func (r *Registry) RegisterCodec(t reflect.Type, codec GeneratedCodec) error {
	if t == nil || codec == nil {
		return merr.WrapErrParameterInvalidMsg("nil type or codec")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.descriptors[t]; ok {
		return merr.WrapErrParameterInvalidMsg("descriptor of %s already built", TypeName(t))
	}
	r.codecs[t] = codec
	return nil
}

// Get 返回 t 的描述符，首次调用时构建。
func (r *Registry) Get(t reflect.Type) (*Descriptor, error) {
	if t == nil {
		return nil, merr.WrapErrParameterInvalidMsg("nil type")
	}
	r.mu.RLock()
	e, ok := r.descriptors[t]
	r.mu.RUnlock()
	if ok {
		return e.desc, e.err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(t)
}

// GetByName 通过 Resolver 解析 name 后返回描述符。
func (r *Registry) GetByName(name string) (*Descriptor, error) {
	t, err := r.resolver.Resolve(name)
	if err != nil {
		return nil, err
	}
	return r.Get(t)
}

// Len 返回已缓存的类型数量（含构建失败的类型）。
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}

// Range 遍历构建成功的描述符，fn 返回 false 时停止。
func (r *Registry) Range(fn func(d *Descriptor) bool) {
	r.mu.RLock()
	descs := make([]*Descriptor, 0, len(r.descriptors))
	for _, e := range r.descriptors {
		if e.desc != nil {
			descs = append(descs, e.desc)
		}
	}
	r.mu.RUnlock()
	for _, d := range descs {
		if !fn(d) {
			return
		}
	}
}

func (r *Registry) getLocked(t reflect.Type) (*Descriptor, error) {
	if e, ok := r.descriptors[t]; ok {
		return e.desc, e.err
	}
	d, err := r.construct(t)

	logger := r.Logger().With(log.FieldType(t))
	if err != nil {
		if !errors.Is(err, merr.ErrSerialization) {
			err = merr.WrapErrSerialization(TypeName(t), err)
		}
		logger.Warn("failed to build type descriptor", zap.Error(err))
		metrics.DescriptorFailures.Inc()
		r.descriptors[t] = &entry{err: err}
		return nil, err
	}
	logger.Debug("type descriptor built",
		zap.Stringer("category", d.category),
		zap.Int("level", d.level))
	metrics.DescriptorsBuilt.WithLabelValues(d.category.String()).Inc()
	r.descriptors[t] = &entry{desc: d}
	return d, nil
}

// construct 执行一次构建；能力探测或编解码器中的 panic 被转换为错误。
func (r *Registry) construct(t reflect.Type) (d *Descriptor, err error) {
	defer func() {
		if x := recover(); x != nil {
			d = nil
			err = merr.WrapErrSerialization(TypeName(t), fmt.Errorf("panic: %v", x))
		}
	}()

	d = &Descriptor{
		typ:   t,
		name:  TypeName(t),
		level: 1,
	}

	if parent, ok := superType(t); ok && r.serializableLocked(parent) {
		sd, err := r.getLocked(parent)
		if err != nil {
			return nil, errors.Wrapf(err, "super type %s", TypeName(parent))
		}
		d.super = sd
		d.level = sd.level + 1
	}

	d.category, d.codec = r.classifyLocked(t)
	switch d.category {
	case CategoryGenerated:
		d.fields = append([]Field(nil), d.codec.Fields()...)
		SortFields(d.fields)
	case CategoryEnum:
		if d.enums, err = enumConstants(t); err != nil {
			return nil, err
		}
	}
	st := strategies[d.category]
	d.writer, d.reader = st, st
	return d, nil
}

// classifyLocked 按固定优先级判断类别：数组、生成的编解码器、Externalizable、
// 文本、类型字面量、枚举，都不满足时为 CategoryUnsupported。
func (r *Registry) classifyLocked(t reflect.Type) (Category, GeneratedCodec) {
	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		return CategoryArray, nil
	}
	if codec, ok := r.codecLocked(t); ok {
		return CategoryGenerated, codec
	}
	switch {
	case isExternalizable(t):
		return CategoryExternalizable, nil
	case t == stringType:
		return CategoryText, nil
	case isTypeLiteral(t):
		return CategoryClassLiteral, nil
	case isEnum(t):
		return CategoryEnum, nil
	default:
		return CategoryUnsupported, nil
	}
}

func (r *Registry) codecLocked(t reflect.Type) (GeneratedCodec, bool) {
	if codec, ok := r.codecs[t]; ok {
		return codec, true
	}
	for _, p := range r.providers {
		if codec, ok := p.CodecFor(t); ok && codec != nil {
			return codec, true
		}
	}
	return nil, false
}

// serializableLocked 判断父类型是否参与序列化：有编解码器或实现了 Externalizable。
func (r *Registry) serializableLocked(t reflect.Type) bool {
	if _, ok := r.codecLocked(t); ok {
		return true
	}
	return isExternalizable(t)
}

// superType 返回结构体（或结构体指针）的父类型，并沿用子类型的指针性。
// 规则与 NewStructCodec 一致，见 parentField。
func superType(t reflect.Type) (reflect.Type, bool) {
	pointer := t.Kind() == reflect.Pointer
	st := t
	if pointer {
		st = t.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, false
	}
	f, ok := parentField(st)
	if !ok {
		return nil, false
	}
	if pointer {
		return reflect.PointerTo(f.Type), true
	}
	return f.Type, true
}

// parentField 返回 st 的父类型字段：第一个字段是导出的、非指针的嵌入结构体，且没有被
// `wire:"-"` 忽略。指针嵌入或未导出的嵌入字段按普通字段处理。
func parentField(st reflect.Type) (reflect.StructField, bool) {
	if st.NumField() == 0 {
		return reflect.StructField{}, false
	}
	f := st.Field(0)
	if !f.Anonymous || !f.IsExported() || f.Tag.Get("wire") == "-" || f.Type.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}
	return f, true
}

func enumConstants(t reflect.Type) (map[string]reflect.Value, error) {
	constants := reflect.Zero(t).Interface().(Enum).EnumConstants()
	enums := make(map[string]reflect.Value, len(constants))
	for _, c := range constants {
		v := reflect.ValueOf(c)
		if !v.IsValid() || v.Type() != t {
			return nil, merr.WrapErrSerializationReason(
				fmt.Sprintf("enum constant %v is not of type %s", c, TypeName(t)))
		}
		name := c.EnumName()
		if _, ok := enums[name]; ok {
			return nil, merr.WrapErrSerializationReason("duplicate enum constant "+name, TypeName(t))
		}
		enums[name] = v
	}
	return enums, nil
}
