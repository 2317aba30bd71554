package log

import "go.uber.org/atomic"

var (
	_ WithLogger   = &Binder{}
	_ LoggerBinder = &Binder{}
)

// WithLogger 是一个用于访问本地 Logger 的接口。
type WithLogger interface {
	Logger() *MLogger
}

// LoggerBinder 是一个用于设置 Logger 的接口。
type LoggerBinder interface {
	SetLogger(logger *MLogger)
}

// Binder 嵌入在 Registry、对象流与 Splitter 中，统一管理它们的 Logger。
//
// 未绑定 Logger 时使用调用时刻的全局 Logger，因此 application 初始化日志之后
// 创建或使用的组件都会跟随新的全局配置。设置了组件名时，输出带 component 字段。
type Binder struct {
	logger    atomic.Pointer[MLogger]
	component atomic.String
}

// SetLogger 将 Logger 绑定到 Binder 上，传入 nil 恢复使用全局 Logger。
func (w *Binder) SetLogger(logger *MLogger) {
	w.logger.Store(logger)
}

// SetComponent 设置输出中的组件名。
func (w *Binder) SetComponent(name string) {
	w.component.Store(name)
}

// Logger 返回当前绑定的 Logger，未绑定时退回到全局 Logger。
func (w *Binder) Logger() *MLogger {
	l := w.logger.Load()
	if l == nil {
		l = With()
	}
	if c := w.component.Load(); c != "" {
		return l.With(FieldComponent(c))
	}
	return l
}
