// Package objstream 实现对象图的流式读写：句柄表、循环登记、类型标记与数组入口，
// 对象本身的编码按类型描述符分派到 typeinfo 中绑定的策略。
package objstream

// 对象头部的类型标记。
const (
	// TagNull 表示空引用。
	TagNull byte = 'N'
	// TagBackRef 后跟 int 句柄，引用之前写出的同一对象。
	TagBackRef byte = 'Q'
	// TagTypeDef 后跟类型名文本，定义一个新的类型句柄。
	TagTypeDef byte = 'C'
	// TagTypeRef 后跟 int，引用已经定义过的类型句柄。
	TagTypeRef byte = 'O'
	// TagExpected 表示对象类型与调用方给出的静态类型相同。
	TagExpected byte = 'E'
	// TagReset 表示写端清空了句柄与类型表，读端需同步清空。
	TagReset byte = 'R'
)
