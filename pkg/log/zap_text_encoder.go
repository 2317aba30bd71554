package log

import (
	"encoding/base64"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const textTimeLayout = "2006/01/02 15:04:05.000 -07:00"

var _textPool = buffer.NewPool()

// textEncoder 输出形如 `[时间] [级别] [调用方] [消息] [键=值]...` 的单行日志。
//
// 通过 With 添加的字段保存在 context 中，按添加顺序输出；直接调用 ObjectEncoder
// 方法写入的字段按键排序后输出在 context 之前。
type textEncoder struct {
	*zapcore.MapObjectEncoder

	disableTimestamp    bool
	disableErrorVerbose bool
	context             []zapcore.Field
}

var _ zapcore.Encoder = (*textEncoder)(nil)

// NewTextEncoderByConfig 按 cfg 创建文本编码器。
func NewTextEncoderByConfig(cfg *Config) zapcore.Encoder {
	return &textEncoder{
		MapObjectEncoder:    zapcore.NewMapObjectEncoder(),
		disableTimestamp:    cfg.DisableTimestamp,
		disableErrorVerbose: cfg.DisableErrorVerbose,
	}
}

func (enc *textEncoder) addFields(fields []zapcore.Field) {
	enc.context = append(enc.context, fields...)
}

func (enc *textEncoder) Clone() zapcore.Encoder {
	m := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		m.Fields[k] = v
	}
	return &textEncoder{
		MapObjectEncoder:    m,
		disableTimestamp:    enc.disableTimestamp,
		disableErrorVerbose: enc.disableErrorVerbose,
		context:             append([]zapcore.Field(nil), enc.context...),
	}
}

func (enc *textEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := _textPool.Get()
	if !enc.disableTimestamp {
		enc.appendBracket(buf, ent.Time.Format(textTimeLayout))
		buf.AppendByte(' ')
	}
	enc.appendBracket(buf, ent.Level.CapitalString())
	if ent.Caller.Defined {
		buf.AppendByte(' ')
		enc.appendBracket(buf, ent.Caller.TrimmedPath())
	}
	if ent.LoggerName != "" {
		buf.AppendByte(' ')
		enc.appendBracket(buf, ent.LoggerName)
	}
	buf.AppendByte(' ')
	enc.appendBracket(buf, quoteIfNeeded(ent.Message))

	enc.appendMap(buf, enc.Fields)
	for _, f := range enc.context {
		enc.appendField(buf, f)
	}
	for _, f := range fields {
		enc.appendField(buf, f)
	}
	if ent.Stack != "" {
		buf.AppendString(" [stack=")
		buf.AppendString(strconv.Quote(ent.Stack))
		buf.AppendByte(']')
	}
	buf.AppendByte('\n')
	return buf, nil
}

func (enc *textEncoder) appendBracket(buf *buffer.Buffer, s string) {
	buf.AppendByte('[')
	buf.AppendString(s)
	buf.AppendByte(']')
}

func (enc *textEncoder) appendField(buf *buffer.Buffer, f zapcore.Field) {
	m := zapcore.NewMapObjectEncoder()
	f.AddTo(m)
	enc.appendMap(buf, m.Fields)
}

func (enc *textEncoder) appendMap(buf *buffer.Buffer, fields map[string]any) {
	if len(fields) == 0 {
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if enc.disableErrorVerbose && strings.HasSuffix(k, "Verbose") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.AppendString(" [")
		buf.AppendString(quoteIfNeeded(k))
		buf.AppendByte('=')
		buf.AppendString(formatTextValue(fields[k]))
		buf.AppendByte(']')
	}
}

func formatTextValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return quoteIfNeeded(x)
	case []byte:
		return base64.StdEncoding.EncodeToString(x)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatFloat(x, 64)
	case float32:
		return formatFloat(float64(x), 32)
	case time.Time:
		return x.Format(textTimeLayout)
	case time.Duration:
		return x.String()
	case map[string]any, []any:
		s, err := sonic.MarshalString(x)
		if err != nil {
			return quoteIfNeeded(fmt.Sprint(x))
		}
		return s
	default:
		return quoteIfNeeded(fmt.Sprint(x))
	}
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize)
}

// quoteIfNeeded 在 s 为空或包含空白、方括号、等号、引号及不可打印字符时加引号。
func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return strconv.Quote(s)
		}
		if r <= ' ' || r == '[' || r == ']' || r == '=' || r == '"' || r == 0x7f {
			return strconv.Quote(s)
		}
		i += size
	}
	return s
}
