// Package config 汇总序列化运行时使用的 IO 参数。
//
// 参数来源优先级（由低到高）：默认值 -> 配置文件 -> 环境变量（OBJWIRE_ 前缀）。
package config

import (
	"math"

	"github.com/lk2023060901/objwire/pkg/log"
	"github.com/lk2023060901/objwire/pkg/util/merr"
	zviper "github.com/lk2023060901/objwire/pkg/util/viper"
)

const (
	// EnvPrefix 为所有环境变量覆盖使用的前缀。
	EnvPrefix = "OBJWIRE"

	DefaultBufferSize = 4 * 1024
	DefaultArrayChunk = 32

	// DefaultMaxArrayLength 为读取时接受的最大数组长度。
	DefaultMaxArrayLength = 1 << 24
)

// IOConfig 对应配置文件中的 io 段。
type IOConfig struct {
	// BufferSize 为流的读写缓冲区大小，单位字节。
	BufferSize int `mapstructure:"buffer-size" json:"buffer-size"`
	// ArrayChunk 为基本类型数组编码时每批写入缓冲区的元素个数。
	ArrayChunk int `mapstructure:"array-chunk" json:"array-chunk"`
	// MaxArrayLength 为读取时接受的最大数组长度，超出时按格式错误处理。
	MaxArrayLength int `mapstructure:"max-array-length" json:"max-array-length"`
	// StatsWritten 开启后按类别统计写出的对象数。
	StatsWritten bool `mapstructure:"stats-written" json:"stats-written"`
	// Debug 开启描述符构建等调试日志。
	Debug bool `mapstructure:"debug" json:"debug"`
	// Asserts 开启流内部的一致性检查（例如 current-object 栈在 Flush 时必须为空）。
	Asserts bool `mapstructure:"assert" json:"assert"`
}

// Root 为完整的配置文件结构。
type Root struct {
	IO  IOConfig   `mapstructure:"io" json:"io"`
	Log log.Config `mapstructure:"log" json:"log"`
	// Logging 为按模块命名的 logger 配置，键为模块名。
	Logging map[string]log.Config `mapstructure:"logging" json:"logging"`
}

// Default 返回默认 IO 参数。
func Default() IOConfig {
	return IOConfig{
		BufferSize:     DefaultBufferSize,
		ArrayChunk:     DefaultArrayChunk,
		MaxArrayLength: DefaultMaxArrayLength,
	}
}

// Validate 检查参数取值范围。
func (c IOConfig) Validate() error {
	if c.BufferSize < 16 {
		return merr.WrapErrParameterInvalidRange(16, 1<<30, c.BufferSize, "io.buffer-size")
	}
	if c.ArrayChunk < 1 {
		return merr.WrapErrParameterInvalidRange(1, 1<<20, c.ArrayChunk, "io.array-chunk")
	}
	if c.MaxArrayLength < 1 {
		return merr.WrapErrParameterInvalidRange(1, math.MaxInt32, c.MaxArrayLength, "io.max-array-length")
	}
	return nil
}

func setDefaults(v *zviper.Config) {
	d := Default()
	v.SetDefault("io.buffer-size", d.BufferSize)
	v.SetDefault("io.array-chunk", d.ArrayChunk)
	v.SetDefault("io.max-array-length", d.MaxArrayLength)
	v.SetDefault("io.stats-written", d.StatsWritten)
	v.SetDefault("io.debug", d.Debug)
	v.SetDefault("io.assert", d.Asserts)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.stdout", true)
}

// Load 读取 path 指向的配置文件；path 为空时只使用默认值与环境变量。
func Load(path string) (*Root, error) {
	v := zviper.New()
	setDefaults(v)
	v.BindEnv(EnvPrefix)
	if path != "" {
		if err := v.LoadFile(path); err != nil {
			return nil, merr.WrapErrIoFailed("load config "+path, err)
		}
	}
	root := &Root{}
	if err := v.Unmarshal(root); err != nil {
		return nil, merr.WrapErrParameterInvalidMsg("decode config: %v", err)
	}
	if err := root.IO.Validate(); err != nil {
		return nil, err
	}
	return root, nil
}
