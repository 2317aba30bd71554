package objstream

import (
	"github.com/lk2023060901/objwire/pkg/config"
	"github.com/lk2023060901/objwire/pkg/log"
	"github.com/lk2023060901/objwire/pkg/typeinfo"
)

type options struct {
	registry *typeinfo.Registry
	resolver typeinfo.Resolver
	cfg      config.IOConfig
	logger   *log.MLogger
}

// Option 配置 Writer 与 Reader。
type Option func(o *options)

func defaultOptions() *options {
	return &options{
		cfg: config.Default(),
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = typeinfo.Default()
	}
	if o.resolver == nil {
		o.resolver = o.registry.Resolver()
	}
	if o.cfg.ArrayChunk <= 0 {
		o.cfg.ArrayChunk = config.DefaultArrayChunk
	}
	if o.cfg.MaxArrayLength <= 0 {
		o.cfg.MaxArrayLength = config.DefaultMaxArrayLength
	}
	return o
}

// WithRegistry 指定描述符来源，默认为 typeinfo.Default()。
func WithRegistry(r *typeinfo.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithResolver 指定读端解析类型名使用的 Resolver，默认使用 Registry 的 Resolver。
func WithResolver(r typeinfo.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithConfig 指定 IO 参数。
func WithConfig(cfg config.IOConfig) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithLogger 指定流使用的 logger。
func WithLogger(l *log.MLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}
