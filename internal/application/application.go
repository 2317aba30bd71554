package application

import (
	"os"
	"strings"

	"github.com/lk2023060901/objwire/pkg/config"
	zlog "github.com/lk2023060901/objwire/pkg/log"
	"github.com/lk2023060901/objwire/pkg/util/merr"
)

const (
	// DefaultConfigPath 为未指定配置文件时尝试读取的路径，文件不存在时只使用默认值。
	DefaultConfigPath = "./config.yaml"
	// ConfigPathEnv 指定配置文件路径的环境变量。
	ConfigPathEnv = config.EnvPrefix + "_CONFIG_FILE_PATH"
)

// Application 持有进程级的配置与 logger，供命令行工具共用。
type Application struct {
	root    *config.Root
	loggers map[string]*zlog.MLogger
}

// New creates a new Application instance.
func New() *Application {
	return &Application{}
}

// Run 解析配置文件路径、加载配置并初始化日志。
// 配置文件路径的优先级（后者覆盖前者）：
//  1. 默认：./config.yaml
//  2. 环境变量：OBJWIRE_CONFIG_FILE_PATH
//  3. 命令行：--config <path> 或 --config=<path>
func (a *Application) Run(args []string) error {
	path, err := ResolveConfigPath(args)
	if err != nil {
		return err
	}
	root, err := config.Load(path)
	if err != nil {
		return err
	}
	a.root = root

	return a.initLogging()
}

// Close 刷出日志，开启异步写日志时等待队列排空。
func (a *Application) Close() {
	_ = zlog.Sync()
	zlog.Cleanup()
}

// Config 返回已加载的配置，Run 之前为默认配置。
func (a *Application) Config() *config.Root {
	if a.root == nil {
		return &config.Root{IO: config.Default()}
	}
	return a.root
}

// Logger returns a named logger created from configuration.
// If the name is unknown, it falls back to the global logger.
func (a *Application) Logger(name string) *zlog.MLogger {
	if lg, ok := a.loggers[name]; ok && lg != nil {
		return lg
	}
	return &zlog.MLogger{Logger: zlog.L()}
}

// ResolveConfigPath 按优先级确定配置文件路径。
// 默认路径的文件不存在时返回空串，表示只使用默认值与环境变量。
func ResolveConfigPath(args []string) (string, error) {
	configPath := ""

	if envPath := strings.TrimSpace(os.Getenv(ConfigPathEnv)); envPath != "" {
		configPath = envPath
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--config" {
			if i+1 >= len(args) {
				return "", merr.WrapErrParameterInvalidMsg("missing value after --config")
			}
			configPath = args[i+1]
			i++
			continue
		}
		if strings.HasPrefix(arg, "--config=") {
			if val := strings.TrimPrefix(arg, "--config="); val != "" {
				configPath = val
			}
		}
	}

	if configPath == "" {
		if _, err := os.Stat(DefaultConfigPath); err == nil {
			configPath = DefaultConfigPath
		}
	}
	return configPath, nil
}

// initLogging initializes global and module-level loggers.
func (a *Application) initLogging() error {
	logger, props, err := zlog.InitLogger(&a.root.Log)
	if err != nil {
		return merr.WrapErrParameterInvalidMsg("init global logger: %v", err)
	}
	zlog.ReplaceGlobals(logger, props)

	if len(a.root.Logging) == 0 {
		return nil
	}
	a.loggers = make(map[string]*zlog.MLogger, len(a.root.Logging))
	for name, lc := range a.root.Logging {
		cfgCopy := lc
		logger, _, err := zlog.InitLogger(&cfgCopy)
		if err != nil {
			return merr.WrapErrParameterInvalidMsg("init module logger %q: %v", name, err)
		}
		a.loggers[name] = &zlog.MLogger{Logger: logger}
	}
	return nil
}
