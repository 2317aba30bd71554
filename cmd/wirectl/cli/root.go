// Package cli 实现 wirectl 的命令：按线上格式编码或解码单个基本类型值，并报告选用的分级。
package cli

import (
	"github.com/spf13/cobra"

	"github.com/lk2023060901/objwire/internal/application"
)

func NewRootCmd() *cobra.Command {
	var configPath string
	app := application.New()

	rootCmd := &cobra.Command{
		Use:          "wirectl",
		Short:        "Encode and decode objwire primitives",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var args []string
			if configPath != "" {
				args = append(args, "--config", configPath)
			}
			return app.Run(args)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			app.Close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default ./config.yaml, or $"+application.ConfigPathEnv+")")

	rootCmd.AddCommand(newEncodeCmd(), newDecodeCmd())
	return rootCmd
}
