package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/lk2023060901/objwire/cmd/wirectl/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
