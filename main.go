package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/260825-go-pkg-consulsrc/internal/command/fetch"
)

func main() {
	app := &cli.Command{
		Name:    "consulsrc",
		Usage:   "Consul 分布式配置拉取工具",
		Version: "dev",
		Commands: []*cli.Command{
			fetch.Command,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
