// Package fetch 提供从 Consul 拉取并物化配置的命令。
package fetch

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/260825-go-pkg-consulsrc/internal/command"
)

// Command 配置拉取命令
var Command = &cli.Command{
	Name:   "fetch",
	Usage:  "从 Consul KV 拉取配置并输出物化后的属性源",
	Action: action,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "配置文件路径，覆盖默认搜索顺序",
		},
		&cli.StringFlag{
			Name:  "output",
			Value: "yaml",
			Usage: "输出格式 (yaml/json)",
		},
		&cli.StringFlag{
			Name:    "consul-addr",
			Aliases: []string{"a"},
			Value:   command.Defaults.Consul.Addr,
			Usage:   "Consul agent 地址",
		},
		&cli.StringFlag{
			Name:  "consul-token",
			Value: command.Defaults.Consul.Token,
			Usage: "ACL token",
		},
		&cli.StringFlag{
			Name:  "consul-datacenter",
			Value: command.Defaults.Consul.Datacenter,
			Usage: "数据中心",
		},
		&cli.DurationFlag{
			Name:  "consul-wait-time",
			Value: command.Defaults.Consul.WaitTime,
			Usage: "单次查询等待上限",
		},
		&cli.BoolFlag{
			Name:  "discovery-enabled",
			Value: command.Defaults.Discovery.Enabled,
			Usage: "是否启用远程配置读取",
		},
		&cli.StringFlag{
			Name:    "discovery-path",
			Aliases: []string{"p"},
			Value:   command.Defaults.Discovery.Path,
			Usage:   "远程配置根路径",
		},
		&cli.StringFlag{
			Name:    "discovery-format",
			Aliases: []string{"f"},
			Value:   command.Defaults.Discovery.Format,
			Usage:   "存储格式 (file/native/json/yaml/properties)",
		},
		&cli.StringFlag{
			Name:  "discovery-application",
			Value: command.Defaults.Discovery.Application,
			Usage: "应用标识，空值仅读取公共配置",
		},
		&cli.StringSliceFlag{
			Name:    "discovery-environments",
			Aliases: []string{"e"},
			Value:   command.Defaults.Discovery.Environments,
			Usage:   "激活环境名有序列表",
		},
		&cli.BoolFlag{
			Name:  "discovery-expand",
			Value: command.Defaults.Discovery.Expand,
			Usage: "对属性值执行 Shell 参数展开",
		},
	},
}
